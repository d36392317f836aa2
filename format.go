package main

import (
	"fmt"
	"time"
)

const (
	kb = 1 << 10
	mb = 1 << 20
	gb = 1 << 30
	tb = 1 << 40
	pb = 1 << 50
)

// dataSizeNumber is any integer a byte count can be held in.
type dataSizeNumber interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~uintptr
}

// unit is a data size unit with its name and threshold.
type unit struct {
	Name      string
	Threshold uint64
}

// units in descending order.
var units = []unit{
	{"PB", pb},
	{"TB", tb},
	{"GB", gb},
	{"MB", mb},
	{"KB", kb},
	{"bytes", 1},
}

func formatBytes[T dataSizeNumber](n T) string {
	if n < 0 {
		return fmt.Sprintf("%d bytes", int64(n))
	}
	v := uint64(n)
	for _, u := range units {
		if v >= u.Threshold && u.Threshold > 1 {
			return fmt.Sprintf("%.2f %s", float64(v)/float64(u.Threshold), u.Name)
		}
	}
	return fmt.Sprintf("%d bytes", v)
}

func formatSpeed(bps float64) string {
	if bps <= 0 {
		return "N/A"
	}
	return formatBytes(uint64(bps)) + "/s"
}

// formatRemaining renders an estimate as 42s, 3m7s or 1h2m3s.
func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func isPrintable(b byte) bool {
	return b >= 32 && b <= 126
}
