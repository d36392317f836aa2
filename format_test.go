package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 bytes"},
		{512, "512 bytes"},
		{kb, "1.00 KB"},
		{524288, "512.00 KB"},
		{3 * gb / 2, "1.50 GB"},
		{2 * tb, "2.00 TB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
	assert.Equal(t, "-5 bytes", formatBytes(-5))
	assert.Equal(t, "1.00 MB", formatBytes(int32(mb)))
}

func TestFormatSpeed(t *testing.T) {
	assert.Equal(t, "N/A", formatSpeed(0))
	assert.Equal(t, "2.00 MB/s", formatSpeed(2*mb))
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "42s", formatRemaining(42*time.Second+300*time.Millisecond))
	assert.Equal(t, "3m7s", formatRemaining(187*time.Second))
	assert.Equal(t, "1h2m3s", formatRemaining(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "0s", formatRemaining(-time.Second))
}
