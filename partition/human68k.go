package partition

import (
	"encoding/binary"
	"fmt"

	"dskpart/record"
	"dskpart/sector"
)

const (
	human68kScheme = "human68k"

	human68kMagic  = 0x5836384B // "X68K"
	human68kOffset = 0x400
)

type human68kEntry struct {
	Name       [8]byte
	StateStart uint32
	Length     uint32
}

type human68kTable struct {
	Magic     uint32
	Max       uint32
	Size      uint32
	Removable uint32
	Entries   [15]human68kEntry
}

// DecodeHuman68k reads the Sharp X68000 partition table, 1024 bytes into the
// disk. Entries count 1024-byte units, or 256-byte sectors on SASI disks.
func DecodeHuman68k(src sector.Source, offset uint64) ([]Partition, bool) {
	if offset != 0 {
		return nil, false
	}
	g := src.Geometry()
	ss := uint64(g.SectorSize)
	b := newBuilder(human68kScheme, src)
	buf, ok := readBytes(src, human68kOffset/ss, human68kOffset%ss+uint64(record.Size(&human68kTable{})))
	if !ok {
		return nil, false
	}
	var t human68kTable
	if err := record.Unpack(buf[human68kOffset%ss:], binary.BigEndian, &t); err != nil || t.Magic != human68kMagic {
		return nil, false
	}
	unit := uint64(1024)
	if ss == 256 {
		unit = 256
	}
	for _, e := range t.Entries {
		if e.Length == 0 {
			continue
		}
		state := e.StateStart >> 24
		desc := ""
		if state != 0 {
			desc = fmt.Sprintf("State 0x%02X", state)
		}
		b.add(Partition{
			Start:       scale(uint64(e.StateStart&0xFFFFFF), unit, ss),
			Length:      scale(uint64(e.Length), unit, ss),
			Type:        record.CString(e.Name[:]),
			Description: desc,
		})
	}
	return b.result()
}
