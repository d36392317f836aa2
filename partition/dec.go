package partition

import (
	"encoding/binary"

	"dskpart/record"
	"dskpart/sector"
)

const (
	decScheme = "dec"

	decLabelSector = 31
	decLabelOffset = 440
	decMagic       = 0x032957
	decValid       = 1
)

type decPartition struct {
	Blocks uint32
	Offset uint32
}

// decLabel is the ULTRIX partition table kept in the superblock area.
type decLabel struct {
	Magic      uint32
	Valid      uint32
	Partitions [8]decPartition
}

// DecodeDEC reads the ULTRIX partition table at byte 440 of sector 31.
func DecodeDEC(src sector.Source, offset uint64) ([]Partition, bool) {
	if offset != 0 {
		return nil, false
	}
	g := src.Geometry()
	ss := uint64(g.SectorSize)
	b := newBuilder(decScheme, src)

	at := uint64(decLabelSector*512 + decLabelOffset)
	buf, ok := readBytes(src, at/ss, at%ss+uint64(record.Size(&decLabel{})))
	if !ok {
		return nil, false
	}
	var l decLabel
	if err := record.Unpack(buf[at%ss:], binary.LittleEndian, &l); err != nil {
		return nil, false
	}
	if l.Magic != decMagic || l.Valid != decValid {
		return nil, false
	}
	for i, p := range l.Partitions {
		if int32(p.Blocks) <= 0 {
			continue
		}
		b.add(Partition{
			Start:  scale(uint64(p.Offset), 512, ss),
			Length: scale(uint64(p.Blocks), 512, ss),
			Type:   "ULTRIX",
			Name:   string(rune('a' + i)),
		})
	}
	return b.result()
}
