package partition

import (
	"encoding/binary"

	"dskpart/record"
	"dskpart/sector"
)

const (
	karmaScheme = "riokarma"

	karmaMagic = 0xAB56
	karmaType  = 0x4D
)

type karmaEntry struct {
	Reserved  uint32
	Type      uint8
	Reserved2 [3]byte
	Offset    uint32
	Size      uint32
}

type karmaTable struct {
	Reserved   [270]byte
	Partitions [15]karmaEntry
	Magic      uint16
}

// DecodeRioKarma reads the partition table of a Rio Karma player's disk.
func DecodeRioKarma(src sector.Source, offset uint64) ([]Partition, bool) {
	if offset != 0 {
		return nil, false
	}
	buf, err := src.ReadSector(0)
	if err != nil {
		return nil, false
	}
	var t karmaTable
	if err := record.Unpack(buf, binary.LittleEndian, &t); err != nil || t.Magic != karmaMagic {
		return nil, false
	}
	b := newBuilder(karmaScheme, src)
	for _, e := range t.Partitions {
		if e.Type != karmaType {
			continue
		}
		b.add(Partition{
			Start:  uint64(e.Offset),
			Length: uint64(e.Size),
			Type:   "Rio Karma",
		})
	}
	return b.result()
}
