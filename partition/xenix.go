package partition

import (
	"encoding/binary"

	"dskpart/record"
	"dskpart/sector"
)

const (
	xenixScheme = "xenix"

	xenixMagic  = 0x1234
	xenixBlock  = 1024
	xenixSector = 1
)

type xenixPartition struct {
	Offset int32
	Size   int32
}

type xenixTable struct {
	Magic      uint16
	Partitions [16]xenixPartition
}

// DecodeXenix reads the XENIX division table in the sector after offset,
// usually inside an MBR partition. Divisions count 1024-byte blocks.
func DecodeXenix(src sector.Source, offset uint64) ([]Partition, bool) {
	g := src.Geometry()
	ss := uint64(g.SectorSize)
	if offset+xenixSector >= g.Sectors {
		return nil, false
	}
	buf, err := src.ReadSector(offset + xenixSector)
	if err != nil {
		return nil, false
	}
	var t xenixTable
	if err := record.Unpack(buf, binary.LittleEndian, &t); err != nil || t.Magic != xenixMagic {
		return nil, false
	}
	b := newBuilder(xenixScheme, src)
	for _, p := range t.Partitions {
		if p.Size <= 0 || p.Offset < 0 {
			continue
		}
		b.add(Partition{
			Start:  offset + scale(uint64(p.Offset), xenixBlock, ss),
			Length: scale(uint64(p.Size), xenixBlock, ss),
			Type:   "XENIX",
		})
	}
	return b.result()
}
