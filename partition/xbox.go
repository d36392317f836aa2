package partition

import (
	"encoding/binary"

	"dskpart/sector"
)

const (
	xboxScheme = "xbox"

	fatxMagic = 0x58544146 // "FATX" read little-endian
)

// The original Xbox hard disk has no table; its FATX volumes sit at fixed
// byte offsets and sizes.
var xboxLayout = []struct {
	name   string
	offset uint64
	size   uint64
}{
	{"Cache X", 0x80000, 0x2EE00000},
	{"Cache Y", 0x2EE80000, 0x2EE00000},
	{"Cache Z", 0x5DC80000, 0x2EE00000},
	{"System", 0x8CA80000, 0x1F400000},
	{"Data", 0xABE80000, 0x1312D6000},
}

// DecodeXbox recognizes the fixed Xbox layout by the FATX signature of its
// first cache volume.
func DecodeXbox(src sector.Source, offset uint64) ([]Partition, bool) {
	if offset != 0 {
		return nil, false
	}
	g := src.Geometry()
	ss := uint64(g.SectorSize)
	b := newBuilder(xboxScheme, src)
	for i, v := range xboxLayout {
		if v.offset%ss != 0 || v.offset/ss >= g.Sectors {
			break
		}
		buf, err := src.ReadSector(v.offset / ss)
		if err != nil || len(buf) < 4 || binary.LittleEndian.Uint32(buf) != fatxMagic {
			if i == 0 {
				return nil, false
			}
			continue
		}
		b.add(Partition{
			Start:  v.offset / ss,
			Length: v.size / ss,
			Type:   "FATX",
			Name:   v.name,
		})
	}
	return b.result()
}
