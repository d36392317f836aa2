package partition

import (
	"encoding/binary"
	"fmt"

	"dskpart/record"
	"dskpart/sector"
)

const (
	dflyScheme = "dragonfly"

	dflyMagic = 0xC4464C59
)

type dflyPartition struct {
	BOffset  uint64
	BSize    uint64
	FSType   uint8
	Unused1  uint8
	Unused2  uint8
	Unused3  uint8
	Unused4  uint32
	Unused5  uint32
	Unused6  uint32
	TypeUUID [16]byte
	StorUUID [16]byte
}

// dflyLabel is the DragonFly BSD disklabel64, stored at the start of a slice.
type dflyLabel struct {
	LabelMagic  uint32
	CRC         uint32
	Align       uint32
	NPartitions uint32
	StorUUID    [16]byte
	TotalSize   uint64
	BBase       uint64
	PBase       uint64
	PStop       uint64
	ABase       uint64
	PackName    [64]byte
	Reserved    [64]byte
	Partitions  [16]dflyPartition
}

// DecodeDragonFly reads a disklabel64. Partition offsets are bytes from the
// start of the slice.
func DecodeDragonFly(src sector.Source, offset uint64) ([]Partition, bool) {
	g := src.Geometry()
	ss := uint64(g.SectorSize)
	b := newBuilder(dflyScheme, src)
	buf, ok := readBytes(src, offset, uint64(record.Size(&dflyLabel{})))
	if !ok {
		return nil, false
	}
	var l dflyLabel
	if err := record.Unpack(buf, binary.LittleEndian, &l); err != nil || l.LabelMagic != dflyMagic {
		return nil, false
	}
	b.log.Debugf("disklabel64 %q, %d partitions", record.CString(l.PackName[:]), l.NPartitions)
	n := int(l.NPartitions)
	if n > len(l.Partitions) {
		n = len(l.Partitions)
	}
	for i, p := range l.Partitions[:n] {
		if p.BSize == 0 {
			continue
		}
		b.add(Partition{
			Start:       offset + p.BOffset/ss,
			Length:      p.BSize / ss,
			Type:        bsdFSTypeName(p.FSType),
			Name:        string(rune('a' + i)),
			Description: fmt.Sprintf("Type UUID %s, ID %s", guidToUUID(p.TypeUUID), guidToUUID(p.StorUUID)),
		})
	}
	return b.result()
}
