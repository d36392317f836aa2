package partition

import (
	"encoding/binary"
	"fmt"

	"dskpart/record"
	"dskpart/sector"
)

const (
	nextScheme = "next"

	nextMagic1   = 0x4E655854 // "NeXT"
	nextMagic2   = 0x646C5632 // "dlV2"
	nextMagic3   = 0x646C5633 // "dlV3"
	nextLabelLen = 7680
)

var nextLabelSectors = []uint64{0, 4, 15, 16}

type nextPartition struct {
	Base       int32
	Size       int32
	BSize      int16
	FSize      int16
	Opt        uint8
	Pad0       uint8
	CPG        int16
	Density    int16
	MinFree    uint8
	NewFS      uint8
	MountPoint [16]byte
	AutoMount  uint8
	Type       [8]byte
	Pad1       uint8
}

type nextLabel struct {
	Version       uint32
	LabelBlock    int32
	Size          int32
	Label         [24]byte
	Flags         uint32
	Tag           uint32
	DriveName     [24]byte
	DriveType     [24]byte
	SectorSize    int32
	Tracks        int32
	Sectors       int32
	Cylinders     int32
	RPM           int32
	Front         int16
	Back          int16
	Groups        int16
	AGSize        int16
	AGAlts        int16
	AGOff         int16
	Boot0         [2]int32
	BootFile      [24]byte
	HostName      [32]byte
	RootPartition uint8
	RWPartition   uint8
	Partitions    [8]nextPartition
}

// DecodeNeXT reads a NeXTSTEP disk label.
func DecodeNeXT(src sector.Source, offset uint64) ([]Partition, bool) {
	if offset != 0 {
		return nil, false
	}
	g := src.Geometry()
	ss := uint64(g.SectorSize)
	b := newBuilder(nextScheme, src)
	for _, lba := range nextLabelSectors {
		if lba >= g.Sectors {
			break
		}
		head, err := src.ReadSector(lba)
		if err != nil || len(head) < 4 {
			continue
		}
		switch binary.BigEndian.Uint32(head) {
		case nextMagic1, nextMagic2, nextMagic3:
		default:
			continue
		}
		want := uint64(nextLabelLen)
		if avail := (g.Sectors - lba) * ss; want > avail {
			want = avail
		}
		buf, ok := readBytes(src, lba, want)
		if !ok {
			buf = head
		}
		var l nextLabel
		if err := record.Unpack(buf, binary.BigEndian, &l); err != nil {
			return nil, false
		}
		secSize := uint64(l.SectorSize)
		if secSize == 0 {
			secSize = ss
		}
		b.log.Debugf("label %q on %q at sector %d", record.CString(l.Label[:]), record.CString(l.DriveName[:]), lba)
		for _, p := range l.Partitions {
			base := int64(p.Base) + int64(l.Front)
			if p.Base < 0 || p.Size <= 0 || base < 0 {
				continue
			}
			desc := fmt.Sprintf("%d bytes per block, %d bytes per fragment", p.BSize, p.FSize)
			if p.AutoMount != 0 {
				desc += ", automount"
			}
			b.add(Partition{
				Start:       scale(uint64(base), secSize, ss),
				Length:      scale(uint64(p.Size), secSize, ss),
				Type:        record.CString(p.Type[:]),
				Name:        record.CString(p.MountPoint[:]),
				Description: desc,
			})
		}
		return b.result()
	}
	return nil, false
}
