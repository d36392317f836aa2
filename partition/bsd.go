package partition

import (
	"encoding/binary"
	"fmt"

	"dskpart/record"
	"dskpart/sector"
)

const (
	bsdScheme = "bsd"

	bsdMagic         = 0x82564557
	bsdMaxPartitions = 22
	bsdLabelSize     = 500
)

var (
	bsdLabelSectors = []uint64{0, 1, 2, 9}
	bsdLabelOffsets = []uint64{0, 9, 64, 128, 516}
)

type bsdPartition struct {
	Size     uint32
	Offset   uint32
	FragSize uint32
	FSType   uint8
	Frag     uint8
	CPG      uint16
}

type bsdLabel struct {
	LabelMagic  uint32
	Type        uint16
	Subtype     uint16
	TypeName    [16]byte
	PackName    [16]byte
	SecSize     uint32
	NSectors    uint32
	NTracks     uint32
	NCylinders  uint32
	SecPerCyl   uint32
	SecPerUnit  uint32
	SparesTrack uint16
	SparesCyl   uint16
	ACylinders  uint32
	RPM         uint16
	Interleave  uint16
	TrackSkew   uint16
	CylSkew     uint16
	HeadSwitch  uint32
	TrkSeek     uint32
	Flags       uint32
	DriveData   [5]uint32
	Spare       [5]uint32
	LabelMagic2 uint32
	Checksum    uint16
	NPartitions uint16
	BBSize      uint32
	SBSize      uint32
	Partitions  [bsdMaxPartitions]bsdPartition
}

func (l *bsdLabel) Magic() uint64 {
	return uint64(l.LabelMagic)
}

var bsdFSTypes = []string{
	"Unused entry",
	"Swap partition",
	"UNIX 6th Edition",
	"UNIX 7th Edition",
	"UNIX System V",
	"UNIX 7th Edition with 1K blocks",
	"UNIX 8th Edition with 4K blocks",
	"4.2BSD Fast File System",
	"MS-DOS filesystem",
	"4.4LFS",
	"Unknown",
	"HPFS",
	"ISO9660",
	"Boot",
	"Amiga FFS",
	"Apple HFS",
	"Digital Advanced File System",
	"Digital Advanced File System",
	"ISO9660",
	"Concatenated disk component",
	"RAIDframe component",
	"DragonFly HAMMER",
	"Linux ext2",
	"NTFS",
	"RAIDframe component",
	"Concatenated disk component",
	"Apple UFS",
	"Vinum drive",
	"UDF",
	"System V Boot",
	"Veritas filesystem",
	"FreeBSD ZFS",
	"DragonFly HAMMER2",
}

func bsdFSTypeName(t uint8) string {
	if int(t) < len(bsdFSTypes) {
		return bsdFSTypes[t]
	}
	return fmt.Sprintf("Unknown partition type %d", t)
}

// DecodeBSD searches for a BSD disklabel in either byte order at the places
// the BSD ports put it.
func DecodeBSD(src sector.Source, offset uint64) ([]Partition, bool) {
	g := src.Geometry()
	b := newBuilder(bsdScheme, src)
	ss := uint64(g.SectorSize)
	window := bsdLabelOffsets[len(bsdLabelOffsets)-1] + bsdLabelSize

	for _, loc := range bsdLabelSectors {
		lba := offset + loc
		count := uint64(sectorsFor(window, g.SectorSize))
		if lba >= g.Sectors {
			break
		}
		if count > g.Sectors-lba {
			count = g.Sectors - lba
		}
		buf, err := src.ReadSectors(lba, uint32(count))
		if err != nil {
			continue
		}
		for _, at := range bsdLabelOffsets {
			if at+bsdLabelSize > uint64(len(buf)) {
				break
			}
			var l bsdLabel
			order, err := record.UnpackMagic(buf[at:], binary.LittleEndian, &l, bsdMagic)
			if err != nil || l.LabelMagic2 != bsdMagic {
				continue
			}
			b.log.Debugf("%s label at sector %d byte %d: %q", order, lba, at, record.CString(l.TypeName[:]))
			if !bsdChecksumOK(buf[at:], order, int(l.NPartitions)) {
				b.log.Warnf("label at sector %d byte %d has a bad checksum", lba, at)
			}
			bsdPartitions(b, &l, offset, ss)
			return b.result()
		}
	}
	return nil, false
}

func bsdPartitions(b *builder, l *bsdLabel, offset, ss uint64) {
	secSize := uint64(l.SecSize)
	if secSize == 0 {
		secSize = ss
	}
	n := int(l.NPartitions)
	if n > bsdMaxPartitions {
		n = bsdMaxPartitions
	}
	var starts []uint64
	for _, p := range l.Partitions[:n] {
		if p.FSType != 0 && p.Size != 0 {
			starts = append(starts, scale(uint64(p.Offset), secSize, ss))
		}
	}
	base := uint64(0)
	if relative(starts, offset) {
		base = offset
	}
	for i, p := range l.Partitions[:n] {
		if p.FSType == 0 || p.Size == 0 {
			continue
		}
		b.add(Partition{
			Start:       base + scale(uint64(p.Offset), secSize, ss),
			Length:      scale(uint64(p.Size), secSize, ss),
			Type:        bsdFSTypeName(p.FSType),
			Name:        string(rune('a' + i)),
			Description: fmt.Sprintf("Fragment size %d, %d fragments per block, %d cylinders per group", p.FragSize, p.Frag, p.CPG),
		})
	}
}

// bsdChecksumOK XORs the 16-bit words of the label header and its used
// partition slots.
func bsdChecksumOK(buf []byte, order binary.ByteOrder, npart int) bool {
	if npart > bsdMaxPartitions {
		npart = bsdMaxPartitions
	}
	end := 148 + npart*16
	var sum uint16
	for i := 0; i+1 < end; i += 2 {
		sum ^= order.Uint16(buf[i:])
	}
	return sum == 0
}
