package partition

import (
	"encoding/binary"
	"fmt"
	"strings"

	"dskpart/record"
	"dskpart/sector"
)

const (
	sunScheme = "sun"

	sunMagic       = 0xDABE
	sunVTOCSane    = 0x600DDEEE
	sunVTOCVersion = 1
	sunLabelSize   = 512
)

type sunMapEntry struct {
	Cylinder uint32
	Blocks   uint32
}

type sunVTOC8Part struct {
	Tag   uint16
	Flags uint16
}

// sunLabel is the big-endian SunOS / Solaris SPARC label; the VTOC8 fields
// live in what SunOS left as ASCII label padding.
type sunLabel struct {
	Info            [128]byte
	Version         uint32
	Volume          [8]byte
	NParts          uint16
	Parts           [8]sunVTOC8Part
	Pad0            uint16
	BootInfo        [3]uint32
	Sanity          uint32
	Reserved        [10]uint32
	Timestamps      [8]uint32
	WriteReinstruct uint16
	ReadReinstruct  uint16
	Pad1            [152]byte
	RPM             uint16
	PhysCylinders   uint16
	AltsPerCyl      uint16
	Obsolete1       uint16
	Obsolete2       uint16
	Interleave      uint16
	DataCylinders   uint16
	AltCylinders    uint16
	Heads           uint16
	SectorsPerTrack uint16
	Obsolete3       uint16
	Obsolete4       uint16
	Map             [8]sunMapEntry
	LabelMagic      uint16
	Checksum        uint16
}

func (l *sunLabel) Magic() uint64 {
	return uint64(l.LabelMagic)
}

type sunVTOC16Part struct {
	Tag   uint16
	Flags uint16
	Start uint32
	Size  uint32
}

// sunLabel16 is the little-endian Solaris x86 label.
type sunLabel16 struct {
	BootInfo        [3]uint32
	Sanity          uint32
	Version         uint32
	Volume          [8]byte
	SectorSize      uint16
	NParts          uint16
	Reserved        [10]uint32
	Parts           [16]sunVTOC16Part
	Timestamps      [16]uint32
	ASCIILabel      [128]byte
	PhysCylinders   uint32
	DataCylinders   uint32
	AltCylinders    uint32
	BootCylinders   uint32
	Heads           uint32
	SectorsPerTrack uint32
	Interleave      uint16
	Skew            uint16
	AltsPerCyl      uint16
	RPM             uint16
	WriteReinstruct uint16
	ReadReinstruct  uint16
	Extra           [4]uint16
	Pad             [8]byte
	LabelMagic      uint16
	Checksum        uint16
}

var sunTags = map[uint16]string{
	0x00: "Unassigned",
	0x01: "Boot",
	0x02: "/",
	0x03: "Swap",
	0x04: "/usr",
	0x05: "Whole disk",
	0x06: "Stand",
	0x07: "/var",
	0x08: "/home",
	0x09: "Alternate sectors",
	0x0A: "Cache",
	0x0B: "Reserved",
	0x0C: "EFI system partition",
	0x0D: "Linux swap",
	0x0E: "Linux",
	0x0F: "Linux LVM",
	0x10: "Linux RAID",
	0x82: "Linux swap",
	0x83: "Linux",
	0x8E: "Linux LVM",
	0xFD: "Linux RAID",
}

func sunTagName(tag uint16) string {
	if name, ok := sunTags[tag]; ok {
		return name
	}
	return fmt.Sprintf("Unknown tag 0x%04X", tag)
}

func sunFlags(f uint16) string {
	var s []string
	if f&0x01 != 0 {
		s = append(s, "unmountable")
	}
	if f&0x10 != 0 {
		s = append(s, "read-only")
	}
	return strings.Join(s, ", ")
}

// DecodeSun reads a Sun disk label from the first or second sector. A
// big-endian label is SunOS or Solaris SPARC, a little-endian one Solaris x86.
func DecodeSun(src sector.Source, offset uint64) ([]Partition, bool) {
	g := src.Geometry()
	b := newBuilder(sunScheme, src)
	for _, s := range []uint64{0, 1} {
		if offset+s >= g.Sectors {
			break
		}
		buf, ok := readBytes(src, offset+s, sunLabelSize)
		if !ok {
			continue
		}
		var l sunLabel
		order, err := record.UnpackMagic(buf, binary.BigEndian, &l, sunMagic)
		if err != nil {
			continue
		}
		if !sunChecksumOK(buf[:sunLabelSize], order) {
			b.log.Warnf("label at sector %d has a bad checksum", offset+s)
		}
		if order == binary.BigEndian {
			sunSPARC(b, &l, offset, uint64(g.SectorSize))
		} else {
			var l16 sunLabel16
			if err := record.Unpack(buf, binary.LittleEndian, &l16); err != nil {
				continue
			}
			sunX86(b, &l16, offset, uint64(g.SectorSize))
		}
		return b.result()
	}
	return nil, false
}

func sunSPARC(b *builder, l *sunLabel, offset, ss uint64) {
	vtoc := l.Sanity == sunVTOCSane && l.Version == sunVTOCVersion
	if vtoc {
		b.log.Debugf("Solaris VTOC8 %q", record.CString(l.Volume[:]))
	} else {
		b.log.Debugf("SunOS label %q", record.CString(l.Info[:]))
	}
	perCyl := uint64(l.Heads) * uint64(l.SectorsPerTrack)
	for i, m := range l.Map {
		if m.Blocks == 0 {
			continue
		}
		p := Partition{
			Start:  offset + scale(uint64(m.Cylinder)*perCyl, 512, ss),
			Length: scale(uint64(m.Blocks), 512, ss),
			Type:   "SunOS partition",
			Name:   string(rune('a' + i)),
		}
		if vtoc && i < int(l.NParts) {
			p.Type = sunTagName(l.Parts[i].Tag)
			p.Description = sunFlags(l.Parts[i].Flags)
		}
		b.add(p)
	}
}

func sunX86(b *builder, l *sunLabel16, offset, ss uint64) {
	b.log.Debugf("Solaris x86 VTOC %q", record.CString(l.Volume[:]))
	secSize := uint64(l.SectorSize)
	if secSize == 0 {
		secSize = 512
	}
	n := int(l.NParts)
	if n == 0 || n > len(l.Parts) {
		n = len(l.Parts)
	}
	for i, p := range l.Parts[:n] {
		if p.Size == 0 {
			continue
		}
		b.add(Partition{
			Start:       offset + scale(uint64(p.Start), secSize, ss),
			Length:      scale(uint64(p.Size), secSize, ss),
			Type:        sunTagName(p.Tag),
			Name:        fmt.Sprintf("s%d", i),
			Description: sunFlags(p.Flags),
		})
	}
}

func sunChecksumOK(buf []byte, order binary.ByteOrder) bool {
	var sum uint16
	for i := 0; i+1 < len(buf); i += 2 {
		sum ^= order.Uint16(buf[i:])
	}
	return sum == 0
}
