package partition

import (
	"encoding/binary"

	"dskpart/record"
	"dskpart/sector"
)

const (
	acornScheme = "acorn"

	acornBootBlock   = 0xC00
	acornDiscRecord  = 0x1C0
	acornTypeByte    = 0x1FC
	acornStartCyl    = 0x1FD
	acornLinuxMagic  = 0xDEAFA1DE
	acornSwapMagic   = 0xDEAFAB1E
	acornRISCiXMagic = 0x4A657320 // "Jes "

	acornTypeRISCiXMFM  = 1
	acornTypeRISCiXSCSI = 2
	acornTypeLinux      = 9
)

// acornDiscRec is the FileCore disc record inside the boot block.
type acornDiscRec struct {
	Log2SecSize   uint8
	SecsPerTrack  uint8
	Heads         uint8
	Density       uint8
	IDLen         uint8
	Log2BPMB      uint8
	Skew          uint8
	BootOption    uint8
	LowSector     uint8
	NZones        uint8
	ZoneSpare     uint16
	Root          uint32
	DiscSize      uint32
	DiscID        uint16
	DiscName      [10]byte
	DiscType      uint32
	DiscSizeHigh  uint32
	Log2ShareSize uint8
	BigFlag       uint8
	NZonesHigh    uint8
	Reserved1     uint8
	FormatVersion uint32
	RootSize      uint32
	Reserved2     [8]byte
}

type acornLinuxPart struct {
	Magic   uint32
	Start   uint32
	Sectors uint32
}

type riscixPart struct {
	Start  uint32
	Length uint32
	One    uint32
	Name   [16]byte
}

type riscixRecord struct {
	Magic uint32
	Date  uint32
	Parts [8]riscixPart
}

// DecodeAcorn reads the FileCore boot block of an Acorn ADFS hard disc and the
// RISCiX or Linux table its partition byte points to.
func DecodeAcorn(src sector.Source, offset uint64) ([]Partition, bool) {
	if offset != 0 {
		return nil, false
	}
	g := src.Geometry()
	ss := uint64(g.SectorSize)
	b := newBuilder(acornScheme, src)

	lba := acornBootBlock / ss
	buf, ok := readBytes(src, lba, acornBootBlock%ss+512)
	if !ok {
		return nil, false
	}
	boot := buf[acornBootBlock%ss:][:512]
	if acornChecksum(boot) != boot[511] {
		return nil, false
	}
	var dr acornDiscRec
	if err := record.Unpack(boot[acornDiscRecord:], binary.LittleEndian, &dr); err != nil {
		return nil, false
	}
	if dr.Log2SecSize < 8 || dr.Log2SecSize > 12 || dr.SecsPerTrack == 0 {
		return nil, false
	}
	heads := uint64(dr.Heads) + uint64(dr.LowSector>>6&1)
	spt := uint64(dr.SecsPerTrack)

	size := uint64(dr.DiscSizeHigh)<<32 | uint64(dr.DiscSize)
	b.add(Partition{
		Start:  0,
		Length: size / ss,
		Type:   "ADFS",
		Name:   record.CString(dr.DiscName[:]),
	})

	kind := boot[acornTypeByte] & 0x0F
	cyl := uint64(binary.LittleEndian.Uint16(boot[acornStartCyl:]))
	if kind == 0 || cyl == 0 {
		return b.result()
	}
	start := scale(cyl*heads*spt, 512, ss)
	switch kind {
	case acornTypeRISCiXMFM, acornTypeRISCiXSCSI:
		acornRISCiX(src, b, start, ss)
	case acornTypeLinux:
		acornLinux(src, b, start, ss)
	default:
		b.log.Debugf("unknown FileCore partition type %d", kind)
	}
	return b.result()
}

func acornLinux(src sector.Source, b *builder, start, ss uint64) {
	buf, err := src.ReadSector(start)
	if err != nil {
		return
	}
	for at := 0; at+12 <= len(buf); at += 12 {
		var p acornLinuxPart
		_ = record.Unpack(buf[at:], binary.LittleEndian, &p)
		if p.Magic != acornLinuxMagic && p.Magic != acornSwapMagic {
			break
		}
		typ := "Linux"
		if p.Magic == acornSwapMagic {
			typ = "Linux swap"
		}
		b.add(Partition{
			Start:  start + scale(uint64(p.Start), 512, ss),
			Length: scale(uint64(p.Sectors), 512, ss),
			Type:   typ,
		})
	}
}

func acornRISCiX(src sector.Source, b *builder, start, ss uint64) {
	buf, err := src.ReadSector(start)
	if err != nil {
		return
	}
	var r riscixRecord
	if err := record.Unpack(buf, binary.LittleEndian, &r); err != nil || r.Magic != acornRISCiXMagic {
		return
	}
	for _, p := range r.Parts {
		name := record.CString(p.Name[:])
		if p.One == 0 || name == "All" {
			continue
		}
		b.add(Partition{
			Start:  scale(uint64(p.Start), 512, ss),
			Length: scale(uint64(p.Length), 512, ss),
			Type:   "RISCiX",
			Name:   name,
		})
	}
}

// acornChecksum is the FileCore boot block check byte over the first 511 bytes.
func acornChecksum(boot []byte) byte {
	var sum uint32
	for i := 510; i >= 0; i-- {
		sum = sum&0xFF + sum>>8 + uint32(boot[i])
	}
	return byte(sum)
}
