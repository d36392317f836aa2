package partition

import (
	"encoding/binary"
	"fmt"
	"strings"

	"dskpart/record"
	"dskpart/sector"
)

const (
	vtocScheme = "vtoc"

	pdMagic   = 0xCA5E600D
	vtocSane  = 0x600DDEEE
	pdInfoLen = 156
)

// pdInfo is the System V physical disk information block.
type pdInfo struct {
	DriveID      uint32
	Sanity       uint32
	Version      uint32
	Serial       [12]byte
	Cyls         uint32
	Tracks       uint32
	Sectors      uint32
	Bytes        uint32
	LogicalStart uint32
	ErrLogStart  uint32
	ErrLogSize   uint32
	MfgStart     uint32
	MfgSize      uint32
	DefectStart  uint32
	DefectSize   uint32
	RelNo        uint32
	RelStart     uint32
	RelSize      uint32
	RelNext      uint32
	VTOCPtr      uint32
	VTOCLen      uint16
	VTOCPad      uint16
	AltPtr       uint32
	AltLen       uint16
	AltPad       uint16
	PCyls        uint32
	PTracks      uint32
	PSectors     uint32
	PBytes       uint32
	SecOverhead  uint32
	Interleave   uint16
	Skew         uint16
	Pad          [8]uint32
}

func (p *pdInfo) Magic() uint64 {
	return uint64(p.Sanity)
}

type vtocPart struct {
	Tag   uint16
	Flags uint16
	Start uint32
	Size  uint32
}

type vtocNew struct {
	Sanity     uint32
	Version    uint32
	Volume     [8]byte
	NParts     uint16
	Pad        uint16
	Reserved   [10]uint32
	Parts      [16]vtocPart
	Timestamps [16]uint32
}

type vtocOld struct {
	BootInfo   [3]uint32
	Sanity     uint32
	Version    uint32
	Volume     [8]byte
	SectorSize uint16
	NParts     uint16
	Reserved   [10]uint32
	Parts      [16]vtocPart
	Timestamps [16]uint32
	ASCIILabel [128]byte
}

var vtocTags = []string{
	"Unused",
	"Boot",
	"Root",
	"Swap",
	"User",
	"Whole disk",
	"Stand",
	"Alternate sector space",
	"Non UNIX",
	"Other",
	"Alternate track space",
	"Dump",
	"Alternate sectors and tracks",
	"Var",
	"Home",
}

func vtocTagName(tag uint16) string {
	if int(tag) < len(vtocTags) {
		return vtocTags[tag]
	}
	return fmt.Sprintf("Unknown tag 0x%04X", tag)
}

func vtocFlags(f uint16) string {
	var s []string
	if f&0x01 != 0 {
		s = append(s, "unmountable")
	}
	if f&0x02 != 0 {
		s = append(s, "open")
	}
	if f&0x10 != 0 {
		s = append(s, "read-only")
	}
	if f&0x200 != 0 {
		s = append(s, "valid")
	}
	return strings.Join(s, ", ")
}

// DecodeVTOC reads a System V volume table of contents. The pdinfo block is
// looked for in the four sectors after offset, in either byte order.
func DecodeVTOC(src sector.Source, offset uint64) ([]Partition, bool) {
	g := src.Geometry()
	b := newBuilder(vtocScheme, src)
	ss := uint64(g.SectorSize)

	var (
		pd    pdInfo
		order binary.ByteOrder
		pdLBA uint64
		pdBuf []byte
	)
	for i := uint64(1); i <= 4 && offset+i < g.Sectors; i++ {
		buf, err := src.ReadSector(offset + i)
		if err != nil {
			break
		}
		if uint64(len(buf)) < pdInfoLen {
			return nil, false
		}
		// the sanity word is 4 bytes into the block
		o, err := record.UnpackMagic(buf, binary.LittleEndian, &pd, pdMagic)
		if err != nil {
			continue
		}
		order, pdLBA, pdBuf = o, offset+i, buf
		break
	}
	if order == nil {
		return nil, false
	}
	b.log.Debugf("%s pdinfo at %d, VTOC pointer %d", order, pdLBA, pd.VTOCPtr)

	var table []byte
	if pd.VTOCPtr != 0 {
		lba := offset + uint64(pd.VTOCPtr)/ss
		within := uint64(pd.VTOCPtr) % ss
		buf, ok := readBytes(src, lba, within+uint64(record.Size(&vtocOld{})))
		if !ok {
			buf, ok = readBytes(src, lba, within+uint64(record.Size(&vtocNew{})))
		}
		if ok {
			table = buf[within:]
		}
	}
	if table == nil {
		buf, ok := readBytes(src, pdLBA, pdInfoLen+uint64(record.Size(&vtocOld{})))
		if !ok {
			buf, ok = readBytes(src, pdLBA, pdInfoLen+uint64(record.Size(&vtocNew{})))
		}
		if !ok {
			buf = pdBuf
		}
		table = buf[pdInfoLen:]
	}

	bps := uint64(pd.Bytes)
	if bps == 0 {
		bps = 512
	}
	var (
		parts  []vtocPart
		nparts int
	)
	var nv vtocNew
	var ov vtocOld
	switch {
	case record.Unpack(table, order, &nv) == nil && nv.Sanity == vtocSane:
		b.log.Debugf("VTOC %q, version %d", record.CString(nv.Volume[:]), nv.Version)
		parts, nparts = nv.Parts[:], int(nv.NParts)
	case record.Unpack(table, order, &ov) == nil && ov.Sanity == vtocSane:
		b.log.Debugf("old VTOC %q, version %d", record.CString(ov.Volume[:]), ov.Version)
		parts, nparts = ov.Parts[:], int(ov.NParts)
		if ov.SectorSize != 0 {
			bps = uint64(ov.SectorSize)
		}
	default:
		b.log.Debug("pdinfo found but no VTOC")
		return nil, false
	}
	if nparts == 0 || nparts > len(parts) {
		nparts = len(parts)
	}
	parts = parts[:nparts]

	var starts []uint64
	for _, p := range parts {
		if p.Size != 0 {
			starts = append(starts, scale(uint64(p.Start), bps, ss))
		}
	}
	base := uint64(0)
	if relative(starts, offset) {
		base = offset
	}
	for i, p := range parts {
		if p.Size == 0 || (p.Tag == 0 && p.Flags == 0) {
			continue
		}
		b.add(Partition{
			Start:       base + scale(uint64(p.Start), bps, ss),
			Length:      scale(uint64(p.Size), bps, ss),
			Type:        vtocTagName(p.Tag),
			Name:        fmt.Sprintf("slice %d", i),
			Description: vtocFlags(p.Flags),
		})
	}
	return b.result()
}
