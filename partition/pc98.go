package partition

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/japanese"

	"dskpart/record"
	"dskpart/sector"
)

const pc98Scheme = "pc98"

type pc98Entry struct {
	MID         uint8
	SID         uint8
	Dum1        uint8
	Dum2        uint8
	IPLSector   uint8
	IPLHead     uint8
	IPLCylinder uint16
	StartSector uint8
	StartHead   uint8
	StartCyl    uint16
	EndSector   uint8
	EndHead     uint8
	EndCyl      uint16
	Name        [16]byte
}

type pc98Table struct {
	Entries [16]pc98Entry
}

var pc98Systems = map[uint8]string{
	0x01: "FAT12",
	0x04: "PC-UX",
	0x06: "N88-BASIC(86)",
	0x11: "FAT16 < 32 MiB",
	0x14: "FreeBSD",
	0x20: "FAT16",
	0x21: "FAT16",
	0x22: "FAT16",
	0x23: "FAT16",
	0x24: "FAT16",
	0x2C: "FAT32",
	0x40: "MINIX",
	0x61: "FAT32",
	0x62: "Linux",
	0x63: "Linux swap",
}

func pc98SystemName(sid uint8) string {
	if name, ok := pc98Systems[sid&0x7F]; ok {
		return name
	}
	return fmt.Sprintf("Unknown system 0x%02X", sid&0x7F)
}

// DecodePC98 reads the NEC PC-9800 partition table in sector 1. Extents are
// cylinder/head/sector triples with zero-based sectors; the end is inclusive.
func DecodePC98(src sector.Source, offset uint64) ([]Partition, bool) {
	if offset != 0 {
		return nil, false
	}
	g := src.Geometry()
	heads, spt := uint64(g.Heads), uint64(g.SectorsPerTrack)
	if g.SectorSize < 512 || heads == 0 || spt == 0 || g.Sectors < 2 {
		return nil, false
	}
	b := newBuilder(pc98Scheme, src)

	boot, err := src.ReadSector(0)
	if err != nil || binary.LittleEndian.Uint16(boot[510:]) != mbrMagic {
		return nil, false
	}
	buf, err := src.ReadSector(1)
	if err != nil || binary.LittleEndian.Uint64(buf) == gptSignature {
		return nil, false
	}
	var t pc98Table
	if err := record.Unpack(buf, binary.LittleEndian, &t); err != nil {
		return nil, false
	}

	for _, e := range t.Entries {
		if e.MID == 0 && e.SID == 0 {
			continue
		}
		if uint64(e.StartSector) >= spt || uint64(e.EndSector) >= spt ||
			uint64(e.StartHead) >= heads || uint64(e.EndHead) >= heads ||
			e.EndCyl < e.StartCyl {
			b.log.Debugf("entry %q does not fit the disk geometry", record.CString(e.Name[:]))
			continue
		}
		start := ToLBA(uint64(e.StartCyl), uint64(e.StartHead), uint64(e.StartSector)+1, heads, spt)
		end := ToLBA(uint64(e.EndCyl), uint64(e.EndHead), uint64(e.EndSector)+1, heads, spt)
		if end < start {
			continue
		}
		desc := fmt.Sprintf("MID 0x%02X, SID 0x%02X", e.MID, e.SID)
		if e.MID&0x80 != 0 {
			desc += ", bootable"
		}
		if e.SID&0x80 != 0 {
			desc += ", active"
		}
		b.add(Partition{
			Start:       start,
			Length:      end - start + 1,
			Type:        pc98SystemName(e.SID),
			Name:        pc98Name(e.Name[:]),
			Description: desc,
		})
	}
	return b.result()
}

// pc98Name decodes a Shift-JIS partition name.
func pc98Name(raw []byte) string {
	raw = bytes.TrimRight(bytes.TrimRight(raw, "\x00"), " ")
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	if err != nil {
		return record.CString(raw)
	}
	return string(out)
}
