package partition

import (
	"encoding/binary"
	"fmt"

	log "github.com/sirupsen/logrus"

	"dskpart/record"
	"dskpart/sector"
)

const (
	mbrScheme = "mbr"

	mbrMagic     = 0xAA55
	necMagic     = 0xA55A
	dmMagic      = 0x55AA
	gptSignature = 0x5452415020494645 // "EFI PART"

	mbrTableOffset = 0x1BE
	necTableOffset = 0x17E
	dmTableOffset  = 0x0FE
	entrySize      = 16
)

// mbrEntry is one 16-byte slot of a PC partition table.
type mbrEntry struct {
	Status     uint8
	StartCHS   [3]byte
	Type       uint8
	EndCHS     [3]byte
	LBAStart   uint32
	LBASectors uint32
}

func (e mbrEntry) validStatus() bool {
	return e.Status == 0x00 || e.Status == 0x80
}

func isExtendedType(t byte) bool {
	switch t {
	case 0x05, 0x0F, 0x15, 0x1F, 0x85, 0x91, 0x9B, 0xC5, 0xCF, 0xD5:
		return true
	default:
		return false
	}
}

func isMinixType(t byte) bool {
	return t == 0x80 || t == 0x81
}

// mbrLayout picks the table variant from the secondary signatures in sector 0.
func mbrLayout(buf []byte) (base, count int, variant string) {
	switch {
	case binary.LittleEndian.Uint16(buf[0xFC:]) == dmMagic:
		return dmTableOffset, 16, "Ontrack Disk Manager"
	case binary.LittleEndian.Uint16(buf[0x17C:]) == necMagic:
		return necTableOffset, 8, "NEC"
	default:
		return mbrTableOffset, 4, ""
	}
}

func parseMBREntry(buf []byte, base, i int) mbrEntry {
	var e mbrEntry
	// the table always lies inside a 512-byte sector, so this cannot be short
	_ = record.Unpack(buf[base+i*entrySize:], binary.LittleEndian, &e)
	return e
}

type mbrDecoder struct {
	src     sector.Source
	geo     sector.Geometry
	offset  uint64
	divider uint64
	b       *builder
	log     *log.Entry
}

// DecodeMBR reads a PC partition table, following extended chains and MINIX
// subpartition tables. It defers to GPT when a GPT header is present.
func DecodeMBR(src sector.Source, offset uint64) ([]Partition, bool) {
	g := src.Geometry()
	if g.SectorSize < 512 {
		return nil, false
	}
	buf, err := src.ReadSector(offset)
	if err != nil {
		return nil, false
	}
	if binary.LittleEndian.Uint16(buf[510:]) != mbrMagic {
		return nil, false
	}

	d := &mbrDecoder{
		src:     src,
		geo:     g,
		offset:  offset,
		divider: 1,
		b:       newBuilder(mbrScheme, src),
	}
	d.log = d.b.log
	if g.Media == sector.MediaOptical {
		d.divider = 4
	}
	if d.gptPresent(buf) {
		d.log.Debug("GPT header present, leaving disk to the GPT decoder")
		return nil, false
	}

	base, count, variant := mbrLayout(buf)
	entries := make([]mbrEntry, count)
	for i := range entries {
		entries[i] = parseMBREntry(buf, base, i)
		if !entries[i].validStatus() {
			d.log.Debugf("entry %d has status 0x%02X, not a partition table", i, entries[i].Status)
			return nil, false
		}
	}
	if variant != "" {
		d.log.Debugf("%s table with %d entries", variant, count)
	}

	for _, e := range entries {
		d.primary(e)
	}
	return d.b.result()
}

func (d *mbrDecoder) gptPresent(sector0 []byte) bool {
	if buf, err := d.src.ReadSector(d.offset + 1); err == nil && len(buf) >= 8 &&
		binary.LittleEndian.Uint64(buf) == gptSignature {
		return true
	}
	return d.geo.Media == sector.MediaOptical && len(sector0) >= 520 &&
		binary.LittleEndian.Uint64(sector0[512:]) == gptSignature
}

// linear returns the entry's start and length in device sectors. When the LBA
// pair is empty the CHS pair is used instead and chs is true; such a start is
// absolute on the disk.
func (d *mbrDecoder) linear(e mbrEntry) (start, length uint64, chs bool) {
	start, length = uint64(e.LBAStart), uint64(e.LBASectors)
	first, last := DecodeCHS(e.StartCHS), DecodeCHS(e.EndCHS)
	heads, spt := uint64(d.geo.Heads), uint64(d.geo.SectorsPerTrack)
	if start == 0 && length == 0 && !first.IsZero() && first.Sector != 0 && heads != 0 && spt != 0 {
		start = first.LBA(heads, spt)
		if last.Sector != 0 {
			if end := last.LBA(heads, spt); end >= start {
				length = end - start + 1
			}
		}
		chs = true
	} else if !first.IsZero() && first.Cylinder < 1023 && heads != 0 && spt != 0 {
		if c, h, s := FromLBA(d.offset+start, heads, spt); c != uint64(first.Cylinder) || h != uint64(first.Head) || s != uint64(first.Sector) {
			d.log.Debugf("CHS start %s disagrees with LBA %d (%d/%d/%d), using LBA", first, start, c, h, s)
		}
	}
	return start / d.divider, length / d.divider, chs
}

func (d *mbrDecoder) primary(e mbrEntry) {
	if e.Type == 0 {
		return
	}
	start, length, _ := d.linear(e)
	if start == 0 && length == 0 {
		return
	}
	abs := d.offset + start
	switch {
	case isExtendedType(e.Type):
		d.extended(abs)
	case isMinixType(e.Type) && d.minix(abs):
	default:
		d.add(e, abs, length, "")
	}
}

// extended walks the EBR chain starting at first. Links are relative to first,
// logical partitions to the EBR that holds them.
func (d *mbrDecoder) extended(first uint64) {
	guard := newChain(d.log, "extended boot record", d.geo.Sectors)
	for cur := first; cur < d.geo.Sectors && guard.next(cur); {
		buf, err := d.src.ReadSector(cur)
		if err != nil {
			d.log.Debugf("EBR at %d unreadable: %v", cur, err)
			return
		}
		if binary.LittleEndian.Uint16(buf[510:]) != mbrMagic {
			d.log.Debugf("EBR signature missing at %d", cur)
			return
		}

		var next uint64
		for i := 0; i < 4; i++ {
			e := parseMBREntry(buf, mbrTableOffset, i)
			if e.Type == 0 || !e.validStatus() {
				continue
			}
			start, length, chs := d.linear(e)
			if start == 0 && length == 0 {
				continue
			}
			if isExtendedType(e.Type) {
				next = first + start
				continue
			}
			abs := cur + start
			if chs {
				abs = d.offset + start
			}
			if isMinixType(e.Type) && d.minix(abs) {
				continue
			}
			d.add(e, abs, length, "")
		}
		if next == 0 {
			return
		}
		cur = next
	}
}

// minix replaces a MINIX partition by the subpartitions of the table at lba.
// Subpartition addresses are absolute.
func (d *mbrDecoder) minix(lba uint64) bool {
	buf, err := d.src.ReadSector(lba)
	if err != nil || binary.LittleEndian.Uint16(buf[510:]) != mbrMagic {
		return false
	}
	found := false
	for i := 0; i < 4; i++ {
		e := parseMBREntry(buf, mbrTableOffset, i)
		if e.Type != 0x81 || !e.validStatus() {
			continue
		}
		start, length, _ := d.linear(e)
		if start == 0 && length == 0 {
			continue
		}
		if d.add(e, d.offset+start, length, "MINIX subpartition") {
			found = true
		}
	}
	return found
}

func (d *mbrDecoder) add(e mbrEntry, start, length uint64, desc string) bool {
	if e.Status == 0x80 {
		if desc != "" {
			desc += ", "
		}
		desc += "Partition is bootable"
	}
	return d.b.add(Partition{
		Start:       start,
		Length:      length,
		Type:        fmt.Sprintf("0x%02X", e.Type),
		Name:        mbrTypeName(e.Type),
		Description: desc,
	})
}
