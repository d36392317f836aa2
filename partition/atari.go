package partition

import (
	"encoding/binary"
	"fmt"

	"dskpart/record"
	"dskpart/sector"
)

const (
	atariScheme = "atari"

	atariBootChecksum = 0x1234
	atariFlagExists   = 0x01
	atariFlagBootable = 0x80
)

type atariEntry struct {
	Flag  uint8
	ID    [3]byte
	Start uint32
	Size  uint32
}

// atariRoot is the AHDI root sector; ICD tools add eight more entries in
// the boot code area.
type atariRoot struct {
	Boot     [0x156]byte
	ICD      [8]atariEntry
	Unused   [12]byte
	HDSize   uint32
	Entries  [4]atariEntry
	BSLStart uint32
	BSLCount uint32
	Checksum uint16
}

var atariTypes = map[string]string{
	"GEM": "GEMDOS partition",
	"BGM": "Big GEMDOS partition",
	"XGM": "Extended partition",
	"LNX": "Linux",
	"SWP": "Swap partition",
	"RAW": "RAW partition",
	"MAC": "Macintosh partition",
	"MIX": "MINIX partition",
	"MNX": "MINIX partition",
	"UNX": "Atari UNIX System V partition",
	"SV4": "Atari UNIX System V R4 partition",
	"F32": "FAT32 partition",
	"HFS": "Macintosh HFS partition",
	"QWA": "QDOS partition",
	"BSD": "BSD partition",
	"RSV": "Reserved partition",
}

// DecodeAtari reads an Atari AHDI (or ICD extended) root sector and follows
// XGM chains.
func DecodeAtari(src sector.Source, offset uint64) ([]Partition, bool) {
	if offset != 0 {
		return nil, false
	}
	g := src.Geometry()
	// AHDI addresses 512-byte sectors only
	if g.SectorSize != 512 {
		return nil, false
	}
	ss := uint64(g.SectorSize)
	b := newBuilder(atariScheme, src)
	buf, err := src.ReadSector(0)
	if err != nil {
		return nil, false
	}
	var root atariRoot
	if err := record.Unpack(buf, binary.BigEndian, &root); err != nil {
		return nil, false
	}
	if !atariValid(root.Entries[:], g.Sectors) {
		return nil, false
	}
	bootable := atariBootSum(buf) == atariBootChecksum
	b.log.Debugf("root sector: disk size %d, bad sector list at %d, bootable %t", root.HDSize, root.BSLStart, bootable)

	for _, e := range root.Entries {
		if e.Flag&atariFlagExists == 0 {
			continue
		}
		id := string(e.ID[:])
		if id == "XGM" {
			atariExtended(src, b, uint64(e.Start), ss, g.Sectors)
			continue
		}
		atariAdd(b, e, 0, ss)
	}
	if atariValid(root.ICD[:1], g.Sectors) {
		for _, e := range root.ICD {
			if e.Flag&atariFlagExists != 0 && atariTypes[string(e.ID[:])] != "" {
				atariAdd(b, e, 0, ss)
			}
		}
	}
	return b.result()
}

// atariValid accepts a table whose existing entries all carry a known id and
// start inside the disk, with at least one such entry.
func atariValid(entries []atariEntry, sectors uint64) bool {
	found := false
	for _, e := range entries {
		if e.Flag&atariFlagExists == 0 {
			continue
		}
		if _, ok := atariTypes[string(e.ID[:])]; !ok || uint64(e.Start) >= sectors {
			return false
		}
		found = true
	}
	return found
}

func atariExtended(src sector.Source, b *builder, first, ss, sectors uint64) {
	guard := newChain(b.log, "XGM", sectors)
	for cur := first; cur != 0 && cur < sectors && guard.next(cur); {
		buf, err := src.ReadSector(cur)
		if err != nil {
			return
		}
		var r atariRoot
		if err := record.Unpack(buf, binary.BigEndian, &r); err != nil {
			return
		}
		data, link := r.Entries[0], r.Entries[1]
		if data.Flag&atariFlagExists == 0 {
			return
		}
		atariAdd(b, data, cur, ss)
		if link.Flag&atariFlagExists == 0 || string(link.ID[:]) != "XGM" || link.Start == 0 {
			return
		}
		cur = first + uint64(link.Start)
	}
}

func atariAdd(b *builder, e atariEntry, base, ss uint64) {
	id := string(e.ID[:])
	typ, ok := atariTypes[id]
	if !ok {
		typ = fmt.Sprintf("Unknown partition type %q", id)
	}
	desc := ""
	if e.Flag&atariFlagBootable != 0 {
		desc = "Partition is bootable"
	}
	b.add(Partition{
		Start:       scale(base+uint64(e.Start), 512, ss),
		Length:      scale(uint64(e.Size), 512, ss),
		Type:        typ,
		Name:        id,
		Description: desc,
	})
}

func atariBootSum(buf []byte) uint16 {
	var sum uint16
	for i := 0; i+1 < 512; i += 2 {
		sum += binary.BigEndian.Uint16(buf[i:])
	}
	return sum
}
