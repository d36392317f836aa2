package partition

import (
	"encoding/binary"
	"fmt"
	"strings"

	"dskpart/record"
	"dskpart/sector"
)

const (
	apmScheme = "apm"

	ddmSignature    = 0x4552 // "ER"
	oldMapSignature = 0x5453 // "TS"
	apmSignature    = 0x504D // "PM"

	apmMaxEntries = 1024
)

type apmDriver struct {
	Block uint32
	Size  uint16
	Type  uint16
}

// apmDDM is the driver descriptor map in block 0.
type apmDDM struct {
	Signature   uint16
	BlockSize   uint16
	BlockCount  uint32
	DevType     uint16
	DevID       uint16
	Data        uint32
	DriverCount uint16
	Drivers     [61]apmDriver
}

type apmOldEntry struct {
	Start uint32
	Size  uint32
	FSID  uint32
}

// apmOldMap is the pre-1986 partition map in block 1.
type apmOldMap struct {
	Signature uint16
	Entries   [42]apmOldEntry
}

type apmEntry struct {
	Signature    uint16
	Reserved     uint16
	MapEntries   uint32
	Start        uint32
	Sectors      uint32
	Name         [32]byte
	Type         [32]byte
	DataStart    uint32
	DataSectors  uint32
	Flags        uint32
	BootStart    uint32
	BootSize     uint32
	LoadAddress  uint32
	LoadAddress2 uint32
	EntryPoint   uint32
	EntryPoint2  uint32
	BootChecksum uint32
	Processor    [16]byte
}

var apmFlagNames = []struct {
	bit  uint32
	name string
}{
	{0x00000001, "valid"},
	{0x00000002, "allocated"},
	{0x00000004, "in use"},
	{0x00000008, "bootable"},
	{0x00000010, "readable"},
	{0x00000020, "writable"},
	{0x00000040, "position independent boot code"},
	{0x00000100, "chain compatible driver"},
	{0x00000200, "real driver"},
	{0x00000400, "chain driver"},
	{0x40000000, "automount"},
	{0x80000000, "startup"},
}

func apmFlags(f uint32) string {
	var names []string
	for _, fl := range apmFlagNames {
		if f&fl.bit != 0 {
			names = append(names, fl.name)
		}
	}
	return strings.Join(names, ", ")
}

// DecodeAppleMap reads an Apple Partition Map. Map entries are laid out in
// 512-byte blocks on media with larger sectors, or one per sector otherwise.
func DecodeAppleMap(src sector.Source, offset uint64) ([]Partition, bool) {
	if offset != 0 {
		return nil, false
	}
	g := src.Geometry()
	ss := uint64(g.SectorSize)
	if ss == 2352 || ss == 2448 {
		ss = 2048
	}
	if ss < 256 || g.Sectors < 2 {
		return nil, false
	}
	b := newBuilder(apmScheme, src)
	b.units(ss, g)

	head, ok := readBytes(src, 0, 1024)
	if !ok {
		return nil, false
	}
	if uint64(len(head)) < 2*ss {
		next, err := src.ReadSector(1)
		if err != nil {
			return nil, false
		}
		head = append(head[:ss], next...)
	}

	var ddm apmDDM
	haveDDM := record.Unpack(head, binary.BigEndian, &ddm) == nil && ddm.Signature == ddmSignature
	blockSize := uint64(512)
	if haveDDM {
		b.log.Debugf("driver descriptor map: %d blocks of %d bytes, %d drivers", ddm.BlockCount, ddm.BlockSize, ddm.DriverCount)
		if ddm.BlockSize >= 512 && ddm.BlockSize%512 == 0 {
			blockSize = uint64(ddm.BlockSize)
		}
	}

	entrySize := uint64(0)
	switch {
	case ss > 512 && binary.BigEndian.Uint16(head[512:]) == apmSignature:
		entrySize = 512
	case binary.BigEndian.Uint16(head[ss:]) == apmSignature:
		entrySize = ss
	case ss < 512 && binary.BigEndian.Uint16(head[512:]) == apmSignature:
		entrySize = 512
	}

	if entrySize == 0 {
		if binary.BigEndian.Uint16(head[ss:]) == oldMapSignature {
			apmOld(b, head[ss:], blockSize, ss)
		} else if haveDDM {
			apmDrivers(b, ddm, ss)
		}
		return b.result()
	}

	var first apmEntry
	if err := record.Unpack(head[entrySize:], binary.BigEndian, &first); err != nil {
		return nil, false
	}
	count := uint64(first.MapEntries)
	if count == 0 || count > apmMaxEntries {
		b.log.Debugf("partition map claims %d entries", count)
		return b.result()
	}
	mapBytes := entrySize * (count + 1)
	if limit := g.Sectors * ss; mapBytes > limit {
		mapBytes = limit
	}
	data, ok := readBytes(src, 0, mapBytes)
	if !ok {
		return b.result()
	}

	for i := uint64(1); i <= count && (i+1)*entrySize <= uint64(len(data)); i++ {
		var e apmEntry
		if err := record.Unpack(data[i*entrySize:], binary.BigEndian, &e); err != nil || e.Signature != apmSignature {
			b.log.Debugf("map entry %d has no signature, stopping", i)
			break
		}
		desc := apmFlags(e.Flags)
		if proc := record.CString(e.Processor[:]); proc != "" {
			desc = fmt.Sprintf("%s, boot code for %s", desc, proc)
		}
		b.add(Partition{
			Start:       scale(uint64(e.Start), entrySize, ss),
			Length:      scale(uint64(e.Sectors), entrySize, ss),
			Type:        record.CString(e.Type[:]),
			Name:        record.CString(e.Name[:]),
			Description: desc,
		})
	}
	return b.result()
}

func apmOld(b *builder, buf []byte, blockSize, ss uint64) {
	var m apmOldMap
	if err := record.Unpack(buf, binary.BigEndian, &m); err != nil {
		return
	}
	for _, e := range m.Entries {
		if e.Start == 0 && e.Size == 0 && e.FSID == 0 {
			break
		}
		b.add(Partition{
			Start:  scale(uint64(e.Start), blockSize, ss),
			Length: scale(uint64(e.Size), blockSize, ss),
			Type:   fourCC(e.FSID),
		})
	}
}

// apmDrivers emits the driver extents of a disk that has a driver descriptor
// map but no partition map.
func apmDrivers(b *builder, ddm apmDDM, ss uint64) {
	n := int(ddm.DriverCount)
	if n > len(ddm.Drivers) {
		n = len(ddm.Drivers)
	}
	for _, d := range ddm.Drivers[:n] {
		if d.Size == 0 {
			continue
		}
		b.add(Partition{
			Start:       scale(uint64(d.Block), 512, ss),
			Length:      scale(uint64(d.Size), 512, ss),
			Type:        "Apple_Driver",
			Description: fmt.Sprintf("Driver for OS type %d", d.Type),
		})
	}
}

// fourCC renders a 32-bit tag as text when every byte is printable.
func fourCC(v uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%08X", v)
		}
	}
	return string(b[:])
}
