package partition

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"unicode/utf16"

	"github.com/pkg/errors"

	"dskpart/record"
	"dskpart/sector"
)

const (
	gptScheme     = "gpt"
	gptHeaderSize = 92
)

type gptHeader struct {
	Signature           uint64
	Revision            uint32
	HeaderSize          uint32
	CRC32               uint32
	Reserved            uint32
	CurrentLBA          uint64
	BackupLBA           uint64
	FirstUsableLBA      uint64
	LastUsableLBA       uint64
	DiskGUID            [16]byte
	PartitionEntryLBA   uint64
	NumPartEntries      uint32
	PartEntrySize       uint32
	PartEntryArrayCRC32 uint32
}

type gptPartition struct {
	TypeGUID       [16]byte
	UniqueGUID     [16]byte
	FirstLBA       uint64
	LastLBA        uint64
	AttributeFlags uint64
	PartitionName  [72]byte
}

// DecodeGPT reads a GUID Partition Table whose header sits in the sector after
// offset. On optical media it also finds headers written for 512-byte sectors,
// 512 bytes into the first 2048-byte sector.
func DecodeGPT(src sector.Source, offset uint64) ([]Partition, bool) {
	g := src.Geometry()
	b := newBuilder(gptScheme, src)
	if g.Sectors < 3 || offset+1 >= g.Sectors {
		return nil, false
	}

	raw, err := src.ReadSector(offset + 1)
	if err != nil || len(raw) < gptHeaderSize {
		return nil, false
	}
	expected := offset + 1
	divisor, modulo := uint64(1), uint64(0)
	if binary.LittleEndian.Uint64(raw) != gptSignature {
		if g.Media != sector.MediaOptical {
			return nil, false
		}
		first, err := src.ReadSector(offset)
		if err != nil || len(first) < 1024 || binary.LittleEndian.Uint64(first[512:]) != gptSignature {
			return nil, false
		}
		raw = first[512:1024]
		divisor = 4
		expected = offset*4 + 1
		b.log.Debug("GPT header found 512 bytes into the first sector, using 512-byte units")
	}

	var h gptHeader
	if err := record.Unpack(raw, binary.LittleEndian, &h); err != nil {
		return nil, false
	}
	if h.CurrentLBA != expected {
		b.log.Debugf("GPT header claims LBA %d, read from %d", h.CurrentLBA, expected)
		return nil, false
	}
	if err := validateGPTHeaderCRC(raw, h.HeaderSize); err != nil {
		b.log.Warn(err)
	}
	if h.NumPartEntries == 0 || h.PartEntrySize == 0 {
		return nil, false
	}

	total := uint64(h.NumPartEntries) * uint64(h.PartEntrySize)
	if total > g.Bytes() || total > 1<<30 {
		b.log.Debugf("GPT entry array of %d bytes does not fit the device", total)
		return nil, false
	}
	if divisor > 1 {
		modulo = h.PartitionEntryLBA % divisor
	}
	skip := modulo * 512
	first := h.PartitionEntryLBA / divisor
	count := (skip + total + uint64(g.SectorSize) - 1) / uint64(g.SectorSize)
	if first >= g.Sectors || count > g.Sectors-first {
		b.log.Debugf("GPT entry array at %d (%d sectors) is beyond the device", first, count)
		return nil, false
	}
	data, err := src.ReadSectors(first, uint32(count))
	if err != nil {
		return nil, false
	}
	data = data[skip : skip+total]
	if err := validateGPTEntriesCRC(data, h.PartEntryArrayCRC32); err != nil {
		b.log.Warn(err)
	}

	size := uint64(h.PartEntrySize)
	var entries []gptPartition
	for i := uint64(0); i < uint64(h.NumPartEntries); i++ {
		var e gptPartition
		if err := record.Unpack(data[i*size:(i+1)*size], binary.LittleEndian, &e); err != nil {
			b.log.Debugf("skipping GPT entry %d: %v", i, err)
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, false
	}

	for _, e := range entries {
		if record.Zero(e.TypeGUID[:]) || record.Zero(e.UniqueGUID[:]) {
			continue
		}
		if e.LastLBA < e.FirstLBA {
			b.log.Debugf("skipping GPT entry ending at %d before its start %d", e.LastLBA, e.FirstLBA)
			continue
		}
		start, last := e.FirstLBA/divisor, e.LastLBA/divisor
		if start >= g.Sectors || last >= g.Sectors {
			b.log.Debugf("GPT entry %d-%d is beyond %d sectors", start, last, g.Sectors)
			return nil, false
		}
		typ := guidToUUID(e.TypeGUID)
		b.append(Partition{
			Start:  start,
			Length: (e.LastLBA - e.FirstLBA + 1) / divisor,
			Type:   gptTypeName(typ),
			Name:   decodeUTF16LE(e.PartitionName[:]),
			Description: fmt.Sprintf("Type GUID %s, ID %s, attributes 0x%016X",
				typ, guidToUUID(e.UniqueGUID), e.AttributeFlags),
		})
	}
	return b.parts, true
}

// decodeUTF16LE decodes a NUL-terminated UTF-16LE name.
func decodeUTF16LE(b []byte) string {
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	u16 := make([]uint16, 0, len(b)/2)
	for i := 0; i < len(b); i += 2 {
		v := binary.LittleEndian.Uint16(b[i : i+2])
		if v == 0 {
			break
		}
		u16 = append(u16, v)
	}
	return string(utf16.Decode(u16))
}

func validateGPTHeaderCRC(header []byte, size uint32) error {
	if size < gptHeaderSize || len(header) < int(size) {
		return errors.Errorf("GPT header size %d cannot be checked", size)
	}
	orig := binary.LittleEndian.Uint32(header[16:20])
	tmp := make([]byte, size)
	copy(tmp, header[:size])
	for i := 16; i < 20; i++ {
		tmp[i] = 0
	}
	if sum := crc32.ChecksumIEEE(tmp); sum != orig {
		return errors.Errorf("GPT header CRC mismatch: calculated 0x%08X, expected 0x%08X", sum, orig)
	}
	return nil
}

func validateGPTEntriesCRC(entries []byte, expected uint32) error {
	if sum := crc32.ChecksumIEEE(entries); sum != expected {
		return errors.Errorf("GPT entries CRC mismatch: calculated 0x%08X, expected 0x%08X", sum, expected)
	}
	return nil
}
