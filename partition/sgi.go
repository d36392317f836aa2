package partition

import (
	"encoding/binary"
	"fmt"

	"dskpart/record"
	"dskpart/sector"
)

const (
	sgiScheme = "sgi"

	sgiMagic = 0x0BE5A941
)

type sgiDeviceParameters struct {
	Skew        uint8
	Gap1        uint8
	Gap2        uint8
	SparesCyl   uint8
	Cylinders   uint16
	Shd0        uint16
	Trks0       uint16
	CtqDepth    uint8
	Cylshi      uint8
	Unused      uint16
	Sectors     uint16
	SectorBytes uint16
	Interleave  uint16
	Flags       uint32
	DataRate    uint32
	Retries     uint32
	MsPerWord   uint32
	XGap1       uint16
	XSync       uint16
	XRDelay     uint16
	XGap2       uint16
	XRGate      uint16
	XWCont      uint16
}

type sgiVolumeEntry struct {
	Name  [8]byte
	Block int32
	Bytes int32
}

type sgiPartition struct {
	Blocks int32
	First  int32
	Type   int32
}

// sgiLabel is the SGI disk volume header.
type sgiLabel struct {
	Magic      uint32
	Root       int16
	Swap       int16
	BootFile   [16]byte
	Device     sgiDeviceParameters
	Volume     [15]sgiVolumeEntry
	Partitions [16]sgiPartition
	Checksum   int32
	Pad        int32
}

var sgiTypes = []string{
	"Volume header",
	"Track replacements",
	"Sector replacements",
	"Raw data (swap)",
	"4.2BSD file system",
	"UNIX System V file system",
	"Entire volume (all sectors)",
	"Extent File System",
	"Logical volume",
	"Raw logical volume",
	"XFS file system",
	"XFS log device",
	"XLV volume",
	"XVM volume",
}

func sgiTypeName(t int32) string {
	if t >= 0 && int(t) < len(sgiTypes) {
		return sgiTypes[t]
	}
	return fmt.Sprintf("Unknown partition type %d", t)
}

// DecodeSGI reads an SGI volume header. Its 32-bit words sum to zero.
func DecodeSGI(src sector.Source, offset uint64) ([]Partition, bool) {
	if offset != 0 {
		return nil, false
	}
	g := src.Geometry()
	ss := uint64(g.SectorSize)
	buf, ok := readBytes(src, 0, 512)
	if !ok {
		return nil, false
	}
	var l sgiLabel
	if err := record.Unpack(buf, binary.BigEndian, &l); err != nil || l.Magic != sgiMagic {
		return nil, false
	}
	b := newBuilder(sgiScheme, src)
	var sum uint32
	for i := 0; i < 512; i += 4 {
		sum += binary.BigEndian.Uint32(buf[i:])
	}
	if sum != 0 {
		b.log.Warn("volume header has a bad checksum")
	}
	for _, v := range l.Volume {
		if name := record.CString(v.Name[:]); name != "" {
			b.log.Debugf("volume directory file %q, %d bytes at block %d", name, v.Bytes, v.Block)
		}
	}
	for i, p := range l.Partitions {
		if p.Blocks <= 0 || p.First < 0 {
			continue
		}
		b.add(Partition{
			Start:  scale(uint64(p.First), 512, ss),
			Length: scale(uint64(p.Blocks), 512, ss),
			Type:   sgiTypeName(p.Type),
			Name:   fmt.Sprintf("%d", i),
		})
	}
	return b.result()
}
