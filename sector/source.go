// Package sector provides the sector-addressable view of a disk image that
// partition decoders read from.
package sector

import (
	"fmt"

	"github.com/pkg/errors"
)

// MediaClass tells decoders whether a table may be written in 512-byte units on
// top of 2048-byte logical sectors.
type MediaClass int

const (
	MediaBlock MediaClass = iota
	MediaOptical
)

func (m MediaClass) String() string {
	switch m {
	case MediaOptical:
		return "optical"
	default:
		return "block"
	}
}

// Geometry describes the media behind a Source. It is supplied externally and
// never modified by decoders.
type Geometry struct {
	SectorSize      uint32
	Sectors         uint64
	Heads           uint32
	SectorsPerTrack uint32
	Media           MediaClass
}

// Cylinders derives the cylinder count from the other fields.
func (g Geometry) Cylinders() uint64 {
	perCyl := uint64(g.Heads) * uint64(g.SectorsPerTrack)
	if perCyl == 0 {
		return 0
	}
	return g.Sectors / perCyl
}

// Bytes is the media size in bytes.
func (g Geometry) Bytes() uint64 {
	return g.Sectors * uint64(g.SectorSize)
}

func (g Geometry) String() string {
	return fmt.Sprintf("%d sectors of %d bytes, %d cylinders, %d heads, %d sectors/track, %s",
		g.Sectors, g.SectorSize, g.Cylinders(), g.Heads, g.SectorsPerTrack, g.Media)
}

// Validate rejects geometries no decoder can work with.
func (g Geometry) Validate() error {
	if g.SectorSize == 0 {
		return errors.Wrap(ErrInvalidGeometry, "sector size is zero")
	}
	if g.SectorSize%128 != 0 && g.SectorSize != 2352 && g.SectorSize != 2448 {
		return errors.Wrapf(ErrInvalidGeometry, "unusual sector size %d", g.SectorSize)
	}
	return nil
}

// Source is a read-only, sector-addressable device or image.
type Source interface {
	// ReadSector returns one sector.
	ReadSector(lba uint64) ([]byte, error)
	// ReadSectors returns count consecutive sectors as one buffer.
	ReadSectors(lba uint64, count uint32) ([]byte, error)
	Geometry() Geometry
}

// GuessGeometry fills in a classic translated geometry (255 heads, 63 sectors per
// track) for media that only know their size, the same values BIOS-era tools
// assume for LBA disks. Small media get 16 heads.
func GuessGeometry(sizeBytes uint64, sectorSize uint32) Geometry {
	g := Geometry{SectorSize: sectorSize}
	if sectorSize == 0 {
		return g
	}
	g.Sectors = sizeBytes / uint64(sectorSize)
	g.SectorsPerTrack = 63
	g.Heads = 255
	if g.Sectors < 1024*16*63 {
		g.Heads = 16
	}
	if sectorSize == 2048 {
		g.Media = MediaOptical
	}
	return g
}

func checkRange(g Geometry, lba uint64, count uint32) error {
	if count == 0 {
		return ErrZeroCount
	}
	if lba >= g.Sectors || uint64(count) > g.Sectors-lba {
		return errors.Wrapf(ErrOutOfRange, "lba %d count %d beyond %d sectors", lba, count, g.Sectors)
	}
	return nil
}
