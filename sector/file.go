package sector

import (
	"io"

	"github.com/pkg/errors"
)

// File is a Source backed by an io.ReaderAt, typically an *os.File opened on a
// raw image or block device.
type File struct {
	r   io.ReaderAt
	geo Geometry
}

// NewFile wraps r. The geometry must carry the sector count; the caller knows
// the device size, the reader does not.
func NewFile(r io.ReaderAt, g Geometry) (*File, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &File{r: r, geo: g}, nil
}

func (f *File) ReadSector(lba uint64) ([]byte, error) {
	return f.ReadSectors(lba, 1)
}

func (f *File) ReadSectors(lba uint64, count uint32) ([]byte, error) {
	if err := checkRange(f.geo, lba, count); err != nil {
		return nil, err
	}
	ss := int64(f.geo.SectorSize)
	buf := make([]byte, int64(count)*ss)
	n, err := f.r.ReadAt(buf, int64(lba)*ss)
	if n == len(buf) {
		return buf, nil
	}
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "read %d sectors at lba %d", count, lba)
	}
	return nil, errors.Wrapf(ErrShortRead, "got %d of %d bytes at lba %d", n, len(buf), lba)
}

func (f *File) Geometry() Geometry {
	return f.geo
}

// Close closes the underlying reader when it is an io.Closer.
func (f *File) Close() error {
	if c, ok := f.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
