package partition

import (
	"encoding/binary"
	"testing"

	"github.com/go-restruct/restruct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dskpart/sector"
)

// disk is a synthetic image under construction.
type disk struct {
	t    *testing.T
	data []byte
	geo  sector.Geometry
}

func newDisk(t *testing.T, sectors, sectorSize int) *disk {
	return &disk{
		t:    t,
		data: make([]byte, sectors*sectorSize),
		geo: sector.Geometry{
			SectorSize:      uint32(sectorSize),
			Sectors:         uint64(sectors),
			Heads:           16,
			SectorsPerTrack: 63,
		},
	}
}

func (d *disk) at(lba uint64, off int) []byte {
	return d.data[int(lba)*int(d.geo.SectorSize)+off:]
}

// put encodes layout v at byte off of sector lba.
func (d *disk) put(lba uint64, off int, order binary.ByteOrder, v interface{}) []byte {
	buf, err := restruct.Pack(order, v)
	require.NoError(d.t, err)
	copy(d.at(lba, off), buf)
	return d.at(lba, off)[:len(buf)]
}

func (d *disk) putBytes(lba uint64, off int, b []byte) {
	copy(d.at(lba, off), b)
}

func (d *disk) put16(lba uint64, off int, order binary.ByteOrder, v uint16) {
	order.PutUint16(d.at(lba, off), v)
}

func (d *disk) source() sector.Source {
	m, err := sector.NewMemory(d.data, d.geo)
	require.NoError(d.t, err)
	return m
}

// countingSource records every sector address read.
type countingSource struct {
	sector.Source
	reads []uint64
}

func (c *countingSource) ReadSector(lba uint64) ([]byte, error) {
	c.reads = append(c.reads, lba)
	return c.Source.ReadSector(lba)
}

func (c *countingSource) ReadSectors(lba uint64, count uint32) ([]byte, error) {
	c.reads = append(c.reads, lba)
	return c.Source.ReadSectors(lba, count)
}

// sparseSource is a large device where only a few sectors hold data.
type sparseSource struct {
	geo     sector.Geometry
	sectors map[uint64][]byte
}

func (s *sparseSource) ReadSector(lba uint64) ([]byte, error) {
	return s.ReadSectors(lba, 1)
}

func (s *sparseSource) ReadSectors(lba uint64, count uint32) ([]byte, error) {
	if lba+uint64(count) > s.geo.Sectors {
		return nil, sector.ErrOutOfRange
	}
	ss := int(s.geo.SectorSize)
	out := make([]byte, int(count)*ss)
	for i := 0; i < int(count); i++ {
		copy(out[i*ss:], s.sectors[lba+uint64(i)])
	}
	return out, nil
}

func (s *sparseSource) Geometry() sector.Geometry {
	return s.geo
}

// checkRecords asserts the invariants every decoder guarantees.
func checkRecords(t *testing.T, parts []Partition, sectorSize uint64, scheme string) {
	t.Helper()
	for i, p := range parts {
		assert.Equal(t, uint64(i), p.Sequence, "sequence of %v", p)
		assert.Equal(t, p.Start*sectorSize, p.Offset, "offset of %v", p)
		assert.Equal(t, p.Length*sectorSize, p.Size, "size of %v", p)
		assert.Equal(t, scheme, p.Scheme)
	}
}

type extent struct {
	Start, Length uint64
}

func extents(parts []Partition) []extent {
	out := make([]extent, len(parts))
	for i, p := range parts {
		out[i] = extent{p.Start, p.Length}
	}
	return out
}
