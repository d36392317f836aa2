package sector

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patterned(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i / 512)
	}
	return data
}

func TestMemoryReadSectors(t *testing.T) {
	m, err := NewMemory(patterned(8*512), Geometry{SectorSize: 512})
	require.NoError(t, err)
	assert.Equal(t, uint64(8), m.Geometry().Sectors)

	buf, err := m.ReadSectors(2, 3)
	require.NoError(t, err)
	require.Len(t, buf, 3*512)
	assert.Equal(t, byte(2), buf[0])
	assert.Equal(t, byte(4), buf[len(buf)-1])

	buf[0] = 0xFF
	again, err := m.ReadSector(2)
	require.NoError(t, err)
	assert.Equal(t, byte(2), again[0], "returned buffers must be copies")
}

func TestMemoryBounds(t *testing.T) {
	m, err := NewMemory(patterned(4*512), Geometry{SectorSize: 512})
	require.NoError(t, err)

	t.Run("past end", func(t *testing.T) {
		_, err := m.ReadSector(4)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	})
	t.Run("run crosses end", func(t *testing.T) {
		_, err := m.ReadSectors(3, 2)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	})
	t.Run("zero count", func(t *testing.T) {
		_, err := m.ReadSectors(0, 0)
		assert.True(t, errors.Is(err, ErrZeroCount))
	})
}

func TestMemoryGeometryClamp(t *testing.T) {
	m, err := NewMemory(patterned(4*512), Geometry{SectorSize: 512, Sectors: 100})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), m.Geometry().Sectors)
}

func TestInvalidGeometry(t *testing.T) {
	_, err := NewMemory(nil, Geometry{})
	assert.True(t, errors.Is(err, ErrInvalidGeometry))

	_, err = NewFile(bytes.NewReader(nil), Geometry{SectorSize: 500})
	assert.True(t, errors.Is(err, ErrInvalidGeometry))
}

func TestFileSource(t *testing.T) {
	data := patterned(6 * 512)
	f, err := NewFile(bytes.NewReader(data), Geometry{SectorSize: 512, Sectors: 6})
	require.NoError(t, err)

	buf, err := f.ReadSectors(4, 2)
	require.NoError(t, err)
	assert.Equal(t, data[4*512:], buf)
	assert.NoError(t, f.Close())
}

func TestFileSourceShortRead(t *testing.T) {
	// Geometry claims more sectors than the reader holds.
	f, err := NewFile(bytes.NewReader(patterned(2*512+100)), Geometry{SectorSize: 512, Sectors: 3})
	require.NoError(t, err)

	_, err = f.ReadSector(2)
	assert.True(t, errors.Is(err, ErrShortRead))
}

func TestGuessGeometry(t *testing.T) {
	g := GuessGeometry(1<<30, 512)
	assert.Equal(t, uint64(1<<21), g.Sectors)
	assert.Equal(t, uint32(255), g.Heads)
	assert.Equal(t, uint32(63), g.SectorsPerTrack)
	assert.Equal(t, MediaBlock, g.Media)

	small := GuessGeometry(1440*1024, 512)
	assert.Equal(t, uint32(16), small.Heads)

	cd := GuessGeometry(650<<20, 2048)
	assert.Equal(t, MediaOptical, cd.Media)
	assert.Equal(t, g.Sectors/(255*63), g.Cylinders())
}

func TestGeometryString(t *testing.T) {
	g := Geometry{SectorSize: 512, Sectors: 16 * 63 * 10, Heads: 16, SectorsPerTrack: 63}
	assert.Equal(t, "10080 sectors of 512 bytes, 10 cylinders, 16 heads, 63 sectors/track, block", g.String())
	assert.Equal(t, uint64(0), Geometry{Sectors: 100}.Cylinders())
}
