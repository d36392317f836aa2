package partition

import (
	"math/rand"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBounds(t *testing.T) {
	d := newDisk(t, 100, 512)
	b := newBuilder("test", d.source())

	assert.True(t, b.add(Partition{Start: 10, Length: 20, Type: "a"}))
	assert.False(t, b.add(Partition{Start: 30, Length: 0}))
	assert.False(t, b.add(Partition{Start: 100, Length: 1}))
	assert.True(t, b.add(Partition{Start: 90, Length: 50, Type: "b"}))

	parts, ok := b.result()
	require.True(t, ok)
	checkRecords(t, parts, 512, "test")
	assert.Equal(t, []extent{{10, 20}, {90, 10}}, extents(parts))
	assert.Equal(t, uint64(100), parts[1].End())
}

func TestBuilderUnits(t *testing.T) {
	d := newDisk(t, 100, 512)
	b := newBuilder("test", d.source())
	b.units(2048, d.geo)
	assert.True(t, b.add(Partition{Start: 20, Length: 10}))
	assert.False(t, b.add(Partition{Start: 25, Length: 1}))

	parts, _ := b.result()
	require.Len(t, parts, 1)
	assert.Equal(t, extent{20, 5}, extents(parts)[0])
	assert.Equal(t, uint64(20*2048), parts[0].Offset)
	assert.Equal(t, uint64(5*2048), parts[0].Size)
}

func TestBuilderEmpty(t *testing.T) {
	b := newBuilder("test", newDisk(t, 1, 512).source())
	parts, ok := b.result()
	assert.False(t, ok)
	assert.Empty(t, parts)
}

func TestChain(t *testing.T) {
	c := newChain(log.WithField("test", t.Name()), "test", 3)
	assert.True(t, c.next(5))
	assert.True(t, c.next(7))
	assert.False(t, c.next(5))

	c = newChain(log.WithField("test", t.Name()), "test", 3)
	for lba := uint64(1); lba <= 3; lba++ {
		assert.True(t, c.next(lba))
	}
	assert.False(t, c.next(4))
}

func TestScale(t *testing.T) {
	assert.Equal(t, uint64(8), scale(2, 2048, 512))
	assert.Equal(t, uint64(2), scale(8, 512, 2048))
	assert.Equal(t, uint64(7), scale(7, 512, 512))
	assert.Equal(t, uint64(1), scale(3, 512, 1024))
}

func TestRelative(t *testing.T) {
	assert.False(t, relative([]uint64{0, 10}, 0))
	assert.True(t, relative([]uint64{0, 10}, 63))
	assert.False(t, relative([]uint64{63, 100}, 63))
	assert.False(t, relative(nil, 63))
}

func TestPartitionString(t *testing.T) {
	p := Partition{Start: 2048, Length: 100, Type: "0x83", Sequence: 1, Scheme: "mbr"}
	assert.Equal(t, `mbr #1: start 2048, length 100, type "0x83"`, p.String())
}

// Decoders must survive arbitrary contents and still return well-formed
// records.
func TestDecodersOnGarbage(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, ss := range []int{512, 2048} {
		for round := 0; round < 8; round++ {
			d := newDisk(t, 64, ss)
			rng.Read(d.data)
			// plant a few signatures so decoders get past their first check
			if round%2 == 1 {
				d.put16(0, 510, le, mbrMagic)
				be.PutUint32(d.at(0, 0), rdbMagic)
				le.PutUint32(d.at(1, 0), bsdMagic)
			}
			src := d.source()
			for _, s := range Schemes() {
				for _, offset := range []uint64{0, 1, 63, 64} {
					var parts []Partition
					require.NotPanics(t, func() {
						parts, _ = s.Decode(src, offset)
					}, "%s at %d", s.Name, offset)
					for i, p := range parts {
						assert.Equal(t, uint64(i), p.Sequence)
						assert.Equal(t, s.Name, p.Scheme)
						if p.Length != 0 {
							unit := p.Size / p.Length
							assert.Equal(t, p.Start*unit, p.Offset)
						}
					}
				}
			}
		}
	}
}
