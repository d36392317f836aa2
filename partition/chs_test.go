package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLBAFirstSector(t *testing.T) {
	for _, g := range []struct{ heads, spt uint64 }{{1, 1}, {16, 63}, {255, 63}, {8, 17}, {2, 9}} {
		assert.Equal(t, uint64(0), ToLBA(0, 0, 1, g.heads, g.spt))
	}
}

func TestToLBA(t *testing.T) {
	assert.Equal(t, uint64(63), ToLBA(0, 1, 1, 16, 63))
	assert.Equal(t, uint64(1008), ToLBA(1, 0, 1, 16, 63))
	assert.Equal(t, uint64(2015), ToLBA(1, 15, 63, 16, 63))
}

func TestFromLBARoundTrip(t *testing.T) {
	for _, lba := range []uint64{0, 1, 62, 63, 1007, 1008, 123456} {
		c, h, s := FromLBA(lba, 255, 63)
		assert.Equal(t, lba, ToLBA(c, h, s, 255, 63))
	}
	c, h, s := FromLBA(10, 0, 63)
	assert.Zero(t, c+h+s)
}

func TestDecodeCHS(t *testing.T) {
	c := DecodeCHS([3]byte{0xFE, 0xFF, 0xFF})
	assert.Equal(t, CHS{Cylinder: 1023, Head: 254, Sector: 63}, c)
	assert.Equal(t, "1023/254/63", c.String())

	c = DecodeCHS([3]byte{0x01, 0x41, 0x02})
	assert.Equal(t, CHS{Cylinder: 258, Head: 1, Sector: 1}, c)

	assert.True(t, DecodeCHS([3]byte{}).IsZero())
	assert.Equal(t, uint64(0), CHS{Sector: 1}.LBA(16, 63))
}
