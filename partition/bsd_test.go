package partition

import (
	"encoding/binary"
	"testing"

	"github.com/go-restruct/restruct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bsdFixture(t *testing.T, order binary.ByteOrder, secSize uint32, parts ...bsdPartition) []byte {
	l := bsdLabel{
		LabelMagic:  bsdMagic,
		LabelMagic2: bsdMagic,
		SecSize:     secSize,
		NSectors:    63,
		NTracks:     16,
		NPartitions: uint16(len(parts)),
	}
	copy(l.TypeName[:], "SCSI disk")
	copy(l.Partitions[:], parts)
	buf, err := restruct.Pack(order, &l)
	require.NoError(t, err)
	var sum uint16
	for i := 0; i < 148+len(parts)*16; i += 2 {
		sum ^= order.Uint16(buf[i:])
	}
	order.PutUint16(buf[136:], sum)
	return buf
}

var bsdParts = []bsdPartition{
	{Offset: 16, Size: 100, FSType: 7, FragSize: 1024, Frag: 8, CPG: 16},
	{Offset: 116, Size: 50, FSType: 1},
	{Offset: 0, Size: 1000, FSType: 0},
	{Offset: 200, Size: 0, FSType: 7},
}

func TestBSDByteOrders(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
		lba   uint64
		at    int
	}{
		{"little endian, sector 1", binary.LittleEndian, 1, 0},
		{"big endian, sector 0 byte 64", binary.BigEndian, 0, 64},
		{"little endian, sector 2 byte 128", binary.LittleEndian, 2, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDisk(t, 2048, 512)
			d.putBytes(tt.lba, tt.at, bsdFixture(t, tt.order, 512, bsdParts...))
			parts, ok := DecodeBSD(d.source(), 0)
			require.True(t, ok)
			checkRecords(t, parts, 512, "bsd")
			assert.Equal(t, []extent{{16, 100}, {116, 50}}, extents(parts))
			assert.Equal(t, "a", parts[0].Name)
			assert.Equal(t, "b", parts[1].Name)
			assert.Equal(t, "4.2BSD Fast File System", parts[0].Type)
			assert.Equal(t, "Swap partition", parts[1].Type)
		})
	}
}

func TestBSDSectorSizeConversion(t *testing.T) {
	d := newDisk(t, 2048, 512)
	d.putBytes(0, 0, bsdFixture(t, binary.LittleEndian, 1024, bsdPartition{Offset: 8, Size: 10, FSType: 7}))
	parts, ok := DecodeBSD(d.source(), 0)
	require.True(t, ok)
	assert.Equal(t, []extent{{16, 20}}, extents(parts))
}

func TestBSDInsideSlice(t *testing.T) {
	t.Run("relative", func(t *testing.T) {
		d := newDisk(t, 2048, 512)
		d.putBytes(101, 0, bsdFixture(t, binary.LittleEndian, 512, bsdPartition{Offset: 16, Size: 100, FSType: 7}))
		parts, ok := DecodeBSD(d.source(), 100)
		require.True(t, ok)
		assert.Equal(t, []extent{{116, 100}}, extents(parts))
	})
	t.Run("absolute", func(t *testing.T) {
		d := newDisk(t, 2048, 512)
		d.putBytes(101, 0, bsdFixture(t, binary.LittleEndian, 512, bsdPartition{Offset: 150, Size: 100, FSType: 7}))
		parts, ok := DecodeBSD(d.source(), 100)
		require.True(t, ok)
		assert.Equal(t, []extent{{150, 100}}, extents(parts))
	})
}

func TestBSDSecondMagicMustMatch(t *testing.T) {
	d := newDisk(t, 2048, 512)
	buf := bsdFixture(t, binary.LittleEndian, 512, bsdParts...)
	binary.LittleEndian.PutUint32(buf[132:], 0)
	d.putBytes(1, 0, buf)
	_, ok := DecodeBSD(d.source(), 0)
	assert.False(t, ok)
}

func TestBSDNone(t *testing.T) {
	d := newDisk(t, 16, 512)
	_, ok := DecodeBSD(d.source(), 0)
	assert.False(t, ok)
}
