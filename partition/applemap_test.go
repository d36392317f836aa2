package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apmPart(count uint32, start, size uint32, name, typ string) *apmEntry {
	e := &apmEntry{Signature: apmSignature, MapEntries: count, Start: start, Sectors: size, Flags: 0x37}
	copy(e.Name[:], name)
	copy(e.Type[:], typ)
	return e
}

func TestAppleMap(t *testing.T) {
	d := newDisk(t, 2048, 512)
	d.put(0, 0, be, &apmDDM{Signature: ddmSignature, BlockSize: 512, BlockCount: 2048})
	d.put(1, 0, be, apmPart(3, 1, 63, "Apple", "Apple_partition_map"))
	d.put(2, 0, be, apmPart(3, 64, 1000, "Macintosh HD", "Apple_HFS"))
	d.put(3, 0, be, apmPart(3, 1064, 100, "Extra", "Apple_Free"))

	parts, ok := DecodeAppleMap(d.source(), 0)
	require.True(t, ok)
	checkRecords(t, parts, 512, "apm")
	assert.Equal(t, []extent{{1, 63}, {64, 1000}, {1064, 100}}, extents(parts))
	assert.Equal(t, "Apple_HFS", parts[1].Type)
	assert.Equal(t, "Macintosh HD", parts[1].Name)
	assert.Equal(t, "valid, allocated, in use, readable, writable", parts[1].Description)
}

func TestAppleMapStopsAtMissingSignature(t *testing.T) {
	d := newDisk(t, 2048, 512)
	d.put(1, 0, be, apmPart(3, 1, 63, "Apple", "Apple_partition_map"))
	d.put(2, 0, be, apmPart(3, 64, 1000, "Macintosh HD", "Apple_HFS"))

	parts, ok := DecodeAppleMap(d.source(), 0)
	require.True(t, ok)
	assert.Len(t, parts, 2)
}

func TestAppleMapOnCD(t *testing.T) {
	d := newDisk(t, 512, 2048)
	d.put(0, 0, be, &apmDDM{Signature: ddmSignature, BlockSize: 2048, BlockCount: 512})
	d.put(0, 512, be, apmPart(2, 1, 63, "Apple", "Apple_partition_map"))
	d.put(0, 1024, be, apmPart(2, 64, 1000, "CD", "Apple_HFS"))

	parts, ok := DecodeAppleMap(d.source(), 0)
	require.True(t, ok)
	checkRecords(t, parts, 2048, "apm")
	// 512-byte map units on 2048-byte sectors
	assert.Equal(t, []extent{{0, 15}, {16, 250}}, extents(parts))
	assert.Equal(t, "CD", parts[1].Name)
}

func TestAppleMapOld(t *testing.T) {
	d := newDisk(t, 256, 512)
	m := &apmOldMap{Signature: oldMapSignature}
	m.Entries[0] = apmOldEntry{Start: 10, Size: 20, FSID: 0x54465331}
	m.Entries[1] = apmOldEntry{Start: 30, Size: 40, FSID: 1}
	d.put(1, 0, be, m)

	parts, ok := DecodeAppleMap(d.source(), 0)
	require.True(t, ok)
	assert.Equal(t, []extent{{10, 20}, {30, 40}}, extents(parts))
	assert.Equal(t, "TFS1", parts[0].Type)
	assert.Equal(t, "0x00000001", parts[1].Type)
}

func TestAppleMapDriversOnly(t *testing.T) {
	d := newDisk(t, 256, 512)
	ddm := &apmDDM{Signature: ddmSignature, BlockSize: 512, BlockCount: 256, DriverCount: 1}
	ddm.Drivers[0] = apmDriver{Block: 64, Size: 32, Type: 1}
	d.put(0, 0, be, ddm)

	parts, ok := DecodeAppleMap(d.source(), 0)
	require.True(t, ok)
	assert.Equal(t, []extent{{64, 32}}, extents(parts))
	assert.Equal(t, "Apple_Driver", parts[0].Type)
}

func TestAppleMapNone(t *testing.T) {
	d := newDisk(t, 64, 512)
	_, ok := DecodeAppleMap(d.source(), 0)
	assert.False(t, ok)

	d.put(1, 0, be, apmPart(1, 1, 63, "Apple", "Apple_partition_map"))
	_, ok = DecodeAppleMap(d.source(), 8)
	assert.False(t, ok, "only defined at the start of a disk")
}
