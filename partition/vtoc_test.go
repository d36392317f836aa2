package partition

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVTOCAfterPDInfo(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			d := newDisk(t, 2048, 512)
			d.put(1, 0, order, &pdInfo{Sanity: pdMagic, Version: 1, Bytes: 512, Cyls: 100, Tracks: 16, Sectors: 63})
			v := vtocNew{Sanity: vtocSane, Version: 1, NParts: 16}
			copy(v.Volume[:], "unixware")
			v.Parts[0] = vtocPart{Tag: 2, Flags: 0x200, Start: 100, Size: 400}
			v.Parts[1] = vtocPart{Tag: 3, Flags: 0x201, Start: 500, Size: 100}
			v.Parts[4] = vtocPart{Tag: 0, Flags: 0, Start: 700, Size: 100}
			v.Parts[6] = vtocPart{Tag: 5, Start: 0, Size: 1000}
			d.put(1, pdInfoLen, order, &v)

			parts, ok := DecodeVTOC(d.source(), 0)
			require.True(t, ok)
			checkRecords(t, parts, 512, "vtoc")
			assert.Equal(t, []extent{{100, 400}, {500, 100}, {0, 1000}}, extents(parts))
			assert.Equal(t, "Root", parts[0].Type)
			assert.Equal(t, "valid", parts[0].Description)
			assert.Equal(t, "Swap", parts[1].Type)
			assert.Equal(t, "unmountable, valid", parts[1].Description)
			assert.Equal(t, "Whole disk", parts[2].Type)
			assert.Equal(t, "slice 6", parts[2].Name)
		})
	}
}

func TestVTOCOldLayoutByPointer(t *testing.T) {
	d := newDisk(t, 2048, 512)
	d.put(2, 0, binary.LittleEndian, &pdInfo{Sanity: pdMagic, Bytes: 512, VTOCPtr: 3*512 + 20})
	v := vtocOld{Sanity: vtocSane, Version: 1, SectorSize: 1024, NParts: 2}
	v.Parts[0] = vtocPart{Tag: 4, Start: 50, Size: 25}
	v.Parts[1] = vtocPart{Tag: 5, Start: 0, Size: 1000}
	d.put(3, 20, binary.LittleEndian, &v)

	parts, ok := DecodeVTOC(d.source(), 0)
	require.True(t, ok)
	assert.Equal(t, []extent{{100, 50}, {0, 2000}}, extents(parts))
	assert.Equal(t, "User", parts[0].Type)
}

func TestVTOCPDInfoWithoutTable(t *testing.T) {
	d := newDisk(t, 64, 512)
	d.put(1, 0, binary.LittleEndian, &pdInfo{Sanity: pdMagic})
	_, ok := DecodeVTOC(d.source(), 0)
	assert.False(t, ok)
}

func TestVTOCNone(t *testing.T) {
	d := newDisk(t, 64, 512)
	_, ok := DecodeVTOC(d.source(), 0)
	assert.False(t, ok)
}
