package partition

import (
	"encoding/binary"
	"testing"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dskpart/sector"
)

var le = binary.LittleEndian

func entry(status, typ byte, start, length uint32) mbrEntry {
	return mbrEntry{Status: status, Type: typ, LBAStart: start, LBASectors: length}
}

// table writes a partition table with the given entries at base and the
// terminal signature.
func (d *disk) table(lba uint64, base int, entries ...mbrEntry) {
	for i, e := range entries {
		d.put(lba, base+i*entrySize, le, &e)
	}
	d.put16(lba, 510, le, mbrMagic)
}

func TestMBREmptyTable(t *testing.T) {
	d := newDisk(t, 64, 512)
	d.table(0, mbrTableOffset)
	parts, ok := DecodeMBR(d.source(), 0)
	assert.False(t, ok)
	assert.Empty(t, parts)
}

func TestMBRNoSignature(t *testing.T) {
	d := newDisk(t, 64, 512)
	d.put(0, mbrTableOffset, le, &mbrEntry{Type: 0x83, LBAStart: 1, LBASectors: 10})
	_, ok := DecodeMBR(d.source(), 0)
	assert.False(t, ok)
}

func TestMBRPrimaries(t *testing.T) {
	d := newDisk(t, 8192, 512)
	d.table(0, mbrTableOffset,
		entry(0x80, 0x83, 2048, 4096),
		entry(0x00, 0x07, 6144, 1000),
		entry(0x00, 0x00, 0, 0),
		entry(0x00, 0x0C, 7144, 1048),
	)
	parts, ok := DecodeMBR(d.source(), 0)
	require.True(t, ok)
	checkRecords(t, parts, 512, "mbr")

	require.Len(t, parts, 3)
	assert.Equal(t, []extent{{2048, 4096}, {6144, 1000}, {7144, 1048}}, extents(parts))
	assert.Equal(t, "0x83", parts[0].Type)
	assert.Equal(t, "Linux", parts[0].Name)
	assert.Equal(t, "Partition is bootable", parts[0].Description)
	assert.Equal(t, "0x07", parts[1].Type)
	assert.Equal(t, "0x0C", parts[2].Type)
	assert.Equal(t, uint64(2048*512), parts[0].Offset)
}

func TestMBRRejectsBadStatus(t *testing.T) {
	d := newDisk(t, 64, 512)
	d.table(0, mbrTableOffset, entry(0x80, 0x83, 1, 10), entry(0x29, 0x83, 20, 10))
	parts, ok := DecodeMBR(d.source(), 0)
	assert.False(t, ok)
	assert.Empty(t, parts)
}

func TestMBRExtendedChain(t *testing.T) {
	d := newDisk(t, 1024, 512)
	d.table(0, mbrTableOffset, entry(0, 0x83, 1, 50), entry(0, 0x0F, 100, 400))
	// links are relative to the first EBR, data entries to their own EBR
	d.table(100, mbrTableOffset, entry(0, 0x83, 10, 20), entry(0, 0x05, 50, 60))
	d.table(150, mbrTableOffset, entry(0, 0x82, 5, 10), entry(0, 0x05, 100, 60))
	d.table(200, mbrTableOffset, entry(0, 0x07, 1, 5))

	parts, ok := DecodeMBR(d.source(), 0)
	require.True(t, ok)
	checkRecords(t, parts, 512, "mbr")
	assert.Equal(t, []extent{{1, 50}, {110, 20}, {155, 10}, {201, 5}}, extents(parts))
	assert.Equal(t, []string{"0x83", "0x83", "0x82", "0x07"}, []string{parts[0].Type, parts[1].Type, parts[2].Type, parts[3].Type})
}

func TestMBRExtendedChainCycle(t *testing.T) {
	d := newDisk(t, 1024, 512)
	d.table(0, mbrTableOffset, entry(0, 0x05, 100, 400))
	d.table(100, mbrTableOffset, entry(0, 0x83, 10, 20), entry(0, 0x05, 50, 60))
	// points back at the first EBR
	d.table(150, mbrTableOffset, entry(0, 0x83, 5, 10), entry(0, 0x05, 0, 1))

	parts, ok := DecodeMBR(d.source(), 0)
	require.True(t, ok)
	assert.Equal(t, []extent{{110, 20}, {155, 10}}, extents(parts))
}

func TestMBRExtendedChainEndsAtDevice(t *testing.T) {
	d := newDisk(t, 16, 512)
	d.table(0, mbrTableOffset, entry(0, 0x05, 1, 15))
	for lba := uint64(1); lba < 16; lba++ {
		d.table(lba, mbrTableOffset, entry(0, 0x83, 0, 0), entry(0, 0x05, uint32(lba), 1))
	}
	parts, ok := DecodeMBR(d.source(), 0)
	assert.False(t, ok)
	assert.Empty(t, parts)
}

func TestMBRChainStopsAtBadSignature(t *testing.T) {
	d := newDisk(t, 1024, 512)
	d.table(0, mbrTableOffset, entry(0, 0x05, 100, 400))
	d.table(100, mbrTableOffset, entry(0, 0x83, 10, 20), entry(0, 0x05, 50, 60))
	d.put(150, mbrTableOffset, le, &mbrEntry{Type: 0x83, LBAStart: 5, LBASectors: 10})

	parts, ok := DecodeMBR(d.source(), 0)
	require.True(t, ok)
	assert.Equal(t, []extent{{110, 20}}, extents(parts))
}

func TestMBRDefersToGPT(t *testing.T) {
	d := newDisk(t, 64, 512)
	d.table(0, mbrTableOffset, entry(0, 0xEE, 1, 63))
	le.PutUint64(d.at(1, 0), gptSignature)
	_, ok := DecodeMBR(d.source(), 0)
	assert.False(t, ok)
}

func TestMBRVendorLayouts(t *testing.T) {
	t.Run("NEC", func(t *testing.T) {
		d := newDisk(t, 256, 512)
		d.put16(0, 0x17C, le, necMagic)
		entries := make([]mbrEntry, 8)
		entries[5] = entry(0, 0x01, 10, 20)
		entries[7] = entry(0, 0x06, 40, 20)
		d.table(0, necTableOffset, entries...)
		parts, ok := DecodeMBR(d.source(), 0)
		require.True(t, ok)
		assert.Equal(t, []extent{{10, 20}, {40, 20}}, extents(parts))
	})
	t.Run("Ontrack", func(t *testing.T) {
		d := newDisk(t, 256, 512)
		d.put16(0, 0xFC, le, dmMagic)
		entries := make([]mbrEntry, 16)
		entries[0] = entry(0, 0x54, 63, 100)
		entries[12] = entry(0, 0x06, 163, 50)
		d.table(0, dmTableOffset, entries...)
		parts, ok := DecodeMBR(d.source(), 0)
		require.True(t, ok)
		assert.Equal(t, []extent{{63, 100}, {163, 50}}, extents(parts))
		assert.Equal(t, "0x54", parts[0].Type)
	})
}

func TestMBRCHSFallback(t *testing.T) {
	d := newDisk(t, 4096, 512)
	e := mbrEntry{Type: 0x06, StartCHS: [3]byte{1, 1, 0}, EndCHS: [3]byte{15, 63, 1}}
	d.table(0, mbrTableOffset, e)
	parts, ok := DecodeMBR(d.source(), 0)
	require.True(t, ok)
	// 0/1/1 .. 1/15/63 with 16 heads and 63 sectors per track
	assert.Equal(t, []extent{{63, 1953}}, extents(parts))
}

func TestMBRLBAWinsOverCHS(t *testing.T) {
	d := newDisk(t, 4096, 512)
	e := mbrEntry{Type: 0x06, StartCHS: [3]byte{1, 1, 0}, EndCHS: [3]byte{15, 63, 1}, LBAStart: 100, LBASectors: 200}
	d.table(0, mbrTableOffset, e)
	hook := logtest.NewGlobal()
	defer hook.Reset()
	defer log.SetLevel(log.GetLevel())
	log.SetLevel(log.DebugLevel)

	parts, ok := DecodeMBR(d.source(), 0)
	require.True(t, ok)
	assert.Equal(t, []extent{{100, 200}}, extents(parts))

	var msgs []string
	for _, e := range hook.AllEntries() {
		msgs = append(msgs, e.Message)
	}
	assert.Contains(t, msgs, "CHS start 0/1/1 disagrees with LBA 100 (0/1/38), using LBA")
}

func TestMBROptical(t *testing.T) {
	d := newDisk(t, 512, 2048)
	d.geo.Media = sector.MediaOptical
	d.table(0, mbrTableOffset, entry(0, 0x83, 400, 800))
	parts, ok := DecodeMBR(d.source(), 0)
	require.True(t, ok)
	checkRecords(t, parts, 2048, "mbr")
	assert.Equal(t, []extent{{100, 200}}, extents(parts))
}

func TestMBRMinixSubpartitions(t *testing.T) {
	d := newDisk(t, 1024, 512)
	d.table(0, mbrTableOffset, entry(0, 0x81, 100, 200), entry(0, 0x83, 400, 100))
	d.table(100, mbrTableOffset, entry(0, 0x81, 110, 10), entry(0, 0x81, 130, 20))

	parts, ok := DecodeMBR(d.source(), 0)
	require.True(t, ok)
	assert.Equal(t, []extent{{110, 10}, {130, 20}, {400, 100}}, extents(parts))
	assert.Equal(t, "MINIX subpartition", parts[0].Description)
}

func TestMBRMinixWithoutTable(t *testing.T) {
	d := newDisk(t, 1024, 512)
	d.table(0, mbrTableOffset, entry(0, 0x81, 100, 200))
	parts, ok := DecodeMBR(d.source(), 0)
	require.True(t, ok)
	assert.Equal(t, []extent{{100, 200}}, extents(parts))
}

func TestMBRClipsToDevice(t *testing.T) {
	d := newDisk(t, 100, 512)
	d.table(0, mbrTableOffset, entry(0, 0x83, 50, 100), entry(0, 0x83, 200, 10))
	parts, ok := DecodeMBR(d.source(), 0)
	require.True(t, ok)
	assert.Equal(t, []extent{{50, 50}}, extents(parts))
}

func TestMBRAtOffset(t *testing.T) {
	d := newDisk(t, 1024, 512)
	d.table(64, mbrTableOffset, entry(0, 0xA5, 10, 100))
	parts, ok := DecodeMBR(d.source(), 64)
	require.True(t, ok)
	assert.Equal(t, []extent{{74, 100}}, extents(parts))
}

func TestMBRUnreadable(t *testing.T) {
	d := newDisk(t, 1, 512)
	_, ok := DecodeMBR(d.source(), 5)
	assert.False(t, ok)
}
