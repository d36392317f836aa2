package main

import (
	"testing"

	tcell "github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dskpart/partition"
)

func browseState(t *testing.T) *tuiState {
	img, err := openImage(writeImage(t, "disk.img", mbrImage()), imageOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { img.Close() })
	found := partition.Scan(img, partition.ScanOptions{})
	require.Len(t, found, 2)
	return newTUIState(img, found)
}

func TestKeyAction(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		ch   rune
		want tuiAction
	}{
		{tcell.KeyUp, 0, actionUp},
		{tcell.KeyRune, 'j', actionDown},
		{tcell.KeyEnter, 0, actionSelect},
		{tcell.KeyEscape, 0, actionBack},
		{tcell.KeyRune, 'q', actionQuit},
		{tcell.KeyCtrlC, 0, actionQuit},
		{tcell.KeyRune, 'x', actionNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, keyAction(tcell.NewEventKey(c.key, c.ch, tcell.ModNone)), "%v %q", c.key, c.ch)
	}
}

func TestTUINavigation(t *testing.T) {
	s := browseState(t)

	assert.False(t, s.handle(actionUp))
	assert.Equal(t, 0, s.selected)
	s.handle(actionDown)
	s.handle(actionDown)
	assert.Equal(t, 1, s.selected)

	s.handle(actionUp)
	assert.False(t, s.handle(actionSelect))
	assert.True(t, s.showDetails)
	assert.Equal(t, []byte("LINUX PARTITION"), s.preview[:15])

	// movement is ignored while the popup is open
	s.handle(actionDown)
	assert.Equal(t, 0, s.selected)

	assert.False(t, s.handle(actionBack))
	assert.False(t, s.showDetails)
	assert.Nil(t, s.preview)
	assert.True(t, s.handle(actionBack))
	assert.True(t, s.handle(actionQuit))
}

func TestTUIText(t *testing.T) {
	s := browseState(t)
	f := s.found[0]

	row := rowText(0, f)
	assert.Contains(t, row, "mbr")
	assert.Contains(t, row, "512.00 KB")
	assert.Contains(t, row, "Linux")

	lines := detailLines(f, s.firstBytes(f.Partition, 16))
	assert.Contains(t, lines, "Start:       2048 (byte 1048576)")
	assert.Contains(t, lines, "Description: Partition is bootable")
	assert.Equal(t, "00100000  4C 49 4E 55 58 20 50 41  52 54 49 54 49 4F 4E 00   |LINUX PARTITION.|", lines[len(lines)-1])

	f.Depth = 1
	f.Name = ""
	assert.Contains(t, rowText(3, f), "   3: mbr")
	assert.Contains(t, rowText(3, f), "  0x83  -")
}
