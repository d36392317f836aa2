package main

import (
	"fmt"
	"strings"

	tcell "github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"dskpart/partition"
	"dskpart/sector"
)

type tuiAction int

const (
	actionNone tuiAction = iota
	actionUp
	actionDown
	actionSelect
	actionBack
	actionQuit
)

// tuiState holds the browser state
type tuiState struct {
	path        string
	geo         sector.Geometry
	src         sector.Source
	found       []partition.Found
	selected    int
	showDetails bool
	preview     []byte
}

func newTUIState(img *image, found []partition.Found) *tuiState {
	return &tuiState{path: img.Path, geo: img.Geometry(), src: img, found: found}
}

func keyAction(ev *tcell.EventKey) tuiAction {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyEscape, tcell.KeyLeft:
		return actionBack
	case tcell.KeyUp:
		return actionUp
	case tcell.KeyDown:
		return actionDown
	case tcell.KeyRight, tcell.KeyEnter:
		return actionSelect
	}
	switch ev.Rune() {
	case 'q', 'Q':
		return actionQuit
	case 'b', 'B':
		return actionBack
	case 'k':
		return actionUp
	case 'j':
		return actionDown
	}
	return actionNone
}

// handle applies a to the state and reports whether the browser should exit.
func (s *tuiState) handle(a tuiAction) bool {
	switch a {
	case actionQuit:
		return true
	case actionBack:
		if !s.showDetails {
			return true
		}
		s.showDetails = false
		s.preview = nil
	case actionUp:
		if !s.showDetails && s.selected > 0 {
			s.selected--
		}
	case actionDown:
		if !s.showDetails && s.selected < len(s.found)-1 {
			s.selected++
		}
	case actionSelect:
		if len(s.found) > 0 {
			s.showDetails = true
			s.preview = s.firstBytes(s.found[s.selected].Partition, 64)
		}
	}
	return false
}

// firstBytes reads the start of p for the detail popup.
func (s *tuiState) firstBytes(p partition.Partition, n int) []byte {
	lba := p.Offset / uint64(s.geo.SectorSize)
	buf, err := s.src.ReadSector(lba)
	if err != nil {
		return nil
	}
	buf = buf[p.Offset%uint64(s.geo.SectorSize):]
	if len(buf) > n {
		buf = buf[:n]
	}
	return buf
}

// rowText formats one partition in the list, indented by nesting depth.
func rowText(i int, f partition.Found) string {
	name := f.Name
	if name == "" {
		name = "-"
	}
	return fmt.Sprintf("%s%2d: %-9s [%10d - %10d] %10s  %s  %s",
		strings.Repeat("  ", f.Depth), i, f.Scheme, f.Start, f.Length, formatBytes(f.Size), f.Type, name)
}

// detailLines is the content of the popup for f.
func detailLines(f partition.Found, preview []byte) []string {
	lines := []string{
		fmt.Sprintf("Scheme:      %s", f.Scheme),
		fmt.Sprintf("Sequence:    %d", f.Sequence),
		fmt.Sprintf("Type:        %s", f.Type),
		fmt.Sprintf("Name:        %s", f.Name),
		fmt.Sprintf("Start:       %d (byte %d)", f.Start, f.Offset),
		fmt.Sprintf("Length:      %d (%s)", f.Length, formatBytes(f.Size)),
		fmt.Sprintf("Depth:       %d", f.Depth),
	}
	if f.Description != "" {
		lines = append(lines, "Description: "+f.Description)
	}
	if len(preview) > 0 {
		var b strings.Builder
		_ = hexDump(&b, preview, f.Offset)
		lines = append(lines, "")
		lines = append(lines, strings.Split(strings.TrimRight(b.String(), "\n"), "\n")...)
	}
	return lines
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	for _, ch := range text {
		if x >= width {
			break
		}
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

func (s *tuiState) run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize screen")
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.
		Foreground(tcell.ColorWhite).
		Background(tcell.ColorBlack))
	screen.Clear()

	for {
		s.render(screen)
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			if s.handle(keyAction(ev)) {
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

func (s *tuiState) render(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()

	title := fmt.Sprintf("=== Partitions of %s ===", s.path)
	titleX := (width - len(title)) / 2
	if titleX < 0 {
		titleX = 0
	}
	drawText(screen, titleX, 0, width, title, tcell.StyleDefault.Bold(true))
	drawText(screen, 0, 2, width, " #: scheme    [     start -     length]       size  type  name", tcell.StyleDefault.Bold(true))
	drawText(screen, 0, 3, width, strings.Repeat("-", width), tcell.StyleDefault)

	// keep the selection on screen
	rows := height - 7
	first := 0
	if rows > 0 && s.selected >= rows {
		first = s.selected - rows + 1
	}
	y := 4
	for i := first; i < len(s.found) && y < height-3; i++ {
		style := tcell.StyleDefault
		if i == s.selected {
			style = style.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
		}
		drawText(screen, 0, y, width, rowText(i, s.found[i]), style)
		y++
	}

	statusY := height - 2
	for x := 0; x < width; x++ {
		screen.SetContent(x, statusY, ' ', nil, tcell.StyleDefault.Reverse(true))
	}
	left := s.geo.String()
	x := drawText(screen, 0, statusY, width, left, tcell.StyleDefault.Reverse(true))
	if len(s.found) > 0 {
		right := s.found[s.selected].Description
		rightX := width - len(right)
		if rightX <= x {
			rightX = x + 1
		}
		drawText(screen, rightX, statusY, width, right, tcell.StyleDefault.Reverse(true))
	}

	instructions := "↑↓: Navigate | Enter: Details | Esc/B: Back | Q/Ctrl+C: Quit"
	instX := (width - len(instructions)) / 2
	if instX < 0 {
		instX = 0
	}
	drawText(screen, instX, height-1, width, instructions, tcell.StyleDefault.Dim(true))

	if s.showDetails && len(s.found) > 0 {
		s.renderPopup(screen, width, height, detailLines(s.found[s.selected], s.preview))
	}
}

// renderPopup draws lines in a bordered box in the middle of the screen.
func (s *tuiState) renderPopup(screen tcell.Screen, width, height int, lines []string) {
	popupWidth := 4
	for _, l := range lines {
		if len(l)+4 > popupWidth {
			popupWidth = len(l) + 4
		}
	}
	popupHeight := len(lines) + 4
	if popupWidth > width {
		popupWidth = width
	}
	if popupHeight > height {
		popupHeight = height
	}
	popupX := (width - popupWidth) / 2
	popupY := (height - popupHeight) / 2

	border := tcell.StyleDefault.Bold(true)
	for y := popupY; y < popupY+popupHeight; y++ {
		for x := popupX; x < popupX+popupWidth; x++ {
			ch := ' '
			style := tcell.StyleDefault.Reverse(true)
			switch {
			case y == popupY && x == popupX:
				ch, style = '┌', border
			case y == popupY && x == popupX+popupWidth-1:
				ch, style = '┐', border
			case y == popupY+popupHeight-1 && x == popupX:
				ch, style = '└', border
			case y == popupY+popupHeight-1 && x == popupX+popupWidth-1:
				ch, style = '┘', border
			case y == popupY || y == popupY+popupHeight-1:
				ch, style = '─', border
			case x == popupX || x == popupX+popupWidth-1:
				ch, style = '│', border
			}
			screen.SetContent(x, y, ch, nil, style)
		}
	}
	for i, l := range lines {
		y := popupY + 2 + i
		if y >= popupY+popupHeight-1 {
			break
		}
		drawText(screen, popupX+2, y, popupX+popupWidth-1, l, tcell.StyleDefault.Reverse(true))
	}
}

func browseCmd(opts *globalOptions) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:     "browse IMAGE",
		Aliases: []string{"tui"},
		Short:   "browse the partitions of an image or device interactively",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := partition.Select(opts.cfg.Schemes)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("depth") {
				depth = opts.cfg.MaxDepth
			}
			img, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			found := partition.Scan(img, partition.ScanOptions{Schemes: list, MaxDepth: depth})
			if len(found) == 0 {
				return errors.Errorf("%s: no partition table recognized", args[0])
			}
			return newTUIState(img, found).run()
		},
	}
	cmd.Flags().IntVar(&depth, "depth", partition.DefaultMaxDepth, "Nesting limit")
	return cmd
}
