package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultWidth  = 120
	DefaultHeight = 40
	MinWidth      = 60
	MinHeight     = 12

	// chrome is the header, column header, detail and footer lines.
	chrome = 6
)

// Layout holds sizes for the current terminal.
type Layout struct {
	Width  int
	Height int

	GridWidth  int
	GridHeight int
	StatsWidth int
}

// NewLayout computes the grid and stats pane sizes. The stats pane takes a
// third of the width when shown and the terminal is wide enough.
func NewLayout(width, height int, showStats bool) Layout {
	width = max(width, MinWidth)
	height = max(height, MinHeight)
	l := Layout{Width: width, Height: height, GridWidth: width}
	if showStats && width >= 100 {
		l.StatsWidth = width / 3
		l.GridWidth = width - l.StatsWidth - 1
	}
	l.GridHeight = height - chrome
	return l
}

// JoinHorizontal places blocks side by side, padding each to its widest line.
func JoinHorizontal(gap int, parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	partLines := make([][]string, len(parts))
	widths := make([]int, len(parts))
	maxLines := 0
	for i, p := range parts {
		partLines[i] = strings.Split(p, "\n")
		maxLines = max(maxLines, len(partLines[i]))
		for _, line := range partLines[i] {
			widths[i] = max(widths[i], lipgloss.Width(line))
		}
	}

	spacer := strings.Repeat(" ", gap)
	var out strings.Builder
	for n := 0; n < maxLines; n++ {
		for i, lines := range partLines {
			line := ""
			if n < len(lines) {
				line = lines[n]
			}
			out.WriteString(padRight(line, widths[i]))
			if i < len(parts)-1 {
				out.WriteString(spacer)
			}
		}
		if n < maxLines-1 {
			out.WriteString("\n")
		}
	}
	return out.String()
}
