package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SectionBox renders a box whose top border carries the title.
//
//	╭─ STATISTICS ─────────────╮
//	│  content                 │
//	╰──────────────────────────╯
func SectionBox(title, content string, width int, s Styles) string {
	width = max(width, 20)
	titleText := " " + title + " "
	rest := max(width-4-lipgloss.Width(titleText), 0)

	box := lipgloss.NewStyle().
		Border(lipgloss.Border{
			Bottom:      "─",
			Left:        "│",
			Right:       "│",
			BottomLeft:  "╰",
			BottomRight: "╯",
		}, false, true, true, true).
		BorderForeground(s.theme.Border).
		Width(width-2).
		Padding(0, 1)

	top := s.Muted.Render("╭─") + s.Header.Render(titleText) + s.Muted.Render(strings.Repeat("─", rest)+"╮")
	return top + "\n" + box.Render(content)
}

// KeyHint is one footer shortcut.
type KeyHint struct {
	Key   string
	Label string
}

// KeyHints renders shortcuts as "[key] label" pairs.
func KeyHints(hints []KeyHint, s Styles) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, s.KeyBinding.Render("["+h.Key+"]")+" "+s.KeyHint.Render(h.Label))
	}
	return strings.Join(parts, "  ")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncateString cuts s to max display cells, marking the cut with "~".
func truncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) >= max {
		r = r[:max-1]
	}
	return string(r) + "~"
}
