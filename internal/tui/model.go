package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/tturner/pclscope/internal/pstream/classify"
	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/stats"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

const topEntries = 12

// Model is the row grid viewer.
type Model struct {
	source string
	res    *classify.Result
	top    []stats.Entry

	styles Styles
	layout Layout

	// visible holds indices into res.Rows that pass the filters.
	visible []int
	cursor  int
	offset  int

	filter       string
	filterInput  string
	filtering    bool
	dialect      tags.Dialect
	messagesOnly bool

	showStats bool
	showHex   bool
	status    string
}

// NewModel builds a viewer over a classification result. agg may be nil.
func NewModel(source string, res *classify.Result, agg *stats.Aggregator) *Model {
	m := &Model{
		source:    source,
		res:       res,
		styles:    DefaultStyles,
		showStats: agg != nil,
	}
	if agg != nil {
		m.top = agg.Top(topEntries)
	}
	m.layout = NewLayout(DefaultWidth, DefaultHeight, m.showStats)
	m.applyFilters()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height, m.showStats)
		m.scrollToCursor()
		return m, nil
	case clipboardMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Copied %d characters", len(msg.content))
		}
		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput = m.filter
	case tea.KeyEnter:
		m.filtering = false
		m.filter = strings.TrimSpace(m.filterInput)
		m.applyFilters()
	case tea.KeyBackspace:
		if r := []rune(m.filterInput); len(r) > 0 {
			m.filterInput = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filterInput += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	page := m.pageRows()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup", "b":
		m.moveCursor(-page)
	case "pgdown", "f", " ":
		m.moveCursor(page)
	case "home", "g":
		m.moveCursor(-len(m.visible))
	case "end", "G":
		m.moveCursor(len(m.visible))
	case "/":
		m.filtering = true
		m.filterInput = m.filter
	case "d":
		m.cycleDialect()
	case "m":
		m.messagesOnly = !m.messagesOnly
		m.applyFilters()
	case "n":
		m.jumpMessage(1)
	case "N":
		m.jumpMessage(-1)
	case "s":
		m.showStats = !m.showStats
		m.layout = NewLayout(m.layout.Width, m.layout.Height, m.showStats)
		m.scrollToCursor()
	case "x":
		m.showHex = !m.showHex
	case "c":
		if row, ok := m.Selected(); ok {
			return m, copyToClipboard(rowText(row))
		}
	}
	return m, nil
}

// Selected returns the row under the cursor.
func (m *Model) Selected() (classify.Row, bool) {
	if len(m.visible) == 0 {
		return classify.Row{}, false
	}
	return m.res.Rows[m.visible[m.cursor]], true
}

func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	m.scrollToCursor()
}

// pageRows is the number of data rows under the grid header.
func (m *Model) pageRows() int {
	return max(m.layout.GridHeight-1, 1)
}

func (m *Model) scrollToCursor() {
	h := m.pageRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(m.offset, 0)
}

// jumpMessage moves to the next or previous warning or error row.
func (m *Model) jumpMessage(dir int) {
	for i := m.cursor + dir; i >= 0 && i < len(m.visible); i += dir {
		t := m.res.Rows[m.visible[i]].Type
		if t == rowtype.MsgWarning || t == rowtype.MsgError {
			m.cursor = i
			m.scrollToCursor()
			return
		}
	}
	m.status = "No more warnings or errors"
}

// cycleDialect steps the dialect filter through "all" and each dialect
// present in the result.
func (m *Model) cycleDialect() {
	options := []tags.Dialect{tags.DialectUnknown}
	for _, d := range tags.Dialects() {
		if m.res.Dialects[d] > 0 {
			options = append(options, d)
		}
	}
	next := 0
	for i, d := range options {
		if d == m.dialect {
			next = (i + 1) % len(options)
			break
		}
	}
	m.dialect = options[next]
	m.applyFilters()
}

// applyFilters rebuilds the visible list, keeping the cursor on the same
// row when it survives.
func (m *Model) applyFilters() {
	current := -1
	if len(m.visible) > 0 {
		current = m.visible[m.cursor]
	}
	needle := strings.ToLower(m.filter)
	m.visible = m.visible[:0]
	m.cursor = 0
	for i := range m.res.Rows {
		row := &m.res.Rows[i]
		if m.dialect != tags.DialectUnknown && row.Dialect != m.dialect {
			continue
		}
		if m.messagesOnly && row.Type != rowtype.MsgWarning && row.Type != rowtype.MsgError {
			continue
		}
		if needle != "" && !rowMatches(row, needle) {
			continue
		}
		if i <= current {
			m.cursor = len(m.visible)
		}
		m.visible = append(m.visible, i)
	}
	m.offset = 0
	m.scrollToCursor()
}

func rowMatches(row *classify.Row, needle string) bool {
	return strings.Contains(strings.ToLower(row.Sequence), needle) ||
		strings.Contains(strings.ToLower(row.Description), needle) ||
		strings.Contains(strings.ToLower(row.Type.Name()), needle)
}

// rowText is the tab-separated form placed on the clipboard.
func rowText(row classify.Row) string {
	return strings.Join([]string{
		row.OffsetString(),
		row.Dialect.String(),
		row.Type.Name(),
		row.Sequence,
		row.Description,
		row.Hex(0),
	}, "\t")
}

// View implements tea.Model.
func (m *Model) View() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	grid := m.renderGrid()
	if m.layout.StatsWidth > 0 {
		grid = JoinHorizontal(1, grid, m.renderStats())
	}
	b.WriteString(grid)
	b.WriteString("\n")
	b.WriteString(m.renderDetail())
	b.WriteString("\n")

	switch {
	case m.filtering:
		b.WriteString(s.Input.Render("/" + m.filterInput + "█"))
	case m.status != "":
		b.WriteString(s.Warning.Render(m.status))
	default:
		b.WriteString(KeyHints([]KeyHint{
			{"↑↓", "move"}, {"/", "filter"}, {"d", "dialect"}, {"m", "messages"},
			{"n/N", "next/prev error"}, {"x", "hex"}, {"s", "stats"}, {"c", "copy"}, {"q", "quit"},
		}, s))
	}
	return b.String()
}

func (m *Model) renderHeader() string {
	s := m.styles
	parts := []string{
		s.Title.Render("pclscope"),
		s.Bold.Render(m.source),
		s.Dim.Render(humanize.IBytes(uint64(m.res.Bytes))),
		s.Dim.Render(fmt.Sprintf("%s/%s rows", humanize.Comma(int64(len(m.visible))), humanize.Comma(int64(len(m.res.Rows))))),
	}
	if m.res.Warnings > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d warnings", m.res.Warnings)))
	}
	if m.res.Errors > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d errors", m.res.Errors)))
	}
	if m.dialect != tags.DialectUnknown {
		parts = append(parts, s.Header.Render("dialect:"+m.dialect.String()))
	}
	if m.messagesOnly {
		parts = append(parts, s.Header.Render("messages only"))
	}
	if m.filter != "" {
		parts = append(parts, s.Header.Render(fmt.Sprintf("filter:%q", m.filter)))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderGrid() string {
	s := m.styles
	w := m.layout.GridWidth
	lines := make([]string, 0, m.layout.GridHeight+1)
	lines = append(lines, s.Header.Render(truncateString(
		fmt.Sprintf("%-8s %-1s %-9s %-22s %-24s %s", "Offset", "L", "Dialect", "Type", "Sequence", "Description"), w)))

	if len(m.visible) == 0 {
		lines = append(lines, s.Dim.Render("No rows match"))
	}
	end := min(m.offset+m.pageRows(), len(m.visible))
	for i := m.offset; i < end; i++ {
		row := m.res.Rows[m.visible[i]]
		level := " "
		if row.Level == rowtype.LevelMacro {
			level = "M"
		}
		line := truncateString(fmt.Sprintf("%08X %s %-9s %-22s %-24s %s",
			row.Offset, level, row.Dialect, truncateString(row.Type.Name(), 22),
			truncateString(row.Sequence, 24), row.Description), w)
		if i == m.cursor {
			lines = append(lines, s.Cursor.Render(padRight(line, w)))
		} else {
			lines = append(lines, s.Row(row.Type).Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderDetail() string {
	s := m.styles
	row, ok := m.Selected()
	if !ok {
		return ""
	}
	var text string
	switch {
	case m.showHex:
		text = fmt.Sprintf("%d bytes: %s", row.Length, row.Hex(m.layout.Width/2-8))
	case row.Descriptor != nil:
		d := row.Descriptor
		text = fmt.Sprintf("%s  %s/%s", d.Display(), d.Key.Dialect, d.Key.Kind)
		if names := d.Flags.Names(); len(names) > 0 {
			text += "  [" + strings.Join(names, ",") + "]"
		}
		if d.Action != tags.ActionNone {
			text += "  action=" + d.Action.String()
		}
	default:
		text = row.Type.Name()
	}
	return s.Dim.Render(truncateString(text, m.layout.Width))
}

func (m *Model) renderStats() string {
	s := m.styles
	var b strings.Builder
	for _, d := range tags.Dialects() {
		if n := m.res.Dialects[d]; n > 0 {
			fmt.Fprintf(&b, "%-10s %8s\n", d, humanize.Comma(int64(n)))
		}
	}
	if len(m.top) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Header.Render("Most used"))
		b.WriteString("\n")
		width := max(m.layout.StatsWidth-14, 8)
		for _, e := range m.top {
			fmt.Fprintf(&b, "%-*s %6d\n", width, truncateString(e.Descriptor.Display(), width), e.Total())
		}
	}
	return SectionBox("STATISTICS", strings.TrimRight(b.String(), "\n"), m.layout.StatsWidth, s)
}
