package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tturner/pclscope/internal/pstream/classify"
	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/stats"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

func testResult() *classify.Result {
	rows := []classify.Row{
		{Offset: 0, Length: 9, Dialect: tags.DialectPJL, Type: rowtype.PJLCommand, Sequence: "<Esc>%-12345X", Description: "Universal exit language", Raw: []byte("\x1b%-12345X")},
		{Offset: 9, Length: 23, Dialect: tags.DialectPJL, Type: rowtype.PJLCommand, Sequence: "@PJL ENTER LANGUAGE", Description: "Enter language: PCL"},
		{Offset: 32, Length: 2, Dialect: tags.DialectPCL, Type: rowtype.PCLSimpleSeq, Sequence: "<Esc>E", Description: "Printer reset", Raw: []byte{0x1b, 'E'}},
		{Offset: 34, Length: 5, Dialect: tags.DialectPCL, Type: rowtype.PCLComplexSeq, Sequence: "<Esc>&l1O", Description: "Orientation: Landscape"},
		{Offset: 39, Length: 1, Dialect: tags.DialectPCL, Type: rowtype.MsgWarning, Description: "Truncated escape sequence at end of data"},
		{Offset: 40, Length: 5, Dialect: tags.DialectPCL, Type: rowtype.Text, Sequence: "Hello", Description: "Text, 5 bytes"},
		{Offset: 45, Length: 1, Dialect: tags.DialectPCL, Type: rowtype.MsgError, Sequence: "0x80", Description: "Unprocessed byte"},
	}
	return &classify.Result{
		Rows:     rows,
		Bytes:    46,
		Start:    tags.DialectPJL,
		Dialects: map[tags.Dialect]int{tags.DialectPJL: 2, tags.DialectPCL: 3},
		Warnings: 1,
		Errors:   1,
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel("job.prn", testResult(), nil)
	if len(m.visible) != 7 {
		t.Fatalf("visible = %d, want 7", len(m.visible))
	}
	if m.showStats {
		t.Error("stats pane should be off without an aggregator")
	}
	row, ok := m.Selected()
	if !ok || row.Offset != 0 {
		t.Errorf("Selected = %+v, %v", row, ok)
	}
}

func TestCursorMovement(t *testing.T) {
	m := NewModel("job.prn", testResult(), nil)
	send(m, "down", "j")
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
	send(m, "k")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	send(m, "end")
	if m.cursor != 6 {
		t.Errorf("cursor = %d, want 6", m.cursor)
	}
	send(m, "j")
	if m.cursor != 6 {
		t.Errorf("cursor moved past the end: %d", m.cursor)
	}
	send(m, "g")
	if m.cursor != 0 {
		t.Errorf("cursor = %d after home", m.cursor)
	}
}

func TestScrollFollowsCursor(t *testing.T) {
	m := NewModel("job.prn", testResult(), nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: MinHeight})
	send(m, "end")
	if m.offset == 0 || m.cursor < m.offset || m.cursor >= m.offset+m.pageRows() {
		t.Errorf("cursor %d not inside window at %d (rows %d)", m.cursor, m.offset, m.pageRows())
	}
}

func TestTextFilter(t *testing.T) {
	m := NewModel("job.prn", testResult(), nil)
	send(m, "/", "o", "r", "i", "enter")
	if m.filter != "ori" {
		t.Fatalf("filter = %q", m.filter)
	}
	if len(m.visible) != 1 {
		t.Fatalf("visible = %d, want 1", len(m.visible))
	}
	row, _ := m.Selected()
	if row.Sequence != "<Esc>&l1O" {
		t.Errorf("selected %q", row.Sequence)
	}

	send(m, "/", "backspace", "backspace", "backspace", "enter")
	if m.filter != "" || len(m.visible) != 7 {
		t.Errorf("clearing filter left %q with %d rows", m.filter, len(m.visible))
	}
	if row, _ := m.Selected(); row.Offset != 34 {
		t.Errorf("cursor did not stay on the filtered row, at %d", row.Offset)
	}
}

func TestFilterEscapeKeepsPrevious(t *testing.T) {
	m := NewModel("job.prn", testResult(), nil)
	send(m, "/", "x", "y", "esc")
	if m.filtering || m.filter != "" || len(m.visible) != 7 {
		t.Errorf("esc should cancel: filtering=%v filter=%q visible=%d", m.filtering, m.filter, len(m.visible))
	}
}

func TestQuitNotTriggeredWhileFiltering(t *testing.T) {
	m := NewModel("job.prn", testResult(), nil)
	send(m, "/")
	_, cmd := m.Update(key("q"))
	if cmd != nil {
		t.Error("q while filtering should be typed, not quit")
	}
	if m.filterInput != "q" {
		t.Errorf("filterInput = %q", m.filterInput)
	}
}

func TestDialectCycle(t *testing.T) {
	m := NewModel("job.prn", testResult(), nil)
	send(m, "d")
	if m.dialect != tags.DialectPCL {
		t.Fatalf("dialect = %v, want PCL", m.dialect)
	}
	if len(m.visible) != 5 {
		t.Errorf("PCL rows = %d, want 5", len(m.visible))
	}
	send(m, "d")
	if m.dialect != tags.DialectPJL || len(m.visible) != 2 {
		t.Errorf("dialect = %v with %d rows", m.dialect, len(m.visible))
	}
	send(m, "d")
	if m.dialect != tags.DialectUnknown || len(m.visible) != 7 {
		t.Errorf("expected all rows again, got %v with %d", m.dialect, len(m.visible))
	}
}

func TestMessagesOnlyAndJump(t *testing.T) {
	m := NewModel("job.prn", testResult(), nil)
	send(m, "n")
	if row, _ := m.Selected(); row.Type != rowtype.MsgWarning {
		t.Errorf("n selected %v", row.Type)
	}
	send(m, "n")
	if row, _ := m.Selected(); row.Type != rowtype.MsgError {
		t.Errorf("second n selected %v", row.Type)
	}
	send(m, "n")
	if m.status == "" {
		t.Error("expected a status when no further messages")
	}
	send(m, "N")
	if row, _ := m.Selected(); row.Type != rowtype.MsgWarning {
		t.Errorf("N selected %v", row.Type)
	}

	send(m, "m")
	if len(m.visible) != 2 {
		t.Errorf("messages only = %d rows, want 2", len(m.visible))
	}
}

func TestCopySelectedRow(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	defer func() { writeClipboard = orig }()

	m := NewModel("job.prn", testResult(), nil)
	send(m, "j", "j")
	_, cmd := m.Update(key("c"))
	if cmd == nil {
		t.Fatal("expected a copy command")
	}
	m.Update(cmd())
	want := "00000020\tPCL\tPCL simple sequence\t<Esc>E\tPrinter reset\t1b45"
	if copied != want {
		t.Errorf("copied %q, want %q", copied, want)
	}
	if !strings.HasPrefix(m.status, "Copied") {
		t.Errorf("status = %q", m.status)
	}
}

func TestCopyFailureReported(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no display") }
	defer func() { writeClipboard = orig }()

	m := NewModel("job.prn", testResult(), nil)
	_, cmd := m.Update(key("c"))
	m.Update(cmd())
	if !strings.Contains(m.status, "no display") {
		t.Errorf("status = %q", m.status)
	}
}

func TestViewRendersRowsAndStats(t *testing.T) {
	agg := stats.New()
	d, _ := tags.Default().LookupSimple('E')
	agg.Record(d, rowtype.LevelParent)
	agg.Record(d, rowtype.LevelMacro)

	m := NewModel("job.prn", testResult(), agg)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	if m.layout.StatsWidth == 0 {
		t.Fatal("stats pane should be shown on a wide terminal")
	}
	out := m.View()
	for _, want := range []string{"job.prn", "Orientation: Landscape", "STATISTICS", "Most used", "1 warnings", "1 errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	send(m, "s")
	if m.layout.StatsWidth != 0 {
		t.Error("s should hide the stats pane")
	}
}

func TestViewHexDetail(t *testing.T) {
	m := NewModel("job.prn", testResult(), nil)
	send(m, "x")
	if !strings.Contains(m.View(), "1b252d3132333435") {
		t.Error("hex detail missing")
	}
}

func TestViewEmptyFilter(t *testing.T) {
	m := NewModel("job.prn", testResult(), nil)
	send(m, "/", "z", "z", "z", "enter")
	if _, ok := m.Selected(); ok {
		t.Error("no row should be selected")
	}
	if !strings.Contains(m.View(), "No rows match") {
		t.Error("expected empty-state text")
	}
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(30, 5, true)
	if l.Width != MinWidth || l.Height != MinHeight || l.StatsWidth != 0 {
		t.Errorf("small layout = %+v", l)
	}
	l = NewLayout(150, 40, true)
	if l.StatsWidth != 50 || l.GridWidth != 99 || l.GridHeight != 40-chrome {
		t.Errorf("wide layout = %+v", l)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 6, "hello~"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "job.prn")
	if err := os.WriteFile(file, []byte("\x1bE"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := validateFile(file); err != nil {
		t.Errorf("existing file: %v", err)
	}
	if err := validateFile(""); err == nil {
		t.Error("empty path should fail")
	}
	if err := validateFile(dir); err == nil {
		t.Error("directory should fail")
	}
	if err := validateFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestSendTitle(t *testing.T) {
	req := &SendRequest{Printer: "lab", Address: "10.0.0.5:9100"}
	if got := sendTitle(req, false); got != "Send to lab (10.0.0.5:9100)?" {
		t.Errorf("title = %q", got)
	}
	if got := sendTitle(req, true); !strings.Contains(got, "selected") {
		t.Errorf("title = %q", got)
	}
	if buildSendForm(req, []string{"lab", "office"}, new(bool)) == nil {
		t.Error("form is nil")
	}
	open := &OpenRequest{}
	if buildOpenForm(open) == nil || open.Dialect != "auto" {
		t.Errorf("open form default dialect = %q", open.Dialect)
	}
}
