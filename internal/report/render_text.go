package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
)

// TextOptions controls plain-text rendering.
type TextOptions struct {
	Color bool
	// ShowHex appends the raw bytes of each row.
	ShowHex bool
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

// WriteRowsText writes the classified rows as an aligned table, one line per
// row. Rows at macro level are marked with "M".
func WriteRowsText(w io.Writer, rows []RowRecord, opts TextOptions) error {
	header := fmt.Sprintf("%-8s %-5s %-1s %-9s %-22s %-28s %s", "Offset", "Len", "L", "Dialect", "Type", "Sequence", "Description")
	if opts.Color {
		header = headerStyle.Render(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		level := " "
		if row.Level == rowtype.LevelMacro.String() {
			level = "M"
		}
		line := fmt.Sprintf("%08X %-5d %s %-9s %-22s %-28s %s",
			row.Offset, row.Length, level, row.Dialect, row.Type, clip(row.Sequence, 28), row.Description)
		if opts.ShowHex && row.Hex != "" {
			line += "  [" + row.Hex + "]"
		}
		if opts.Color {
			t, err := rowtype.Parse(row.Type)
			if err != nil {
				t = rowtype.Unknown
			}
			line = lipgloss.NewStyle().Foreground(t.Color()).Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return nil
}

// WriteStatsText writes the per-entry usage table.
func WriteStatsText(w io.Writer, records []StatRecord, opts TextOptions) error {
	header := fmt.Sprintf("%-9s %-18s %-14s %-40s %8s %8s %8s", "Dialect", "Kind", "Key", "Description", "Parent", "Macro", "Total")
	if opts.Color {
		header = headerStyle.Render(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	total := 0
	for _, s := range records {
		n := s.Parent + s.Macro
		total += n
		if _, err := fmt.Fprintf(w, "%-9s %-18s %-14s %-40s %8d %8d %8d\n",
			s.Dialect, s.Kind, clip(s.Key, 14), clip(s.Description, 40), s.Parent, s.Macro, n); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	footer := fmt.Sprintf("%d entries, %s matches", len(records), humanize.Comma(int64(total)))
	if opts.Color {
		footer = dimStyle.Render(footer)
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}

// WriteSummary writes a short human-readable summary of a pass.
func WriteSummary(w io.Writer, r *AnalysisReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Source:        %s\n", r.Source)
	fmt.Fprintf(&b, "Size:          %s (%s bytes)\n", humanize.IBytes(uint64(r.Bytes)), humanize.Comma(r.Bytes))
	fmt.Fprintf(&b, "Start dialect: %s\n", r.Start)
	fmt.Fprintf(&b, "Rows:          %s (%d warnings, %d errors)\n", humanize.Comma(int64(len(r.Rows))), r.Warnings, r.Errors)

	parts := make([]string, 0, len(r.Dialects))
	for _, name := range SortedDialects(r.Dialects) {
		parts = append(parts, fmt.Sprintf("%s %s", name, humanize.Comma(int64(r.Dialects[name]))))
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, "Dialects:      %s\n", strings.Join(parts, ", "))
	}
	if r.ElapsedMs > 0 {
		elapsed := time.Duration(r.ElapsedMs * float64(time.Millisecond))
		rate := float64(r.Bytes) / elapsed.Seconds()
		fmt.Fprintf(&b, "Elapsed:       %s (%s/s)\n", elapsed.Round(time.Microsecond), humanize.IBytes(uint64(rate)))
	}
	if r.Truncated {
		b.WriteString("Output truncated at the row limit\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func clip(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-1 {
		r = r[:n-1]
	}
	return string(r) + "~"
}
