package report

import (
	"sort"

	"github.com/tturner/pclscope/internal/pstream/classify"
	"github.com/tturner/pclscope/internal/pstream/stats"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

// AnalysisReport is the serialisable form of one classification pass.
type AnalysisReport struct {
	GeneratedAt string         `json:"generated_at"`
	Version     string         `json:"pclscope_version,omitempty"`
	Source      string         `json:"source"`
	Bytes       int64          `json:"bytes"`
	Start       string         `json:"start_dialect"`
	Dialects    map[string]int `json:"dialects"`
	Warnings    int            `json:"warnings"`
	Errors      int            `json:"errors"`
	Truncated   bool           `json:"truncated,omitempty"`
	ElapsedMs   float64        `json:"elapsed_ms,omitempty"`
	Rows        []RowRecord    `json:"rows,omitempty"`
	Stats       []StatRecord   `json:"stats,omitempty"`
}

// RowRecord is one classified row.
type RowRecord struct {
	Offset      int64  `json:"offset"`
	Length      int    `json:"length"`
	Dialect     string `json:"dialect"`
	Type        string `json:"type"`
	Level       string `json:"level"`
	Sequence    string `json:"sequence,omitempty"`
	Description string `json:"description"`
	Hex         string `json:"hex,omitempty"`
}

// StatRecord is the usage count of one dictionary entry.
type StatRecord struct {
	Dialect     string `json:"dialect"`
	Kind        string `json:"kind"`
	Key         string `json:"key"`
	Mnemonic    string `json:"mnemonic,omitempty"`
	Description string `json:"description"`
	Parent      int    `json:"parent"`
	Macro       int    `json:"macro"`
}

// FromResult builds a report. hexMax caps the raw bytes kept per row
// (0 keeps all); agg may be nil.
func FromResult(source string, res *classify.Result, agg *stats.Aggregator, hexMax int) *AnalysisReport {
	r := &AnalysisReport{
		GeneratedAt: FormatTimestamp(now()),
		Source:      source,
		Bytes:       res.Bytes,
		Start:       res.Start.String(),
		Dialects:    make(map[string]int, len(res.Dialects)),
		Warnings:    res.Warnings,
		Errors:      res.Errors,
		Truncated:   res.Truncated,
		Rows:        make([]RowRecord, 0, len(res.Rows)),
	}
	for d, n := range res.Dialects {
		r.Dialects[d.String()] = n
	}
	for _, row := range res.Rows {
		r.Rows = append(r.Rows, RowRecord{
			Offset:      row.Offset,
			Length:      row.Length,
			Dialect:     row.Dialect.String(),
			Type:        row.Type.Name(),
			Level:       row.Level.String(),
			Sequence:    row.Sequence,
			Description: row.Description,
			Hex:         row.Hex(hexMax),
		})
	}
	if agg != nil {
		r.Stats = StatRecords(agg.Snapshot())
	}
	return r
}

// StatRecords converts an aggregator snapshot.
func StatRecords(entries []stats.Entry) []StatRecord {
	out := make([]StatRecord, 0, len(entries))
	for _, e := range entries {
		d := e.Descriptor
		out = append(out, StatRecord{
			Dialect:     d.Key.Dialect.String(),
			Kind:        d.Key.Kind.String(),
			Key:         d.Key.String(),
			Mnemonic:    d.Mnemonic,
			Description: d.Description,
			Parent:      e.Parent,
			Macro:       e.Macro,
		})
	}
	return out
}

// SortedDialects returns the dialect names of counts in display order.
func SortedDialects(counts map[string]int) []string {
	order := make(map[string]int)
	for i, d := range tags.Dialects() {
		order[d.String()] = i
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, iok := order[names[i]]
		oj, jok := order[names[j]]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}
