package classify

import (
	"encoding/hex"
	"fmt"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

// Row is one recognised unit of the stream.
type Row struct {
	Offset      int64
	Length      int
	Dialect     tags.Dialect
	Type        rowtype.Type
	Sequence    string
	Description string
	Level       rowtype.Level
	Raw         []byte
	// Descriptor is the dictionary entry matched, nil for text and messages.
	Descriptor *tags.Descriptor
}

// OffsetString renders the offset the way the grid shows it.
func (r Row) OffsetString() string {
	return fmt.Sprintf("%08X", r.Offset)
}

// Hex returns the raw bytes as lower-case hex, truncated to max bytes when
// max is positive.
func (r Row) Hex(max int) string {
	raw := r.Raw
	if max > 0 && len(raw) > max {
		return hex.EncodeToString(raw[:max]) + "..."
	}
	return hex.EncodeToString(raw)
}

// Result is the outcome of one classification pass.
type Result struct {
	Rows      []Row
	Bytes     int64
	Start     tags.Dialect
	Dialects  map[tags.Dialect]int
	Warnings  int
	Errors    int
	Truncated bool
}

// Count returns the number of rows of the given type.
func (r *Result) Count(t rowtype.Type) int {
	n := 0
	for i := range r.Rows {
		if r.Rows[i].Type == t {
			n++
		}
	}
	return n
}

// Filter returns the rows for which keep returns true.
func (r *Result) Filter(keep func(Row) bool) []Row {
	var out []Row
	for _, row := range r.Rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}
