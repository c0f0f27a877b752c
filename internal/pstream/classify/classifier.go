// Package classify walks a captured print job byte by byte, tracks which
// printer language is active and emits one row per recognised unit.
package classify

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/stats"
	"github.com/tturner/pclscope/internal/pstream/symsets"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

const (
	esc = 0x1B
	etx = 0x03

	ctxCheckInterval = 4096
	progressInterval = 64 * 1024
)

var uel = []byte("\x1b%-12345X")

// Options controls a classification pass.
type Options struct {
	// Start is the initial dialect; DialectUnknown sniffs the data.
	Start tags.Dialect
	// MaxRows stops the pass after this many rows (0 = unlimited).
	MaxRows           int
	IncludeText       bool
	IncludeWhitespace bool
	// SymbolSet is the power-on primary symbol set id, default 8U.
	SymbolSet  string
	Dictionary *tags.Dictionary
	Stats      *stats.Aggregator
	// Progress, when set, is called periodically with bytes consumed.
	Progress func(done, total int64)
}

// DefaultOptions returns options that show text and hide PCL XL whitespace.
func DefaultOptions() Options {
	return Options{IncludeText: true}
}

// Parse reads r to EOF and classifies its contents.
func Parse(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read print stream: %w", err)
	}
	return ParseBytes(ctx, data, opts)
}

// ParseBytes classifies data. Malformed input yields error or warning rows;
// the returned error is non-nil only for option errors or cancellation.
func ParseBytes(ctx context.Context, data []byte, opts Options) (*Result, error) {
	p, err := newParser(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	if err := p.run(); err != nil {
		return p.res, err
	}
	return p.res, nil
}

type parser struct {
	ctx  context.Context
	opts Options
	dict *tags.Dictionary
	buf  []byte
	pos  int

	dialect tags.Dialect
	// opaque names a language passed through undecoded until the next UEL.
	opaque string
	// afterPrescribe is the dialect restored by EXIT.
	afterPrescribe tags.Dialect
	level          rowtype.Level
	// pjlReadback is set between a readback header such as @PJL INFO and
	// the form feed that ends the reply.
	pjlReadback bool

	primary   *symsets.SymbolSet
	secondary *symsets.SymbolSet
	initial   *symsets.SymbolSet
	shifted   bool

	xlBig     bool
	xlValue   xlValue
	labelTerm byte

	res  *Result
	stop bool
}

func newParser(ctx context.Context, data []byte, opts Options) (*parser, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.MaxRows < 0 {
		return nil, fmt.Errorf("max rows must be >= 0, got %d", opts.MaxRows)
	}
	dict := opts.Dictionary
	if dict == nil {
		dict = tags.Default()
	}
	initial := symsets.Default()
	if opts.SymbolSet != "" {
		s, ok := symsets.ByID(opts.SymbolSet)
		if !ok {
			return nil, fmt.Errorf("unknown symbol set %q", opts.SymbolSet)
		}
		initial = s
	}
	start := opts.Start
	if start == tags.DialectUnknown {
		start = Sniff(data)
	}
	if start == tags.DialectPML {
		return nil, fmt.Errorf("PML is only decoded inside PJL")
	}
	return &parser{
		ctx:            ctx,
		opts:           opts,
		dict:           dict,
		buf:            data,
		dialect:        start,
		afterPrescribe: tags.DialectPCL,
		primary:        initial,
		secondary:      initial,
		initial:        initial,
		labelTerm:      etx,
		res: &Result{
			Bytes:    int64(len(data)),
			Start:    start,
			Dialects: make(map[tags.Dialect]int),
		},
	}, nil
}

func (p *parser) run() error {
	steps := 0
	lastProgress := 0
	for p.pos < len(p.buf) && !p.stop {
		if steps%ctxCheckInterval == 0 {
			if err := p.ctx.Err(); err != nil {
				return err
			}
		}
		steps++

		before, beforeDialect, beforeOpaque := p.pos, p.dialect, p.opaque
		switch {
		case p.opaque != "":
			p.stepOpaque()
		case p.dialect == tags.DialectPCLXL:
			p.stepXL()
		case p.dialect == tags.DialectHPGL2:
			p.stepHPGL2()
		case p.dialect == tags.DialectPJL:
			p.stepPJL()
		case p.dialect == tags.DialectPrescribe:
			p.stepPrescribe()
		default:
			p.stepPCL()
		}
		stalled := p.pos <= before && p.dialect == beforeDialect && p.opaque == beforeOpaque
		if stalled && !p.stop {
			p.errorRow(before, before+1, fmt.Sprintf("0x%02X", p.buf[before]), "Unprocessed byte")
			p.pos = before + 1
		}

		if p.opts.Progress != nil && p.pos-lastProgress >= progressInterval {
			lastProgress = p.pos
			p.opts.Progress(int64(p.pos), int64(len(p.buf)))
		}
	}
	if p.opts.Progress != nil {
		p.opts.Progress(int64(p.pos), int64(len(p.buf)))
	}
	return nil
}

// emit appends a row for buf[start:end].
func (p *parser) emit(start, end int, dialect tags.Dialect, typ rowtype.Type, seq, desc string, d *tags.Descriptor) {
	if end > len(p.buf) {
		end = len(p.buf)
	}
	p.emitRaw(int64(start), p.buf[start:end], dialect, typ, seq, desc, d)
}

func (p *parser) emitRaw(offset int64, raw []byte, dialect tags.Dialect, typ rowtype.Type, seq, desc string, d *tags.Descriptor) {
	if p.stop {
		return
	}
	if p.opts.MaxRows > 0 && len(p.res.Rows) >= p.opts.MaxRows {
		p.res.Truncated = true
		p.res.Warnings++
		p.res.Rows = append(p.res.Rows, Row{
			Offset:      offset,
			Type:        rowtype.MsgWarning,
			Dialect:     dialect,
			Description: fmt.Sprintf("Row limit of %d reached; remaining data not classified", p.opts.MaxRows),
		})
		p.stop = true
		return
	}

	switch typ {
	case rowtype.MsgWarning:
		p.res.Warnings++
	case rowtype.MsgError:
		p.res.Errors++
	case rowtype.MsgComment:
	default:
		p.res.Dialects[dialect]++
	}
	if d != nil && p.opts.Stats != nil {
		p.opts.Stats.Record(d, p.level)
	}
	p.res.Rows = append(p.res.Rows, Row{
		Offset:      offset,
		Length:      len(raw),
		Dialect:     dialect,
		Type:        typ,
		Sequence:    seq,
		Description: desc,
		Level:       p.level,
		Raw:         raw,
		Descriptor:  d,
	})
}

func (p *parser) errorRow(start, end int, seq, desc string) {
	p.emit(start, end, p.dialect, rowtype.MsgError, seq, desc, nil)
}

func (p *parser) warnRow(start, end int, seq, desc string) {
	p.emit(start, end, p.dialect, rowtype.MsgWarning, seq, desc, nil)
}

func (p *parser) comment(at int, desc string) {
	p.emit(at, at, p.dialect, rowtype.MsgComment, "", desc, nil)
}

// switchTo changes the active dialect and notes the change in the rows.
func (p *parser) switchTo(d tags.Dialect, reason string) {
	p.pjlReadback = false
	if d == p.dialect && p.opaque == "" {
		return
	}
	p.opaque = ""
	p.dialect = d
	p.comment(p.pos, fmt.Sprintf("Switch to %s (%s)", d, reason))
}

// resetPCL restores power-on symbol sets after ESC E or UEL. A macro
// definition in progress is not ended by a reset.
func (p *parser) resetPCL() {
	p.primary = p.initial
	p.secondary = p.initial
	p.shifted = false
}

func (p *parser) hasPrefix(prefix []byte) bool {
	return bytes.HasPrefix(p.buf[p.pos:], prefix)
}

// lineEnd returns the index just past the next LF at or after from, or
// len(buf) with found false.
func (p *parser) lineEnd(from int) (int, bool) {
	i := bytes.IndexByte(p.buf[from:], '\n')
	if i < 0 {
		return len(p.buf), false
	}
	return from + i + 1, true
}

// stepOpaque passes an unsupported language through as one row up to the
// next UEL.
func (p *parser) stepOpaque() {
	start := p.pos
	i := bytes.Index(p.buf[start:], uel)
	end := len(p.buf)
	if i >= 0 {
		end = start + i
	}
	if end > start {
		p.emit(start, end, tags.DialectUnknown, rowtype.LanguageData, p.opaque,
			fmt.Sprintf("%s data, %d bytes (not decoded)", p.opaque, end-start), nil)
	}
	p.pos = end
	if i >= 0 {
		p.opaque = ""
		p.dialect = tags.DialectPJL
	}
}
