package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	cserrors "github.com/tturner/pclscope/internal/errors"
	"github.com/tturner/pclscope/internal/metrics"
	"github.com/tturner/pclscope/internal/progress"
	"github.com/tturner/pclscope/internal/pstream/classify"
	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/stats"
	"github.com/tturner/pclscope/internal/pstream/tags"
	"github.com/tturner/pclscope/internal/report"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ClassifyFlags override the analysis section of the configuration.
type ClassifyFlags struct {
	Dialect string
	MaxRows int
	// MaxRowsSet makes MaxRows apply even when zero, so a flag can lift a
	// configured limit.
	MaxRowsSet bool
	NoText     bool
	Whitespace bool
	SymbolSet  string
	Catalogs   []string
	Progress   bool
}

// AnalyseOptions configures the analyse and stats commands.
type AnalyseOptions struct {
	ClassifyFlags
	Inputs      []string
	Format      string
	Stats       bool
	StatsOnly   bool
	Summary     bool
	Hex         bool
	NoColor     bool
	OutputPath  string
	MetricsFile string
	// FailOnError returns an error when any input produced error rows.
	FailOnError bool
	Version     string
}

// Analysis is one classified input.
type Analysis struct {
	Source  string
	Result  *classify.Result
	Stats   *stats.Aggregator
	Elapsed time.Duration
}

// ClassifyOptions merges flags over the configured analysis defaults.
func (e *Env) ClassifyOptions(f ClassifyFlags) (classify.Options, error) {
	a := e.Config.Analysis
	opts := classify.Options{
		Start:             a.Dialect(),
		MaxRows:           a.MaxRows,
		IncludeText:       a.IncludeText == nil || *a.IncludeText,
		IncludeWhitespace: a.IncludeWhitespace || f.Whitespace,
		SymbolSet:         a.SymbolSet,
	}
	if f.Dialect != "" {
		d, err := tags.ParseDialect(f.Dialect)
		if err != nil {
			return opts, err
		}
		opts.Start = d
	}
	if f.MaxRowsSet || f.MaxRows > 0 {
		if f.MaxRows < 0 {
			return opts, fmt.Errorf("--max-rows must be >= 0, got %d", f.MaxRows)
		}
		opts.MaxRows = f.MaxRows
	}
	if f.NoText {
		opts.IncludeText = false
	}
	if f.SymbolSet != "" {
		opts.SymbolSet = f.SymbolSet
	}
	dict, err := e.Dictionary(f.Catalogs...)
	if err != nil {
		return opts, err
	}
	opts.Dictionary = dict
	return opts, nil
}

// checkInputs rejects stdin given more than once.
func checkInputs(inputs []string) error {
	stdin := 0
	for _, in := range inputs {
		if in == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return fmt.Errorf("stdin (-) can only be given once, got %d", stdin)
	}
	return nil
}

// ReadInput reads a file, or stdin for "-".
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Classify runs one pass over data with a fresh statistics aggregator.
func (e *Env) Classify(ctx context.Context, source string, data []byte, opts classify.Options, showProgress bool) (*Analysis, error) {
	agg := stats.New()
	opts.Stats = agg
	var bar *progress.ProgressBar
	if showProgress {
		bar = progress.ForTerminal(int64(len(data)), "Classifying "+source)
		opts.Progress = bar.Callback()
	}

	start := time.Now()
	res, err := classify.ParseBytes(ctx, data, opts)
	elapsed := time.Since(start)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", source, err)
	}
	e.Logger.LogClassification(source, res.Bytes, len(res.Rows), res.Warnings, res.Errors, elapsed)
	return &Analysis{Source: source, Result: res, Stats: agg, Elapsed: elapsed}, nil
}

// Analyse classifies every input and writes the report to stdout or the
// output file.
func Analyse(ctx context.Context, env *Env, opts AnalyseOptions, stdin io.Reader, stdout io.Writer) error {
	if len(opts.Inputs) == 0 {
		return fmt.Errorf("no input files")
	}
	format := opts.Format
	if format == "" {
		format = env.Config.Output.Format
	}
	switch format {
	case FormatText, FormatJSON:
	case FormatCSV:
		if len(opts.Inputs) > 1 {
			return fmt.Errorf("csv output takes a single input, got %d", len(opts.Inputs))
		}
	default:
		return fmt.Errorf("unknown format %q (text, json or csv)", format)
	}

	if err := checkInputs(opts.Inputs); err != nil {
		return err
	}
	copts, err := env.ClassifyOptions(opts.ClassifyFlags)
	if err != nil {
		return err
	}
	rec, err := env.newRecorder(opts.MetricsFile)
	if err != nil {
		return err
	}
	defer rec.close()

	out := stdout
	if opts.OutputPath != "" {
		f, err := os.Create(opts.OutputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	var analyses []*Analysis
	for _, input := range opts.Inputs {
		data, err := ReadInput(input, stdin)
		if err != nil {
			return err
		}
		a, err := env.Classify(ctx, input, data, copts, opts.Progress)
		rec.record(classifyMetric(input, a, err))
		if err != nil {
			return err
		}
		analyses = append(analyses, a)
	}

	if err := writeAnalyses(out, env, analyses, opts, format); err != nil {
		return err
	}
	if opts.FailOnError {
		return firstParseError(analyses)
	}
	return nil
}

func classifyMetric(source string, a *Analysis, err error) metrics.Metric {
	m := metrics.Metric{Operation: metrics.OperationClassify, Source: source, Success: err == nil}
	if err != nil {
		m.Error = err.Error()
		return m
	}
	m.Bytes = a.Result.Bytes
	m.Rows = len(a.Result.Rows)
	m.Warnings = a.Result.Warnings
	m.Errors = a.Result.Errors
	m.DurationMs = float64(a.Elapsed.Microseconds()) / 1000
	return m
}

func writeAnalyses(w io.Writer, env *Env, analyses []*Analysis, opts AnalyseOptions, format string) error {
	hexMax := env.Config.Output.HexWidth
	reports := make([]*report.AnalysisReport, len(analyses))
	for i, a := range analyses {
		var agg *stats.Aggregator
		if opts.Stats || opts.StatsOnly {
			agg = a.Stats
		}
		r := report.FromResult(a.Source, a.Result, agg, hexMax)
		r.Version = opts.Version
		r.ElapsedMs = float64(a.Elapsed.Microseconds()) / 1000
		if opts.StatsOnly {
			r.Rows = nil
		}
		reports[i] = r
	}

	switch format {
	case FormatJSON:
		if len(reports) == 1 {
			return report.WriteJSON(w, reports[0])
		}
		return report.WriteJSON(w, reports)
	case FormatCSV:
		if opts.StatsOnly {
			return report.WriteStatsCSV(w, reports[0].Stats)
		}
		return report.WriteRowsCSV(w, reports[0].Rows)
	}

	topts := report.TextOptions{
		Color:   env.Config.Output.Color != nil && *env.Config.Output.Color && !opts.NoColor && isTerminal(w),
		ShowHex: opts.Hex,
	}
	for i, r := range reports {
		if len(reports) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "==> %s <==\n", r.Source)
		}
		if !opts.StatsOnly {
			if err := report.WriteRowsText(w, r.Rows, topts); err != nil {
				return err
			}
		}
		if r.Stats != nil {
			if !opts.StatsOnly {
				fmt.Fprintln(w)
			}
			if err := report.WriteStatsText(w, r.Stats, topts); err != nil {
				return err
			}
		}
		if opts.Summary {
			fmt.Fprintln(w)
			if err := report.WriteSummary(w, r); err != nil {
				return err
			}
		}
	}

	if opts.StatsOnly && len(analyses) > 1 {
		combined := stats.New()
		for _, a := range analyses {
			combined.Merge(a.Stats)
		}
		fmt.Fprintf(w, "\n==> all %d inputs <==\n", len(analyses))
		return report.WriteStatsText(w, report.StatRecords(combined.Snapshot()), topts)
	}
	return nil
}

// firstParseError reports the first error row across all analyses.
func firstParseError(analyses []*Analysis) error {
	total := 0
	var first *classify.Row
	var source string
	for _, a := range analyses {
		total += a.Result.Errors
		if first != nil {
			continue
		}
		for i := range a.Result.Rows {
			if a.Result.Rows[i].Type == rowtype.MsgError {
				first = &a.Result.Rows[i]
				source = a.Source
				break
			}
		}
	}
	if first == nil {
		return nil
	}
	return cserrors.WrapParseError(
		fmt.Errorf("%s (%d error rows in total)", first.Description, total),
		source, first.Offset, first.Dialect.String())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && progress.IsTerminal(f)
}
