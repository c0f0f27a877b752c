package metrics

// Metrics output (CSV/JSON) and summary formatting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var csvHeader = []string{
	"timestamp",
	"operation",
	"source",
	"target",
	"bytes",
	"rows",
	"warnings",
	"errors",
	"success",
	"duration_ms",
	"error",
}

// Writer handles writing metrics to files
type Writer struct {
	csvFile   *os.File
	csvWriter *csv.Writer
	jsonFile  *os.File
	jsonCount int
}

// NewWriter creates a new metrics writer. The CSV file is appended to, so
// repeated runs accumulate in one file; the header is written only when the
// file is empty. The JSON file is recreated.
func NewWriter(csvPath, jsonPath string) (*Writer, error) {
	w := &Writer{}

	if csvPath != "" {
		file, err := os.OpenFile(csvPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open CSV file: %w", err)
		}
		info, err := file.Stat()
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("stat CSV file: %w", err)
		}
		w.csvFile = file
		w.csvWriter = csv.NewWriter(file)

		if info.Size() == 0 {
			if err := w.csvWriter.Write(csvHeader); err != nil {
				file.Close()
				return nil, fmt.Errorf("write CSV header: %w", err)
			}
			w.csvWriter.Flush()
		}
	}

	if jsonPath != "" {
		file, err := os.Create(jsonPath)
		if err != nil {
			if w.csvFile != nil {
				w.csvFile.Close()
			}
			return nil, fmt.Errorf("create JSON file: %w", err)
		}
		w.jsonFile = file

		if _, err := file.WriteString("[\n"); err != nil {
			file.Close()
			if w.csvFile != nil {
				w.csvFile.Close()
			}
			return nil, fmt.Errorf("write JSON start: %w", err)
		}
	}

	return w, nil
}

// WriteMetric writes a single metric
func (w *Writer) WriteMetric(m Metric) error {
	if w.csvWriter != nil {
		record := []string{
			m.Timestamp.Format(time.RFC3339Nano),
			string(m.Operation),
			m.Source,
			m.Target,
			strconv.FormatInt(m.Bytes, 10),
			strconv.Itoa(m.Rows),
			strconv.Itoa(m.Warnings),
			strconv.Itoa(m.Errors),
			strconv.FormatBool(m.Success),
			formatDuration(m.DurationMs),
			m.Error,
		}
		if err := w.csvWriter.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
		w.csvWriter.Flush()
		if err := w.csvWriter.Error(); err != nil {
			return fmt.Errorf("flush CSV: %w", err)
		}
	}

	if w.jsonFile != nil {
		jsonData, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		if w.jsonCount > 0 {
			if _, err := w.jsonFile.WriteString(",\n"); err != nil {
				return fmt.Errorf("write JSON comma: %w", err)
			}
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, jsonData, "", "  "); err != nil {
			return fmt.Errorf("indent JSON: %w", err)
		}
		if _, err := w.jsonFile.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		w.jsonCount++
	}

	return nil
}

// WriteAll writes every metric held by the sink.
func (w *Writer) WriteAll(s *Sink) error {
	for _, m := range s.GetMetrics() {
		if err := w.WriteMetric(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the writer and flushes all data
func (w *Writer) Close() error {
	var errs []error

	if w.csvWriter != nil {
		w.csvWriter.Flush()
	}
	if w.csvFile != nil {
		if err := w.csvFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if w.jsonFile != nil {
		if _, err := w.jsonFile.WriteString("\n]\n"); err != nil {
			errs = append(errs, err)
		}
		if err := w.jsonFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close writer: %v", errs)
	}
	return nil
}

// formatDuration formats a duration for CSV (empty string if 0)
func formatDuration(ms float64) string {
	if ms == 0 {
		return ""
	}
	return fmt.Sprintf("%.3f", ms)
}

// FormatSummary formats a summary for human-readable output
func FormatSummary(summary *Summary) string {
	var b strings.Builder
	if summary.TotalRuns == 0 {
		return "No runs recorded\n"
	}

	fmt.Fprintf(&b, "Total Runs: %d\n", summary.TotalRuns)
	fmt.Fprintf(&b, "Successful: %d (%.1f%%)\n",
		summary.SuccessfulRuns,
		float64(summary.SuccessfulRuns)/float64(summary.TotalRuns)*100)
	fmt.Fprintf(&b, "Failed: %d (%.1f%%)\n",
		summary.FailedRuns,
		float64(summary.FailedRuns)/float64(summary.TotalRuns)*100)
	if summary.TimeoutCount > 0 {
		fmt.Fprintf(&b, "Timeouts: %d\n", summary.TimeoutCount)
	}
	fmt.Fprintf(&b, "Bytes: %s\n", humanize.IBytes(uint64(summary.TotalBytes)))
	fmt.Fprintf(&b, "Rows: %s (%s warnings, %s errors in %d runs)\n",
		humanize.Comma(int64(summary.TotalRows)),
		humanize.Comma(int64(summary.TotalWarnings)),
		humanize.Comma(int64(summary.TotalErrors)),
		summary.ParseErrorRuns)

	if summary.SuccessfulRuns > 0 && summary.MaxDuration > 0 {
		b.WriteString("\nDuration Statistics:\n")
		fmt.Fprintf(&b, "  Min: %.3f ms\n", summary.MinDuration)
		fmt.Fprintf(&b, "  Max: %.3f ms\n", summary.MaxDuration)
		fmt.Fprintf(&b, "  Avg: %.3f ms\n", summary.AvgDuration)
		if summary.P50Duration > 0 {
			fmt.Fprintf(&b, "  P50: %.3f ms\n", summary.P50Duration)
			fmt.Fprintf(&b, "  P90: %.3f ms\n", summary.P90Duration)
			fmt.Fprintf(&b, "  P95: %.3f ms\n", summary.P95Duration)
			fmt.Fprintf(&b, "  P99: %.3f ms\n", summary.P99Duration)
		}
		if len(summary.DurationBuckets) > 0 {
			fmt.Fprintf(&b, "  Buckets: <10ms=%d 10-100ms=%d 100ms-1s=%d 1-10s=%d >10s=%d\n",
				summary.DurationBuckets["lt_10ms"],
				summary.DurationBuckets["10_100ms"],
				summary.DurationBuckets["100ms_1s"],
				summary.DurationBuckets["1_10s"],
				summary.DurationBuckets["gt_10s"],
			)
		}
	}

	if len(summary.ByOperation) > 0 {
		b.WriteString("\nPer-Operation Statistics:\n")
		ops := make([]string, 0, len(summary.ByOperation))
		for op := range summary.ByOperation {
			ops = append(ops, string(op))
		}
		sort.Strings(ops)
		for _, name := range ops {
			stats := summary.ByOperation[OperationType(name)]
			fmt.Fprintf(&b, "  %s: %d runs (%d success, %d failed), %s",
				name, stats.Count, stats.Success, stats.Failed, humanize.IBytes(uint64(stats.Bytes)))
			if stats.Success > 0 && stats.MaxDuration > 0 {
				fmt.Fprintf(&b, " - duration: min=%.3fms, max=%.3fms, avg=%.3fms",
					stats.MinDuration, stats.MaxDuration, stats.AvgDuration)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
