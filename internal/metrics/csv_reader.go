package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// ReadMetricsCSV reads a metrics CSV file and returns the parsed metrics along
// with the first and last timestamps found in the data.
func ReadMetricsCSV(path string) ([]Metric, time.Time, time.Time, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("open metrics CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[col] = i
	}
	for _, col := range []string{"timestamp", "operation", "success", "duration_ms"} {
		if _, ok := colIndex[col]; !ok {
			return nil, time.Time{}, time.Time{}, fmt.Errorf("CSV missing required column: %s", col)
		}
	}

	field := func(record []string, col string) string {
		if idx, ok := colIndex[col]; ok && idx < len(record) {
			return record[idx]
		}
		return ""
	}

	var metrics []Metric
	var firstTime, lastTime time.Time

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, time.Time{}, time.Time{}, fmt.Errorf("read CSV row %d: %w", len(metrics)+2, err)
		}

		m := Metric{
			Operation: OperationType(field(record, "operation")),
			Source:    field(record, "source"),
			Target:    field(record, "target"),
			Success:   field(record, "success") == "true",
			Error:     field(record, "error"),
		}
		if t, err := time.Parse(time.RFC3339Nano, field(record, "timestamp")); err == nil {
			m.Timestamp = t
			if firstTime.IsZero() {
				firstTime = t
			}
			lastTime = t
		}
		if v, err := strconv.ParseInt(field(record, "bytes"), 10, 64); err == nil {
			m.Bytes = v
		}
		if v, err := strconv.Atoi(field(record, "rows")); err == nil {
			m.Rows = v
		}
		if v, err := strconv.Atoi(field(record, "warnings")); err == nil {
			m.Warnings = v
		}
		if v, err := strconv.Atoi(field(record, "errors")); err == nil {
			m.Errors = v
		}
		if v, err := strconv.ParseFloat(field(record, "duration_ms"), 64); err == nil {
			m.DurationMs = v
		}

		metrics = append(metrics, m)
	}

	if len(metrics) == 0 {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("no data rows in CSV file")
	}

	return metrics, firstTime, lastTime, nil
}

// LoadSink reads a metrics CSV into a fresh sink.
func LoadSink(path string) (*Sink, error) {
	ms, _, _, err := ReadMetricsCSV(path)
	if err != nil {
		return nil, err
	}
	s := NewSink()
	for _, m := range ms {
		s.Record(m)
	}
	return s, nil
}
