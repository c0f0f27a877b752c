package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteRowsCSV writes one CSV record per classified row.
func WriteRowsCSV(w io.Writer, rows []RowRecord) error {
	writer := csv.NewWriter(w)

	header := []string{"Offset", "Length", "Dialect", "Type", "Level", "Sequence", "Description", "Hex"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			fmt.Sprintf("%08X", row.Offset),
			strconv.Itoa(row.Length),
			row.Dialect,
			row.Type,
			row.Level,
			row.Sequence,
			row.Description,
			row.Hex,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteStatsCSV writes one CSV record per dictionary entry seen.
func WriteStatsCSV(w io.Writer, records []StatRecord) error {
	writer := csv.NewWriter(w)

	header := []string{"Dialect", "Kind", "Key", "Mnemonic", "Description", "Parent", "Macro", "Total"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range records {
		record := []string{
			s.Dialect,
			s.Kind,
			s.Key,
			s.Mnemonic,
			s.Description,
			strconv.Itoa(s.Parent),
			strconv.Itoa(s.Macro),
			strconv.Itoa(s.Parent + s.Macro),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
