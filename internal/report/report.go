// Package report persists per-run findings summaries so anonymization runs
// leave an auditable trail of what was detected where.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/segmentio/parquet-go"

	"github.com/dataveil/dataveil/internal/table"
)

// Finding is one report row: how many spans of one entity type were
// redacted at one location of one source file during one run.
type Finding struct {
	RunID    string `parquet:"run_id" json:"run_id"`
	Source   string `parquet:"source" json:"source"`
	Location string `parquet:"location" json:"location"`
	Entity   string `parquet:"entity" json:"entity"`
	Count    int64  `parquet:"count" json:"count"`
}

// Rows converts aggregated findings into report rows for one source file
func Rows(runID, source string, findings []table.Finding) []Finding {
	rows := make([]Finding, len(findings))
	for i, f := range findings {
		rows[i] = Finding{
			RunID:    runID,
			Source:   source,
			Location: f.Column,
			Entity:   f.Entity,
			Count:    int64(f.Count),
		}
	}
	return rows
}

// Write persists rows in the format implied by the path's extension,
// currently .csv or .parquet.
func Write(path string, rows []Finding) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return WriteCSV(path, rows)
	case ".parquet":
		return WriteParquet(path, rows)
	default:
		return fmt.Errorf("unsupported report format: %q", ext)
	}
}

// WriteCSV persists rows as delimited text
func WriteCSV(path string, rows []Finding) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"run_id", "source", "location", "entity", "count"}); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.RunID, row.Source, row.Location, row.Entity, strconv.FormatInt(row.Count, 10)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteParquet persists rows as a Parquet file
func WriteParquet(path string, rows []Finding) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer file.Close()

	writer := parquet.NewWriter(file, parquet.SchemaOf(Finding{}))
	for i := range rows {
		if err := writer.Write(&rows[i]); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing report: %w", err)
	}
	return nil
}
