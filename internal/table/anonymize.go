package table

import (
	"sort"

	"github.com/dataveil/dataveil/internal/redact"
)

// Finding counts the detections of one entity type within one column
type Finding struct {
	Column string
	Entity string
	Count  int
}

// Anonymize returns a new table with every cell of every text column passed
// through the redactor. Non-text columns are copied verbatim; shape, row
// order and column order are preserved exactly. Findings are aggregated per
// column and entity type.
func Anonymize(src *Table, redactor *redact.Redactor) (*Table, []Finding) {
	out := src.Clone()
	counts := make(map[string]map[string]int)

	for i := range out.Columns {
		col := &out.Columns[i]
		if col.Kind != KindText {
			continue
		}

		for j, cell := range col.Cells {
			result := redactor.Redact(cell)
			col.Cells[j] = result.Redacted

			for _, d := range result.Detections {
				if counts[col.Name] == nil {
					counts[col.Name] = make(map[string]int)
				}
				counts[col.Name][d.Entity]++
			}
		}
	}

	return out, flattenFindings(src.Headers(), counts)
}

// flattenFindings orders aggregated counts by column position, then entity
func flattenFindings(headers []string, counts map[string]map[string]int) []Finding {
	var findings []Finding
	for _, column := range headers {
		entities := counts[column]
		if len(entities) == 0 {
			continue
		}

		names := make([]string, 0, len(entities))
		for entity := range entities {
			names = append(names, entity)
		}
		sort.Strings(names)

		for _, entity := range names {
			findings = append(findings, Finding{
				Column: column,
				Entity: entity,
				Count:  entities[entity],
			})
		}
	}
	return findings
}
