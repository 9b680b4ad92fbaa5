package pipeline

import (
	"regexp"
	"strings"

	"github.com/dataveil/dataveil/internal/config"
	"github.com/dataveil/dataveil/internal/table"
)

var nonDigits = regexp.MustCompile(`\D`)

// Normalize canonicalizes the configured national ID columns before
// redaction and returns the table to redact plus the number of cells whose
// value changed. Columns not named in the configuration, and tables holding
// none of the named columns, pass through untouched.
//
// The returned table is rebuilt from the normalized values, and every named
// ID column is forced to text regardless of what kind inference would say:
// a column of malformed digits-only IDs must still reach detection, where a
// bare digit run reads as a bank account or phone number and gets redacted.
func Normalize(src *table.Table, cfg config.NormalizeConfig) (*table.Table, int) {
	id := cfg.NationalID
	if len(id.Columns) == 0 || id.Length <= 0 || id.GroupSize <= 0 {
		return src, 0
	}

	named := make(map[string]bool, len(id.Columns))
	for _, name := range id.Columns {
		named[name] = true
	}

	present := false
	for _, col := range src.Columns {
		if named[col.Name] {
			present = true
			break
		}
	}
	if !present {
		return src, 0
	}

	changed := 0
	rows := src.Rows()
	for j, col := range src.Columns {
		if !named[col.Name] {
			continue
		}
		for i := range rows {
			canonical := CanonicalID(rows[i][j], id.Length, id.GroupSize)
			if canonical != rows[i][j] {
				changed++
			}
			rows[i][j] = canonical
		}
	}

	out := table.New(src.Headers(), rows)
	for i := range out.Columns {
		if named[out.Columns[i].Name] {
			out.Columns[i].Kind = table.KindText
		}
	}
	return out, changed
}

// CanonicalID strips every non-digit from value and, only when exactly
// length digits remain, joins them into dash-separated groups of groupSize.
// Any other digit count returns the stripped digits undashed, so partial or
// malformed IDs still reach detection in bare form.
func CanonicalID(value string, length, groupSize int) string {
	digits := nonDigits.ReplaceAllString(value, "")
	if len(digits) != length {
		return digits
	}

	groups := make([]string, 0, (length+groupSize-1)/groupSize)
	for i := 0; i < length; i += groupSize {
		end := i + groupSize
		if end > length {
			end = length
		}
		groups = append(groups, digits[i:end])
	}
	return strings.Join(groups, "-")
}
