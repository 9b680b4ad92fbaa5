package pipeline

import (
	"time"

	"github.com/dataveil/dataveil/internal/codec"
	"github.com/dataveil/dataveil/internal/table"
)

// DocumentLocation is the pseudo-location findings carry for document input,
// where no column name exists.
const DocumentLocation = "document"

// Result represents the outcome of one anonymization run. For tabular input
// Table holds the anonymized table; for document input Text holds the
// anonymized text. Findings locate detections by column name for tabular
// input and by DocumentLocation for document input.
type Result struct {
	RunID      string          `json:"run_id"`
	Input      string          `json:"input"`
	Output     string          `json:"output,omitempty"`
	Format     codec.Format    `json:"format"`
	Rows       int             `json:"rows,omitempty"`
	Columns    int             `json:"columns,omitempty"`
	Chars      int             `json:"chars,omitempty"`
	Normalized int             `json:"normalized_cells,omitempty"`
	Findings   []table.Finding `json:"findings,omitempty"`
	Duration   time.Duration   `json:"duration"`

	Table *table.Table `json:"-"`
	Text  string       `json:"-"`
}
