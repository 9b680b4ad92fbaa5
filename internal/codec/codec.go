// Package codec loads and persists the file formats the anonymizer speaks:
// delimited text, spreadsheet workbooks, and PDF document text.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dataveil/dataveil/internal/table"
)

// ErrUnsupportedFormat reports an input extension outside the recognized
// set. It is fatal: no output is produced for such a file.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format represents supported file formats
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLS     Format = "xls"
	FormatXLSX    Format = "xlsx"
	FormatPDF     Format = "pdf"
	FormatUnknown Format = ""
)

// DetectFormat detects file format from extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV
	case ".xls":
		return FormatXLS
	case ".xlsx":
		return FormatXLSX
	case ".pdf":
		return FormatPDF
	default:
		return FormatUnknown
	}
}

// Tabular reports whether the format loads into a table
func (f Format) Tabular() bool {
	switch f {
	case FormatCSV, FormatXLS, FormatXLSX:
		return true
	default:
		return false
	}
}

// ReadTable loads a tabular file of the given format
func ReadTable(path string, format Format) (*table.Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(path)
	case FormatXLS:
		return ReadXLS(path)
	case FormatXLSX:
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s is not tabular", ErrUnsupportedFormat, format)
	}
}

// WriteTable persists a table in the format implied by the output path's
// extension, falling back to the given format when the extension implies
// none. Legacy .xls outputs are written as XLSX workbook content since the
// old binary format is read-only here.
func WriteTable(path string, t *table.Table, fallback Format) error {
	format := DetectFormat(path)
	if !format.Tabular() {
		format = fallback
	}

	switch format {
	case FormatCSV:
		return WriteCSV(path, t)
	case FormatXLS, FormatXLSX:
		return WriteXLSX(path, t)
	default:
		return fmt.Errorf("%w: cannot write table as %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
