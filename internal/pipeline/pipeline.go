// Package pipeline orchestrates one anonymization run: load the input by
// format, canonicalize configured ID columns, redact, and emit the result.
package pipeline

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/dataveil/dataveil/internal/codec"
	"github.com/dataveil/dataveil/internal/config"
	"github.com/dataveil/dataveil/internal/engine"
	"github.com/dataveil/dataveil/internal/logger"
	"github.com/dataveil/dataveil/internal/redact"
	"github.com/dataveil/dataveil/internal/table"
)

// Pipeline runs the load, normalize, redact, emit sequence for one file at a
// time. It holds no per-run state, so one pipeline can process many files
// sequentially.
type Pipeline struct {
	config   *config.Config
	redactor *redact.Redactor
	logger   *logger.Logger
}

// New creates a pipeline around an assembled redactor
func New(cfg *config.Config, redactor *redact.Redactor, log *logger.Logger) *Pipeline {
	return &Pipeline{
		config:   cfg,
		redactor: redactor,
		logger:   log,
	}
}

// Run anonymizes inputPath. A non-empty outputPath persists the redacted
// content there; an empty one returns the in-memory result without writing
// anything. An unrecognized input extension fails before any output exists.
//
// Document runs rewrite every ".pdf" substring of the output path to
// "_anonymized.txt", so a destination named after the source never carries
// redacted text under a document extension.
func (p *Pipeline) Run(inputPath, outputPath string) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:  uuid.New().String(),
		Input:  inputPath,
		Format: codec.DetectFormat(inputPath),
	}

	if result.Format == codec.FormatUnknown {
		return result, fmt.Errorf("%w: %q", codec.ErrUnsupportedFormat, filepath.Ext(inputPath))
	}

	log := p.logger.WithRunID(result.RunID)
	log.Info("Anonymization started",
		zap.String("input", inputPath),
		zap.String("format", string(result.Format)))

	var err error
	if result.Format.Tabular() {
		err = p.runTabular(inputPath, outputPath, result, log)
	} else {
		err = p.runDocument(inputPath, outputPath, result, log)
	}
	if err != nil {
		return result, err
	}

	result.Duration = time.Since(start)
	log.Info("Anonymization completed",
		zap.String("output", result.Output),
		zap.Int("findings", lo.SumBy(result.Findings, func(f table.Finding) int { return f.Count })),
		zap.Duration("duration", result.Duration))

	return result, nil
}

func (p *Pipeline) runTabular(inputPath, outputPath string, result *Result, log *logger.Logger) error {
	src, err := codec.ReadTable(inputPath, result.Format)
	if err != nil {
		return fmt.Errorf("loading table: %w", err)
	}

	normalized, changed := Normalize(src, p.config.Normalize)
	result.Normalized = changed
	if changed > 0 {
		log.Info("National ID columns canonicalized", zap.Int("cells", changed))
	}

	out, findings := table.Anonymize(normalized, p.redactor)
	result.Table = out
	result.Findings = findings
	result.Rows = out.NumRows()
	result.Columns = out.NumCols()

	log.Info("Table anonymized",
		zap.String("rows", humanize.Comma(int64(result.Rows))),
		zap.Int("columns", result.Columns))
	p.previewTable(out, log)

	if outputPath == "" {
		return nil
	}
	if err := codec.WriteTable(outputPath, out, result.Format); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	result.Output = outputPath
	return nil
}

func (p *Pipeline) runDocument(inputPath, outputPath string, result *Result, log *logger.Logger) error {
	text, err := codec.ExtractPDF(inputPath)
	if err != nil {
		return fmt.Errorf("extracting document text: %w", err)
	}

	log.Info("Document text extracted",
		zap.String("size", humanize.Bytes(uint64(len(text)))))

	redacted := p.redactor.Redact(text)
	result.Text = redacted.Redacted
	result.Chars = len(redacted.Redacted)
	result.Findings = documentFindings(redacted.Detections)

	p.previewText(redacted.Redacted, log)

	if outputPath == "" {
		return nil
	}
	textPath := strings.ReplaceAll(outputPath, ".pdf", "_anonymized.txt")
	if err := codec.WriteText(textPath, redacted.Redacted); err != nil {
		return fmt.Errorf("writing document text: %w", err)
	}
	result.Output = textPath
	return nil
}

// documentFindings aggregates raw detections per entity type under the
// document pseudo-location
func documentFindings(detections []engine.Detection) []table.Finding {
	counts := make(map[string]int, len(detections))
	for _, d := range detections {
		counts[d.Entity]++
	}

	entities := lo.Keys(counts)
	sort.Strings(entities)

	findings := make([]table.Finding, 0, len(entities))
	for _, entity := range entities {
		findings = append(findings, table.Finding{
			Column: DocumentLocation,
			Entity: entity,
			Count:  counts[entity],
		})
	}
	return findings
}

// previewTable logs the first configured rows of output. Preview content is
// debug-only and always post-redaction.
func (p *Pipeline) previewTable(t *table.Table, log *logger.Logger) {
	n := p.config.Preview.Rows
	if n <= 0 {
		return
	}

	rows := t.Rows()
	if len(rows) > n {
		rows = rows[:n]
	}

	preview := make([]string, len(rows))
	for i, row := range rows {
		preview[i] = strings.Join(row, ", ")
	}

	log.Debug("Anonymized preview",
		zap.String("header", strings.Join(t.Headers(), ", ")),
		zap.Strings("rows", preview))
}

// previewText logs the first configured characters of redacted text
func (p *Pipeline) previewText(text string, log *logger.Logger) {
	n := p.config.Preview.Chars
	if n <= 0 {
		return
	}
	if runes := []rune(text); len(runes) > n {
		text = string(runes[:n])
	}
	log.Debug("Anonymized preview", zap.String("text", text))
}
