// Package redact turns raw text into its anonymized form by combining
// entity detection with the configured operators.
package redact

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dataveil/dataveil/internal/engine"
	"github.com/dataveil/dataveil/internal/logger"
)

// Result holds one redaction outcome
type Result struct {
	Redacted   string
	Detections []engine.Detection
}

// Redactor redacts PII from text values. It is a pure function of the
// analyzer, anonymizer and entity list it was built with, so a single
// instance is safe for concurrent use.
type Redactor struct {
	analyzer   *engine.Analyzer
	anonymizer *engine.Anonymizer
	entities   []string
	logger     *logger.Logger
}

// New creates a redactor requesting the given entity types from detection
func New(analyzer *engine.Analyzer, anonymizer *engine.Anonymizer, entities []string, log *logger.Logger) *Redactor {
	return &Redactor{
		analyzer:   analyzer,
		anonymizer: anonymizer,
		entities:   entities,
		logger:     log,
	}
}

// Redact anonymizes one text value. Empty or whitespace-only input is
// returned unchanged without invoking detection, as is any text yielding
// no detections.
func (r *Redactor) Redact(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Redacted: text}
	}

	detections := r.analyzer.Detect(text, r.entities)
	if len(detections) == 0 {
		return Result{Redacted: text}
	}

	return Result{
		Redacted:   r.anonymizer.Apply(text, detections),
		Detections: detections,
	}
}

// RedactText is the plain text-to-text form of Redact
func (r *Redactor) RedactText(text string) string {
	return r.Redact(text).Redacted
}

// RedactValue redacts an arbitrary value. Coercion to text is an explicit
// fallible step: when it fails the original value is passed through
// unredacted rather than propagating the failure. That silent-degrade branch
// can leak PII held in uncoercible values and is deliberate; see Coerce.
func (r *Redactor) RedactValue(value any) any {
	text, ok := Coerce(value)
	if !ok {
		r.logger.Debug("Value passed through unredacted",
			zap.String("reason", "coercion failed"),
			zap.String("value_type", fmt.Sprintf("%T", value)),
		)
		return value
	}
	return r.RedactText(text)
}

// Coerce converts a value to its text form. The failure branch covers
// composite and opaque types that have no faithful single-text rendering.
func Coerce(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	case error:
		return v.Error(), true
	case bool:
		return fmt.Sprintf("%v", v), true
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), true
	case float32, float64:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}
