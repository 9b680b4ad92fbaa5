package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"go.uber.org/zap"

	"github.com/dataveil/dataveil/internal/config"
	"github.com/dataveil/dataveil/internal/logger"
)

// redactedPlaceholder is the ultimate fallback replacement used when the
// operator mapping carries no DEFAULT entry.
const redactedPlaceholder = "[REDACTED]"

// Anonymizer applies per-entity-type operators to detected spans
type Anonymizer struct {
	operators map[string]Operator
	salt      string
	logger    *logger.Logger
}

// NewAnonymizer builds an anonymizer from the configured operator mapping.
// The salt keys the hash operator and is resolved by the caller (explicit
// configuration or the persisted per-installation salt).
func NewAnonymizer(cfg config.AnonymizeConfig, salt string, log *logger.Logger) *Anonymizer {
	operators := make(map[string]Operator, len(cfg.Operators))
	for entity, op := range cfg.Operators {
		operators[entity] = Operator{Type: op.Type, NewValue: op.NewValue}
	}

	log.Info("Anonymizer initialized",
		zap.Int("operators", len(operators)),
		zap.Bool("salted", salt != ""),
	)

	return &Anonymizer{
		operators: operators,
		salt:      salt,
		logger:    log,
	}
}

// Apply transforms every detected span with the operator mapped to its
// entity type, falling back to the DEFAULT operator for unmapped types.
// Spans must not overlap; replacement runs back-to-front so earlier offsets
// stay valid while the text shrinks or grows.
func (a *Anonymizer) Apply(text string, detections []Detection) string {
	if len(detections) == 0 {
		return text
	}

	ordered := append([]Detection(nil), detections...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	result := []byte(text)
	for i := len(ordered) - 1; i >= 0; i-- {
		d := ordered[i]
		replacement := a.transform(text[d.Start:d.End], d.Entity)
		result = append(result[:d.Start], append([]byte(replacement), result[d.End:]...)...)
	}

	return string(result)
}

// HashToken returns the deterministic token for a value: the salted SHA-256
// digest truncated to TokenLength hex characters. Same value and salt always
// produce the same token, so join keys survive anonymization.
func (a *Anonymizer) HashToken(value string) string {
	digest := sha256.Sum256([]byte(a.salt + value))
	return hex.EncodeToString(digest[:])[:TokenLength]
}

// transform applies the operator for one entity type to a single value
func (a *Anonymizer) transform(value, entity string) string {
	op := a.operatorFor(entity)

	switch op.Type {
	case OperatorHash:
		return a.HashToken(value)
	case OperatorReplace:
		if op.NewValue == "" {
			return redactedPlaceholder
		}
		return op.NewValue
	default:
		return redactedPlaceholder
	}
}

// operatorFor resolves the operator for an entity type, falling back to the
// DEFAULT mapping so a detected entity is never left unredacted.
func (a *Anonymizer) operatorFor(entity string) Operator {
	if op, ok := a.operators[entity]; ok {
		return op
	}
	if op, ok := a.operators[DefaultOperatorKey]; ok {
		return op
	}
	return Operator{Type: OperatorReplace, NewValue: redactedPlaceholder}
}
