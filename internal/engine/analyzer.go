package engine

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dataveil/dataveil/internal/config"
	"github.com/dataveil/dataveil/internal/logger"
)

const (
	// defaultMinScore drops detections scoring below it unless boosted by
	// context words.
	defaultMinScore = 0.5

	// defaultContextBoost is added to a detection's score when one of the
	// rule's context words appears near the match.
	defaultContextBoost = 0.35

	// contextWindowChars bounds the search for context words before and
	// after a match.
	contextWindowChars = 100
)

// Analyzer detects PII entities in text using the registry's rules
type Analyzer struct {
	registry     *Registry
	minScore     float64
	contextBoost float64
	logger       *logger.Logger
}

// NewAnalyzer creates an analyzer over a compiled registry
func NewAnalyzer(registry *Registry, cfg config.EngineConfig, log *logger.Logger) *Analyzer {
	minScore := cfg.MinScore
	if minScore == 0 {
		minScore = defaultMinScore
	}
	contextBoost := cfg.ContextBoost
	if contextBoost == 0 {
		contextBoost = defaultContextBoost
	}

	analyzer := &Analyzer{
		registry:     registry,
		minScore:     minScore,
		contextBoost: contextBoost,
		logger:       log,
	}

	log.Info("Analyzer initialized",
		zap.Int("rules", len(registry.Rules())),
		zap.Int("entity_types", len(registry.EntityTypes())),
		zap.Float64("min_score", minScore),
	)

	return analyzer
}

// Detect scans text for the requested entity types and returns
// non-overlapping detections ordered by start offset. A nil or empty entity
// list requests every type the registry covers.
func (a *Analyzer) Detect(text string, entities []string) []Detection {
	requested := make(map[string]bool, len(entities))
	for _, entity := range entities {
		requested[entity] = true
	}

	var candidates []Detection
	for _, rule := range a.registry.Rules() {
		if len(requested) > 0 && !requested[rule.Entity] {
			continue
		}

		matches := rule.Pattern.FindAllStringIndex(text, -1)
		for _, match := range matches {
			value := text[match[0]:match[1]]

			if rule.ValidateLuhn && !luhnValid(stripNonDigits(value)) {
				continue
			}

			score := boostScoreWithContext(text, match[0], rule.Score, rule.Context, a.contextBoost)
			if score < a.minScore {
				continue
			}

			candidates = append(candidates, Detection{
				Entity: rule.Entity,
				Start:  match[0],
				End:    match[1],
				Score:  score,
			})
		}
	}

	detections := resolveOverlaps(candidates)

	if len(detections) > 0 {
		a.logger.Debug("Entities detected",
			zap.Int("count", len(detections)),
			zap.Int("dropped_overlaps", len(candidates)-len(detections)),
		)
	}

	return detections
}

// resolveOverlaps reduces candidate detections to a non-overlapping set.
// Tie-break policy: higher score wins, then longer span, then earlier start.
func resolveOverlaps(candidates []Detection) []Detection {
	sorted := append([]Detection(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		lenI := sorted[i].End - sorted[i].Start
		lenJ := sorted[j].End - sorted[j].Start
		if lenI != lenJ {
			return lenI > lenJ
		}
		return sorted[i].Start < sorted[j].Start
	})

	var accepted []Detection
	for _, candidate := range sorted {
		overlaps := false
		for _, kept := range accepted {
			if candidate.Start < kept.End && kept.Start < candidate.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, candidate)
		}
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].Start < accepted[j].Start })
	return accepted
}

// boostScoreWithContext raises the base score when a context word occurs
// within the window around the match position.
func boostScoreWithContext(text string, position int, baseScore float64, contextWords []string, boost float64) float64 {
	if len(contextWords) == 0 {
		return baseScore
	}

	start := position - contextWindowChars
	if start < 0 {
		start = 0
	}
	end := position + contextWindowChars
	if end > len(text) {
		end = len(text)
	}
	window := strings.ToLower(text[start:end])

	for _, word := range contextWords {
		if strings.Contains(window, strings.ToLower(word)) {
			score := baseScore + boost
			if score > 1.0 {
				score = 1.0
			}
			return score
		}
	}
	return baseScore
}

// luhnValid checks whether a digit string passes the Luhn algorithm
func luhnValid(number string) bool {
	if len(number) < 2 {
		return false
	}
	sum := 0
	alt := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if alt {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		alt = !alt
	}
	return sum%10 == 0
}

// stripNonDigits removes all non-digit characters
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
