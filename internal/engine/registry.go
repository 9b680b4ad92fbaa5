package engine

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/dataveil/dataveil/internal/config"
)

//go:embed recognizers.yaml
var defaultRecognizersYAML []byte

// RecognizerFile is the top-level YAML structure for a recognizer file.
type RecognizerFile struct {
	Recognizers []RecognizerSpec `yaml:"recognizers"`
}

// RecognizerSpec declares one recognizer: regex patterns and/or a deny list
// for a single entity type.
type RecognizerSpec struct {
	Name            string        `yaml:"name"`
	SupportedEntity string        `yaml:"supported_entity"`
	Patterns        []PatternSpec `yaml:"patterns,omitempty"`
	Context         []string      `yaml:"context,omitempty"`
	DenyList        []string      `yaml:"deny_list,omitempty"`
	DenyListScore   float64       `yaml:"deny_list_score,omitempty"`
	ValidateLuhn    bool          `yaml:"validate_luhn,omitempty"`
}

// PatternSpec is a single regex pattern within a recognizer
type PatternSpec struct {
	Name  string  `yaml:"name"`
	Regex string  `yaml:"regex"`
	Score float64 `yaml:"score"`
}

// ParseRecognizerFile parses recognizer YAML bytes
func ParseRecognizerFile(data []byte) (*RecognizerFile, error) {
	var rf RecognizerFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse recognizer YAML: %w", err)
	}
	return &rf, nil
}

// DefaultRecognizers returns the built-in recognizer set parsed from the
// embedded recognizers.yaml.
func DefaultRecognizers() ([]RecognizerSpec, error) {
	rf, err := ParseRecognizerFile(defaultRecognizersYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded recognizers: %w", err)
	}
	return rf.Recognizers, nil
}

// MergeRecognizers layers recognizer lists; a later spec with the same Name
// overrides the earlier one, new specs are appended.
func MergeRecognizers(layers ...[]RecognizerSpec) []RecognizerSpec {
	index := make(map[string]int)
	var merged []RecognizerSpec

	for _, layer := range layers {
		for _, spec := range layer {
			if idx, exists := index[spec.Name]; exists {
				merged[idx] = spec
			} else {
				index[spec.Name] = len(merged)
				merged = append(merged, spec)
			}
		}
	}

	return merged
}

// Registry holds the compiled detection rules. Rules are additive only;
// once built the registry is safe for concurrent readers.
type Registry struct {
	rules []Rule
}

// NewRegistry compiles the built-in recognizers merged with custom
// recognizers from configuration.
func NewRegistry(custom []config.RecognizerConfig) (*Registry, error) {
	defaults, err := DefaultRecognizers()
	if err != nil {
		return nil, err
	}

	specs := MergeRecognizers(defaults, specsFromConfig(custom))

	rules, err := compileSpecs(specs)
	if err != nil {
		return nil, err
	}

	return &Registry{rules: rules}, nil
}

// Register adds a single pattern rule for an entity type. Additive only;
// there is no removal or update API.
func (r *Registry) Register(entity, pattern string, score float64) error {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("failed to compile pattern for %s: %w", entity, err)
	}

	r.rules = append(r.rules, Rule{
		Name:    strings.ToLower(entity) + "_custom",
		Entity:  entity,
		Pattern: compiled,
		Score:   score,
	})
	return nil
}

// Rules returns the compiled rule set
func (r *Registry) Rules() []Rule {
	return r.rules
}

// EntityTypes returns the sorted set of entity types the registry covers
func (r *Registry) EntityTypes() []string {
	entities := lo.Uniq(lo.Map(r.rules, func(rule Rule, _ int) string {
		return rule.Entity
	}))
	sort.Strings(entities)
	return entities
}

// specsFromConfig converts configured custom recognizers into specs
func specsFromConfig(custom []config.RecognizerConfig) []RecognizerSpec {
	specs := make([]RecognizerSpec, 0, len(custom))
	for _, rc := range custom {
		patterns := make([]PatternSpec, 0, len(rc.Patterns))
		for _, p := range rc.Patterns {
			patterns = append(patterns, PatternSpec{Name: p.Name, Regex: p.Regex, Score: p.Score})
		}
		specs = append(specs, RecognizerSpec{
			Name:            rc.Name,
			SupportedEntity: rc.Entity,
			Patterns:        patterns,
			Context:         rc.Context,
			DenyList:        rc.DenyList,
			DenyListScore:   rc.DenyListScore,
		})
	}
	return specs
}

// compileSpecs turns recognizer specs into compiled rules. Each pattern
// yields one rule; a deny list yields one alternation rule.
func compileSpecs(specs []RecognizerSpec) ([]Rule, error) {
	var rules []Rule

	for _, spec := range specs {
		for _, p := range spec.Patterns {
			compiled, err := regexp.Compile(p.Regex)
			if err != nil {
				return nil, fmt.Errorf("failed to compile pattern %q in recognizer %q: %w", p.Name, spec.Name, err)
			}
			rules = append(rules, Rule{
				Name:         p.Name,
				Entity:       spec.SupportedEntity,
				Pattern:      compiled,
				Score:        p.Score,
				Context:      spec.Context,
				ValidateLuhn: spec.ValidateLuhn,
			})
		}

		if len(spec.DenyList) > 0 {
			compiled, err := denyListPattern(spec.DenyList)
			if err != nil {
				return nil, fmt.Errorf("failed to compile deny list in recognizer %q: %w", spec.Name, err)
			}
			score := spec.DenyListScore
			if score == 0 {
				score = 0.5
			}
			rules = append(rules, Rule{
				Name:    spec.Name + "_deny_list",
				Entity:  spec.SupportedEntity,
				Pattern: compiled,
				Score:   score,
				Context: spec.Context,
			})
		}
	}

	return rules, nil
}

// denyListPattern builds a word-bounded alternation over literal terms,
// longest terms first so "New Delhi" wins over "Delhi".
func denyListPattern(terms []string) (*regexp.Regexp, error) {
	sorted := append([]string(nil), terms...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := lo.Map(sorted, func(term string, _ int) string {
		return regexp.QuoteMeta(term)
	})
	return regexp.Compile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
