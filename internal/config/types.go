package config

// Config represents the main configuration structure
type Config struct {
	Engine    EngineConfig    `yaml:"engine" mapstructure:"engine"`
	Anonymize AnonymizeConfig `yaml:"anonymize" mapstructure:"anonymize"`
	Normalize NormalizeConfig `yaml:"normalize" mapstructure:"normalize"`
	State     StateConfig     `yaml:"state" mapstructure:"state"`
	Preview   PreviewConfig   `yaml:"preview" mapstructure:"preview"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// EngineConfig controls entity detection
type EngineConfig struct {
	// Entities is the list of entity type labels requested from detection.
	Entities []string `yaml:"entities" mapstructure:"entities"`
	// MinScore drops detections scoring below it.
	MinScore float64 `yaml:"min_score" mapstructure:"min_score"`
	// ContextBoost is added to a detection's score when one of the rule's
	// context words appears near the match.
	ContextBoost float64 `yaml:"context_boost" mapstructure:"context_boost"`
	// Recognizers are additive custom rules merged over the built-in set.
	Recognizers []RecognizerConfig `yaml:"recognizers" mapstructure:"recognizers"`
}

// RecognizerConfig declares a custom pattern recognizer
type RecognizerConfig struct {
	Name          string          `yaml:"name" mapstructure:"name"`
	Entity        string          `yaml:"entity" mapstructure:"entity"`
	Patterns      []PatternConfig `yaml:"patterns" mapstructure:"patterns"`
	Context       []string        `yaml:"context" mapstructure:"context"`
	DenyList      []string        `yaml:"deny_list" mapstructure:"deny_list"`
	DenyListScore float64         `yaml:"deny_list_score" mapstructure:"deny_list_score"`
}

// PatternConfig is a single regex with its confidence score
type PatternConfig struct {
	Name  string  `yaml:"name" mapstructure:"name"`
	Regex string  `yaml:"regex" mapstructure:"regex"`
	Score float64 `yaml:"score" mapstructure:"score"`
}

// AnonymizeConfig controls how detected entities are transformed
type AnonymizeConfig struct {
	// Salt keys the hash operator. Empty means use the per-installation
	// salt persisted in the state store.
	Salt string `yaml:"salt" mapstructure:"salt"`
	// Operators maps an entity type label to its operator. The reserved
	// key DEFAULT supplies the fallback for unmapped types.
	Operators map[string]OperatorConfig `yaml:"operators" mapstructure:"operators"`
}

// OperatorConfig selects a redaction operator for one entity type
type OperatorConfig struct {
	Type     string `yaml:"type" mapstructure:"type"` // hash or replace
	NewValue string `yaml:"new_value" mapstructure:"new_value"`
}

// NormalizeConfig controls national ID canonicalization before detection
type NormalizeConfig struct {
	NationalID NationalIDConfig `yaml:"national_id" mapstructure:"national_id"`
}

// NationalIDConfig names the columns holding a structured national ID and
// its canonical shape
type NationalIDConfig struct {
	Columns   []string `yaml:"columns" mapstructure:"columns"`
	Length    int      `yaml:"length" mapstructure:"length"`
	GroupSize int      `yaml:"group_size" mapstructure:"group_size"`
}

// StateConfig locates the local state database
type StateConfig struct {
	// Path to the SQLite database holding the persisted salt. Empty means
	// $HOME/.dataveil/dataveil.db.
	Path string `yaml:"path" mapstructure:"path"`
}

// PreviewConfig bounds diagnostic preview output
type PreviewConfig struct {
	Rows  int `yaml:"rows" mapstructure:"rows"`
	Chars int `yaml:"chars" mapstructure:"chars"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
	} `yaml:"file" mapstructure:"file"`
}

// Entity type labels requested from detection by default.
var DefaultEntities = []string{
	"EMAIL_ADDRESS",
	"PHONE_NUMBER",
	"AADHAAR",
	"PERSON",
	"PAN",
	"IP_ADDRESS",
	"BANK_ACCOUNT",
	"CREDIT_CARD",
	"LOCATION",
	"DATE_TIME",
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	operators := map[string]OperatorConfig{
		"DEFAULT": {Type: "replace", NewValue: "[REDACTED]"},
	}
	for _, entity := range DefaultEntities {
		operators[entity] = OperatorConfig{Type: "hash"}
	}

	return &Config{
		Engine: EngineConfig{
			Entities:     append([]string(nil), DefaultEntities...),
			MinScore:     0.5,
			ContextBoost: 0.35,
		},
		Anonymize: AnonymizeConfig{
			Salt:      "",
			Operators: operators,
		},
		Normalize: NormalizeConfig{
			NationalID: NationalIDConfig{
				Columns:   []string{"Aadhaar"},
				Length:    12,
				GroupSize: 4,
			},
		},
		State: StateConfig{
			Path: "",
		},
		Preview: PreviewConfig{
			Rows:  5,
			Chars: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File: struct {
				Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
				Path    string `yaml:"path" mapstructure:"path"`
			}{
				Enabled: false,
				Path:    "logs/dataveil.log",
			},
		},
	}
}
