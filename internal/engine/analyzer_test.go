package engine

import (
	"testing"

	"github.com/dataveil/dataveil/internal/config"
	"github.com/dataveil/dataveil/internal/logger"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()

	registry, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	return NewAnalyzer(registry, config.EngineConfig{MinScore: 0.5, ContextBoost: 0.35}, logger.Nop())
}

func entitiesOf(detections []Detection) []string {
	entities := make([]string, 0, len(detections))
	for _, d := range detections {
		entities = append(entities, d.Entity)
	}
	return entities
}

func TestDetect(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	tests := []struct {
		name     string
		text     string
		entities []string
		want     []string
	}{
		{
			name: "email address",
			text: "reach me at alice@example.com please",
			want: []string{EntityEmail},
		},
		{
			name: "dashed national id",
			text: "id 1234-5678-9012 on file",
			want: []string{EntityAadhaar},
		},
		{
			name: "pan",
			text: "PAN ABCDE1234F",
			want: []string{EntityPAN},
		},
		{
			name: "ipv4",
			text: "logged in from 192.168.1.100 yesterday",
			want: []string{EntityIPAddress},
		},
		{
			name: "no pii",
			text: "nothing sensitive here",
			want: nil,
		},
		{
			name:     "entity filter excludes others",
			text:     "alice@example.com called from 9876543210",
			entities: []string{EntityEmail},
			want:     []string{EntityEmail},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Detect(tt.text, tt.entities)
			if len(got) != len(tt.want) {
				t.Fatalf("Detect() = %v, want entities %v", got, tt.want)
			}
			for i, entity := range tt.want {
				if got[i].Entity != entity {
					t.Errorf("Detect()[%d].Entity = %s, want %s", i, got[i].Entity, entity)
				}
			}
		})
	}
}

func TestDetectSpanOffsets(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	text := "mail alice@example.com today"
	detections := analyzer.Detect(text, []string{EntityEmail})
	if len(detections) != 1 {
		t.Fatalf("Detect() returned %d detections, want 1", len(detections))
	}

	d := detections[0]
	if got := text[d.Start:d.End]; got != "alice@example.com" {
		t.Errorf("span = %q, want %q", got, "alice@example.com")
	}
}

func TestDetectOverlapResolution(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	t.Run("higher score wins on identical span", func(t *testing.T) {
		// A bare 10-digit number matches both the local phone rule (1.0)
		// and the bank account rule (0.8).
		detections := analyzer.Detect("call 9876543210 now", nil)
		if len(detections) != 1 {
			t.Fatalf("Detect() returned %d detections, want 1", len(detections))
		}
		if detections[0].Entity != EntityPhone {
			t.Errorf("winner = %s, want %s", detections[0].Entity, EntityPhone)
		}
	})

	t.Run("luhn valid sixteen digits resolve to credit card", func(t *testing.T) {
		detections := analyzer.Detect("card 4111111111111111 charged", nil)
		if len(detections) != 1 {
			t.Fatalf("Detect() returned %d detections, want 1", len(detections))
		}
		if detections[0].Entity != EntityCreditCard {
			t.Errorf("winner = %s, want %s", detections[0].Entity, EntityCreditCard)
		}
	})

	t.Run("luhn invalid sixteen digits fall back to bank account", func(t *testing.T) {
		detections := analyzer.Detect("ref 4111111111111112 noted", nil)
		if len(detections) != 1 {
			t.Fatalf("Detect() returned %d detections, want 1", len(detections))
		}
		if detections[0].Entity != EntityBankAccount {
			t.Errorf("winner = %s, want %s", detections[0].Entity, EntityBankAccount)
		}
	})

	t.Run("detections come back ordered by start", func(t *testing.T) {
		detections := analyzer.Detect("alice@example.com and 10.0.0.1 and 1234-5678-9012", nil)
		for i := 1; i < len(detections); i++ {
			if detections[i].Start < detections[i-1].End {
				t.Errorf("detections overlap or are unordered: %v", detections)
			}
		}
	})
}

func TestDetectContextBoost(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	t.Run("full name without context stays below threshold", func(t *testing.T) {
		detections := analyzer.Detect("Alice Johnson", []string{EntityPerson})
		if len(detections) != 0 {
			t.Errorf("Detect() = %v, want none", detections)
		}
	})

	t.Run("full name with context word is detected", func(t *testing.T) {
		detections := analyzer.Detect("employee name: Alice Johnson", []string{EntityPerson})
		if len(detections) != 1 {
			t.Fatalf("Detect() returned %d detections, want 1", len(detections))
		}
		if detections[0].Entity != EntityPerson {
			t.Errorf("entity = %s, want %s", detections[0].Entity, EntityPerson)
		}
	})

	t.Run("honorific name needs no context", func(t *testing.T) {
		detections := analyzer.Detect("met Dr. Priya Sharma today", []string{EntityPerson})
		if len(detections) != 1 {
			t.Fatalf("Detect() returned %d detections, want 1", len(detections))
		}
	})
}

func TestDetectLocationDenyList(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	detections := analyzer.Detect("shipped to New Delhi office", []string{EntityLocation})
	if len(detections) != 1 {
		t.Fatalf("Detect() returned %d detections, want 1", len(detections))
	}

	text := "shipped to New Delhi office"
	if got := text[detections[0].Start:detections[0].End]; got != "New Delhi" {
		t.Errorf("span = %q, want %q (longest deny list term)", got, "New Delhi")
	}
}

func TestLuhnValid(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{"4111111111111111", true},
		{"4111111111111112", false},
		{"378282246310005", true}, // amex test number
		{"", false},
		{"7", false},
	}

	for _, tt := range tests {
		if got := luhnValid(tt.number); got != tt.want {
			t.Errorf("luhnValid(%q) = %v, want %v", tt.number, got, tt.want)
		}
	}
}
