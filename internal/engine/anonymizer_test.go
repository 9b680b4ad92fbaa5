package engine

import (
	"regexp"
	"strings"
	"testing"

	"github.com/dataveil/dataveil/internal/config"
	"github.com/dataveil/dataveil/internal/logger"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{16}$`)

func newTestAnonymizer(salt string) *Anonymizer {
	cfg := config.AnonymizeConfig{
		Operators: map[string]config.OperatorConfig{
			"DEFAULT":    {Type: "replace", NewValue: "[REDACTED]"},
			EntityEmail:  {Type: "hash"},
			EntityPhone:  {Type: "hash"},
			EntityPerson: {Type: "replace", NewValue: "[NAME]"},
		},
	}
	return NewAnonymizer(cfg, salt, logger.Nop())
}

func TestHashToken(t *testing.T) {
	anonymizer := newTestAnonymizer("pepper")

	t.Run("token is fixed length hex", func(t *testing.T) {
		token := anonymizer.HashToken("alice@example.com")
		if !hexToken.MatchString(token) {
			t.Errorf("HashToken() = %q, want 16 lowercase hex chars", token)
		}
	})

	t.Run("same value and salt give same token", func(t *testing.T) {
		first := anonymizer.HashToken("alice@example.com")
		second := newTestAnonymizer("pepper").HashToken("alice@example.com")
		if first != second {
			t.Errorf("tokens differ across instances: %q vs %q", first, second)
		}
	})

	t.Run("different salt gives different token", func(t *testing.T) {
		first := anonymizer.HashToken("alice@example.com")
		second := newTestAnonymizer("other").HashToken("alice@example.com")
		if first == second {
			t.Errorf("tokens match across salts: %q", first)
		}
	})

	t.Run("different values give different tokens", func(t *testing.T) {
		if anonymizer.HashToken("a") == anonymizer.HashToken("b") {
			t.Error("tokens collide for distinct values")
		}
	})
}

func TestApply(t *testing.T) {
	anonymizer := newTestAnonymizer("pepper")

	t.Run("no detections returns text unchanged", func(t *testing.T) {
		text := "nothing to hide"
		if got := anonymizer.Apply(text, nil); got != text {
			t.Errorf("Apply() = %q, want %q", got, text)
		}
	})

	t.Run("hash operator replaces span with token", func(t *testing.T) {
		text := "contact alice@example.com now"
		got := anonymizer.Apply(text, []Detection{
			{Entity: EntityEmail, Start: 8, End: 25, Score: 1.0},
		})
		if strings.Contains(got, "alice@example.com") {
			t.Errorf("Apply() = %q, still contains the original value", got)
		}
		want := "contact " + anonymizer.HashToken("alice@example.com") + " now"
		if got != want {
			t.Errorf("Apply() = %q, want %q", got, want)
		}
	})

	t.Run("replace operator uses configured literal", func(t *testing.T) {
		text := "Alice Johnson"
		got := anonymizer.Apply(text, []Detection{
			{Entity: EntityPerson, Start: 0, End: 13, Score: 0.7},
		})
		if got != "[NAME]" {
			t.Errorf("Apply() = %q, want %q", got, "[NAME]")
		}
	})

	t.Run("unmapped entity falls back to default operator", func(t *testing.T) {
		text := "PAN ABCDE1234F"
		got := anonymizer.Apply(text, []Detection{
			{Entity: EntityPAN, Start: 4, End: 14, Score: 0.95},
		})
		if got != "PAN [REDACTED]" {
			t.Errorf("Apply() = %q, want %q", got, "PAN [REDACTED]")
		}
	})

	t.Run("multiple spans applied back to front", func(t *testing.T) {
		text := "a@b.co and c@d.co"
		got := anonymizer.Apply(text, []Detection{
			{Entity: EntityEmail, Start: 0, End: 6, Score: 1.0},
			{Entity: EntityEmail, Start: 11, End: 17, Score: 1.0},
		})
		want := anonymizer.HashToken("a@b.co") + " and " + anonymizer.HashToken("c@d.co")
		if got != want {
			t.Errorf("Apply() = %q, want %q", got, want)
		}
	})

	t.Run("unsorted detections still land on the right spans", func(t *testing.T) {
		text := "a@b.co and c@d.co"
		got := anonymizer.Apply(text, []Detection{
			{Entity: EntityEmail, Start: 11, End: 17, Score: 1.0},
			{Entity: EntityEmail, Start: 0, End: 6, Score: 1.0},
		})
		want := anonymizer.HashToken("a@b.co") + " and " + anonymizer.HashToken("c@d.co")
		if got != want {
			t.Errorf("Apply() = %q, want %q", got, want)
		}
	})
}

func TestOperatorForMissingDefault(t *testing.T) {
	anonymizer := NewAnonymizer(config.AnonymizeConfig{}, "pepper", logger.Nop())

	got := anonymizer.Apply("ABCDE1234F", []Detection{
		{Entity: EntityPAN, Start: 0, End: 10, Score: 0.95},
	})
	if got != "[REDACTED]" {
		t.Errorf("Apply() = %q, want %q", got, "[REDACTED]")
	}
}
