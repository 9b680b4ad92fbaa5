package engine

import (
	"testing"

	"github.com/dataveil/dataveil/internal/config"
)

func TestDefaultRecognizers(t *testing.T) {
	specs, err := DefaultRecognizers()
	if err != nil {
		t.Fatalf("DefaultRecognizers() error = %v", err)
	}
	if len(specs) == 0 {
		t.Fatal("DefaultRecognizers() returned no specs")
	}

	entities := make(map[string]bool)
	for _, spec := range specs {
		entities[spec.SupportedEntity] = true
	}

	for _, entity := range []string{
		EntityEmail, EntityPhone, EntityAadhaar, EntityPerson, EntityPAN,
		EntityIPAddress, EntityBankAccount, EntityCreditCard, EntityLocation,
		EntityDateTime,
	} {
		if !entities[entity] {
			t.Errorf("built-in recognizers missing entity %s", entity)
		}
	}
}

func TestNewRegistry(t *testing.T) {
	t.Run("compiles built-ins", func(t *testing.T) {
		registry, err := NewRegistry(nil)
		if err != nil {
			t.Fatalf("NewRegistry() error = %v", err)
		}
		if len(registry.Rules()) == 0 {
			t.Fatal("registry has no rules")
		}
	})

	t.Run("custom recognizer adds new entity", func(t *testing.T) {
		registry, err := NewRegistry([]config.RecognizerConfig{
			{
				Name:   "employee_id_recognizer",
				Entity: "EMPLOYEE_ID",
				Patterns: []config.PatternConfig{
					{Name: "employee_id", Regex: `\bEMP-\d{6}\b`, Score: 0.9},
				},
			},
		})
		if err != nil {
			t.Fatalf("NewRegistry() error = %v", err)
		}

		found := false
		for _, rule := range registry.Rules() {
			if rule.Entity == "EMPLOYEE_ID" {
				found = true
			}
		}
		if !found {
			t.Error("custom recognizer not compiled into registry")
		}
	})

	t.Run("custom recognizer with same name overrides built-in", func(t *testing.T) {
		registry, err := NewRegistry([]config.RecognizerConfig{
			{
				Name:   "ip_recognizer",
				Entity: EntityIPAddress,
				Patterns: []config.PatternConfig{
					{Name: "ipv4_strict", Regex: `\b10\.(?:\d{1,3}\.){2}\d{1,3}\b`, Score: 0.95},
				},
			},
		})
		if err != nil {
			t.Fatalf("NewRegistry() error = %v", err)
		}

		for _, rule := range registry.Rules() {
			if rule.Entity == EntityIPAddress && rule.Name == "ipv4" {
				t.Error("built-in ip rule survived an override by name")
			}
		}
	})

	t.Run("invalid custom pattern fails compile", func(t *testing.T) {
		_, err := NewRegistry([]config.RecognizerConfig{
			{
				Name:   "broken",
				Entity: "BROKEN",
				Patterns: []config.PatternConfig{
					{Name: "broken", Regex: `(`, Score: 0.5},
				},
			},
		})
		if err == nil {
			t.Fatal("NewRegistry() accepted an invalid regex")
		}
	})
}

func TestRegister(t *testing.T) {
	registry, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	before := len(registry.Rules())

	if err := registry.Register("TICKET_ID", `\bTKT-\d{8}\b`, 0.85); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if len(registry.Rules()) != before+1 {
		t.Errorf("rule count = %d, want %d", len(registry.Rules()), before+1)
	}

	if err := registry.Register("BAD", `[`, 0.5); err == nil {
		t.Error("Register() accepted an invalid regex")
	}
}

func TestMergeRecognizers(t *testing.T) {
	base := []RecognizerSpec{
		{Name: "a", SupportedEntity: "A"},
		{Name: "b", SupportedEntity: "B"},
	}
	override := []RecognizerSpec{
		{Name: "b", SupportedEntity: "B2"},
		{Name: "c", SupportedEntity: "C"},
	}

	merged := MergeRecognizers(base, override)
	if len(merged) != 3 {
		t.Fatalf("merged %d specs, want 3", len(merged))
	}
	if merged[1].SupportedEntity != "B2" {
		t.Errorf("override lost: %+v", merged[1])
	}
	if merged[2].Name != "c" {
		t.Errorf("appended spec missing: %+v", merged)
	}
}

func TestEntityTypes(t *testing.T) {
	registry, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	entities := registry.EntityTypes()
	if len(entities) < 10 {
		t.Errorf("EntityTypes() = %v, want at least the 10 built-in types", entities)
	}
	for i := 1; i < len(entities); i++ {
		if entities[i-1] >= entities[i] {
			t.Errorf("EntityTypes() not sorted: %v", entities)
		}
	}
}
