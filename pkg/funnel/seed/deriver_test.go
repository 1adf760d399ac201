package seed

import (
	"testing"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

func TestDeriveFullSeed(t *testing.T) {
	intent := store.Intent{
		Make:         "Porsche",
		Model:        "Boxster",
		Trim:         "S",
		BudgetMaxUSD: 60000,
	}
	c := store.Constraints{
		Tier1: []string{"Manual transmission only", "Clean title", "2009-2012 model years"},
		Tier2: []string{"Speed Yellow exterior", "under 60k miles ideal", "under 80k acceptable"},
		Tier3: []string{"avoid salt states"},
	}

	s := Derive(intent, c)

	if s.Make != "Porsche" || s.Model != "Boxster" || s.Trim != "S" {
		t.Errorf("identity fields = %s/%s/%s, want from structured intent", s.Make, s.Model, s.Trim)
	}
	if s.YearMin != 2009 || s.YearMax != 2012 {
		t.Errorf("year range = %d-%d, want 2009-2012", s.YearMin, s.YearMax)
	}
	if s.Transmission != TransmissionManual {
		t.Errorf("transmission = %q, want manual", s.Transmission)
	}
	if s.ExteriorColor != "yellow" {
		t.Errorf("color = %q, want yellow", s.ExteriorColor)
	}
	if !s.CleanTitleRequired || !s.AvoidSaltHistory {
		t.Errorf("flags = clean:%v salt:%v, want both true", s.CleanTitleRequired, s.AvoidSaltHistory)
	}
	if s.MileageIdealMax != 60000 || s.MileageAcceptableMax != 80000 {
		t.Errorf("mileage = %d/%d, want 60000/80000", s.MileageIdealMax, s.MileageAcceptableMax)
	}
	if s.BudgetMaxUSD != 60000 {
		t.Errorf("budget = %d, want structured 60000", s.BudgetMaxUSD)
	}
}

func TestDeriveEmptyInputNeverFails(t *testing.T) {
	s := Derive(store.Intent{}, store.Constraints{})
	if s.Make != "" || s.Model != "" || s.YearMin != 0 {
		t.Errorf("empty derivation produced constraints: %+v", s)
	}
	if s.Transmission != TransmissionEither {
		t.Errorf("transmission = %q, want either when unconstrained", s.Transmission)
	}
	if s.Sufficient() {
		t.Error("empty seed must not be sufficient for retrieval")
	}
}

func TestDeriveTransmission(t *testing.T) {
	tests := []struct {
		rule string
		want string
	}{
		{"manual transmission only", TransmissionManual},
		{"PDK is fine", TransmissionAutomatic},
		{"dsg preferred", TransmissionAutomatic},
		{"automatic acceptable", TransmissionAutomatic},
		{"low miles", TransmissionEither},
		// manual wins when both appear
		{"manual, but automatic acceptable", TransmissionManual},
	}
	for _, tt := range tests {
		s := Derive(store.Intent{}, store.Constraints{Tier1: []string{tt.rule}})
		if s.Transmission != tt.want {
			t.Errorf("Derive(%q).Transmission = %q, want %q", tt.rule, s.Transmission, tt.want)
		}
	}
}

func TestDeriveBudgetTextFallback(t *testing.T) {
	c := store.Constraints{Tier2: []string{"max budget $45k firm"}}
	s := Derive(store.Intent{}, c)
	if s.BudgetMaxUSD != 45000 {
		t.Errorf("budget = %d, want 45000 from text pattern", s.BudgetMaxUSD)
	}

	// Structured budget takes precedence over the text pattern.
	s = Derive(store.Intent{BudgetMaxUSD: 52000}, c)
	if s.BudgetMaxUSD != 52000 {
		t.Errorf("budget = %d, want structured 52000", s.BudgetMaxUSD)
	}
}

func TestDeriveUnrecognizedColorStaysUnset(t *testing.T) {
	c := store.Constraints{Tier2: []string{"chartreuse paint preferred"}}
	s := Derive(store.Intent{}, c)
	if s.ExteriorColor != "" {
		t.Errorf("color = %q, want unset for out-of-vocabulary phrase", s.ExteriorColor)
	}
}
