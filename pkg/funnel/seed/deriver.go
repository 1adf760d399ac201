package seed

import (
	"regexp"
	"strings"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/constraint"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// Transmission requirements
const (
	TransmissionManual    = "manual"
	TransmissionAutomatic = "automatic"
	TransmissionEither    = "either"
)

// Seed is the structured, provider-queryable projection of intent plus
// constraints. Every field is optional: a zero value means "unconstrained on
// this axis", never "reject".
type Seed struct {
	Make       string `json:"make,omitempty"`
	Model      string `json:"model,omitempty"`
	Trim       string `json:"trim,omitempty"`
	Generation string `json:"generation,omitempty"`
	YearMin    int    `json:"year_min,omitempty"`
	YearMax    int    `json:"year_max,omitempty"`

	Transmission  string `json:"transmission,omitempty"` // manual | automatic | either
	ExteriorColor string `json:"exterior_color,omitempty"`

	CleanTitleRequired bool `json:"clean_title_required,omitempty"`
	AvoidSaltHistory   bool `json:"avoid_salt_history,omitempty"`

	MileageIdealMax      int `json:"mileage_ideal_max,omitempty"`
	MileageAcceptableMax int `json:"mileage_acceptable_max,omitempty"`

	BudgetMaxUSD int `json:"budget_max_usd,omitempty"`
}

// colorVocabulary is the fixed set of recognizable exterior colors. The
// earliest occurrence in the search text wins. Unrecognized color phrases
// leave the field unset; the deriver never guesses.
var colorVocabulary = []string{
	"yellow", "red", "blue", "green", "black", "white",
	"silver", "grey", "gray", "orange", "brown", "purple",
}

var (
	mileageIdealPattern      = regexp.MustCompile(`under\s*(\d+)k\s*(?:miles\s*)?ideal`)
	mileageAcceptablePattern = regexp.MustCompile(`under\s*(\d+)k\s*(?:miles\s*)?acceptable`)
	budgetPattern            = regexp.MustCompile(`max\s+budget\s+\$?(\d+)k`)
	automaticPattern         = regexp.MustCompile(`\b(?:automatic|pdk|dsg)\b`)
	manualPattern            = regexp.MustCompile(`\bmanual\b`)
)

// Derive builds the explore seed from the session's structured intent and the
// concatenated tier text. Every rule is independent and best-effort: a missing
// match leaves the field unset. Derivation never fails.
func Derive(intent store.Intent, c store.Constraints) Seed {
	var all []string
	all = append(all, c.Tier1...)
	all = append(all, c.Tier2...)
	all = append(all, c.Tier3...)
	text := constraint.NormalizeRule(strings.Join(all, " "))

	s := Seed{
		// Identity comes from structured intent only; misreading make or
		// model from free text would corrupt the retrieval query.
		Make:  intent.Make,
		Model: intent.Model,
		Trim:  intent.Trim,
	}

	s.YearMin, s.YearMax = intent.YearMin, intent.YearMax
	if s.YearMin == 0 && s.YearMax == 0 {
		if lo, hi, ok := constraint.ExtractYearRange(text); ok {
			s.YearMin, s.YearMax = lo, hi
		}
	}

	s.Generation = intent.Generation
	if s.Generation == "" {
		s.Generation = constraint.ExtractGeneration(text)
	}

	switch {
	case manualPattern.MatchString(text):
		s.Transmission = TransmissionManual
	case automaticPattern.MatchString(text):
		s.Transmission = TransmissionAutomatic
	default:
		s.Transmission = TransmissionEither
	}

	s.ExteriorColor = firstColor(text)

	s.CleanTitleRequired = strings.Contains(text, "clean title")
	s.AvoidSaltHistory = strings.Contains(text, "salt") || strings.Contains(text, "rust")

	if m := mileageIdealPattern.FindStringSubmatch(text); m != nil {
		s.MileageIdealMax = atoi(m[1]) * 1000
	}
	if m := mileageAcceptablePattern.FindStringSubmatch(text); m != nil {
		s.MileageAcceptableMax = atoi(m[1]) * 1000
	}

	s.BudgetMaxUSD = intent.BudgetMaxUSD
	if s.BudgetMaxUSD == 0 {
		if m := budgetPattern.FindStringSubmatch(text); m != nil {
			s.BudgetMaxUSD = atoi(m[1]) * 1000
		}
	}

	return s
}

// Sufficient reports whether the seed can back a retrieval query. Calling the
// listings provider without make and model would return noise, so callers
// skip the live source and use the placeholder sample instead.
func (s Seed) Sufficient() bool {
	return s.Make != "" && s.Model != ""
}

func firstColor(text string) string {
	best, bestIdx := "", -1
	for _, color := range colorVocabulary {
		if idx := strings.Index(text, color); idx >= 0 {
			if bestIdx == -1 || idx < bestIdx {
				best, bestIdx = color, idx
			}
		}
	}
	return best
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
