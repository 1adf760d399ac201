package extraction

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"testing"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/llm"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// stubProvider returns a canned response (or error) for every call.
type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return s.response, s.err
}

func newTestExtractor(response string, err error) *Extractor {
	return NewExtractor(&stubProvider{response: response, err: err}, log.New(io.Discard, "", 0))
}

func TestExtractValidPatch(t *testing.T) {
	resp := `Here is the extraction:
{"make":"Porsche","model":"Boxster","trim":"S","year_min":2009,"year_max":2012,
"budget_max_usd":60000,"tier1":["Manual transmission"],"tier2":["Under 60k miles ideal"],
"tier3":[],"rejections":["No salvage titles"],"aesthetics":[]}`

	patch := newTestExtractor(resp, nil).Extract(context.Background(), "irrelevant", &store.Session{})
	if patch.Make != "Porsche" || patch.YearMin != 2009 {
		t.Errorf("patch = %+v", patch)
	}
	if !reflect.DeepEqual(patch.Tier1, []string{"Manual transmission"}) {
		t.Errorf("tier1 = %v", patch.Tier1)
	}
}

func TestExtractRejectsWholesale(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"unknown field", `{"make":"Porsche","vibe":"excellent"}`},
		{"wrong type", `{"year_min":"twenty-eleven"}`},
		{"inverted years", `{"year_min":2015,"year_max":2009}`},
		{"no json", `I could not find any constraints.`},
		{"out of range year", `{"year_min":9999}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := newTestExtractor(tt.response, nil).Extract(
				context.Background(), "must be manual, prefer yellow", &store.Session{})
			// Rejection is wholesale: nothing from the bad patch survives,
			// only fallback tier3 clauses.
			if patch.Make != "" || patch.YearMin != 0 {
				t.Errorf("partial acceptance of invalid patch: %+v", patch)
			}
			if len(patch.Tier3) != 2 {
				t.Errorf("fallback should carry utterance clauses: %+v", patch.Tier3)
			}
		})
	}
}

func TestExtractProviderErrorFallsBack(t *testing.T) {
	patch := newTestExtractor("", errors.New("connection refused")).Extract(
		context.Background(), "clean title only", &store.Session{})
	if !reflect.DeepEqual(patch.Tier3, []string{"clean title only"}) {
		t.Errorf("fallback = %+v", patch.Tier3)
	}
}

func TestApplyNeverOverwritesIntent(t *testing.T) {
	s := &store.Session{}
	s.Intent.Make = "Porsche"
	s.Intent.YearMin, s.Intent.YearMax = 2009, 2012

	Apply(s, &Patch{Make: "Honda", Model: "Boxster", YearMin: 1999, YearMax: 2001})
	if s.Intent.Make != "Porsche" {
		t.Error("patch must not overwrite a captured make")
	}
	if s.Intent.YearMin != 2009 || s.Intent.YearMax != 2012 {
		t.Error("patch must not overwrite a captured year range")
	}
	if s.Intent.Model != "Boxster" {
		t.Error("unset fields should be filled")
	}
}

func TestApplyNormalizesAdditions(t *testing.T) {
	s := &store.Session{}
	// A preference-worded rule landing in tier1 must be demoted on merge.
	Apply(s, &Patch{
		Tier1: []string{"Must be manual", "Ideally under 60k miles"},
	})
	if !reflect.DeepEqual(s.Constraints.Tier1, []string{"Must be manual"}) {
		t.Errorf("tier1 = %v", s.Constraints.Tier1)
	}
	if !reflect.DeepEqual(s.Constraints.Tier2, []string{"Ideally under 60k miles"}) {
		t.Errorf("tier2 = %v", s.Constraints.Tier2)
	}
}

func TestApplyDeduplicatesTaste(t *testing.T) {
	s := &store.Session{}
	s.Taste.Rejections = []string{"No salvage titles"}
	Apply(s, &Patch{Rejections: []string{"no  salvage titles", "No flood damage"}})
	if !reflect.DeepEqual(s.Taste.Rejections, []string{"No salvage titles", "No flood damage"}) {
		t.Errorf("rejections = %v", s.Taste.Rejections)
	}
}

func TestApplyBackfillsGenerationFromTiers(t *testing.T) {
	s := &store.Session{}
	Apply(s, &Patch{Tier1: []string{"987.2 generation only"}})
	if s.Intent.Generation != "987.2" {
		t.Errorf("generation = %q, want backfilled 987.2", s.Intent.Generation)
	}
}
