package render

import (
	"strings"
	"testing"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

func confirmedSession() *store.Session {
	return &store.Session{
		ID:    "s1",
		State: store.StateConfirm,
		Constraints: store.Constraints{
			Tier1: []string{"Manual transmission", "Clean title", "Yellow exterior"},
			Tier2: []string{"Under 60k miles ideal"},
		},
	}
}

func TestReplyDeterministic(t *testing.T) {
	s := confirmedSession()
	if Reply(s) != Reply(s) {
		t.Fatal("identical snapshots must render identically")
	}
}

func TestCaptureAsksForMissingTier1(t *testing.T) {
	s := &store.Session{State: store.StateCapture, Constraints: store.Constraints{
		Tier1: []string{"Manual transmission"},
	}}
	out := Reply(s)
	if !strings.Contains(out, "2 more non-negotiable") {
		t.Errorf("capture reply should count missing non-negotiables:\n%s", out)
	}

	s.Constraints.Tier1 = append(s.Constraints.Tier1, "Clean title", "Yellow exterior")
	out = Reply(s)
	if !strings.Contains(out, `"confirm"`) {
		t.Errorf("capture reply should invite confirmation once the gate is met:\n%s", out)
	}
}

func TestConfirmEchoesBoundary(t *testing.T) {
	out := Reply(confirmedSession())
	for _, want := range []string{
		"Manual transmission",
		"Under 60k miles ideal",
		"Violates non-negotiable: Manual transmission",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("confirm reply missing %q:\n%s", want, out)
		}
	}
}

func TestExploreRendersTiers(t *testing.T) {
	s := confirmedSession()
	s.State = store.StateExplore
	s.Finalists = []store.Candidate{{Title: "2011 Porsche Boxster S", Verdict: store.VerdictAccept, Score: 78, Rationale: []string{"Color confirmed (yellow)"}}}
	s.Discovery = []store.Candidate{{Title: "2010 Porsche Boxster", Verdict: store.VerdictConditional, Score: 58, Rationale: []string{"Color not confirmed (yellow)"}}}

	out := Reply(s)
	if !strings.Contains(out, "Finalists (1)") || !strings.Contains(out, "Near-misses worth a look (1)") {
		t.Errorf("explore reply missing tier headers:\n%s", out)
	}
	if !strings.Contains(out, "Color not confirmed (yellow)") {
		t.Errorf("near-miss rationale should be surfaced:\n%s", out)
	}
}

func TestExploreEmptyMarket(t *testing.T) {
	s := confirmedSession()
	s.State = store.StateExplore
	out := Reply(s)
	if !strings.Contains(out, "Nothing on the market") {
		t.Errorf("empty market should be said plainly:\n%s", out)
	}
}

func TestDecideRendersEachAction(t *testing.T) {
	s := confirmedSession()
	s.State = store.StateDecide

	s.LastDecision = &store.Decision{
		Action: store.ActionAct,
		Pick:   &store.Candidate{Title: "2011 Porsche Boxster S", Score: 78},
	}
	if out := Reply(s); !strings.Contains(out, "act now") || !strings.Contains(out, "score 78") {
		t.Errorf("ACT reply:\n%s", out)
	}

	s.LastDecision = &store.Decision{
		Action:   store.ActionWatch,
		Blockers: []string{"Color not confirmed (yellow)"},
	}
	if out := Reply(s); !strings.Contains(out, "wait and watch") || !strings.Contains(out, "Color not confirmed (yellow)") {
		t.Errorf("WATCH reply:\n%s", out)
	}

	s.LastDecision = &store.Decision{
		Action:   store.ActionRevise,
		Blockers: []string{"Raise the budget ceiling"},
	}
	if out := Reply(s); !strings.Contains(out, "revise the spec") {
		t.Errorf("REVISE reply:\n%s", out)
	}
}

func TestWatchReplyShowsSpec(t *testing.T) {
	s := confirmedSession()
	s.State = store.StateWatch
	s.Watch = &store.WatchSpec{
		MustHave: []string{"Manual transmission", "Yellow exterior"},
		Cadence:  "daily",
		Sources:  []string{"autotempest"},
	}
	out := Reply(s)
	for _, want := range []string{"Watch is set", "Manual transmission", "daily", "autotempest"} {
		if !strings.Contains(out, want) {
			t.Errorf("watch reply missing %q:\n%s", want, out)
		}
	}
}
