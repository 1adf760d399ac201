// Package render produces the advisor's reply text for each conversation
// state. Rendering is deterministic: the same session snapshot always yields
// the same text, so replies are testable without any model in the loop.
package render

import (
	"fmt"
	"strings"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/constraint"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/state"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// Reply renders the advisor's message for the session's current state.
func Reply(s *store.Session) string {
	switch s.State {
	case store.StateInit, store.StateCapture:
		return capture(s)
	case store.StateConfirm:
		return confirm(s)
	case store.StateExplore:
		return explore(s)
	case store.StateDecide:
		return decide(s)
	case store.StateWatch:
		return watchReply(s)
	case store.StateIterate:
		return iterate(s)
	case store.StateClose:
		return closeReply(s)
	default:
		return capture(s)
	}
}

func capture(s *store.Session) string {
	var sb strings.Builder
	sb.WriteString("Let's pin down what you're looking for.\n")
	if len(s.Constraints.Tier1) > 0 {
		sb.WriteString("\nNon-negotiables so far:\n")
		writeList(&sb, s.Constraints.Tier1)
	}
	if len(s.Constraints.Tier2) > 0 {
		sb.WriteString("\nStrong preferences:\n")
		writeList(&sb, s.Constraints.Tier2)
	}
	missing := state.MinTier1ForConfirm - len(s.Constraints.Tier1)
	if missing > 0 {
		fmt.Fprintf(&sb, "\nI need at least %d more non-negotiable(s) before we can lock the spec. What else is a deal-breaker for you?", missing)
	} else {
		sb.WriteString("\nThat's enough to work with. Say \"confirm\" to lock these in, or keep refining.")
	}
	return sb.String()
}

func confirm(s *store.Session) string {
	b := constraint.Boundary(s)
	var sb strings.Builder
	sb.WriteString("Here's the spec I'll search against.\n")
	sb.WriteString("\nMust have:\n")
	writeList(&sb, b.Tier1)
	if len(b.Tier2) > 0 {
		sb.WriteString("\nNice to have:\n")
		writeList(&sb, b.Tier2)
	}
	if len(b.HardRejections) > 0 {
		sb.WriteString("\nAutomatic rejections:\n")
		writeList(&sb, b.HardRejections)
	}
	sb.WriteString("\nSay \"confirm\" to start the search, or \"revise\" to change anything.")
	return sb.String()
}

func explore(s *store.Session) string {
	var sb strings.Builder
	if len(s.Finalists) == 0 && len(s.Discovery) == 0 {
		sb.WriteString("Nothing on the market clears your spec right now.\n")
		sb.WriteString("Say \"watch\" to monitor for a match, or \"revise\" to loosen the spec.")
		return sb.String()
	}
	if len(s.Finalists) > 0 {
		fmt.Fprintf(&sb, "Finalists (%d):\n", len(s.Finalists))
		writeCandidates(&sb, s.Finalists)
	}
	if len(s.Discovery) > 0 {
		fmt.Fprintf(&sb, "\nNear-misses worth a look (%d):\n", len(s.Discovery))
		writeCandidates(&sb, s.Discovery)
	}
	sb.WriteString("\nSay \"done\" for my recommendation, \"watch\" to monitor instead, or \"revise\" to adjust the spec.")
	return sb.String()
}

func decide(s *store.Session) string {
	d := s.LastDecision
	if d == nil {
		return "I don't have a recommendation yet. Say \"confirm\" to run the search."
	}
	var sb strings.Builder
	switch d.Action {
	case store.ActionAct:
		sb.WriteString("Recommendation: act now.\n")
		if d.Pick != nil {
			fmt.Fprintf(&sb, "\nBest available: %s (score %d)\n", d.Pick.Title, d.Pick.Score)
			if d.Pick.URL != "" {
				fmt.Fprintf(&sb, "%s\n", d.Pick.URL)
			}
			writeList(&sb, d.Pick.Rationale)
		}
	case store.ActionWatch:
		sb.WriteString("Recommendation: wait and watch.\n")
		if len(d.Blockers) > 0 {
			sb.WriteString("\nWhat's blocking the near-misses:\n")
			writeList(&sb, d.Blockers)
		}
		sb.WriteString("\nSay \"watch\" and I'll monitor the market against your spec.")
	case store.ActionRevise:
		sb.WriteString("Recommendation: revise the spec.\n")
		if len(d.Blockers) > 0 {
			sb.WriteString("\nWays to open up the search:\n")
			writeList(&sb, d.Blockers)
		}
		sb.WriteString("\nSay \"revise\" and tell me what to change.")
	}
	if d.Rationale != "" {
		fmt.Fprintf(&sb, "\n%s", d.Rationale)
	}
	return sb.String()
}

func watchReply(s *store.Session) string {
	var sb strings.Builder
	sb.WriteString("Watch is set.\n")
	if w := s.Watch; w != nil {
		if len(w.MustHave) > 0 {
			sb.WriteString("\nMonitoring for:\n")
			writeList(&sb, w.MustHave)
		}
		if w.Cadence != "" {
			fmt.Fprintf(&sb, "\nCheck cadence: %s\n", w.Cadence)
		}
		if len(w.Sources) > 0 {
			fmt.Fprintf(&sb, "Sources: %s\n", strings.Join(w.Sources, ", "))
		}
	}
	sb.WriteString("\nI'll flag anything that clears the spec. Say \"revise\" to change it, or \"done\" to wrap up.")
	return sb.String()
}

func iterate(s *store.Session) string {
	return "What should change? Tell me what to loosen, tighten or drop, and I'll re-confirm the spec."
}

func closeReply(s *store.Session) string {
	var sb strings.Builder
	sb.WriteString("Wrapping up.")
	if s.Watch != nil {
		sb.WriteString(" Your watch stays active; I'll keep monitoring against the locked spec.")
	}
	if d := s.LastDecision; d != nil && d.Action == store.ActionAct && d.Pick != nil {
		fmt.Fprintf(&sb, " Good luck with the %s.", d.Pick.Title)
	}
	return sb.String()
}

func writeList(sb *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(sb, "  - %s\n", it)
	}
}

func writeCandidates(sb *strings.Builder, cands []store.Candidate) {
	for i, c := range cands {
		fmt.Fprintf(sb, "  %d. %s [%s, score %d]\n", i+1, c.Title, c.Verdict, c.Score)
		for _, r := range c.Rationale {
			fmt.Fprintf(sb, "     %s\n", r)
		}
	}
}
