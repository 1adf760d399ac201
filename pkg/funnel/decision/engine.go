package decision

import (
	"strings"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// MaxBlockers bounds how many distinct unconfirmed-evidence lines a WATCH
// decision surfaces from the discovery list.
const MaxBlockers = 4

// Decide is a pure function of the tiered output and the canonical boundary.
// It returns exactly one of ACT, WATCH or REVISE for any input, and identical
// inputs always produce an identical decision.
func Decide(finalists, discovery []store.Candidate, boundary store.Boundary) store.Decision {
	if len(finalists) > 0 {
		return act(finalists)
	}
	if len(discovery) > 0 {
		return watch(discovery, boundary)
	}
	return revise()
}

// act selects the highest-scoring finalist. Any non-empty finalist list is
// grounds for ACT, regardless of verdict: a CONDITIONAL finalist still cleared
// the full tier-1 gate.
func act(finalists []store.Candidate) store.Decision {
	best := finalists[0]
	for _, c := range finalists[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	pick := best
	return store.Decision{
		Action:    store.ActionAct,
		Pick:      &pick,
		Rationale: "A tier-1-qualifying option exists and is the best available now.",
	}
}

// watch gathers up to MaxBlockers distinct "not confirmed" lines across the
// near-misses and echoes the non-negotiables as the watch seed.
func watch(discovery []store.Candidate, boundary store.Boundary) store.Decision {
	var blockers []string
	seen := make(map[string]bool)
	for _, c := range discovery {
		for _, line := range c.Rationale {
			if !strings.Contains(line, "not confirmed") || seen[line] {
				continue
			}
			seen[line] = true
			blockers = append(blockers, line)
			if len(blockers) == MaxBlockers {
				break
			}
		}
		if len(blockers) == MaxBlockers {
			break
		}
	}
	return store.Decision{
		Action:    store.ActionWatch,
		Blockers:  blockers,
		WatchSeed: append([]string(nil), boundary.Tier1...),
		Rationale: "Near-misses exist but none clears the full boundary; waiting preserves the specification.",
	}
}

// revise suggests generic relaxations when the market returned nothing usable.
func revise() store.Decision {
	return store.Decision{
		Action: store.ActionRevise,
		Blockers: []string{
			"Loosen one non-negotiable",
			"Raise the budget ceiling",
			"Broaden the year or mileage window",
			"Expand the search geography",
		},
		Rationale: "Nothing on the market satisfies the current boundary; the specification needs revision.",
	}
}
