package scoring

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/seed"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/signal"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

const (
	// BaseScore is the starting score before gates and evidence adjustments.
	BaseScore = 50
	// AcceptThreshold separates ACCEPT from CONDITIONAL finalists.
	AcceptThreshold = 75

	// FinalistCap and DiscoveryCap bound the tier lists. They are enforced
	// after scoring and again after any external merge, so no code path can
	// leak more than the cap.
	FinalistCap  = 5
	DiscoveryCap = 3

	trimConfirmBonus   = 8
	colorConfirmBonus  = 12
	budgetWithinBonus  = 8
	mileageIdealBonus  = 10
	mileageOKBonus     = 5
	mileageOverPenalty = 8
)

// Evaluation is the outcome for a single signal record.
type Evaluation struct {
	Candidate    store.Candidate
	HardRejected bool
	TierPass     bool
}

// Result is the partitioned output of one scoring pass.
type Result struct {
	Finalists []store.Candidate
	Discovery []store.Candidate
	Rejected  []store.Candidate
}

// Evaluate scores one record against the seed. Hard gates zero the score and
// stop evaluation; soft evidence adjusts it. Absence of evidence is never a
// contradiction: only a literal match confirms, everything else is "unknown",
// which is explicitly distinct from "rejected".
func Evaluate(s seed.Seed, rec signal.Record) Evaluation {
	score := BaseScore
	var rationale []string
	tierPass := true

	candidate := func(verdict string, sc int) store.Candidate {
		return store.Candidate{
			ID:          rec.StableID(),
			Title:       rec.Title,
			URL:         rec.URL,
			Verdict:     verdict,
			Score:       clamp(sc),
			Rationale:   rationale,
			Placeholder: rec.Placeholder,
		}
	}
	reject := func(reason string) Evaluation {
		rationale = append(rationale, reason)
		return Evaluation{Candidate: candidate(store.VerdictReject, 0), HardRejected: true}
	}

	// Identity gates.
	if s.Make != "" && !matchesFold(rec.Make, s.Make) {
		return reject(fmt.Sprintf("Make mismatch (%s)", orUnknown(rec.Make)))
	}
	if s.Model != "" && !matchesFold(rec.Model, s.Model) {
		return reject(fmt.Sprintf("Model mismatch (%s)", orUnknown(rec.Model)))
	}

	// Year gate. An explicit out-of-range year is rejected; a missing year is
	// not — it only earns a verification note. Deliberate asymmetry.
	if s.YearMin > 0 || s.YearMax > 0 {
		switch {
		case rec.Year == 0:
			rationale = append(rationale, "Verify year with seller")
		case s.YearMin > 0 && rec.Year < s.YearMin:
			return reject(fmt.Sprintf("Year %d below required range", rec.Year))
		case s.YearMax > 0 && rec.Year > s.YearMax:
			return reject(fmt.Sprintf("Year %d above required range", rec.Year))
		}
	}

	// Transmission gate.
	if s.Transmission == seed.TransmissionManual && !isManual(rec) {
		return reject("Not a manual transmission")
	}

	// Trim evidence.
	if s.Trim != "" {
		if evidenceMatch(s.Trim, rec.Trim) || evidenceMatch(s.Trim, rec.Blob) {
			score += trimConfirmBonus
			rationale = append(rationale, fmt.Sprintf("Trim confirmed (%s)", s.Trim))
		} else {
			tierPass = false
			rationale = append(rationale, fmt.Sprintf("Trim not confirmed (%s)", s.Trim))
		}
	}

	// Color evidence.
	if s.ExteriorColor != "" {
		if evidenceMatch(s.ExteriorColor, rec.ExteriorColor) || evidenceMatch(s.ExteriorColor, rec.Blob) {
			score += colorConfirmBonus
			rationale = append(rationale, fmt.Sprintf("Color confirmed (%s)", s.ExteriorColor))
		} else {
			tierPass = false
			rationale = append(rationale, fmt.Sprintf("Color not confirmed (%s)", s.ExteriorColor))
		}
	}

	// Budget gate, only when the price is known.
	if s.BudgetMaxUSD > 0 {
		switch {
		case rec.PriceUSD == 0:
			rationale = append(rationale, "Price unknown - verify with seller")
		case rec.PriceUSD > s.BudgetMaxUSD:
			return reject(fmt.Sprintf("Over budget ($%d > $%d)", rec.PriceUSD, s.BudgetMaxUSD))
		default:
			score += budgetWithinBonus
			rationale = append(rationale, "Within budget")
		}
	}

	// Mileage scoring is soft only, never gates.
	switch {
	case rec.Mileage == 0:
		rationale = append(rationale, "Mileage unknown")
	case s.MileageIdealMax > 0 && rec.Mileage <= s.MileageIdealMax:
		score += mileageIdealBonus
		rationale = append(rationale, "Mileage below ideal threshold")
	case s.MileageAcceptableMax > 0 && rec.Mileage <= s.MileageAcceptableMax:
		score += mileageOKBonus
		rationale = append(rationale, "Mileage acceptable")
	case s.MileageAcceptableMax > 0:
		score -= mileageOverPenalty
		rationale = append(rationale, "Mileage above acceptable threshold")
	}

	// Salt advisory: note only, there is never enough evidence to gate on it.
	if s.AvoidSaltHistory && rec.Region != "" {
		rationale = append(rationale, fmt.Sprintf("Verify salt-road history (%s)", rec.Region))
	}

	verdict := store.VerdictConditional
	if tierPass && clamp(score) >= AcceptThreshold {
		verdict = store.VerdictAccept
	}
	return Evaluation{Candidate: candidate(verdict, score), TierPass: tierPass}
}

// Partition evaluates every record and splits the results into finalists
// (full tier-1 pass), discovery (near-misses) and hard rejections, applying
// the caps after sorting by descending score.
func Partition(s seed.Seed, records []signal.Record) Result {
	var res Result
	for _, rec := range records {
		ev := Evaluate(s, rec)
		switch {
		case ev.HardRejected:
			res.Rejected = append(res.Rejected, ev.Candidate)
		case ev.TierPass:
			res.Finalists = append(res.Finalists, ev.Candidate)
		default:
			res.Discovery = append(res.Discovery, ev.Candidate)
		}
	}
	res.Finalists = Cap(res.Finalists, FinalistCap)
	res.Discovery = Cap(res.Discovery, DiscoveryCap)
	return res
}

// Cap sorts candidates by descending score and truncates to the limit. It is
// safe to call repeatedly and is re-applied defensively wherever candidate
// lists cross a boundary.
func Cap(cands []store.Candidate, limit int) []store.Candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// matchesFold is the identity comparison: case-insensitive containment in
// either direction, so "Boxster S" satisfies a required "Boxster".
func matchesFold(have, want string) bool {
	if have == "" {
		return false
	}
	h, w := strings.ToLower(have), strings.ToLower(want)
	return strings.Contains(h, w) || strings.Contains(w, h)
}

// evidenceMatch confirms a required token inside an evidence string. Short
// tokens ("S") match on word boundaries only, so they cannot be confirmed by
// an accidental substring.
func evidenceMatch(needle, hay string) bool {
	if needle == "" || hay == "" {
		return false
	}
	p := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(needle) + `\b`)
	return p.MatchString(hay)
}

func isManual(rec signal.Record) bool {
	if strings.Contains(strings.ToLower(rec.Transmission), "manual") {
		return true
	}
	// Fall back to weak evidence when the structured field is absent.
	return rec.Transmission == "" && strings.Contains(rec.Blob, "manual")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
