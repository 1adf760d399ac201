package constraint

import (
	"regexp"
	"strings"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// Indicator vocabularies. These are data, not control flow: extend the slices
// to extend the classifier.
var (
	// hardIndicators force a rule into tier1 (non-negotiable).
	hardIndicators = []string{
		"non-negotiable",
		"non negotiable",
		"deal-breaker",
		"dealbreaker",
		"must",
		"only",
		"clean title",
		"required",
	}

	// softIndicators force a rule into tier3 (nice-to-have).
	softIndicators = []string{
		"nice to have",
		"nice-to-have",
		"bonus",
		"would be cool",
	}

	// preferenceIndicators cap a rule at tier2. Preference language is never
	// promoted to tier1, even when the rule arrived classified tier1; a rule
	// already in tier3 stays tier3.
	preferenceIndicators = []string{
		"avoid",
		"prefer",
		"ideal",
		"ideally",
		"acceptable",
		"would like",
		"leaning",
	}
)

// Indicators match on word boundaries so a short token cannot fire inside a
// longer word ("must" in "Mustang").
func compileIndicators(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return out
}

var (
	hardPatterns       = compileIndicators(hardIndicators)
	softPatterns       = compileIndicators(softIndicators)
	preferencePatterns = compileIndicators(preferenceIndicators)
)

const (
	tier1 = 1
	tier2 = 2
	tier3 = 3
)

// Normalize reclassifies every rule across the three tiers and de-duplicates.
// The same rule (case/whitespace/dash-normalized) never survives in more than
// one tier; the first occurrence keeps its original casing. Normalize is a
// fixed point: applying it to its own output changes nothing.
func Normalize(c store.Constraints) store.Constraints {
	type classified struct {
		text string
		tier int
	}

	var rules []classified
	collect := func(list []string, source int) {
		for _, rule := range list {
			if strings.TrimSpace(rule) == "" {
				continue
			}
			rules = append(rules, classified{text: rule, tier: reclassify(rule, source)})
		}
	}
	collect(c.Tier1, tier1)
	collect(c.Tier2, tier2)
	collect(c.Tier3, tier3)

	out := store.Constraints{}
	seen := make(map[string]bool)
	for _, r := range rules {
		key := NormalizeRule(r.text)
		if seen[key] {
			continue
		}
		seen[key] = true
		switch r.tier {
		case tier1:
			out.Tier1 = append(out.Tier1, r.text)
		case tier2:
			out.Tier2 = append(out.Tier2, r.text)
		default:
			out.Tier3 = append(out.Tier3, r.text)
		}
	}
	return out
}

// reclassify inspects normalized text for indicator classes. Precedence:
// hard > soft > preference; no indicator retains the source tier.
func reclassify(rule string, source int) int {
	text := NormalizeRule(rule)

	for _, p := range hardPatterns {
		if p.MatchString(text) {
			return tier1
		}
	}
	for _, p := range softPatterns {
		if p.MatchString(text) {
			return tier3
		}
	}
	for _, p := range preferencePatterns {
		if p.MatchString(text) {
			// At most tier2: tier3 input stays tier3, everything else lands
			// in tier2. This downgrade of preference-phrased tier1 rules is
			// deliberate policy.
			if source == tier3 {
				return tier3
			}
			return tier2
		}
	}
	return source
}

var dashReplacer = strings.NewReplacer("–", "-", "—", "-", "−", "-")

// NormalizeRule produces the comparison key for de-duplication: lowercase,
// collapsed whitespace, unified dashes.
func NormalizeRule(rule string) string {
	s := dashReplacer.Replace(strings.ToLower(rule))
	return strings.Join(strings.Fields(s), " ")
}
