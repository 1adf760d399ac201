package constraint

import (
	"regexp"
	"strings"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// Generation token pattern families, tried in order. First match wins.
// 987.2 / 991.1 → revision dot form; e46, w211, na8 → letter + digits;
// b5, b9.5 → Audi chassis form; 997, 986 → bare three digits.
var generationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{3}\.\d\b`),
	regexp.MustCompile(`\b[a-z]\d{2,3}\b`),
	regexp.MustCompile(`\bb\d(?:\.\d)?\b`),
	regexp.MustCompile(`\b\d{3}\b`),
}

var yearRangePattern = regexp.MustCompile(`\b((?:19|20)\d{2})\s*(?:-|to)\s*((?:19|20)\d{2})\b`)

// Boundary computes the canonical decision boundary for the session. Tier1 and
// tier2 pass through verbatim; hard rejections are the de-duplicated union of
// the explicit taste rejections and one synthesized line per tier1 rule. The
// result is deterministic for an unchanged session.
func Boundary(s *store.Session) store.Boundary {
	b := store.Boundary{
		Tier1: append([]string(nil), s.Constraints.Tier1...),
		Tier2: append([]string(nil), s.Constraints.Tier2...),
	}

	seen := make(map[string]bool)
	add := func(line string) {
		key := NormalizeRule(line)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		b.HardRejections = append(b.HardRejections, line)
	}

	for _, rej := range s.Taste.Rejections {
		add(rej)
	}
	for _, rule := range s.Constraints.Tier1 {
		add("Violates non-negotiable: " + rule)
	}
	return b
}

// BackfillIntent extracts a generation token and a year range from the
// concatenated tier text and fills the intent's fields only where they are
// still unset. Extraction never overwrites explicit structured fields.
func BackfillIntent(intent store.Intent, c store.Constraints) store.Intent {
	var all []string
	all = append(all, c.Tier1...)
	all = append(all, c.Tier2...)
	all = append(all, c.Tier3...)
	text := dashReplacer.Replace(strings.ToLower(strings.Join(all, " ")))

	if intent.Generation == "" {
		if gen := ExtractGeneration(text); gen != "" {
			intent.Generation = gen
		}
	}
	if intent.YearMin == 0 && intent.YearMax == 0 {
		if lo, hi, ok := ExtractYearRange(text); ok {
			intent.YearMin, intent.YearMax = lo, hi
		}
	}
	return intent
}

// ExtractGeneration returns the first generation token found in lowercased
// text, or "" when none of the pattern families match.
func ExtractGeneration(text string) string {
	for _, p := range generationPatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// ExtractYearRange returns the first NNNN-NNNN (or "NNNN to NNNN") span.
// An inverted span ("2010-2009") is returned low-to-high.
func ExtractYearRange(text string) (lo, hi int, ok bool) {
	m := yearRangePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	lo, hi = atoiSafe(m[1]), atoiSafe(m[2])
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
