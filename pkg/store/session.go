package store

// Session is the in-memory document for one acquisition funnel conversation.
// Each turn receives the prior session and returns a fresh copy; a turn never
// mutates a session still referenced elsewhere (copy-on-write).
type Session struct {
	ID     string `json:"id"` // AdvisorSessionID
	UserID string `json:"user_id"`
	State  string `json:"state"` // funnel state, see constants below

	Intent      Intent      `json:"intent"`
	Constraints Constraints `json:"constraints"`
	Taste       Taste       `json:"taste"`

	// THE SHORTLIST (candidates that cleared the full tier-1 gate)
	Finalists []Candidate `json:"finalists"`

	// THE WAITING ROOM (near-misses worth a second look)
	Discovery []Candidate `json:"discovery"`

	Watch        *WatchSpec `json:"watch,omitempty"`
	LastDecision *Decision  `json:"last_decision,omitempty"`

	// Metadata for last interaction
	LastQuery string `json:"last_query"`
}

// Funnel states
const (
	StateInit    = "INIT"
	StateCapture = "CAPTURE"
	StateConfirm = "CONFIRM"
	StateExplore = "EXPLORE"
	StateDecide  = "DECIDE"
	StateWatch   = "WATCH"
	StateIterate = "ITERATE"
	StateClose   = "CLOSE"
)

// Intent holds the structured acquisition descriptors. Structured fields are
// authoritative: text-derived extraction may back-fill them but never overwrite.
type Intent struct {
	Make       string `json:"make,omitempty"`
	Model      string `json:"model,omitempty"`
	Trim       string `json:"trim,omitempty"`
	Generation string `json:"generation,omitempty"`
	YearMin    int    `json:"year_min,omitempty"`
	YearMax    int    `json:"year_max,omitempty"`

	Usage        string `json:"usage,omitempty"`   // weekend car, daily, track...
	Horizon      string `json:"horizon,omitempty"` // this month, this year...
	BudgetMaxUSD int    `json:"budget_max_usd,omitempty"`
}

// Constraints are three ordered lists of free-text rules:
// tier1 non-negotiable, tier2 strong preference, tier3 nice-to-have.
type Constraints struct {
	Tier1 []string `json:"tier1"`
	Tier2 []string `json:"tier2"`
	Tier3 []string `json:"tier3"`
}

// Taste carries explicit rejection rules and categorical aesthetic preferences.
type Taste struct {
	Rejections []string `json:"rejections"`
	Aesthetics []string `json:"aesthetics"`
}

// Candidate verdicts
const (
	VerdictAccept      = "ACCEPT"
	VerdictConditional = "CONDITIONAL"
	VerdictReject      = "REJECT"
)

// Candidate is one evaluated market option.
type Candidate struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url,omitempty"`
	Images      []string `json:"images,omitempty"`
	Verdict     string   `json:"verdict"`
	Score       int      `json:"score"` // 0-100
	Rationale   []string `json:"rationale"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

// Boundary is the canonical decision boundary derived from the session.
// It is computed, never stored; it is the source of truth for gating and
// for watch-key derivation.
type Boundary struct {
	Tier1          []string `json:"tier1"`
	Tier2          []string `json:"tier2"`
	HardRejections []string `json:"hard_rejections"`
}

// WatchSpec is a persisted monitoring specification for a boundary with no
// current qualifying finalist.
type WatchSpec struct {
	ID           string   `json:"id"`
	Key          string   `json:"key"` // canonical content key
	GoalType     string   `json:"goal_type"`
	MustHave     []string `json:"must_have"`
	Acceptable   []string `json:"acceptable"`
	Reject       []string `json:"reject"`
	Sources      []string `json:"sources"`
	Cadence      string   `json:"cadence,omitempty"`
	Geography    string   `json:"geography,omitempty"`
	BudgetHint   string   `json:"budget_hint,omitempty"`
	SearchString string   `json:"search_string,omitempty"`
}

// Decision actions
const (
	ActionAct    = "ACT"
	ActionWatch  = "WATCH"
	ActionRevise = "REVISE"
)

// Decision is the recommended next move for the session.
type Decision struct {
	Action    string     `json:"action"` // ACT | WATCH | REVISE
	Pick      *Candidate `json:"pick,omitempty"`
	Blockers  []string   `json:"blockers,omitempty"`
	WatchSeed []string   `json:"watch_seed,omitempty"`
	Rationale string     `json:"rationale"`
}

// Clone returns a deep copy so the caller's session is never mutated in place.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Constraints = Constraints{
		Tier1: append([]string(nil), s.Constraints.Tier1...),
		Tier2: append([]string(nil), s.Constraints.Tier2...),
		Tier3: append([]string(nil), s.Constraints.Tier3...),
	}
	out.Taste = Taste{
		Rejections: append([]string(nil), s.Taste.Rejections...),
		Aesthetics: append([]string(nil), s.Taste.Aesthetics...),
	}
	out.Finalists = cloneCandidates(s.Finalists)
	out.Discovery = cloneCandidates(s.Discovery)
	if s.Watch != nil {
		w := *s.Watch
		w.MustHave = append([]string(nil), s.Watch.MustHave...)
		w.Acceptable = append([]string(nil), s.Watch.Acceptable...)
		w.Reject = append([]string(nil), s.Watch.Reject...)
		w.Sources = append([]string(nil), s.Watch.Sources...)
		out.Watch = &w
	}
	if s.LastDecision != nil {
		d := *s.LastDecision
		d.Blockers = append([]string(nil), s.LastDecision.Blockers...)
		d.WatchSeed = append([]string(nil), s.LastDecision.WatchSeed...)
		if s.LastDecision.Pick != nil {
			p := *s.LastDecision.Pick
			d.Pick = &p
		}
		out.LastDecision = &d
	}
	return &out
}

func cloneCandidates(in []Candidate) []Candidate {
	if in == nil {
		return nil
	}
	out := make([]Candidate, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Images = append([]string(nil), c.Images...)
		out[i].Rationale = append([]string(nil), c.Rationale...)
	}
	return out
}
