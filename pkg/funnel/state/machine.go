package state

import (
	"strings"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// MinTier1ForConfirm is the number of non-negotiables a session must hold
// before it is considered specified enough to leave CAPTURE.
const MinTier1ForConfirm = 3

// Next is the automatic transition function. It is pure and total: for any
// current state and session contents it returns exactly one successor state
// and performs no side effects.
func Next(s *store.Session) string {
	switch s.State {
	case store.StateInit:
		return store.StateCapture
	case store.StateCapture:
		if len(s.Constraints.Tier1) >= MinTier1ForConfirm {
			return store.StateConfirm
		}
		// Under-specified: loop until enough non-negotiables are captured.
		return store.StateCapture
	case store.StateConfirm:
		return store.StateExplore
	case store.StateExplore:
		return store.StateDecide
	case store.StateDecide:
		if hasAcceptedFinalist(s) {
			return store.StateClose
		}
		return store.StateWatch
	case store.StateWatch:
		return store.StateClose
	case store.StateIterate:
		return store.StateConfirm
	case store.StateClose:
		return store.StateClose
	default:
		// Unknown state on a restored session: restart capture rather than wedge.
		return store.StateCapture
	}
}

// commandTable maps a recognized leading keyword to the states it is valid in
// and the state it forces. A keyword typed in any other state is ignored and
// the automatic transition applies.
var commandTable = map[string]map[string]string{
	"confirm": {
		store.StateConfirm: store.StateExplore,
	},
	"explore": {
		store.StateConfirm: store.StateExplore,
	},
	"watch": {
		store.StateExplore: store.StateWatch,
		store.StateDecide:  store.StateWatch,
	},
	"revise": {
		store.StateConfirm: store.StateIterate,
		store.StateDecide:  store.StateIterate,
		store.StateWatch:   store.StateIterate,
	},
	"close": {
		store.StateDecide: store.StateClose,
		store.StateWatch:  store.StateClose,
	},
	"done": {
		store.StateDecide: store.StateClose,
		store.StateWatch:  store.StateClose,
	},
}

// Command extracts an explicit funnel command from user input. Matching is
// case-insensitive and only fires when the keyword is the leading token, so
// "watch out for rust" mid-sentence never triggers WATCH, but "Watch this one"
// does.
func Command(input string) (string, bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", false
	}
	token := strings.ToLower(strings.Trim(fields[0], ".,!?:;"))
	if _, ok := commandTable[token]; !ok {
		return "", false
	}
	return token, true
}

// Resolve returns the next state for the session given the raw user input.
// Explicit commands recognized for the current state win over the automatic
// transition; "confirm" while still under-specified in CAPTURE falls through
// to the capture loop.
func Resolve(s *store.Session, input string) (next string, overridden bool) {
	if cmd, ok := Command(input); ok {
		if target, valid := commandTable[cmd][s.State]; valid {
			return target, true
		}
		// "confirm" from CAPTURE is honored only once the tier1 gate passes.
		if cmd == "confirm" && s.State == store.StateCapture &&
			len(s.Constraints.Tier1) >= MinTier1ForConfirm {
			return store.StateConfirm, true
		}
	}
	return Next(s), false
}

// IsTerminal reports whether the state accepts no further turns.
func IsTerminal(state string) bool {
	return state == store.StateClose
}

func hasAcceptedFinalist(s *store.Session) bool {
	for _, c := range s.Finalists {
		if c.Verdict == store.VerdictAccept {
			return true
		}
	}
	return false
}
