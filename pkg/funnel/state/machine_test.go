package state

import (
	"testing"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		session *store.Session
		want    string
	}{
		{
			name:    "init always advances to capture",
			session: &store.Session{State: store.StateInit},
			want:    store.StateCapture,
		},
		{
			name: "capture loops while under-specified",
			session: &store.Session{
				State:       store.StateCapture,
				Constraints: store.Constraints{Tier1: []string{"manual", "clean title"}},
			},
			want: store.StateCapture,
		},
		{
			name: "capture advances with three non-negotiables",
			session: &store.Session{
				State:       store.StateCapture,
				Constraints: store.Constraints{Tier1: []string{"manual", "clean title", "no salt history"}},
			},
			want: store.StateConfirm,
		},
		{
			name:    "confirm advances unconditionally",
			session: &store.Session{State: store.StateConfirm},
			want:    store.StateExplore,
		},
		{
			name:    "explore advances unconditionally",
			session: &store.Session{State: store.StateExplore},
			want:    store.StateDecide,
		},
		{
			name: "decide closes when an accepted finalist exists",
			session: &store.Session{
				State:     store.StateDecide,
				Finalists: []store.Candidate{{Verdict: store.VerdictAccept, Score: 80}},
			},
			want: store.StateClose,
		},
		{
			name: "decide falls through to watch on conditional finalists only",
			session: &store.Session{
				State:     store.StateDecide,
				Finalists: []store.Candidate{{Verdict: store.VerdictConditional, Score: 60}},
			},
			want: store.StateWatch,
		},
		{
			name:    "decide with no finalists goes to watch",
			session: &store.Session{State: store.StateDecide},
			want:    store.StateWatch,
		},
		{
			name:    "watch closes",
			session: &store.Session{State: store.StateWatch},
			want:    store.StateClose,
		},
		{
			name:    "iterate re-enters confirm",
			session: &store.Session{State: store.StateIterate},
			want:    store.StateConfirm,
		},
		{
			name:    "close is terminal",
			session: &store.Session{State: store.StateClose},
			want:    store.StateClose,
		},
		{
			name:    "unknown state restarts capture",
			session: &store.Session{State: "GARBAGE"},
			want:    store.StateCapture,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Next(tt.session); got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		input   string
		wantCmd string
		wantOK  bool
	}{
		{"watch", "watch", true},
		{"Watch this one for me", "watch", true},
		{"WATCH.", "watch", true},
		{"please watch this", "", false}, // keyword not leading token
		{"watch out for rust is a concern", "watch", true},
		{"I want to confirm", "", false},
		{"confirm", "confirm", true},
		{"Revise, the budget is wrong", "revise", true},
		{"", "", false},
		{"   ", "", false},
		{"closely inspect it", "", false}, // prefix of a keyword is not a keyword
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, ok := Command(tt.input)
			if ok != tt.wantOK || cmd != tt.wantCmd {
				t.Errorf("Command(%q) = (%q, %v), want (%q, %v)", tt.input, cmd, ok, tt.wantCmd, tt.wantOK)
			}
		})
	}
}

func TestResolveCommandOverride(t *testing.T) {
	decide := &store.Session{
		State:     store.StateDecide,
		Finalists: []store.Candidate{{Verdict: store.VerdictAccept, Score: 90}},
	}

	// Automatic transition would close, but an explicit watch request wins.
	next, overridden := Resolve(decide, "watch")
	if !overridden || next != store.StateWatch {
		t.Errorf("Resolve(decide, watch) = (%q, %v), want (WATCH, true)", next, overridden)
	}

	// A command invalid for the current state is ignored.
	capture := &store.Session{State: store.StateCapture}
	next, overridden = Resolve(capture, "watch")
	if overridden || next != store.StateCapture {
		t.Errorf("Resolve(capture, watch) = (%q, %v), want (CAPTURE, false)", next, overridden)
	}

	// Confirm from capture only once the tier1 gate passes.
	next, overridden = Resolve(capture, "confirm")
	if overridden || next != store.StateCapture {
		t.Errorf("Resolve(under-specified capture, confirm) = (%q, %v), want (CAPTURE, false)", next, overridden)
	}
	capture.Constraints.Tier1 = []string{"manual only", "clean title", "under 80k miles"}
	next, overridden = Resolve(capture, "Confirm")
	if !overridden || next != store.StateConfirm {
		t.Errorf("Resolve(specified capture, confirm) = (%q, %v), want (CONFIRM, true)", next, overridden)
	}
}
