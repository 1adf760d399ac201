package dto

import (
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

type EnsureWatchRequest struct {
	GoalType   string   `json:"goal_type" validate:"required,max=64"`
	MustHave   []string `json:"must_have" validate:"required,min=1,dive,max=200"`
	Acceptable []string `json:"acceptable" validate:"dive,max=200"`
	Reject     []string `json:"reject" validate:"dive,max=200"`
	Sources    []string `json:"sources" validate:"dive,max=100"`
	Cadence    string   `json:"cadence" validate:"max=32"`
	Geography  string   `json:"geography" validate:"max=100"`
	BudgetHint string   `json:"budget_hint" validate:"max=100"`
}

type EnsureWatchResponse struct {
	Watch   *store.WatchSpec `json:"watch"`
	Created bool             `json:"created"`
}

type ListWatchesResponse struct {
	Watches []*store.WatchSpec `json:"watches"`
}

// WatchCreatedMessage is the in-process handoff payload published when a
// watch is actually created (never on an idempotent re-ensure).
type WatchCreatedMessage struct {
	SessionId string          `json:"session_id"`
	Watch     store.WatchSpec `json:"watch"`
}
