package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// WatchRecord is the durable form of a monitoring specification. ContentKey
// is unique: ensuring the same content twice must hit the existing row.
type WatchRecord struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	ContentKey string
	GoalType   string
	Spec       *store.WatchSpec
	CreatedAt  time.Time
}
