package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// AdvisorSession is the durable record of one funnel conversation. Snapshot
// carries the full funnel document; the scalar columns exist for listing and
// filtering without deserializing it.
type AdvisorSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	State     string
	Snapshot  *store.Session
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
