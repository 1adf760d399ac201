package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// SessionRepository is the hot snapshot cache for funnel sessions. It stores
// and returns deep copies: a snapshot handed out is never the one a later
// turn mutates.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes. An idle
	// conversation falls out of the hot cache and is reloaded from storage.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session).Clone(), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
