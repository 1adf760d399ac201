package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByUserId scopes a query to one user's rows.
type ByUserId struct {
	UserId uuid.UUID
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// ByState filters advisor sessions by funnel state.
type ByState struct {
	State string
}

func (s ByState) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", s.State)
}

// ByContentKey filters watch records by canonical content key.
type ByContentKey struct {
	Key string
}

func (s ByContentKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content_key = ?", s.Key)
}
