package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type WatchRecord struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID      `gorm:"type:uuid;index"`
	ContentKey string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	GoalType   string         `gorm:"type:varchar(64);not null"`
	Spec       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (WatchRecord) TableName() string {
	return "watch_records"
}
