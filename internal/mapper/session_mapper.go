package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/wjyergin98/autonomous-auto-agent/internal/entity"
	"github.com/wjyergin98/autonomous-auto-agent/internal/model"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.AdvisorSession) *entity.AdvisorSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var snapshot *store.Session
	if len(s.Snapshot) > 0 {
		var doc store.Session
		if err := json.Unmarshal(s.Snapshot, &doc); err == nil {
			snapshot = &doc
		}
	}

	return &entity.AdvisorSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		State:     s.State,
		Snapshot:  snapshot,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *SessionMapper) ToModel(s *entity.AdvisorSession) *model.AdvisorSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var snapshot []byte
	if s.Snapshot != nil {
		snapshot, _ = json.Marshal(s.Snapshot)
	}

	return &model.AdvisorSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		State:     s.State,
		Snapshot:  snapshot,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *SessionMapper) WatchToEntity(w *model.WatchRecord) *entity.WatchRecord {
	if w == nil {
		return nil
	}

	var spec *store.WatchSpec
	if len(w.Spec) > 0 {
		var doc store.WatchSpec
		if err := json.Unmarshal(w.Spec, &doc); err == nil {
			spec = &doc
		}
	}

	return &entity.WatchRecord{
		Id:         w.Id,
		SessionId:  w.SessionId,
		ContentKey: w.ContentKey,
		GoalType:   w.GoalType,
		Spec:       spec,
		CreatedAt:  w.CreatedAt,
	}
}

func (m *SessionMapper) WatchToModel(w *entity.WatchRecord) *model.WatchRecord {
	if w == nil {
		return nil
	}

	var spec []byte
	if w.Spec != nil {
		spec, _ = json.Marshal(w.Spec)
	}

	return &model.WatchRecord{
		Id:         w.Id,
		SessionId:  w.SessionId,
		ContentKey: w.ContentKey,
		GoalType:   w.GoalType,
		Spec:       spec,
		CreatedAt:  w.CreatedAt,
	}
}
