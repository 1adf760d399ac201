package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wjyergin98/autonomous-auto-agent/internal/entity"
	"github.com/wjyergin98/autonomous-auto-agent/internal/mapper"
	"github.com/wjyergin98/autonomous-auto-agent/internal/model"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/contract"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/specification"
)

type AdvisorSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewAdvisorSessionRepository(db *gorm.DB) contract.AdvisorSessionRepository {
	return &AdvisorSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *AdvisorSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AdvisorSessionRepositoryImpl) Create(ctx context.Context, session *entity.AdvisorSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *AdvisorSessionRepositoryImpl) Update(ctx context.Context, session *entity.AdvisorSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *AdvisorSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AdvisorSession{}, id).Error
}

func (r *AdvisorSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdvisorSession, error) {
	var m model.AdvisorSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AdvisorSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AdvisorSession, error) {
	var models []*model.AdvisorSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AdvisorSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *AdvisorSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AdvisorSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
