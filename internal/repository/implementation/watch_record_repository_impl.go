package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wjyergin98/autonomous-auto-agent/internal/entity"
	"github.com/wjyergin98/autonomous-auto-agent/internal/mapper"
	"github.com/wjyergin98/autonomous-auto-agent/internal/model"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/contract"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/specification"
)

type WatchRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewWatchRecordRepository(db *gorm.DB) contract.WatchRecordRepository {
	return &WatchRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *WatchRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WatchRecordRepositoryImpl) Create(ctx context.Context, record *entity.WatchRecord) error {
	m := r.mapper.WatchToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.WatchToEntity(m)
	return nil
}

func (r *WatchRecordRepositoryImpl) FindByContentKey(ctx context.Context, key string) (*entity.WatchRecord, error) {
	var m model.WatchRecord
	err := r.db.WithContext(ctx).Where("content_key = ?", key).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.WatchToEntity(&m), nil
}

func (r *WatchRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WatchRecord, error) {
	var models []*model.WatchRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.WatchRecord, len(models))
	for i, m := range models {
		entities[i] = r.mapper.WatchToEntity(m)
	}
	return entities, nil
}

func (r *WatchRecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.WatchRecord{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
