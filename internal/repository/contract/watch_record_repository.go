package contract

import (
	"context"

	"github.com/wjyergin98/autonomous-auto-agent/internal/entity"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/specification"
)

type WatchRecordRepository interface {
	Create(ctx context.Context, record *entity.WatchRecord) error
	FindByContentKey(ctx context.Context, key string) (*entity.WatchRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WatchRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
