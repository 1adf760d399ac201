package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/wjyergin98/autonomous-auto-agent/internal/entity"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/specification"
)

type AdvisorSessionRepository interface {
	Create(ctx context.Context, session *entity.AdvisorSession) error
	Update(ctx context.Context, session *entity.AdvisorSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdvisorSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AdvisorSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
