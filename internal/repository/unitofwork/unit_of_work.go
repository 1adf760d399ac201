package unitofwork

import (
	"context"

	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AdvisorSessionRepository() contract.AdvisorSessionRepository
	WatchRecordRepository() contract.WatchRecordRepository
}
