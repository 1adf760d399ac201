package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/wjyergin98/autonomous-auto-agent/internal/dto"
	"github.com/wjyergin98/autonomous-auto-agent/internal/entity"
	"github.com/wjyergin98/autonomous-auto-agent/internal/pkg/logger"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/unitofwork"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/watch"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

type IWatchService interface {
	Ensure(ctx context.Context, sessionId string, spec store.WatchSpec) (*store.WatchSpec, bool, error)
	List(ctx context.Context) ([]*store.WatchSpec, error)
}

// watchService wraps the idempotent keeper with durability and eventing.
// Creation side effects fire only when the keeper actually created the spec.
type watchService struct {
	keeper           *watch.Keeper
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	sysLogger        logger.ILogger
}

func NewWatchService(
	keeper *watch.Keeper,
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	sysLogger logger.ILogger,
) IWatchService {
	return &watchService{
		keeper:           keeper,
		uowFactory:       uowFactory,
		publisherService: publisherService,
		sysLogger:        sysLogger,
	}
}

func (s *watchService) Ensure(ctx context.Context, sessionId string, spec store.WatchSpec) (*store.WatchSpec, bool, error) {
	ensured, created, err := s.keeper.Ensure(ctx, spec)
	if err != nil {
		return nil, false, fmt.Errorf("ensure watch: %w", err)
	}
	if !created {
		s.sysLogger.Info("WatchService", "Watch already exists for content key", map[string]interface{}{
			"key": ensured.Key, "session_id": sessionId,
		})
		return ensured, false, nil
	}

	s.persistRecord(ctx, sessionId, ensured)

	if s.publisherService != nil {
		payload, err := json.Marshal(dto.WatchCreatedMessage{SessionId: sessionId, Watch: *ensured})
		if err == nil {
			err = s.publisherService.Publish(ctx, payload)
		}
		if err != nil {
			s.sysLogger.Error("WatchService", "Failed to publish watch-created message", map[string]interface{}{
				"error": err, "key": ensured.Key,
			})
		}
	}

	s.sysLogger.Info("WatchService", "Watch created", map[string]interface{}{
		"key": ensured.Key, "watch_id": ensured.ID, "session_id": sessionId,
	})
	return ensured, true, nil
}

func (s *watchService) List(ctx context.Context) ([]*store.WatchSpec, error) {
	return s.keeper.List(ctx)
}

// persistRecord mirrors the spec into the durable store. Failure is logged,
// not returned: the keeper already owns creation semantics.
func (s *watchService) persistRecord(ctx context.Context, sessionId string, spec *store.WatchSpec) {
	if s.uowFactory == nil {
		return
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record := &entity.WatchRecord{
		Id:         parseOrNewUUID(spec.ID),
		SessionId:  parseOrNewUUID(sessionId),
		ContentKey: spec.Key,
		GoalType:   spec.GoalType,
		Spec:       spec,
	}
	if err := uow.WatchRecordRepository().Create(ctx, record); err != nil {
		s.sysLogger.Error("WatchService", "Failed to persist watch record", map[string]interface{}{
			"error": err, "key": spec.Key,
		})
	}
}

func parseOrNewUUID(id string) uuid.UUID {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed
	}
	return uuid.New()
}
