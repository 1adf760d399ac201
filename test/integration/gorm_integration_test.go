package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"

	"github.com/wjyergin98/autonomous-auto-agent/internal/entity"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/specification"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/unitofwork"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/database"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.AdvisorSessionRepository())
	assert.NotNil(t, uow.WatchRecordRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Advisor Session Repository", func(t *testing.T) {
		count, err := uow.AdvisorSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Advisor session count: %d", count)
	})

	t.Run("Check Watch Record Repository", func(t *testing.T) {
		count, err := uow.WatchRecordRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Watch record count: %d", count)
	})

	t.Run("Check Transactional Session Watch", func(t *testing.T) {
		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		sessionId := uuid.New()
		userId := uuid.New()
		session := &entity.AdvisorSession{
			Id:     sessionId,
			UserId: userId,
			Title:  "Integration hunt",
			State:  store.StateWatch,
			Snapshot: &store.Session{
				ID:     sessionId.String(),
				UserID: userId.String(),
				State:  store.StateWatch,
			},
		}
		err = uow.AdvisorSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		contentKey := "integration-" + uuid.New().String()
		record := &entity.WatchRecord{
			Id:         uuid.New(),
			SessionId:  sessionId,
			ContentKey: contentKey,
			GoalType:   "vehicle_acquisition",
			Spec: &store.WatchSpec{
				ID:       uuid.New().String(),
				Key:      contentKey,
				GoalType: "vehicle_acquisition",
				MustHave: []string{"Manual transmission"},
			},
		}
		err = uow.WatchRecordRepository().Create(ctx, record)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Read back through the content key unique column.
		found, err := uow.WatchRecordRepository().FindByContentKey(ctx, contentKey)
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, sessionId, found.SessionId)
		}

		sessions, err := uow.AdvisorSessionRepository().FindAll(ctx,
			specification.ByUserId{UserId: userId},
		)
		assert.NoError(t, err)
		assert.Len(t, sessions, 1)

		// Cleanup
		_ = uow.AdvisorSessionRepository().Delete(ctx, sessionId)

		t.Log("Successfully created Session with Watch Record in Transaction")
	})
}
