package service

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wjyergin98/autonomous-auto-agent/internal/dto"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/memory"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/extraction"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/watch"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/llm"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// queueProvider replays canned extraction responses in order. Once drained it
// answers with an empty patch.
type queueProvider struct {
	responses []string
	next      int
}

func (p *queueProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if p.next >= len(p.responses) {
		return "{}", nil
	}
	r := p.responses[p.next]
	p.next++
	return r, nil
}

func (p *queueProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.Generate(ctx, "")
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func newTestAdvisor(provider llm.LLMProvider) (IAdvisorService, IWatchService) {
	extractor := extraction.NewExtractor(provider, log.New(os.Stderr, "", 0))
	keeper := watch.NewKeeper(watch.NewMemoryKV())
	watchService := NewWatchService(keeper, nil, nil, noopLogger{})

	advisor := NewAdvisorService(
		nil, // memory-only
		memory.NewSessionRepository(),
		extractor,
		watchService,
		nil, // placeholder listings only
		nil, // no event bus
		noopLogger{},
		AdvisorOptions{
			BatchSize:    12,
			WatchSources: []string{"autotempest", "bring_a_trailer"},
			WatchCadence: "daily",
		},
	)
	return advisor, watchService
}

const (
	firstPatch = `{
		"make": "Porsche", "model": "Boxster", "trim": "S",
		"year_min": 2005, "year_max": 2008, "budget_max_usd": 35000,
		"tier1": ["Manual transmission"]
	}`
	secondPatch = `{
		"tier1": ["No accident history", "Full service records"],
		"rejections": ["Red exterior"]
	}`
)

func TestAdvisorCaptureGate(t *testing.T) {
	advisor, _ := newTestAdvisor(&queueProvider{responses: []string{firstPatch, secondPatch}})
	ctx := context.Background()
	userId := uuid.New()

	created, err := advisor.CreateSession(ctx, userId, &dto.CreateSessionRequest{Title: "test"})
	require.NoError(t, err)
	assert.Equal(t, store.StateCapture, created.State)

	// One non-negotiable is not enough to leave CAPTURE.
	resp, err := advisor.SendTurn(ctx, userId, &dto.SendTurnRequest{
		SessionId: created.SessionId,
		Message:   "Manual Boxster S, 2005-2008, under 35k",
	})
	require.NoError(t, err)
	assert.Equal(t, store.StateCapture, resp.State)

	// Crossing the gate moves the session to CONFIRM.
	resp, err = advisor.SendTurn(ctx, userId, &dto.SendTurnRequest{
		SessionId: created.SessionId,
		Message:   "Also: no accidents, full service records. No red cars.",
	})
	require.NoError(t, err)
	assert.Equal(t, store.StateConfirm, resp.State)
}

func TestAdvisorExploreDecideActPath(t *testing.T) {
	advisor, _ := newTestAdvisor(&queueProvider{responses: []string{firstPatch, secondPatch}})
	ctx := context.Background()
	userId := uuid.New()

	created, err := advisor.CreateSession(ctx, userId, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	sendTurn := func(msg string) *dto.SendTurnResponse {
		t.Helper()
		resp, err := advisor.SendTurn(ctx, userId, &dto.SendTurnRequest{
			SessionId: created.SessionId,
			Message:   msg,
		})
		require.NoError(t, err)
		return resp
	}

	sendTurn("Manual Boxster S, 2005-2008, under 35k")
	sendTurn("No accidents, full service records. No red cars.")

	// Explicit confirm command from CONFIRM forces EXPLORE and runs the
	// retrieval pass against the placeholder sample.
	resp := sendTurn("confirm")
	assert.Equal(t, store.StateExplore, resp.State)
	assert.True(t, resp.Overridden)
	require.NotEmpty(t, resp.Finalists)
	assert.LessOrEqual(t, len(resp.Finalists), 5)
	assert.LessOrEqual(t, len(resp.Discovery), 3)
	for _, c := range resp.Finalists {
		assert.True(t, c.Placeholder, "offline run must only surface flagged sample rows")
	}

	// Next turn falls through to DECIDE; a non-empty finalist list means ACT
	// even when every finalist is CONDITIONAL.
	resp = sendTurn("Looks promising, what should I do?")
	assert.Equal(t, store.StateDecide, resp.State)
	require.NotNil(t, resp.Decision)
	assert.Equal(t, store.ActionAct, resp.Decision.Action)
	require.NotNil(t, resp.Decision.Pick)
	for _, c := range resp.Finalists {
		assert.GreaterOrEqual(t, resp.Decision.Pick.Score, c.Score)
	}
}

func TestAdvisorWatchPath(t *testing.T) {
	advisor, watchService := newTestAdvisor(&queueProvider{responses: []string{firstPatch, secondPatch}})
	ctx := context.Background()
	userId := uuid.New()

	created, err := advisor.CreateSession(ctx, userId, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	sendTurn := func(msg string) *dto.SendTurnResponse {
		t.Helper()
		resp, err := advisor.SendTurn(ctx, userId, &dto.SendTurnRequest{
			SessionId: created.SessionId,
			Message:   msg,
		})
		require.NoError(t, err)
		return resp
	}

	sendTurn("Manual Boxster S, 2005-2008, under 35k")
	sendTurn("No accidents, full service records. No red cars.")
	sendTurn("confirm")
	sendTurn("so?") // EXPLORE -> DECIDE

	resp := sendTurn("watch")
	assert.Equal(t, store.StateWatch, resp.State)
	assert.True(t, resp.Overridden)
	require.NotNil(t, resp.Watch)
	assert.NotEmpty(t, resp.Watch.ID)
	assert.NotEmpty(t, resp.Watch.Key)
	assert.Contains(t, resp.Watch.MustHave, "Manual transmission")
	assert.Contains(t, resp.Watch.Reject, "Red exterior")
	assert.Equal(t, "daily", resp.Watch.Cadence)
	assert.Equal(t, "max $35000", resp.Watch.BudgetHint)
	assert.Equal(t, "2005-2008 Porsche Boxster S", resp.Watch.SearchString)

	watches, err := watchService.List(ctx)
	require.NoError(t, err)
	assert.Len(t, watches, 1)

	// WATCH drains into CLOSE and the session stops accepting turns.
	resp = sendTurn("thanks")
	assert.Equal(t, store.StateClose, resp.State)

	resp = sendTurn("one more thing")
	assert.Equal(t, store.StateClose, resp.State)
	assert.Nil(t, resp.Decision)
}

func TestAdvisorIterateClearsEvaluations(t *testing.T) {
	advisor, _ := newTestAdvisor(&queueProvider{responses: []string{firstPatch, secondPatch}})
	ctx := context.Background()
	userId := uuid.New()

	created, err := advisor.CreateSession(ctx, userId, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	sendTurn := func(msg string) *dto.SendTurnResponse {
		t.Helper()
		resp, err := advisor.SendTurn(ctx, userId, &dto.SendTurnRequest{
			SessionId: created.SessionId,
			Message:   msg,
		})
		require.NoError(t, err)
		return resp
	}

	sendTurn("Manual Boxster S, 2005-2008, under 35k")
	sendTurn("No accidents, full service records. No red cars.")
	sendTurn("confirm")
	sendTurn("so?") // DECIDE

	resp := sendTurn("revise")
	assert.Equal(t, store.StateIterate, resp.State)
	assert.Empty(t, resp.Finalists)
	assert.Empty(t, resp.Discovery)
	assert.Nil(t, resp.Decision)

	// ITERATE loops back to CONFIRM so the revised boundary can be re-stated.
	resp = sendTurn("actually a Cayman works too")
	assert.Equal(t, store.StateConfirm, resp.State)
}

func TestAdvisorUnknownSession(t *testing.T) {
	advisor, _ := newTestAdvisor(&queueProvider{})
	_, err := advisor.SendTurn(context.Background(), uuid.New(), &dto.SendTurnRequest{
		SessionId: uuid.New(),
		Message:   "hello",
	})
	assert.Error(t, err)
}

func TestWatchServiceIdempotent(t *testing.T) {
	keeper := watch.NewKeeper(watch.NewMemoryKV())
	watchService := NewWatchService(keeper, nil, nil, noopLogger{})
	ctx := context.Background()

	spec := store.WatchSpec{
		GoalType:   "vehicle_acquisition",
		MustHave:   []string{"Manual transmission", "No accident history"},
		Acceptable: []string{"Yellow exterior"},
		Reject:     []string{"Red exterior"},
		Sources:    []string{"autotempest"},
	}

	first, created, err := watchService.Ensure(ctx, "session-a", spec)
	require.NoError(t, err)
	assert.True(t, created)

	// Same boundary from a different session resolves to the same watch.
	second, created, err := watchService.Ensure(ctx, "session-b", spec)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Key, second.Key)

	watches, err := watchService.List(ctx)
	require.NoError(t, err)
	assert.Len(t, watches, 1)
}
