package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wjyergin98/autonomous-auto-agent/internal/dto"
	"github.com/wjyergin98/autonomous-auto-agent/internal/entity"
	"github.com/wjyergin98/autonomous-auto-agent/internal/pkg/logger"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/memory"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/specification"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/unitofwork"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/extraction"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/constraint"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/decision"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/render"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/scoring"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/seed"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/signal"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/state"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/watch"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/events"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/listings"
	pktNats "github.com/wjyergin98/autonomous-auto-agent/pkg/nats"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// GoalType is the only acquisition goal this funnel currently serves.
const GoalType = "vehicle_acquisition"

// IAdvisorService defines the advisor funnel service interface
type IAdvisorService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.GetSessionResponse, error)
	SendTurn(ctx context.Context, userId uuid.UUID, request *dto.SendTurnRequest) (*dto.SendTurnResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

// AdvisorOptions carries the funnel tunables out of config.
type AdvisorOptions struct {
	BatchSize    int
	FetchTimeout time.Duration
	LiveListings bool
	WatchSources []string
	WatchCadence string
}

// advisorService orchestrates one turn of the acquisition funnel: extract,
// transition, run the state's entry action, render, persist.
type advisorService struct {
	uowFactory   unitofwork.RepositoryFactory // nil means memory-only operation
	sessionRepo  *memory.SessionRepository
	extractor    *extraction.Extractor
	watchService IWatchService
	live         listings.Source
	fallback     listings.Source
	natsPub      *pktNats.Publisher
	sysLogger    logger.ILogger
	opts         AdvisorOptions
}

func NewAdvisorService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	extractor *extraction.Extractor,
	watchService IWatchService,
	live listings.Source,
	natsPub *pktNats.Publisher,
	sysLogger logger.ILogger,
	opts AdvisorOptions,
) IAdvisorService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	return &advisorService{
		uowFactory:   uowFactory,
		sessionRepo:  sessionRepo,
		extractor:    extractor,
		watchService: watchService,
		live:         live,
		natsPub:      natsPub,
		fallback:     listings.Placeholder{},
		sysLogger:    sysLogger,
		opts:         opts,
	}
}

func (c *advisorService) CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	id := uuid.New()
	title := strings.TrimSpace(request.Title)
	if title == "" {
		title = "New acquisition"
	}

	session := &store.Session{
		ID:     id.String(),
		UserID: userId.String(),
		State:  store.StateCapture,
	}
	c.sessionRepo.Save(session)

	created := time.Now()
	if c.uowFactory != nil {
		uow := c.uowFactory.NewUnitOfWork(ctx)
		record := &entity.AdvisorSession{
			Id:       id,
			UserId:   userId,
			Title:    title,
			State:    session.State,
			Snapshot: session,
		}
		if err := uow.AdvisorSessionRepository().Create(ctx, record); err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		created = record.CreatedAt
	}

	c.sysLogger.Info("AdvisorService", "Session created", map[string]interface{}{
		"session_id": id.String(), "user_id": userId.String(),
	})

	return &dto.CreateSessionResponse{
		SessionId: id,
		Title:     title,
		State:     session.State,
		Reply:     render.Reply(session),
		CreatedAt: created,
	}, nil
}

func (c *advisorService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	if c.uowFactory == nil {
		return nil, nil
	}
	uow := c.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.AdvisorSessionRepository().FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.GetAllSessionsResponse, len(records))
	for i, r := range records {
		out[i] = &dto.GetAllSessionsResponse{
			SessionId: r.Id,
			Title:     r.Title,
			State:     r.State,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

func (c *advisorService) GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.GetSessionResponse, error) {
	record, err := c.loadRecord(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("session %s not found", sessionId)
	}

	snapshot := record.Snapshot
	if hot, found := c.sessionRepo.Get(sessionId.String()); found {
		snapshot = hot
	}

	return &dto.GetSessionResponse{
		SessionId: record.Id,
		Title:     record.Title,
		State:     record.State,
		Snapshot:  snapshot,
		CreatedAt: record.CreatedAt,
	}, nil
}

func (c *advisorService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	c.sessionRepo.Delete(request.SessionId.String())
	if c.uowFactory == nil {
		return nil
	}
	uow := c.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.AdvisorSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.SessionId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("session %s not found", request.SessionId)
	}
	return uow.AdvisorSessionRepository().Delete(ctx, request.SessionId)
}

// SendTurn runs one conversation turn. Each turn works on a fresh copy of the
// session; nothing observable changes until the final save.
func (c *advisorService) SendTurn(ctx context.Context, userId uuid.UUID, request *dto.SendTurnRequest) (*dto.SendTurnResponse, error) {
	session, err := c.loadSession(ctx, userId, request.SessionId)
	if err != nil {
		return nil, err
	}

	if state.IsTerminal(session.State) {
		return &dto.SendTurnResponse{
			SessionId: request.SessionId,
			State:     session.State,
			Reply:     render.Reply(session),
		}, nil
	}

	session.LastQuery = request.Message

	// Pure funnel commands skip extraction; everything else may carry facts.
	if _, isCommand := state.Command(request.Message); !isCommand {
		patch := c.extractor.Extract(ctx, request.Message, session)
		extraction.Apply(session, patch)
	}

	next, overridden := state.Resolve(session, request.Message)
	prev := session.State
	session.State = next

	if err := c.runEntryAction(ctx, session, prev); err != nil {
		return nil, err
	}

	if err := c.save(ctx, userId, session); err != nil {
		return nil, err
	}

	c.sysLogger.Info("AdvisorService", "Turn processed", map[string]interface{}{
		"session_id": session.ID, "from": prev, "to": session.State, "override": overridden,
	})

	return &dto.SendTurnResponse{
		SessionId:  request.SessionId,
		State:      session.State,
		Reply:      render.Reply(session),
		Overridden: overridden,
		Finalists:  session.Finalists,
		Discovery:  session.Discovery,
		Decision:   session.LastDecision,
		Watch:      session.Watch,
	}, nil
}

// runEntryAction performs the side effects of arriving in a state.
func (c *advisorService) runEntryAction(ctx context.Context, session *store.Session, prev string) error {
	switch session.State {
	case store.StateExplore:
		if prev != store.StateExplore {
			return c.explore(ctx, session)
		}
	case store.StateDecide:
		b := constraint.Boundary(session)
		d := decision.Decide(session.Finalists, session.Discovery, b)
		session.LastDecision = &d
		c.publishDecision(ctx, session.ID, d)
	case store.StateWatch:
		return c.ensureWatch(ctx, session)
	case store.StateIterate:
		// The boundary is about to change; stale evaluations must not leak
		// into the next explore pass.
		session.Finalists = nil
		session.Discovery = nil
		session.LastDecision = nil
	}
	return nil
}

// explore runs the retrieval-and-evaluation pipeline against the current
// boundary and fills the tier lists.
func (c *advisorService) explore(ctx context.Context, session *store.Session) error {
	session.Intent = constraint.BackfillIntent(session.Intent, session.Constraints)
	sd := seed.Derive(session.Intent, session.Constraints)

	rows := c.fetchListings(ctx, sd)

	records := make([]signal.Record, 0, len(rows))
	for _, raw := range rows {
		records = append(records, signal.Extract(raw))
	}
	records = signal.Dedupe(records)

	res := scoring.Partition(sd, records)
	session.Finalists = res.Finalists
	session.Discovery = res.Discovery

	c.sysLogger.Info("AdvisorService", "Explore pass complete", map[string]interface{}{
		"session_id": session.ID,
		"rows":       len(rows),
		"finalists":  len(res.Finalists),
		"discovery":  len(res.Discovery),
		"rejected":   len(res.Rejected),
	})
	return nil
}

// fetchListings tries the live source under a deadline and degrades to the
// deterministic placeholder sample on any failure.
func (c *advisorService) fetchListings(ctx context.Context, sd seed.Seed) []map[string]interface{} {
	if c.opts.LiveListings && c.live != nil && sd.Sufficient() {
		fetchCtx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
		defer cancel()

		rows, err := c.live.Fetch(fetchCtx, sd, c.opts.BatchSize)
		if err == nil {
			return rows
		}
		c.sysLogger.Warn("AdvisorService", "Live listings fetch failed, using placeholder sample", map[string]interface{}{
			"error": err,
		})
	}

	rows, _ := c.fallback.Fetch(ctx, sd, c.opts.BatchSize)
	return rows
}

// publishDecision emits the decision to the event bus. Eventing is
// best-effort: a bus outage never blocks the turn.
func (c *advisorService) publishDecision(ctx context.Context, sessionId string, d store.Decision) {
	if c.natsPub == nil {
		return
	}
	if err := c.natsPub.Publish(ctx, events.NewDecisionMade(sessionId, d)); err != nil {
		c.sysLogger.Warn("AdvisorService", "Failed to publish decision event", map[string]interface{}{
			"session_id": sessionId, "error": err,
		})
	}
}

func (c *advisorService) ensureWatch(ctx context.Context, session *store.Session) error {
	b := constraint.Boundary(session)
	spec := watch.FromBoundary(GoalType, b, c.opts.WatchSources)
	spec.Cadence = c.opts.WatchCadence
	if session.Intent.BudgetMaxUSD > 0 {
		spec.BudgetHint = "max $" + strconv.Itoa(session.Intent.BudgetMaxUSD)
	}
	spec.SearchString = buildSearchString(session.Intent)

	ensured, _, err := c.watchService.Ensure(ctx, session.ID, spec)
	if err != nil {
		return err
	}
	session.Watch = ensured
	return nil
}

// save writes the hot snapshot and, when durable storage is wired, syncs the
// session row.
func (c *advisorService) save(ctx context.Context, userId uuid.UUID, session *store.Session) error {
	c.sessionRepo.Save(session)

	if c.uowFactory == nil {
		return nil
	}
	sessionId, err := uuid.Parse(session.ID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", session.ID, err)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.AdvisorSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("session %s not found", session.ID)
	}

	record.State = session.State
	record.Snapshot = session
	if title := buildTitle(session.Intent); title != "" {
		record.Title = title
	}
	return uow.AdvisorSessionRepository().Update(ctx, record)
}

func (c *advisorService) loadRecord(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*entity.AdvisorSession, error) {
	if c.uowFactory == nil {
		return nil, fmt.Errorf("session %s not found", sessionId)
	}
	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.AdvisorSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserId{UserId: userId},
	)
}

// loadSession prefers the hot snapshot and falls back to the durable row.
func (c *advisorService) loadSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*store.Session, error) {
	if hot, found := c.sessionRepo.Get(sessionId.String()); found {
		return hot, nil
	}

	record, err := c.loadRecord(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Snapshot == nil {
		return nil, fmt.Errorf("session %s not found", sessionId)
	}
	return record.Snapshot.Clone(), nil
}

func buildTitle(intent store.Intent) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{intent.Make, intent.Model, intent.Trim} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " hunt"
}

func buildSearchString(intent store.Intent) string {
	parts := make([]string, 0, 4)
	if intent.YearMin > 0 && intent.YearMax > 0 {
		parts = append(parts, fmt.Sprintf("%d-%d", intent.YearMin, intent.YearMax))
	}
	for _, p := range []string{intent.Make, intent.Model, intent.Trim} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
