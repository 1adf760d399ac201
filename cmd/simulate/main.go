package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/wjyergin98/autonomous-auto-agent/internal/dto"
	"github.com/wjyergin98/autonomous-auto-agent/internal/pkg/logger"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/memory"
	"github.com/wjyergin98/autonomous-auto-agent/internal/service"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/extraction"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/watch"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/llm"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// scriptedProvider replays canned extraction responses so the full funnel can
// be walked offline, without a model endpoint.
type scriptedProvider struct {
	responses []string
	next      int
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if p.next >= len(p.responses) {
		return "{}", nil
	}
	r := p.responses[p.next]
	p.next++
	return r, nil
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.Generate(ctx, "")
}

type turn struct {
	message  string
	response string // canned extraction JSON; empty for pure commands
}

func main() {
	fmt.Println("=== Acquisition Funnel Simulation ===")
	fmt.Println("Offline run: scripted extraction, placeholder listings, in-memory watch store.")

	turns := []turn{
		{
			message: "I'm hunting a Porsche Boxster S, 2005 to 2008, budget around $35k. It must be a manual.",
			response: `{
				"make": "Porsche", "model": "Boxster", "trim": "S",
				"year_min": 2005, "year_max": 2008, "budget_max_usd": 35000,
				"usage": "weekend car",
				"tier1": ["Manual transmission"],
				"tier2": [], "tier3": [], "rejections": [], "aesthetics": []
			}`,
		},
		{
			message: "Two more non-negotiables: no accident history, and full service records. Never show me a red one.",
			response: `{
				"tier1": ["No accident history", "Full service records"],
				"tier2": [], "tier3": [],
				"rejections": ["Red exterior"], "aesthetics": []
			}`,
		},
		{message: "confirm"},
		{
			message:  "Alright, what does the market look like?",
			response: `{"tier1": [], "tier2": [], "tier3": [], "rejections": [], "aesthetics": []}`,
		},
		{message: "watch"},
		{message: "done"},
	}

	responses := make([]string, 0, len(turns))
	for _, t := range turns {
		if t.response != "" {
			responses = append(responses, t.response)
		}
	}

	advisorService := buildAdvisorService(&scriptedProvider{responses: responses})

	ctx := context.Background()
	userId := uuid.New()

	created, err := advisorService.CreateSession(ctx, userId, &dto.CreateSessionRequest{Title: "Simulation"})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	color.Cyan("Session %s created in state %s", created.SessionId, created.State)
	fmt.Printf("ADVISOR: %s\n", created.Reply)

	for _, t := range turns {
		fmt.Printf("\nUSER: %s\n", color.WhiteString(t.message))

		start := time.Now()
		resp, err := advisorService.SendTurn(ctx, userId, &dto.SendTurnRequest{
			SessionId: created.SessionId,
			Message:   t.message,
		})
		if err != nil {
			log.Fatalf("Turn failed: %v", err)
		}

		stateLine := fmt.Sprintf("-> %s (%v)", resp.State, time.Since(start).Round(time.Millisecond))
		if resp.Overridden {
			stateLine += " [command override]"
		}
		color.Cyan("%s", stateLine)

		printCandidates("FINALISTS", resp.Finalists, color.New(color.FgGreen))
		printCandidates("DISCOVERY", resp.Discovery, color.New(color.FgYellow))
		printDecision(resp.Decision)
		printWatch(resp.Watch)

		fmt.Printf("ADVISOR: %s\n", resp.Reply)
	}

	fmt.Println("\n=== Simulation complete ===")
}

func buildAdvisorService(provider llm.LLMProvider) service.IAdvisorService {
	sysLogger := logger.NewZapLogger("logs/simulate.log", false)
	extractor := extraction.NewExtractor(provider, log.New(os.Stdout, "[EXTRACT] ", log.LstdFlags))

	keeper := watch.NewKeeper(watch.NewMemoryKV())
	watchService := service.NewWatchService(keeper, nil, nil, sysLogger)

	return service.NewAdvisorService(
		nil, // memory-only: no durable session rows
		memory.NewSessionRepository(),
		extractor,
		watchService,
		nil, // no live source: placeholder listings
		nil, // no event bus in offline runs
		sysLogger,
		service.AdvisorOptions{
			BatchSize:    12,
			FetchTimeout: 2 * time.Second,
			WatchSources: []string{"autotempest", "cars_and_bids", "bring_a_trailer"},
			WatchCadence: "daily",
		},
	)
}

func printCandidates(label string, candidates []store.Candidate, c *color.Color) {
	if len(candidates) == 0 {
		return
	}
	c.Printf("%s (%d):\n", label, len(candidates))
	for _, cand := range candidates {
		verdict := cand.Verdict
		switch cand.Verdict {
		case store.VerdictAccept:
			verdict = color.GreenString(cand.Verdict)
		case store.VerdictConditional:
			verdict = color.YellowString(cand.Verdict)
		case store.VerdictReject:
			verdict = color.RedString(cand.Verdict)
		}
		c.Printf("  [%3d] %s: %s\n", cand.Score, cand.Title, verdict)
		for _, r := range cand.Rationale {
			fmt.Printf("        · %s\n", r)
		}
	}
}

func printDecision(d *store.Decision) {
	if d == nil {
		return
	}
	bold := color.New(color.Bold)
	bold.Printf("DECISION: %s\n", d.Action)
	if d.Pick != nil {
		fmt.Printf("  pick: %s (score %d)\n", d.Pick.Title, d.Pick.Score)
	}
	for _, b := range d.Blockers {
		color.Red("  blocker: %s", b)
	}
	fmt.Printf("  %s\n", d.Rationale)
}

func printWatch(w *store.WatchSpec) {
	if w == nil {
		return
	}
	m := color.New(color.FgMagenta)
	m.Printf("WATCH %s (key %s)\n", w.ID, w.Key)
	fmt.Printf("  must have:  %v\n", w.MustHave)
	fmt.Printf("  acceptable: %v\n", w.Acceptable)
	fmt.Printf("  reject:     %v\n", w.Reject)
	fmt.Printf("  sources:    %v cadence=%s\n", w.Sources, w.Cadence)
	if w.SearchString != "" {
		fmt.Printf("  search:     %s\n", w.SearchString)
	}
}
