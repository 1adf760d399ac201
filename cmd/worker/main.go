package main

import (
	"context"
	"log"

	"github.com/wjyergin98/autonomous-auto-agent/internal/config"
	"github.com/wjyergin98/autonomous-auto-agent/internal/pkg/logger"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/events"
	pktNats "github.com/wjyergin98/autonomous-auto-agent/pkg/nats"
)

// The worker drains the funnel event stream into the audit log. It is the
// external-subscriber side of the bus: the REST process only publishes.
func main() {
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect NATS subscriber: %v", err)
	}
	defer sub.Close()

	handle := func(_ context.Context, event events.Event) error {
		sysLogger.Info("EventWorker", "Funnel event received", map[string]interface{}{
			"type":    event.EventType(),
			"payload": event.Payload(),
		})
		return nil
	}

	if err := sub.Subscribe("events."+events.TypeDecisionMade, "worker-decisions", handle); err != nil {
		log.Fatalf("Failed to subscribe to decision events: %v", err)
	}
	if err := sub.Subscribe("events."+events.TypeWatchCreated, "worker-watches", handle); err != nil {
		log.Fatalf("Failed to subscribe to watch events: %v", err)
	}

	log.Println("✅ Event worker is running")
	select {}
}
