package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/wjyergin98/autonomous-auto-agent/internal/dto"
	"github.com/wjyergin98/autonomous-auto-agent/internal/pkg/mailer"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/events"
	pktNats "github.com/wjyergin98/autonomous-auto-agent/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the watch-created topic: it emails a confirmation
// (when SMTP and a recipient are configured) and fans the event out to NATS
// for any external subscriber.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
	notifyEmail  string
	natsPub      *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	notifyEmail string,
	natsPub *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
		notifyEmail:  notifyEmail,
		natsPub:      natsPub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.WatchCreatedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal watch-created message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing watch-created for session %s (key %s)", payload.SessionId, payload.Watch.Key)

	if cs.natsPub != nil {
		if err := cs.natsPub.Publish(ctx, events.NewWatchCreated(payload.SessionId, payload.Watch)); err != nil {
			log.Printf("[ERROR] Failed to publish watch-created event: %v", err)
			msg.Nack() // Retriable: the bus may come back
			return
		}
	}

	if cs.emailService != nil && cs.notifyEmail != "" {
		if err := cs.emailService.SendWatchCreated(cs.notifyEmail, payload.Watch); err != nil {
			// Mail failure is not worth replaying the whole message for.
			log.Printf("[WARN] Watch confirmation mail failed: %v", err)
		}
	}

	msg.Ack()
}
