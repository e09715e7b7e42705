package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/observability"
)

const eventBufferSize = 16

// EventService is the realtime change feed for post and flag rows. Local
// subscribers receive events through an in-process broker; Redis pub/sub
// and NATS bridge events between nodes. Delivery is at-least-once:
// consumers re-fetch instead of applying events blindly.
type EventService interface {
	Publish(ctx context.Context, event dto.ChangeEvent)
	Subscribe() (<-chan dto.ChangeEvent, func())
	Start(ctx context.Context)
}

type eventService struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	broker       *eventBroker
	nodeID       string
}

type wireEvent struct {
	Source string          `json:"source"`
	Event  dto.ChangeEvent `json:"event"`
	SentAt time.Time       `json:"sent_at"`
}

type eventBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.ChangeEvent]struct{}
}

// NewEventService constructs the change feed. redisClient and natsConn may
// be nil; the in-process broker still works single-node.
func NewEventService(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) EventService {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &eventService{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "event_service").Logger(),
		broker:       &eventBroker{subscribers: make(map[chan dto.ChangeEvent]struct{})},
		nodeID:       uuid.NewString(),
	}
}

func (s *eventService) Start(ctx context.Context) {
	if s.redis != nil && s.redisChannel != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *eventService) Publish(ctx context.Context, event dto.ChangeEvent) {
	s.broker.broadcast(event)
	observability.EventsPublishedTotal().WithLabelValues(event.Entity, event.Action).Inc()

	payload, err := json.Marshal(wireEvent{Source: s.nodeID, Event: event, SentAt: time.Now().UTC()})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode change event")
		return
	}

	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(ctx, s.redisChannel, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish change event to redis")
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish change event to nats")
		}
	}
}

func (s *eventService) Subscribe() (<-chan dto.ChangeEvent, func()) {
	channel := make(chan dto.ChangeEvent, eventBufferSize)

	s.broker.subscribe(channel)
	observability.EventClientsActive().Inc()

	cleanup := func() {
		s.broker.unsubscribe(channel)
		observability.EventClientsActive().Dec()
	}

	return channel, cleanup
}

func (s *eventService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("event redis subscription closed")
			return
		}
		s.handleWire([]byte(msg.Payload))
	}
}

func (s *eventService) consumeNATS(ctx context.Context) {
	// Plain subscribe, not a queue group: every node must rebroadcast the
	// event to its own local subscribers.
	sub, err := s.nats.Subscribe(s.natsSubject, func(msg *nats.Msg) {
		s.handleWire(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats events subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain events nats subscription")
		}
	}()
}

func (s *eventService) handleWire(payload []byte) {
	var wire wireEvent
	if err := json.Unmarshal(payload, &wire); err != nil {
		s.logger.Warn().Err(err).Msg("invalid change event payload")
		return
	}

	if wire.Source == s.nodeID {
		return
	}

	s.broker.broadcast(wire.Event)
}

func (b *eventBroker) subscribe(channel chan dto.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[channel] = struct{}{}
}

func (b *eventBroker) unsubscribe(channel chan dto.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[channel]; ok {
		delete(b.subscribers, channel)
		close(channel)
	}
}

func (b *eventBroker) broadcast(event dto.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for channel := range b.subscribers {
		select {
		case channel <- event:
		default:
			// Slow consumer; drop rather than block the publisher. The
			// consumer re-fetches on its next event anyway.
		}
	}
}
