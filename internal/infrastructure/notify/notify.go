// Package notify delivers user-visible notifications. Every sink is
// fire-and-forget: delivery failures are logged, never returned.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
)

const publishTimeout = 2 * time.Second

// Message is the payload published to subscribers.
type Message struct {
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	Severity domain.Severity `json:"severity"`
	SentAt   time.Time       `json:"sent_at"`
}

// RedisPublisher publishes notifications as JSON on a Pub/Sub channel.
type RedisPublisher struct {
	client  redis.Cmdable
	channel string
	log     zerolog.Logger
	now     func() time.Time
}

func NewRedisPublisher(client redis.Cmdable, channel string, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (p *RedisPublisher) Notify(title, message string, severity domain.Severity) {
	payload, err := json.Marshal(Message{Title: title, Message: message, Severity: severity, SentAt: p.now()})
	if err != nil {
		p.log.Error().Err(err).Msg("encode notification")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Warn().Err(err).Str("channel", p.channel).Str("title", title).Msg("publish notification failed")
	}
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(title, message string, severity domain.Severity) {
	ev := n.log.Info()
	if severity == domain.SeverityError {
		ev = n.log.Warn()
	}
	ev.Str("title", title).Str("severity", string(severity)).Msg(message)
}

// Fanout forwards every notification to all sinks in order.
type Fanout []ports.Notifier

func (f Fanout) Notify(title, message string, severity domain.Severity) {
	for _, n := range f {
		n.Notify(title, message, severity)
	}
}
