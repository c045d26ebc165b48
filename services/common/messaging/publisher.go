package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/ecommerce-microservices/pkg/aws"
	"github.com/yashrajoria/ecommerce-microservices/services/common/events"
)

// Publisher hands user mutation events to the fanout exchange. Publishing is
// best-effort by design: a mutation that already committed must never fail
// because the broker is down, so every error here is logged and swallowed.
// The accepted gap is that an event can be lost when the broker is
// unreachable at publish time; there is no outbox or retry queue.
type Publisher struct {
	provider ConnectionProvider
	logger   *zap.Logger
	metrics  *awspkg.MetricsClient
	service  string
}

// NewPublisher builds a publisher. metrics may be nil.
func NewPublisher(provider ConnectionProvider, logger *zap.Logger, metrics *awspkg.MetricsClient, serviceName string) *Publisher {
	return &Publisher{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
		service:  serviceName,
	}
}

// PublishUserUpdated publishes the event with persistent delivery mode,
// opening and closing its own connection. Callers invoke it synchronously
// after the mutation commits; it never returns an error to them.
func (p *Publisher) PublishUserUpdated(ctx context.Context, event events.UserUpdatedEvent) {
	if err := p.publish(ctx, event); err != nil {
		p.logger.Error("Failed to publish UserUpdated event (dropped)",
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
		p.recordMetric(awspkg.MetricEventPublishFailures)
		return
	}

	p.logger.Info("Published UserUpdated event",
		zap.String("user_id", event.UserID),
		zap.String("email", event.Email),
	)
	p.recordMetric(awspkg.MetricEventsPublished)
}

func (p *Publisher) publish(ctx context.Context, event events.UserUpdatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := p.provider.Dial()
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := declareUserEventsExchange(ch); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		ExchangeUserEvents,
		"",    // fanout ignores the routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (p *Publisher) recordMetric(name string) {
	if p.metrics == nil || !p.metrics.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.metrics.RecordCount(ctx, name, map[string]string{"Service": p.service})
	}()
}
