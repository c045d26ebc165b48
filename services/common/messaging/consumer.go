package messaging

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// State tracks the consumer lifecycle:
// Disconnected -> Connecting -> Subscribed -> Consuming, with Failed as the
// terminal state after the connection retries are exhausted.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateConsuming
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateSubscribed:
		return "SUBSCRIBED"
	case StateConsuming:
		return "CONSUMING"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Handler processes one delivered message body. A returned error is logged
// and the next message is processed; the message is not redelivered because
// the subscription auto-acks.
type Handler func(ctx context.Context, body []byte) error

const (
	DefaultMaxConnectAttempts = 10
	DefaultConnectBackoff     = 5 * time.Second
)

// Consumer maintains the durable subscription on the user-events exchange.
// It runs as a single long-lived background task, independent of the
// request-handling path: the hosting service serves HTTP even while the
// consumer is still connecting or has given up.
//
// Deliveries are auto-acknowledged before processing, so a write failure or
// crash mid-handling loses the message. That fire-and-forget behavior is
// deliberate: the handler is an unconditional overwrite, and the next event
// for the same user repairs any drift.
type Consumer struct {
	provider    ConnectionProvider
	handler     Handler
	logger      *zap.Logger
	maxAttempts int
	backoff     time.Duration

	state atomic.Int32
}

// ConsumerOption tweaks retry behavior, mainly for tests.
type ConsumerOption func(*Consumer)

func WithMaxConnectAttempts(n int) ConsumerOption {
	return func(c *Consumer) { c.maxAttempts = n }
}

func WithConnectBackoff(d time.Duration) ConsumerOption {
	return func(c *Consumer) { c.backoff = d }
}

func NewConsumer(provider ConnectionProvider, handler Handler, logger *zap.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		provider:    provider,
		handler:     handler,
		logger:      logger,
		maxAttempts: DefaultMaxConnectAttempts,
		backoff:     DefaultConnectBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the current lifecycle state.
func (c *Consumer) State() State {
	return State(c.state.Load())
}

func (c *Consumer) setState(s State) {
	c.state.Store(int32(s))
}

// Run connects with bounded retry and fixed backoff, then consumes until
// ctx is canceled or the connection is lost. It blocks; callers start it in
// a goroutine. After exhausting connection attempts it transitions to
// Failed and returns — the hosting process stays up, only the event
// pipeline is off for this process lifetime.
func (c *Consumer) Run(ctx context.Context) {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		c.setState(StateConnecting)

		conn, ch, deliveries, err := c.subscribe()
		if err != nil {
			c.logger.Warn("Broker connection attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.maxAttempts),
				zap.Duration("backoff", c.backoff),
				zap.Error(err),
			)

			select {
			case <-ctx.Done():
				c.setState(StateDisconnected)
				return
			case <-time.After(c.backoff):
			}
			continue
		}

		c.setState(StateSubscribed)
		c.logger.Info("Subscribed to user events",
			zap.String("exchange", ExchangeUserEvents),
			zap.String("queue", QueueUserUpdates),
		)

		c.consume(ctx, deliveries)

		ch.Close()
		conn.Close()

		if ctx.Err() != nil {
			c.setState(StateDisconnected)
			c.logger.Info("Consumer stopped")
			return
		}

		// The delivery channel closed without a shutdown request: the
		// established connection was lost. Only the initial connection
		// sequence is retried, so the consumer ends here.
		c.setState(StateDisconnected)
		c.logger.Error("Broker connection lost; consumer stopped (no automatic reconnect)")
		return
	}

	c.setState(StateFailed)
	c.logger.Error("Exhausted broker connection attempts; event consumer disabled for this process",
		zap.Int("attempts", c.maxAttempts),
	)
}

// subscribe connects and binds the durable queue to the fanout exchange.
func (c *Consumer) subscribe() (*amqp.Connection, *amqp.Channel, <-chan amqp.Delivery, error) {
	conn, err := c.provider.Dial()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareUserEventsExchange(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, nil, fmt.Errorf("declare exchange: %w", err)
	}

	queue, err := ch.QueueDeclare(
		QueueUserUpdates,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, nil, fmt.Errorf("declare queue: %w", err)
	}

	// No routing key: fanout delivers everything to every bound queue.
	if err := ch.QueueBind(queue.Name, "", ExchangeUserEvents, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, nil, fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := ch.Consume(
		queue.Name,
		"order-service-"+uuid.NewString(), // consumer tag
		true,                              // auto-ack
		false,                             // exclusive
		false,                             // no-local
		false,                             // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, nil, fmt.Errorf("start consuming: %w", err)
	}

	return conn, ch, deliveries, nil
}

func (c *Consumer) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	c.setState(StateConsuming)

	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}
			c.handle(ctx, delivery.Body)
		}
	}
}

// handle runs one message through the handler. Failures of a single message
// never stop consumption of subsequent messages.
func (c *Consumer) handle(ctx context.Context, body []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic while processing event", zap.Any("panic", r))
		}
	}()

	if err := c.handler(ctx, body); err != nil {
		// Already acked; the message will not be redelivered.
		c.logger.Error("Failed to process event (message dropped)", zap.Error(err))
	}
}
