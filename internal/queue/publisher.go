package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/events"
)

// Publisher forwards domain events to RabbitMQ from a background
// goroutine.  Publish never blocks the request path: when the buffer is
// full the event is dropped and logged.  Messages are persistent.
type Publisher struct {
	url   string
	queue string
	log   *zap.Logger
	buf   chan ActivityEvent

	// pending holds the event whose publish failed; it goes out first on
	// the next connection.  Only the Run goroutine touches it.
	pending *ActivityEvent
}

// NewPublisher creates a publisher for url/queue.  Call Run to start
// delivering.
func NewPublisher(url, queue string, log *zap.Logger) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, queue: queue, log: log, buf: make(chan ActivityEvent, 256)}
}

// Publish enqueues e.  It satisfies events.Publisher so it can be
// subscribed to the bus directly.
func (p *Publisher) Publish(e events.Event) {
	ev, err := FromEvent(e)
	if err != nil {
		p.log.Error("rabbitmq: encode event failed", zap.String("event", string(e.Type)), zap.Error(err))
		return
	}
	select {
	case p.buf <- ev:
	default:
		p.log.Warn("rabbitmq: publish buffer full, dropping event", zap.String("event", ev.Type), zap.String("event_id", ev.EventID))
	}
}

// Run dials the broker and publishes buffered events until ctx is done.
// Lost connections are re-dialled with exponential backoff.
func (p *Publisher) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			p.log.Warn("rabbitmq: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !wait(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = time.Second

		err = p.publishLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.log.Warn("rabbitmq: publish loop ended, reconnecting", zap.Error(err))
		if !wait(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (p *Publisher) publishLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return err
	}
	closed := ch.NotifyClose(make(chan *amqp.Error, 1))
	send := func(ctx context.Context, ev ActivityEvent) error { return p.publish(ctx, ch, ev) }

	if err := p.flushPending(ctx, send); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			if amqpErr == nil {
				return errChannelClosed
			}
			return amqpErr
		case ev := <-p.buf:
			if err := p.deliver(ctx, ev, send); err != nil {
				return err
			}
		}
	}
}

// deliver sends ev, keeping it as pending when the send fails.
func (p *Publisher) deliver(ctx context.Context, ev ActivityEvent, send func(context.Context, ActivityEvent) error) error {
	if err := send(ctx, ev); err != nil {
		p.log.Error("rabbitmq: publish failed, will retry after reconnect", zap.String("event_id", ev.EventID), zap.Error(err))
		p.pending = &ev
		return err
	}
	return nil
}

// flushPending resends the event a previous connection failed to publish.
func (p *Publisher) flushPending(ctx context.Context, send func(context.Context, ActivityEvent) error) error {
	if p.pending == nil {
		return nil
	}
	ev := *p.pending
	p.pending = nil
	return p.deliver(ctx, ev, send)
}

func (p *Publisher) publish(ctx context.Context, ch *amqp.Channel, ev ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Type:         ev.Type,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
