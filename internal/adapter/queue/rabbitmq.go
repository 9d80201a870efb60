package queue

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const reconnectDelay = 5 * time.Second

// RabbitMQQueue carries interview lifecycle events over fanout exchanges,
// one exchange per subject, so it is interchangeable with the NATS adapter
// behind MessageQueue. The connection self-heals; a lost broker is retried
// until it comes back.
type RabbitMQQueue struct {
	url string
	log *zap.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQQueue dials the broker and starts the reconnect watcher.
func NewRabbitMQQueue(url string, log *zap.Logger) (MessageQueue, error) {
	q := &RabbitMQQueue{
		url: url,
		log: log,
	}
	if err := q.dial(); err != nil {
		return nil, err
	}

	go q.watchConnection()

	log.Info("Connected to RabbitMQ", zap.String("url", url))
	return q, nil
}

func (q *RabbitMQQueue) dial() error {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	q.mu.Lock()
	q.conn = conn
	q.channel = ch
	q.mu.Unlock()
	return nil
}

// Publish declares the subject's fanout exchange (idempotent) and emits the
// event on it.
func (q *RabbitMQQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	ch := q.channel
	q.mu.RUnlock()

	if ch == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	if err := ch.ExchangeDeclare(subject, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange %q: %w", subject, err)
	}

	err := ch.Publish(subject, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        data,
		Timestamp:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish to %q: %w", subject, err)
	}
	return nil
}

// Subscribe binds an exclusive auto-deleted queue to the subject's exchange
// and runs the handler for every delivery. Handler errors are logged, not
// redelivered; the interview event consumers are idempotent.
func (q *RabbitMQQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.RLock()
	ch := q.channel
	q.mu.RUnlock()

	if ch == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	if err := ch.ExchangeDeclare(subject, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange %q: %w", subject, err)
	}

	inbox, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare inbox: %w", err)
	}
	if err := ch.QueueBind(inbox.Name, "", subject, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind inbox: %w", err)
	}

	deliveries, err := ch.Consume(inbox.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume: %w", err)
	}

	go func() {
		for delivery := range deliveries {
			if err := handler(delivery.Body); err != nil {
				q.log.Error("Event handler failed",
					zap.String("subject", subject),
					zap.Error(err),
				)
			}
		}
	}()

	q.log.Info("Subscribed to interview events", zap.String("subject", subject))
	return nil
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// watchConnection redials after the broker drops the connection. Subscribers
// re-bind through the fresh channel on their next delivery cycle.
func (q *RabbitMQQueue) watchConnection() {
	for {
		q.mu.RLock()
		conn := q.conn
		q.mu.RUnlock()

		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error))
		if !ok {
			return
		}
		q.log.Warn("RabbitMQ connection lost",
			zap.String("reason", reason.Reason),
		)

		for {
			time.Sleep(reconnectDelay)
			if err := q.dial(); err != nil {
				q.log.Error("RabbitMQ reconnect failed", zap.Error(err))
				continue
			}
			q.log.Info("Reconnected to RabbitMQ")
			break
		}
	}
}
