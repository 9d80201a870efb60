package queue

import (
	"fmt"

	"go.uber.org/zap"
)

// Supported broker drivers.
const (
	DriverNATS     = "nats"
	DriverRabbitMQ = "rabbitmq"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// New connects to the broker selected by driver. An empty driver defaults
// to NATS.
func New(driver, url string, log *zap.Logger) (MessageQueue, error) {
	switch driver {
	case "", DriverNATS:
		return NewNATSQueue(url, log)
	case DriverRabbitMQ:
		return NewRabbitMQQueue(url, log)
	default:
		return nil, fmt.Errorf("queue: unknown driver %q", driver)
	}
}
