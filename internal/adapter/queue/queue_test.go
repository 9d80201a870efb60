package queue

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_UnknownDriver(t *testing.T) {
	// Act
	mq, err := New("kafka", "amqp://localhost", zap.NewNop())

	// Assert
	if err == nil {
		t.Fatal("unknown driver should be rejected")
	}
	if mq != nil {
		t.Error("no queue should be returned on error")
	}
	if !strings.Contains(err.Error(), "kafka") {
		t.Errorf("error should name the driver, got %q", err.Error())
	}
}

func TestNew_EmptyDriverMeansNATS(t *testing.T) {
	// Arrange: nothing listens on this port, so a NATS dial fails fast.
	// The point is driver selection, not connectivity.
	_, err := New("", "nats://127.0.0.1:1", zap.NewNop())

	// Assert
	if err == nil {
		t.Fatal("dial against a closed port should fail")
	}
	if !strings.Contains(err.Error(), "NATS") {
		t.Errorf("empty driver should route to NATS, got %q", err.Error())
	}
}
