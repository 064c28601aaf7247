package kafka

import (
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestNewProducerReportsDeliveryFailures(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "marketplace-events")
	defer p.Close()

	assert.True(t, p.writer.Async)
	// With async writes the completion hook is the only place a failed
	// delivery is ever seen; it must exist and tolerate batch errors.
	if assert.NotNil(t, p.writer.Completion) {
		p.writer.Completion([]kafka.Message{
			{Key: []byte("user_registered")},
			{Key: []byte("booking_created")},
		}, errors.New("broker unavailable"))
		p.writer.Completion(nil, nil)
	}
}
