package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *capturingWriter) captured() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.messages...)
}

func TestKafkaSink_PublishesEnvelope(t *testing.T) {
	writer := &capturingWriter{}
	sink := newKafkaSink(writer, slog.Default())

	sink.Record(context.Background(), "order.created", map[string]any{
		"order_id": "o-1",
		"urgency":  "express",
	})
	require.NoError(t, sink.Close())

	messages := writer.captured()
	require.Len(t, messages, 1)
	assert.Equal(t, []byte("order.created"), messages[0].Key)

	var e envelope
	require.NoError(t, json.Unmarshal(messages[0].Value, &e))
	assert.Equal(t, "order.created", e.Event)
	assert.False(t, e.OccurredAt.IsZero())
	assert.Equal(t, "o-1", e.Payload["order_id"])
	assert.Equal(t, "express", e.Payload["urgency"])
}

func TestKafkaSink_SwallowsPublishFailures(t *testing.T) {
	writer := &capturingWriter{err: errors.New("broker unreachable")}
	sink := newKafkaSink(writer, slog.Default())

	sink.Record(context.Background(), "order.created", nil)
	require.NoError(t, sink.Close())
}

func TestKafkaSink_IgnoresCallerCancellation(t *testing.T) {
	writer := &capturingWriter{}
	sink := newKafkaSink(writer, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink.Record(ctx, "order.delivered", nil)
	require.NoError(t, sink.Close())

	assert.Len(t, writer.captured(), 1, "a finished command must not cancel the publish")
}
