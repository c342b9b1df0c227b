package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// writeTimeout bounds a single publish so a stuck broker never holds a
// sink goroutine forever.
const writeTimeout = 5 * time.Second

// messageWriter is the slice of kafka.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type envelope struct {
	Event      string         `json:"event"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// KafkaSink publishes domain events to a Kafka topic for downstream
// analysis. Record is fire-and-forget: the publish happens on a sink
// goroutine with its own deadline, and failures are logged, never returned.
// Ordering across events is therefore not guaranteed, which is acceptable
// for analytics.
type KafkaSink struct {
	writer messageWriter
	log    *slog.Logger

	wg sync.WaitGroup
}

// NewKafkaSink creates a sink writing to topic on the given brokers.
func NewKafkaSink(brokers []string, topic string, log *slog.Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newKafkaSink(writer, log)
}

func newKafkaSink(writer messageWriter, log *slog.Logger) *KafkaSink {
	return &KafkaSink{
		writer: writer,
		log:    log.With("component", "analytics"),
	}
}

// Record publishes the event without blocking the caller.
func (s *KafkaSink) Record(ctx context.Context, event string, payload map[string]any) {
	value, err := json.Marshal(envelope{
		Event:      event,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "analytics event not serializable", "event", event, "error", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// Detached from the caller's context: the command finishing must
		// not cancel the publish.
		writeCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		msg := kafka.Message{Key: []byte(event), Value: value}
		if err := s.writer.WriteMessages(writeCtx, msg); err != nil {
			s.log.Error("analytics publish failed", "event", event, "error", err)
		}
	}()
}

// Close waits for in-flight publishes and closes the underlying writer.
func (s *KafkaSink) Close() error {
	s.wg.Wait()
	if closer, ok := s.writer.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// NopSink discards every event. Used in local runs without a broker.
type NopSink struct{}

// Record discards the event.
func (NopSink) Record(context.Context, string, map[string]any) {}
