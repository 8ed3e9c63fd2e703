package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/uap-dashboard/internal/config"
	"github.com/couchcryptid/uap-dashboard/internal/dataset"
	"github.com/couchcryptid/uap-dashboard/internal/domain"
	"github.com/couchcryptid/uap-dashboard/internal/observability"
)

// publishBatchSize caps the number of messages per WriteMessages call.
const publishBatchSize = 500

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes the enriched table to a Kafka topic, one message per
// observation, so downstream consumers can reuse the derived features.
type Writer struct {
	writer  messageWriter
	topic   string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, topic: cfg.KafkaTopic, metrics: metrics, logger: logger}
}

// Publish writes every observation in ds. All messages of one call share a
// load_id header so consumers can tell successive process runs apart.
func (w *Writer) Publish(ctx context.Context, ds *dataset.Dataset) error {
	observations := ds.Observations()
	if len(observations) == 0 {
		return nil
	}

	loadID := uuid.NewString()
	loadedAt := ds.LoadedAt().UTC().Format(time.RFC3339)

	for start := 0; start < len(observations); start += publishBatchSize {
		end := min(start+publishBatchSize, len(observations))
		msgs := make([]kafkago.Message, 0, end-start)
		for _, obs := range observations[start:end] {
			msg, err := serializeToMessage(obs, loadID, loadedAt)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("publish observations %d-%d: %w", start, end-1, err)
		}
		w.metrics.ObservationsPublished.Add(float64(len(msgs)))
	}

	w.logger.Info("enriched table published", "topic", w.topic, "observations", len(observations), "load_id", loadID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Observation into a Kafka message keyed by
// its input row number.
func serializeToMessage(obs domain.Observation, loadID, loadedAt string) (kafkago.Message, error) {
	data, err := json.Marshal(obs)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation row %d: %w", obs.Row, err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(obs.Row)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(obs.Category)},
			{Key: "loaded_at", Value: []byte(loadedAt)},
			{Key: "load_id", Value: []byte(loadID)},
		},
	}, nil
}
