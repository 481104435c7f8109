// Package kafka publishes analysis results to the reporting topic. The
// reporting layer (maps, tables, charts) consumes from there; nothing in
// this engine renders anything.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/quakemon/quake-monev/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces result records to the reporting Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a producer for the reporting topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishComparison serializes each comparison row and publishes the
// batch in a single WriteMessages call.
func (w *Writer) PublishComparison(ctx context.Context, runID string, table domain.ComparisonTable) error {
	if len(table.Rows) == 0 {
		return nil
	}
	msgs, err := buildComparisonMessages(runID, table)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

// PublishLatency serializes and publishes the latency table.
func (w *Writer) PublishLatency(ctx context.Context, runID string, records []domain.LatencyRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs, err := buildLatencyMessages(runID, records)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func buildComparisonMessages(runID string, table domain.ComparisonTable) ([]kafkago.Message, error) {
	msgs := make([]kafkago.Message, 0, len(table.Rows))
	for _, row := range table.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("serialize comparison row: %w", err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(rowKey(row)),
			Value: data,
			Headers: []kafkago.Header{
				{Key: "record_type", Value: []byte("comparison")},
				{Key: "run_id", Value: []byte(runID)},
				{Key: "primary_source", Value: []byte(table.PrimarySource)},
				{Key: "secondary_source", Value: []byte(table.SecondarySource)},
			},
		})
	}
	return msgs, nil
}

func buildLatencyMessages(runID string, records []domain.LatencyRecord) ([]kafkago.Message, error) {
	msgs := make([]kafkago.Message, 0, len(records))
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("serialize latency record: %w", err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(rec.Event.EventID),
			Value: data,
			Headers: []kafkago.Header{
				{Key: "record_type", Value: []byte("latency")},
				{Key: "run_id", Value: []byte(runID)},
				{Key: "milestone", Value: []byte(rec.Milestone)},
			},
		})
	}
	return msgs, nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// rowKey prefers the national event id so repeated runs key the same
// physical event identically.
func rowKey(row domain.ComparisonRow) string {
	if row.PrimaryID != "" {
		return row.PrimaryID
	}
	return row.PrimaryTime.UTC().Format("20060102150405")
}
