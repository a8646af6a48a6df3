// Package publish forwards committed refresh summaries to Kafka for
// downstream consumers. Only derived aggregates leave the process; the
// record set itself is never streamed.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/apptlens/apptlens/internal/config"
	"github.com/apptlens/apptlens/internal/engine"
)

var ErrInvalidPublisherConfig = errors.New("invalid publisher configuration provided")

type kafkaZapLogger struct {
	log *zap.Logger
}

func (l kafkaZapLogger) Printf(msg string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(msg, args...))
}

type kafkaZapErrorLogger struct {
	log *zap.Logger
}

func (l kafkaZapErrorLogger) Printf(msg string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(msg, args...))
}

// summary is the wire form of one committed refresh.
type summary struct {
	Generation    uint64               `json:"generation"`
	Timestamp     time.Time            `json:"timestamp"`
	Filter        engine.FilterSummary `json:"filter"`
	FilteredCount int                  `json:"filteredCount"`
	NoShowRate    float64              `json:"noShowRate"`
}

// Publisher writes refresh summaries to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// New creates a publisher from configuration.
func New(cfg config.PublisherConfig, logger *zap.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		logger.Error("Publisher configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
		)
		return nil, ErrInvalidPublisherConfig
	}

	writer := &kafka.Writer{
		Addr:        kafka.TCP(cfg.Brokers...),
		Topic:       cfg.Topic,
		Balancer:    &kafka.LeastBytes{},
		Logger:      kafkaZapLogger{logger.Named("kafka-writer").WithOptions(zap.AddCallerSkip(1))},
		ErrorLogger: kafkaZapErrorLogger{logger.Named("kafka-writer-error").WithOptions(zap.AddCallerSkip(1))},
	}

	logger.Info("Refresh summary publisher created",
		zap.String("topic", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers),
	)

	return &Publisher{writer: writer, logger: logger}, nil
}

// Publish sends the compact summary of one committed bundle.
func (p *Publisher) Publish(ctx context.Context, bundle *engine.ViewBundle) error {
	msg := summary{
		Generation:    bundle.Generation,
		Timestamp:     time.Now().UTC(),
		Filter:        bundle.Filter,
		FilteredCount: bundle.FilteredCount,
		NoShowRate:    bundle.Overall.Rate,
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh summary: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
		return fmt.Errorf("failed to write refresh summary: %w", err)
	}
	p.logger.Debug("Published refresh summary",
		zap.Uint64("generation", bundle.Generation),
		zap.Int("filtered_count", bundle.FilteredCount),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	p.logger.Info("Closing refresh summary publisher...")
	return p.writer.Close()
}
