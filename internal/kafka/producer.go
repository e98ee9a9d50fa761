package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"ads-insights-assistant/config"
	"ads-insights-assistant/internal/model"
)

type QueryEventProducer interface {
	Produce(ctx context.Context, event model.QueryEvent) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaQueryEventProducer struct {
	writer messageWriter
	topic  string
}

// NewKafkaQueryEventProducer returns a no-op producer when no brokers are configured.
func NewKafkaQueryEventProducer(lc fx.Lifecycle, cfg *config.Config) QueryEventProducer {
	if !cfg.Kafka.Enabled() {
		log.Info().Msg("Kafka brokers not configured, query events will not be published")
		return noopQueryEventProducer{}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.QueryTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: time.Second,
		Async:        true,
	})
	p := newQueryEventProducer(writer, cfg.Kafka.QueryTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka producer")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.QueryTopic).Msg("Kafka producer initialized")
	return p
}

func newQueryEventProducer(writer messageWriter, topic string) *kafkaQueryEventProducer {
	return &kafkaQueryEventProducer{writer: writer, topic: topic}
}

// Produce keys each event by session so one session's events stay ordered on a partition.
func (p *kafkaQueryEventProducer) Produce(ctx context.Context, event model.QueryEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("session_id", event.SessionID).Msg("Failed to marshal query event for Kafka")
		return fmt.Errorf("failed to marshal query event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
		Time:  event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().Err(err).Str("topic", p.topic).Msg("Failed to write query event to Kafka")
		return err
	}
	log.Debug().Str("session_id", event.SessionID).Str("topic", p.topic).Msg("Produced query event to Kafka")
	return nil
}

func (p *kafkaQueryEventProducer) Close() error {
	return p.writer.Close()
}

type noopQueryEventProducer struct{}

func (noopQueryEventProducer) Produce(context.Context, model.QueryEvent) error { return nil }
func (noopQueryEventProducer) Close() error                                    { return nil }
