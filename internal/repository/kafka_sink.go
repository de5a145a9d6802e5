package repository

import (
	"context"

	"FinCrawl/internal/domain/models"
	"FinCrawl/internal/domain/repository"
	pkgkafka "FinCrawl/pkg/kafka"
)

// Publisher is what the Kafka sink needs from pkg/kafka.
type Publisher interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Health(ctx context.Context) error
	Close() error
}

// KafkaSink publishes one message per record. The message key is the record
// key so a compacted topic keeps the latest version of each row.
type KafkaSink struct {
	producer Publisher
	topic    string
}

func NewKafkaSink(producer Publisher, topic string) repository.Sink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) StoreBatch(ctx context.Context, dataset string, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	t, err := lookupTable(dataset)
	if err != nil {
		return err
	}

	msgs := make([]pkgkafka.Message, 0, len(records))
	for _, rec := range records {
		values, err := t.values(rec)
		if err != nil {
			return err
		}
		msgs = append(msgs, pkgkafka.Message{
			Key:     []byte(dataset + "|" + t.keyOf(formatRow(values))),
			Value:   rec,
			Headers: map[string]string{"dataset": dataset},
		})
	}
	return s.producer.PublishBatch(ctx, s.topic, msgs)
}

func (s *KafkaSink) Health(ctx context.Context) error {
	return s.producer.Health(ctx)
}

func (s *KafkaSink) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}
