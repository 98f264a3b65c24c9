package repository

import (
	"context"

	"TradeSentry/internal/domain/models"
	"TradeSentry/internal/domain/repository"
	pkgkafka "TradeSentry/pkg/kafka"
)

// messageWriter is the subset of the Kafka producer used here.
type messageWriter interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaReportPublisher implements ReportPublisher for Kafka, keyed by symbol.
type KafkaReportPublisher struct {
	producer messageWriter
	topic    string
}

// NewKafkaReportPublisher creates Kafka publisher.
func NewKafkaReportPublisher(producer *pkgkafka.Producer, topic string) repository.ReportPublisher {
	return &KafkaReportPublisher{producer: producer, topic: topic}
}

func (p *KafkaReportPublisher) Publish(ctx context.Context, r *models.AggregateReport) error {
	return p.producer.Publish(ctx, p.topic, []byte(r.Symbol), toRecord(r))
}

func (p *KafkaReportPublisher) PublishBatch(ctx context.Context, rs []*models.AggregateReport) error {
	if len(rs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(rs))
	for i, r := range rs {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(r.Symbol),
			Value: toRecord(r),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaReportPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
