package kafkaqueue

import (
	"context"
	"fmt"
	"time"

	"shiptrack/internal/core/domain/model/notification"

	"github.com/IBM/sarama"
)

// SaramaQueue publishes notification jobs to a Kafka topic through a
// synchronous producer. It backs the queue port when dispatchers run in
// separate processes from the API.
type SaramaQueue struct {
	producer sarama.SyncProducer
	topic    string
}

// NewSaramaQueue connects a synchronous producer to the given brokers.
func NewSaramaQueue(brokers []string, topic string) (*SaramaQueue, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &SaramaQueue{producer: producer, topic: topic}, nil
}

// Enqueue publishes one job. The send is synchronous, so a nil return means
// the brokers acknowledged the message.
func (q *SaramaQueue) Enqueue(ctx context.Context, job notification.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := marshalJob(job)
	if err != nil {
		return fmt.Errorf("failed to encode notification job: %w", err)
	}

	_, _, err = q.producer.SendMessage(&sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(job.ShipmentID.String()),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification job: %w", err)
	}
	return nil
}

// Close releases the underlying producer.
func (q *SaramaQueue) Close() error {
	return q.producer.Close()
}
