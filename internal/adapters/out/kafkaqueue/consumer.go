package kafkaqueue

import (
	"context"
	"fmt"
	"log/slog"

	"shiptrack/internal/core/ports"

	"github.com/IBM/sarama"
)

// Consumer drains the notification topic through a consumer group and feeds
// each decoded job to the dispatcher. Messages are marked after the handler
// returns, so a crash mid-job leads to redelivery, never to loss.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler ports.JobHandler
	logger  *slog.Logger
}

// NewConsumer joins the given consumer group on the brokers.
func NewConsumer(
	brokers []string,
	groupID string,
	topic string,
	handler ports.JobHandler,
	logger *slog.Logger,
) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}

	return &Consumer{
		group:   group,
		topic:   topic,
		handler: handler,
		logger:  logger.With("component", "kafka_consumer"),
	}, nil
}

// Run consumes until the context is cancelled. Consume returns on every
// rebalance, so it is called in a loop.
func (c *Consumer) Run(ctx context.Context) error {
	claims := &claimHandler{handler: c.handler, logger: c.logger}
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := c.group.Consume(ctx, []string{c.topic}, claims); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.ErrorContext(ctx, "kafka consume failed", "error", err)
		}
	}
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	return c.group.Close()
}

type claimHandler struct {
	handler ports.JobHandler
	logger  *slog.Logger
}

func (h *claimHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *claimHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *claimHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	for message := range claim.Messages() {
		ctx := session.Context()

		job, err := unmarshalJob(message.Value)
		if err != nil {
			// poison message, mark it so the partition keeps moving
			h.logger.ErrorContext(ctx, "dropping undecodable notification job",
				"topic", message.Topic,
				"partition", message.Partition,
				"offset", message.Offset,
				"error", err)
			session.MarkMessage(message, "")
			continue
		}

		if err := h.handler.Handle(ctx, job); err != nil {
			h.logger.ErrorContext(ctx, "notification job failed",
				"shipment_id", job.ShipmentID.String(),
				"error", err)
		}
		session.MarkMessage(message, "")
	}
	return nil
}
