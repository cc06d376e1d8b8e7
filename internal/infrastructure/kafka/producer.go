package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/config"
	"github.com/hj010/Image-Process/internal/domain"
	"github.com/hj010/Image-Process/internal/dto"
)

type Producer struct {
	client   *wbfkafka.Producer
	topic    string
	strategy retry.Strategy
}

func NewProducer(cfg *config.KafkaConfig, strategy retry.Strategy) *Producer {
	client := wbfkafka.NewProducer(cfg.Brokers, cfg.Topic)
	zlog.Logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka producer initialized (wbf)")
	return &Producer{
		client:   client,
		topic:    cfg.Topic,
		strategy: strategy,
	}
}

// PublishProcessingTask enqueues one request for the worker. The request ID
// doubles as the message key so all tasks for a request land on the same
// partition and are consumed by a single worker at a time.
func (p *Producer) PublishProcessingTask(ctx context.Context, requestID string) error {
	task := dto.ProcessRequestTask{RequestID: requestID}

	data, err := json.Marshal(task)
	if err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("request_id", requestID).
			Msg("Failed to marshal task")
		return err
	}

	if err := p.client.SendWithRetry(ctx, p.strategy, []byte(requestID), data); err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("request_id", requestID).
			Msg("Failed to send Kafka message with retry")
		return fmt.Errorf("%w: %v", domain.ErrQueueFailed, err)
	}

	zlog.Logger.Info().
		Str("request_id", requestID).
		Msg("Processing task sent to Kafka")
	return nil
}

func (p *Producer) Close() error {
	if err := p.client.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	zlog.Logger.Info().Msg("Kafka producer closed successfully")
	return nil
}
