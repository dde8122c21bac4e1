package tradepublisher

import (
	"context"

	"github.com/segmentio/kafka-go"
	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
	tradepublisherv1 "github.com/xndrleib/Market-Simulation/internal/domain/trade-publisher/v1"
	"github.com/xndrleib/Market-Simulation/pkg/errors"
	"github.com/xndrleib/Market-Simulation/pkg/logger"
)

// Config holds the Kafka destination of the trade stream.
type Config struct {
	Brokers []string `env:"TRADE_PUBLISHER_BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"TRADE_PUBLISHER_TOPIC" envDefault:"simulated-trades"`
}

// Publisher writes executed trades to a Kafka topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a Kafka publisher for trade events.
func NewPublisher(config Config, logger logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// PublishTradeEvent publishes a single trade event.
func (p *Publisher) PublishTradeEvent(ctx context.Context, event *tradepublisherv1.TradeEvent) error {
	msg := kafka.Message{
		Value: tradepublisherv1.ToBytes(event),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "run_id", Value: event.RunID},
			logger.Field{Key: "sequence", Value: event.Sequence},
		)
		return errors.NewTracer("failed to publish trade event").Wrap(err)
	}
	return nil
}

// PublishRun publishes every trade of a completed run in execution order.
func (p *Publisher) PublishRun(ctx context.Context, result *simulationv1.Result) error {
	if len(result.Trades) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(result.Trades))
	for _, trade := range result.Trades {
		msgs = append(msgs, kafka.Message{
			Value: tradepublisherv1.ToBytes(tradepublisherv1.CreateFromTrade(result.Config.RunID, trade)),
		})
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "run_id", Value: result.Config.RunID},
			logger.Field{Key: "trades", Value: len(msgs)},
		)
		return errors.NewTracer("failed to publish run trades").Wrap(err)
	}

	p.logger.InfoContext(ctx, "published run trades",
		logger.Field{Key: "run_id", Value: result.Config.RunID},
		logger.Field{Key: "trades", Value: len(msgs)},
	)
	return nil
}

// Close flushes and closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
