package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/getaipilot/joincounter/config"
	billingdeps "github.com/getaipilot/joincounter/internal/domain/billing/deps"
)

// Module provides Kafka components for fx dependency injection
var Module = fx.Module("kafka",
	fx.Provide(NewProducerFx),
	fx.Provide(func(p *Producer) billingdeps.EventProducer { return p }),
)

// NewProducerFx creates the Kafka producer with fx lifecycle management
func NewProducerFx(
	lc fx.Lifecycle,
	cfg *config.Kafka,
	logger zerolog.Logger,
) (*Producer, error) {
	producer, err := NewProducer(ProducerConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}
