// Package kafka contains the event producer used to announce billing
// changes to sibling services.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	billingdeps "github.com/getaipilot/joincounter/internal/domain/billing/deps"
)

// Producer sends subscription events to Kafka using an async producer
type Producer struct {
	producer sarama.AsyncProducer
	topic    string
	logger   zerolog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// ProducerConfig holds configuration for the Kafka producer
type ProducerConfig struct {
	Brokers    []string
	Topic      string
	MaxRetries int
	Logger     zerolog.Logger
}

// NewProducer creates a Kafka producer with async configuration.
//
// Idempotent mode gives at-least-once delivery with deduplication; the
// hash partitioner keys on user_id so events for one user stay ordered.
func NewProducer(cfg ProducerConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers specified")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Producer.RequiredAcks = sarama.WaitForAll // Required for idempotent producer
	config.Net.MaxOpenRequests = 1                   // Required for idempotent producer
	config.Producer.Retry.Max = cfg.MaxRetries
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.ClientID = "joincounter-producer"
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	p := &Producer{
		producer: producer,
		topic:    cfg.Topic,
		logger:   cfg.Logger.With().Str("component", "kafka_producer").Logger(),
	}

	p.wg.Add(2)
	go p.handleSuccesses()
	go p.handleErrors()

	cfg.Logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka producer initialized successfully")

	return p, nil
}

// SendSubscriptionActivated publishes a subscription activation event
func (p *Producer) SendSubscriptionActivated(ctx context.Context, event *billingdeps.SubscriptionEvent) error {
	if event == nil {
		return fmt.Errorf("event is nil")
	}
	if event.UserID == 0 {
		return fmt.Errorf("user_id is required")
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled before sending: %w", ctx.Err())
	default:
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(strconv.FormatInt(event.UserID, 10)), // Partition by user_id
		Value:     sarama.ByteEncoder(value),
		Timestamp: time.Now(),
	}

	select {
	case p.producer.Input() <- msg:
		p.logger.Debug().
			Int64("user_id", event.UserID).
			Str("plan", event.Plan).
			Msg("Subscription event queued for sending to Kafka")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while sending message: %w", ctx.Err())
	}
}

// handleSuccesses drains the success channel
func (p *Producer) handleSuccesses() {
	defer p.wg.Done()
	for msg := range p.producer.Successes() {
		p.logger.Debug().
			Str("topic", msg.Topic).
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("Message delivered to Kafka")
	}
}

// handleErrors drains the error channel
func (p *Producer) handleErrors() {
	defer p.wg.Done()
	for perr := range p.producer.Errors() {
		p.logger.Error().
			Err(perr.Err).
			Str("topic", perr.Msg.Topic).
			Msg("Failed to deliver message to Kafka")
	}
}

// Close shuts down the producer and waits for in-flight messages
func (p *Producer) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.producer.Close()
		p.wg.Wait()
		p.logger.Info().Msg("Kafka producer closed")
	})
	return p.closeErr
}
