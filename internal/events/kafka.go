package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaConfig holds outbound event broker configuration.
type KafkaConfig struct {
	Brokers        string // comma-separated
	Topic          string
	PublishTimeout time.Duration
}

// KafkaPublisher delivers events to a Kafka topic keyed by tenant so events
// for one tenant stay ordered within a partition.
type KafkaPublisher struct {
	client  *kgo.Client
	topic   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewKafkaPublisher creates a Kafka-backed publisher.
func NewKafkaPublisher(cfg KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(cfg.Brokers, ",")...),
		kgo.RequiredAcks(kgo.LeaderAck()),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, err
	}
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &KafkaPublisher{
		client:  client,
		topic:   cfg.Topic,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Publish sends one event, waiting at most the configured timeout. Failures
// are logged and dropped; the triggering request has already succeeded.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	value, err := json.Marshal(map[string]any{
		"type":        string(event.Type),
		"tenant_id":   event.TenantID.String(),
		"occurred_at": event.OccurredAt,
		"payload":     event.Payload,
	})
	if err != nil {
		p.logger.Error("failed to encode outbound event", "error", err, "type", event.Type)
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.TenantID.String()),
		Value: value,
	}
	if err := p.client.ProduceSync(publishCtx, record).FirstErr(); err != nil {
		p.logger.Warn("outbound event delivery failed",
			"error", err,
			"type", event.Type,
			"tenant_id", event.TenantID,
		)
	}
}

// Close flushes and shuts down the underlying client.
func (p *KafkaPublisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}
