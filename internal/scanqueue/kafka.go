package scanqueue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"passport/internal/platform/config"
)

// KafkaEmitter publishes events to the scan topic. Delivery is asynchronous;
// failed records are logged and dropped, matching the best-effort contract.
type KafkaEmitter struct {
	client *kgo.Client
	logger *slog.Logger
}

func NewKafka(cfg config.KafkaConfig, logger *slog.Logger) (*KafkaEmitter, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaEmitter{client: client, logger: logger}, nil
}

func (k *KafkaEmitter) Emit(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		k.logger.ErrorContext(ctx, "scan event encode failed", "error", err, "kind", e.Kind)
		return
	}
	record := &kgo.Record{
		Key:   []byte(e.Key()),
		Value: payload,
	}
	k.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			k.logger.Error("scan event delivery failed", "error", err, "kind", e.Kind)
		}
	})
}

// Close flushes outstanding records and releases the client.
func (k *KafkaEmitter) Close() {
	k.client.Close()
}
