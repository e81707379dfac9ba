package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bazarlab/marketplace-service/internal/category"
	"github.com/bazarlab/marketplace-service/pkg/broker"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"go.uber.org/zap"
)

const EventTaxonomyChanged = "TaxonomyChanged"

type MessageReader interface {
	ReadMessage(ctx context.Context) ([]byte, error)
}

// consumerReader adapts *broker.KafkaConsumer to MessageReader.
type consumerReader struct {
	consumer *broker.KafkaConsumer
}

func (r consumerReader) ReadMessage(ctx context.Context) ([]byte, error) {
	msg, err := r.consumer.ReadMessage(ctx)
	if err != nil {
		return nil, err
	}
	return msg.Value, nil
}

// TaxonomyListener drops cached trees and schemas whenever admin tooling
// announces a category or attribute change.
type TaxonomyListener struct {
	reader MessageReader
	uc     category.UseCase
	logger logger.ZapLogger
	retry  time.Duration
}

func NewTaxonomyListener(consumer *broker.KafkaConsumer, uc category.UseCase, log logger.ZapLogger) *TaxonomyListener {
	return newListener(consumerReader{consumer: consumer}, uc, log)
}

func newListener(reader MessageReader, uc category.UseCase, log logger.ZapLogger) *TaxonomyListener {
	return &TaxonomyListener{
		reader: reader,
		uc:     uc,
		logger: log,
		retry:  time.Second,
	}
}

func (l *TaxonomyListener) Start(ctx context.Context) {
	l.logger.Info("Starting taxonomy Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping taxonomy Kafka listener")
			return
		default:
			value, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.retry):
				}
				continue
			}
			l.processMessage(ctx, value)
		}
	}
}

func (l *TaxonomyListener) processMessage(ctx context.Context, value []byte) {
	var event broker.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if event.EventType != EventTaxonomyChanged {
		return
	}

	l.logger.Info("Processing TaxonomyChanged event", zap.String("event_id", event.EventID))
	if err := l.uc.InvalidateCache(ctx); err != nil {
		l.logger.Error("Failed to invalidate taxonomy cache", zap.String("event_id", event.EventID), zap.Error(err))
	}
}
