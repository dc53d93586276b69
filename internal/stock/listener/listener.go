package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/tiendastreet/catalog-service/internal/broker"
	"github.com/tiendastreet/catalog-service/internal/logger"
)

// StockAdjuster is the slice of the product use case the listener needs.
type StockAdjuster interface {
	DeductStock(ctx context.Context, sku, sizeName string, quantity int) error
}

type StockListener struct {
	consumer *broker.KafkaConsumer
	adjuster StockAdjuster
	logger   logger.ZapLogger
}

func NewStockListener(consumer *broker.KafkaConsumer, adjuster StockAdjuster, logger logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer: consumer,
		adjuster: adjuster,
		logger:   logger,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting Stock Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Stock Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderPlacedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	SKU      string `json:"sku"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event OrderPlacedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderPlaced" {
		return
	}

	l.logger.Info("Processing OrderPlaced event", zap.String("order_id", event.Payload.ID))

	for _, item := range event.Payload.Items {
		if err := l.adjuster.DeductStock(ctx, item.SKU, item.Size, item.Quantity); err != nil {
			l.logger.Error("Failed to deduct stock for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("sku", item.SKU),
				zap.String("size", item.Size),
				zap.Error(err),
			)
		}
	}
}
