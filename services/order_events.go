package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types published on the order events topic
const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
	EventBillPaid           = "bill_paid"
)

// OrderEvent is the message emitted when an order or its bill changes
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    uint      `json:"order_id"`
	BillID     uint      `json:"bill_id,omitempty"`
	CustomerID uint      `json:"customer_id"`
	Status     string    `json:"status"`
	ChangedBy  string    `json:"changed_by"` // role of the session that made the change
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher sends order events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// NoopEventPublisher drops every event
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, OrderEvent) error { return nil }

// KafkaEventPublisher writes events as JSON, keyed by order id so that the
// events of one order stay in one partition
type KafkaEventPublisher struct {
	Writer *kafka.Writer
}

var eventPublisherInstance EventPublisher = NoopEventPublisher{}

// NewKafkaEventPublisher creates a publisher for topic on brokers
func NewKafkaEventPublisher(brokers []string, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		Writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: payload,
	})
}

// Close flushes pending messages and closes the writer
func (p *KafkaEventPublisher) Close() error {
	return p.Writer.Close()
}

// GetEventPublisher returns the active publisher
func GetEventPublisher() EventPublisher {
	return eventPublisherInstance
}

// SetEventPublisher replaces the active publisher
func SetEventPublisher(publisher EventPublisher) {
	if publisher == nil {
		publisher = NoopEventPublisher{}
	}
	eventPublisherInstance = publisher
}
