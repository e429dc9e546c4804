// Package events publishes storefront events to Kafka.
package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/tokodemo/storefront/internal/models"
)

// Producer is the narrow surface checkout needs; a nil *KafkaProducer is a
// valid no-op producer.
type Producer interface {
	OrderPlaced(order *models.Order) error
	Close() error
}

type OrderPlacedEvent struct {
	Timestamp     int64  `json:"timestamp"`
	EventType     string `json:"eventType"`
	OrderID       int64  `json:"orderId"`
	Reference     string `json:"reference"`
	CustomerName  string `json:"customerName"`
	TotalAmount   int64  `json:"totalAmount"`
	Status        string `json:"status"`
	OrderPlacedAt int64  `json:"orderPlacedAt"`
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaProducer(cfg *models.Config) (*KafkaProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(cfg.KafkaBrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	return &KafkaProducer{producer: producer, topic: cfg.KafkaOrderTopic}, nil
}

func (p *KafkaProducer) OrderPlaced(order *models.Order) error {
	if p == nil {
		return nil
	}

	event := OrderPlacedEvent{
		Timestamp:     time.Now().Unix(),
		EventType:     "order_placed",
		OrderID:       order.ID,
		Reference:     order.Reference,
		CustomerName:  order.CustomerName,
		TotalAmount:   order.Total,
		Status:        string(order.Status),
		OrderPlacedAt: order.CreatedAt.Unix(),
	}
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.ByteEncoder(msg),
	})
	return err
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
