package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"chat-realtime/internal/models"

	"github.com/IBM/sarama"
)

const EventMessageCreated = "message.created"

func InitKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy  // Enable compression
	config.Producer.Partitioner = sarama.NewHashPartitioner // Same conversation, same partition
	config.Version = sarama.V2_0_0_0
	config.ClientID = "chat-realtime"
	config.Producer.MaxMessageBytes = 1000000 // 1MB

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return producer, nil
}

// MessageEvent is the record value written for every persisted message.
type MessageEvent struct {
	Type       string                  `json:"type"`
	Message    *models.MessageResponse `json:"message"`
	OccurredAt time.Time               `json:"occurredAt"`
}

// MessagePublisher streams persisted messages to a topic, keyed by
// conversation ID so each conversation stays ordered within a partition.
type MessagePublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewMessagePublisher(producer sarama.SyncProducer, topic string) *MessagePublisher {
	return &MessagePublisher{producer: producer, topic: topic}
}

func (p *MessagePublisher) PublishMessage(ctx context.Context, msg *models.MessageResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(MessageEvent{
		Type:       EventMessageCreated,
		Message:    msg,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(msg.ConversationID), 10)),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(EventMessageCreated)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish message %d: %w", msg.ID, err)
	}
	return nil
}

func (p *MessagePublisher) Close() error {
	return p.producer.Close()
}
