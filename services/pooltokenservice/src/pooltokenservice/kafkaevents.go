package pooltokenservice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexkalak/go_loopring_explorer/common/models"
	"github.com/segmentio/kafka-go"
)

const (
	POOL_TOKEN_RESOLVED_KAFKA_EVENT = "PoolTokenResolved"
)

type poolTokenEvent struct {
	Type      string            `json:"type"`
	Data      *models.PoolToken `json:"data"`
	PoolID    string            `json:"pool_id"`
	TokenID   string            `json:"token_id"`
	Timestamp int64             `json:"timestamp"`
}

func newPoolTokenEvent(poolToken *models.PoolToken, now time.Time) poolTokenEvent {
	return poolTokenEvent{
		Type:      POOL_TOKEN_RESOLVED_KAFKA_EVENT,
		Data:      poolToken,
		PoolID:    poolToken.Pool.ID,
		TokenID:   poolToken.Token.ID,
		Timestamp: now.Unix(),
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaClientConfig struct {
	KafkaServer string
	KafkaTopic  string
}

type kafkaClient struct {
	poolTokensWriter messageWriter
}

func newKafkaClient(config KafkaClientConfig) *kafkaClient {
	writer := kafka.Writer{
		Addr:         kafka.TCP(config.KafkaServer),
		Topic:        config.KafkaTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 1 * time.Millisecond,
		Async:        false,
	}

	return &kafkaClient{
		poolTokensWriter: &writer,
	}
}

// sendPoolTokenEvents keys messages by pool id so the events of one pool
// stay on one partition.
func (c *kafkaClient) sendPoolTokenEvents(ctx context.Context, events []poolTokenEvent) error {
	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		eventJSON, err := json.Marshal(&event)
		if err != nil {
			return err
		}
		messages[i] = kafka.Message{
			Key:   []byte(event.PoolID),
			Value: eventJSON,
		}
	}

	return c.poolTokensWriter.WriteMessages(ctx, messages...)
}

func (c *kafkaClient) close() error {
	return c.poolTokensWriter.Close()
}
