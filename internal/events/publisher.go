// Package events publishes contribution activity for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ContributionRecorded is emitted after a contribution has been persisted.
type ContributionRecorded struct {
	ContributionID string    `json:"contribution_id"`
	FundraiserID   string    `json:"fundraiser_id"`
	Reference      string    `json:"reference"`
	Amount         string    `json:"amount"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// Publisher delivers contribution events.
type Publisher interface {
	PublishContributionRecorded(ctx context.Context, ev ContributionRecorded) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher builds a publisher for the comma-separated broker list.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) PublishContributionRecorded(ctx context.Context, ev ContributionRecorded) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.FundraiserID),
		Value: payload,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishContributionRecorded(context.Context, ContributionRecorded) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NoopPublisher{}
)
