package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

// RefreshEvent is the message published after every successful refresh cycle.
type RefreshEvent struct {
	CycleID        string    `json:"cycle_id"`
	TotalCountries int64     `json:"total_countries"`
	RefreshedAt    time.Time `json:"refreshed_at"`
}

type RefreshEventPublisher struct {
	writer *kafka.Writer
}

func NewRefreshEventPublisher(brokers []string, topic string) *RefreshEventPublisher {
	return &RefreshEventPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *RefreshEventPublisher) PublishRefresh(ctx context.Context, result domain.RefreshResult) error {
	msg, err := json.Marshal(RefreshEvent{
		CycleID:        result.CycleID,
		TotalCountries: result.TotalCountries,
		RefreshedAt:    result.RefreshedAt,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(result.CycleID),
		Value: msg,
		Time:  time.Now(),
	})
}

func (p *RefreshEventPublisher) Close() error {
	return p.writer.Close()
}
