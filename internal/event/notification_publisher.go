package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"market-service/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationPublisher publishes notification events for the fan-out.
type NotificationPublisher struct {
	conn      *RabbitMQConnection
	queueName string

	mu                sync.Mutex
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

func NewNotificationPublisher(conn *RabbitMQConnection, queueName string) *NotificationPublisher {
	return &NotificationPublisher{
		conn:            conn,
		queueName:       queueName,
		lastPublishTime: time.Now(),
	}
}

func (p *NotificationPublisher) PublishNotificationEvent(ctx context.Context, msg *models.NotificationEventMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		p.recordFailure()
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",          // exchange
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    msg.EventID,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("Notification event published",
		"queue", p.queueName,
		"event_id", msg.EventID,
		"idempotency_key", msg.IdempotencyKey,
		"source_type", msg.SourceType,
		"source_update_type", msg.SourceUpdateType,
	)
	return nil
}

func (p *NotificationPublisher) recordFailure() {
	p.mu.Lock()
	p.messagesFailed++
	p.mu.Unlock()
}

// PublisherHealthStatus represents the health status of the publisher
type PublisherHealthStatus struct {
	IsHealthy         bool      `json:"is_healthy"`
	MessagesPublished int64     `json:"messages_published"`
	MessagesFailed    int64     `json:"messages_failed"`
	LastPublishTime   time.Time `json:"last_publish_time"`
	Queue             string    `json:"queue"`
}

func (p *NotificationPublisher) HealthCheck() PublisherHealthStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PublisherHealthStatus{
		IsHealthy:         p.conn.IsHealthy(),
		MessagesPublished: p.messagesPublished,
		MessagesFailed:    p.messagesFailed,
		LastPublishTime:   p.lastPublishTime,
		Queue:             p.queueName,
	}
}
