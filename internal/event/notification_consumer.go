package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"market-service/internal/config"
	"market-service/internal/metrics"
	"market-service/internal/models"
	"market-service/internal/repository"
	"market-service/internal/services"
	"market-service/internal/worker"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	retryCountHeader  = "x-retry-count"
	maxDeliveryRetry  = 3
	processingTimeout = 60 * time.Second
)

// errPermanent marks failures that a retry cannot fix.
var errPermanent = errors.New("permanent failure")

type NotificationCreator interface {
	CreateNotification(ctx context.Context, ev *services.NotificationEvent) error
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type ContractGetter interface {
	GetByID(ctx context.Context, id string) (*models.Contract, error)
}

// NotificationConsumer turns queued events into fan-outs on a worker pool.
type NotificationConsumer struct {
	conn      *RabbitMQConnection
	cfg       config.NotificationConfig
	users     UserGetter
	contracts ContractGetter
	creator   NotificationCreator
	pool      *worker.WorkingPool
}

func NewNotificationConsumer(
	conn *RabbitMQConnection,
	cfg config.NotificationConfig,
	users UserGetter,
	contracts ContractGetter,
	creator NotificationCreator,
	pool *worker.WorkingPool,
) *NotificationConsumer {
	return &NotificationConsumer{
		conn:      conn,
		cfg:       cfg,
		users:     users,
		contracts: contracts,
		creator:   creator,
		pool:      pool,
	}
}

// Start declares the queues and consumes until ctx is done or the broker
// closes the delivery channel.
func (c *NotificationConsumer) Start(ctx context.Context) error {
	if err := c.conn.Channel.Qos(c.cfg.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	if err := c.conn.DeclareNotificationQueues(c.cfg); err != nil {
		return err
	}

	msgs, err := c.conn.Channel.Consume(
		c.cfg.QueueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	slog.Info("Notification consumer started", "queue", c.cfg.QueueName, "workers", c.pool.NumWorkers)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Notification consumer stopped")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("notification delivery channel closed")
			}
			if !c.pool.SubmitJob(ctx, c.deliveryJob(msg)) {
				return ctx.Err()
			}
		}
	}
}

func (c *NotificationConsumer) deliveryJob(msg amqp.Delivery) worker.Job {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, processingTimeout)
		defer cancel()

		err := c.processMessage(ctx, msg.Body)
		c.settle(msg, err)
		return err
	}
}

func (c *NotificationConsumer) settle(msg amqp.Delivery, err error) {
	if err == nil {
		metrics.QueueMessages.WithLabelValues("acked").Inc()
		if ackErr := msg.Ack(false); ackErr != nil {
			slog.Error("failed to ack delivery", "message_id", msg.MessageId, "error", ackErr)
		}
		return
	}

	retryCount := retryCountOf(msg.Headers)
	switch {
	case errors.Is(err, errPermanent):
		metrics.QueueMessages.WithLabelValues("rejected").Inc()
		slog.Error("rejecting notification event", "message_id", msg.MessageId, "error", err)
		msg.Nack(false, false)
	case retryCount < maxDeliveryRetry:
		if pubErr := c.requeueMessage(msg, retryCount+1); pubErr != nil {
			slog.Error("failed to requeue notification event", "message_id", msg.MessageId, "error", pubErr)
			msg.Nack(false, true)
			return
		}
		metrics.QueueMessages.WithLabelValues("requeued").Inc()
		msg.Ack(false)
	default:
		metrics.QueueMessages.WithLabelValues("dead_lettered").Inc()
		slog.Error("notification event sent to DLQ", "message_id", msg.MessageId, "retries", retryCount, "error", err)
		msg.Nack(false, false)
	}
}

func (c *NotificationConsumer) processMessage(ctx context.Context, body []byte) error {
	var msg models.NotificationEventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %v: %w", err, errPermanent)
	}

	ev, err := c.hydrate(ctx, &msg)
	if err != nil {
		return err
	}
	return c.creator.CreateNotification(ctx, ev)
}

// hydrate loads the users and contracts a queued event refers to by id.
func (c *NotificationConsumer) hydrate(ctx context.Context, msg *models.NotificationEventMessage) (*services.NotificationEvent, error) {
	if msg.SourceUserID == "" || msg.IdempotencyKey == "" {
		return nil, fmt.Errorf("event %s is missing source user or idempotency key: %w", msg.EventID, errPermanent)
	}

	user, err := c.users.GetByID(ctx, msg.SourceUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("source user %s not found: %w", msg.SourceUserID, errPermanent)
	}
	if err != nil {
		return nil, err
	}

	ev := &services.NotificationEvent{
		SourceID:          msg.SourceID,
		SourceType:        msg.SourceType,
		SourceUpdateType:  msg.SourceUpdateType,
		SourceUser:        user,
		IdempotencyKey:    msg.IdempotencyKey,
		SourceText:        msg.SourceText,
		RelatedSourceType: msg.RelatedSourceType,
		RelatedUserID:     msg.RelatedUserID,
		SourceSlug:        msg.SourceSlug,
		SourceTitle:       msg.SourceTitle,
	}

	if msg.SourceContractID != "" {
		contract, err := c.contracts.GetByID(ctx, msg.SourceContractID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("source contract %s not found: %w", msg.SourceContractID, errPermanent)
		}
		if err != nil {
			return nil, err
		}
		ev.SourceContract = contract
	}
	return ev, nil
}

func retryCountOf(headers amqp.Table) int {
	switch v := headers[retryCountHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func (c *NotificationConsumer) requeueMessage(msg amqp.Delivery, retryCount int) error {
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[retryCountHeader] = int32(retryCount)

	return c.conn.Channel.Publish(
		"",              // exchange
		c.cfg.QueueName, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    msg.MessageId,
			Body:         msg.Body,
			Headers:      headers,
		},
	)
}
