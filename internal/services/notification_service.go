package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"market-service/internal/metrics"
	"market-service/internal/models"

	"golang.org/x/sync/errgroup"
)

// NotificationWriter persists one notification per recipient.
type NotificationWriter interface {
	Set(ctx context.Context, notification *models.Notification) error
}

// PushSender delivers a freshly written notification outside the app.
type PushSender interface {
	SendNotification(ctx context.Context, notification *models.Notification) error
}

const maxConcurrentWrites = 16

type NotificationService struct {
	selector *recipientSelector
	writer   NotificationWriter
	push     PushSender
	now      func() time.Time
}

func NewNotificationService(users UserStore, activity ContractActivityStore, writer NotificationWriter) *NotificationService {
	return &NotificationService{
		selector: &recipientSelector{users: users, activity: activity},
		writer:   writer,
		now:      time.Now,
	}
}

// WithPush enables push delivery after each successful write.
func (s *NotificationService) WithPush(push PushSender) *NotificationService {
	s.push = push
	return s
}

// CreateNotification selects the recipients of ev and writes their
// notifications. Re-delivering the same event overwrites the same documents.
func (s *NotificationService) CreateNotification(ctx context.Context, ev *NotificationEvent) error {
	if ev.SourceUser == nil {
		return fmt.Errorf("notification event %s has no source user", ev.IdempotencyKey)
	}
	if ev.IdempotencyKey == "" {
		return fmt.Errorf("notification event for source %s has no idempotency key", ev.SourceID)
	}

	recipients, err := s.selector.collectRecipients(ctx, ev)
	if err != nil {
		metrics.NotificationEvents.WithLabelValues(string(ev.SourceType), "failed").Inc()
		return fmt.Errorf("failed to select recipients for %s: %w", ev.IdempotencyKey, err)
	}
	metrics.RecipientsPerEvent.Observe(float64(recipients.Len()))

	if err := s.writeNotifications(ctx, ev, recipients); err != nil {
		metrics.NotificationEvents.WithLabelValues(string(ev.SourceType), "failed").Inc()
		return err
	}

	metrics.NotificationEvents.WithLabelValues(string(ev.SourceType), "ok").Inc()
	slog.Info("notifications created",
		"idempotency_key", ev.IdempotencyKey,
		"source_type", ev.SourceType,
		"source_update_type", ev.SourceUpdateType,
		"recipients", recipients.Len(),
	)
	return nil
}

func (s *NotificationService) writeNotifications(ctx context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
	createdTime := s.now().UnixMilli()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)
	for _, entry := range recipients.Entries() {
		notification := buildNotification(ev, entry, createdTime)
		g.Go(func() error {
			if err := s.writer.Set(gCtx, notification); err != nil {
				return err
			}
			metrics.NotificationsWritten.WithLabelValues(string(notification.Reason)).Inc()
			s.sendPush(gCtx, notification)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to write notifications for %s: %w", ev.IdempotencyKey, err)
	}
	return nil
}

func (s *NotificationService) sendPush(ctx context.Context, notification *models.Notification) {
	if s.push == nil {
		return
	}
	if err := s.push.SendNotification(ctx, notification); err != nil {
		metrics.PushFailures.Inc()
		slog.Warn("push delivery failed",
			"notification_id", notification.ID,
			"user_id", notification.UserID,
			"error", err,
		)
	}
}

// buildNotification snapshots the source user and contract. Empty fields are
// dropped by the omitempty tags when the document is stored.
func buildNotification(ev *NotificationEvent, entry RecipientEntry, createdTime int64) *models.Notification {
	n := &models.Notification{
		ID:                  ev.IdempotencyKey,
		UserID:              entry.UserID,
		Reason:              entry.Reason,
		CreatedTime:         createdTime,
		IsSeen:              false,
		SourceID:            ev.SourceID,
		SourceType:          ev.SourceType,
		SourceUpdateType:    ev.SourceUpdateType,
		SourceUserName:      ev.SourceUser.Name,
		SourceUserUsername:  ev.SourceUser.Username,
		SourceUserAvatarURL: ev.SourceUser.AvatarURL,
		SourceText:          ev.SourceText,
		SourceSlug:          ev.SourceSlug,
		SourceTitle:         ev.SourceTitle,
	}

	if c := ev.SourceContract; c != nil {
		n.SourceContractID = c.ID
		n.SourceContractCreatorUsername = c.CreatorUsername
		n.SourceContractTitle = c.Question
		n.SourceContractSlug = c.Slug
		if n.SourceSlug == "" {
			n.SourceSlug = c.Slug
		}
		if n.SourceTitle == "" {
			n.SourceTitle = c.Question
		}
	}
	return n
}
