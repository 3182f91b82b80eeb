package repository

import (
	"context"
	"fmt"
	"time"

	"market-service/internal/models"

	"cloud.google.com/go/firestore"
)

type NotificationRepository struct {
	db *firestore.Client
}

func NewNotificationRepository(db *firestore.Client) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) collection(userID string) *firestore.CollectionRef {
	return r.db.Collection("users").Doc(userID).Collection("notifications")
}

// Set writes users/{userId}/notifications/{id}, replacing any earlier write
// under the same idempotency key.
func (r *NotificationRepository) Set(ctx context.Context, notification *models.Notification) error {
	_, err := r.collection(notification.UserID).Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to write notification %s for user %s: %w", notification.ID, notification.UserID, err)
	}
	return nil
}

// ListByUser returns the newest notifications first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	query := r.collection(userID).OrderBy("createdTime", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}

	notifications := make([]models.Notification, 0, len(docs))
	for _, doc := range docs {
		var n models.Notification
		if err := doc.DataTo(&n); err != nil {
			return nil, fmt.Errorf("failed to decode notification %s: %w", doc.Ref.ID, err)
		}
		if n.ID == "" {
			n.ID = doc.Ref.ID
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// MarkSeen only touches isSeen and viewTime.
func (r *NotificationRepository) MarkSeen(ctx context.Context, userID, notificationID string, viewTime time.Time) error {
	_, err := r.collection(userID).Doc(notificationID).Update(ctx, []firestore.Update{
		{Path: "isSeen", Value: true},
		{Path: "viewTime", Value: viewTime},
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to mark notification %s seen: %w", notificationID, err)
	}
	return nil
}
