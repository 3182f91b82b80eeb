package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"market-service/internal/models"
	"market-service/internal/repository"

	"golang.org/x/sync/errgroup"
)

type NotificationFeedStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkSeen(ctx context.Context, userID, notificationID string, viewTime time.Time) error
}

type PrivateUserStore interface {
	GetPrivateUser(ctx context.Context, id string) (*models.PrivateUser, error)
	UpdatePrivateUser(ctx context.Context, id string, fields map[string]any) error
}

const DefaultFeedLimit = 100

type NotificationFeedService struct {
	notifications NotificationFeedStore
	privateUsers  PrivateUserStore
	renderer      *NotificationRenderer
	limit         int
	window        time.Duration
	now           func() time.Time
}

func NewNotificationFeedService(
	notifications NotificationFeedStore,
	privateUsers PrivateUserStore,
	renderer *NotificationRenderer,
	limit int,
	window time.Duration,
) *NotificationFeedService {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &NotificationFeedService{
		notifications: notifications,
		privateUsers:  privateUsers,
		renderer:      renderer,
		limit:         limit,
		window:        window,
		now:           time.Now,
	}
}

// ListGroups returns the user's rendered feed. Everything rendered is marked
// seen afterwards; a failed mark is logged and retried on the next read.
func (s *NotificationFeedService) ListGroups(ctx context.Context, userID string, unseenOnly bool) ([]RenderedGroup, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for %s: %w", userID, err)
	}

	pref, err := s.preference(ctx, userID)
	if err != nil {
		return nil, err
	}
	notifications = FilterByPreference(notifications, pref)

	if unseenOnly {
		unseen := notifications[:0:0]
		for _, n := range notifications {
			if !n.IsSeen {
				unseen = append(unseen, n)
			}
		}
		notifications = unseen
	}

	rendered := s.renderer.RenderGroups(ctx, GroupNotifications(notifications, s.window))

	var toMark []string
	for _, n := range notifications {
		if !n.IsSeen {
			toMark = append(toMark, n.ID)
		}
	}
	if len(toMark) > 0 {
		if _, err := s.MarkSeen(ctx, userID, toMark); err != nil {
			slog.Warn("failed to mark rendered notifications seen",
				"user_id", userID,
				"count", len(toMark),
				"error", err,
			)
		}
	}
	return rendered, nil
}

// MarkSeen flips isSeen on the given notifications. It returns how many were
// updated before the first failure.
func (s *NotificationFeedService) MarkSeen(ctx context.Context, userID string, ids []string) (int, error) {
	viewTime := s.now().UTC()

	marked := make([]bool, len(ids))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)
	for i, id := range ids {
		g.Go(func() error {
			if err := s.notifications.MarkSeen(gCtx, userID, id, viewTime); err != nil {
				return fmt.Errorf("failed to mark notification %s seen: %w", id, err)
			}
			marked[i] = true
			return nil
		})
	}
	err := g.Wait()

	count := 0
	for _, ok := range marked {
		if ok {
			count++
		}
	}
	return count, err
}

func (s *NotificationFeedService) preference(ctx context.Context, userID string) (models.NotificationSubscribeType, error) {
	pu, err := s.privateUsers.GetPrivateUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.SubscribeAll, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load private user %s: %w", userID, err)
	}
	if pu.NotificationPreferences == "" {
		return models.SubscribeAll, nil
	}
	return pu.NotificationPreferences, nil
}

func (s *NotificationFeedService) GetSettings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	pu, err := s.privateUsers.GetPrivateUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		pu = &models.PrivateUser{ID: userID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load private user %s: %w", userID, err)
	}
	return settingsOf(pu), nil
}

// UpdateSettings applies the fields present in req and returns the stored
// result.
func (s *NotificationFeedService) UpdateSettings(ctx context.Context, userID string, req *models.UpdateNotificationSettingsRequest) (*models.NotificationSettings, error) {
	fields := make(map[string]any)
	if req.NotificationPreferences != nil {
		if !models.IsValidSubscribeType(*req.NotificationPreferences) {
			return nil, fmt.Errorf("invalid notification preference %q", *req.NotificationPreferences)
		}
		fields["notificationPreferences"] = string(*req.NotificationPreferences)
	}
	if req.EmailPreferences != nil {
		if !models.IsValidSubscribeType(*req.EmailPreferences) {
			return nil, fmt.Errorf("invalid email preference %q", *req.EmailPreferences)
		}
		for k, v := range emailUnsubscribeFlags(*req.EmailPreferences) {
			fields[k] = v
		}
	}

	if len(fields) > 0 {
		if err := s.privateUsers.UpdatePrivateUser(ctx, userID, fields); err != nil {
			return nil, fmt.Errorf("failed to update settings for %s: %w", userID, err)
		}
		slog.Info("notification settings updated", "user_id", userID, "fields", len(fields))
	}
	return s.GetSettings(ctx, userID)
}

func emailUnsubscribeFlags(pref models.NotificationSubscribeType) map[string]any {
	switch pref {
	case models.SubscribeNone:
		return map[string]any{
			"unsubscribedFromResolutionEmails": true,
			"unsubscribedFromCommentEmails":    true,
			"unsubscribedFromAnswerEmails":     true,
		}
	case models.SubscribeLess:
		return map[string]any{
			"unsubscribedFromResolutionEmails": false,
			"unsubscribedFromCommentEmails":    true,
			"unsubscribedFromAnswerEmails":     true,
		}
	default:
		return map[string]any{
			"unsubscribedFromResolutionEmails": false,
			"unsubscribedFromCommentEmails":    false,
			"unsubscribedFromAnswerEmails":     false,
		}
	}
}

func settingsOf(pu *models.PrivateUser) *models.NotificationSettings {
	settings := &models.NotificationSettings{
		NotificationPreferences: pu.NotificationPreferences,
		EmailPreferences:        models.SubscribeLess,
	}
	if settings.NotificationPreferences == "" {
		settings.NotificationPreferences = models.SubscribeAll
	}

	switch {
	case pu.UnsubscribedFromResolutionEmails && pu.UnsubscribedFromCommentEmails && pu.UnsubscribedFromAnswerEmails:
		settings.EmailPreferences = models.SubscribeNone
	case !pu.UnsubscribedFromResolutionEmails && !pu.UnsubscribedFromCommentEmails && !pu.UnsubscribedFromAnswerEmails:
		settings.EmailPreferences = models.SubscribeAll
	}
	return settings
}
