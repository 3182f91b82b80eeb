package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"market-service/internal/models"
	"market-service/internal/repository"
	"market-service/internal/services"

	"firebase.google.com/go/v4/messaging"
)

// fcmMulticastLimit is the most tokens FCM accepts in one multicast.
const fcmMulticastLimit = 500

const maxPushBodyLength = 180

type MulticastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type DeviceTokenStore interface {
	GetPrivateUser(ctx context.Context, id string) (*models.PrivateUser, error)
}

// PushService sends freshly written notifications to the recipient's
// registered devices.
type PushService struct {
	client MulticastSender
	tokens DeviceTokenStore
	domain string
}

func NewPushService(client MulticastSender, tokens DeviceTokenStore, domain string) *PushService {
	return &PushService{client: client, tokens: tokens, domain: domain}
}

func (p *PushService) SendNotification(ctx context.Context, n *models.Notification) error {
	pu, err := p.tokens.GetPrivateUser(ctx, n.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load device tokens for %s: %w", n.UserID, err)
	}
	if len(pu.DeviceTokens) == 0 {
		return nil
	}

	msg := buildPushMessage(n, p.domain)
	failed := 0
	for start := 0; start < len(pu.DeviceTokens); start += fcmMulticastLimit {
		end := min(start+fcmMulticastLimit, len(pu.DeviceTokens))
		msg.Tokens = pu.DeviceTokens[start:end]

		resp, err := p.client.SendEachForMulticast(ctx, msg)
		if err != nil {
			return fmt.Errorf("error sending push to %s: %w", n.UserID, err)
		}
		failed += resp.FailureCount
	}

	if failed > 0 {
		slog.Warn("some push deliveries failed",
			"notification_id", n.ID,
			"user_id", n.UserID,
			"failed", failed,
			"tokens", len(pu.DeviceTokens),
		)
	}
	return nil
}

func buildPushMessage(n *models.Notification, domain string) *messaging.MulticastMessage {
	title := strings.TrimSpace(n.SourceUserName + " " + services.ReasonPhrase(n, nil, false))

	body := n.SourceText
	if n.SourceContractTitle != "" {
		body = n.SourceContractTitle
	}
	if r := []rune(body); len(r) > maxPushBodyLength {
		body = string(r[:maxPushBodyLength-3]) + "..."
	}

	data := map[string]string{
		"notification_id": n.ID,
		"source_type":     string(n.SourceType),
		"reason":          string(n.Reason),
	}
	if url := services.SourceURL(n, nil); url != "" {
		data["url"] = "https://" + domain + url
	}

	return &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
}
