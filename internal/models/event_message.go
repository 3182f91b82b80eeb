package models

import "time"

// NotificationEventMessage is the JSON body carried on the notification
// events queue. Users and contracts travel by id and are loaded by the
// consumer.
type NotificationEventMessage struct {
	EventID           string                       `json:"event_id"`
	SourceID          string                       `json:"source_id"`
	SourceType        NotificationSourceType       `json:"source_type"`
	SourceUpdateType  NotificationSourceUpdateType `json:"source_update_type,omitempty"`
	SourceUserID      string                       `json:"source_user_id"`
	IdempotencyKey    string                       `json:"idempotency_key"`
	SourceText        string                       `json:"source_text,omitempty"`
	SourceContractID  string                       `json:"source_contract_id,omitempty"`
	RelatedSourceType NotificationSourceType       `json:"related_source_type,omitempty"`
	RelatedUserID     string                       `json:"related_user_id,omitempty"`
	SourceSlug        string                       `json:"source_slug,omitempty"`
	SourceTitle       string                       `json:"source_title,omitempty"`
	CreatedAt         time.Time                    `json:"created_at"`
}
