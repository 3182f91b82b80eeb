package models

import "time"

// Notification is stored at users/{userId}/notifications/{id}. The id is the
// idempotency key of the event that produced it.
type Notification struct {
	ID          string             `json:"id" firestore:"id"`
	UserID      string             `json:"userId" firestore:"userId"`
	Reason      NotificationReason `json:"reason,omitempty" firestore:"reason,omitempty"`
	CreatedTime int64              `json:"createdTime" firestore:"createdTime"`
	IsSeen      bool               `json:"isSeen" firestore:"isSeen"`
	ViewTime    *time.Time         `json:"viewTime,omitempty" firestore:"viewTime,omitempty"`

	SourceID                      string                       `json:"sourceId,omitempty" firestore:"sourceId,omitempty"`
	SourceType                    NotificationSourceType       `json:"sourceType,omitempty" firestore:"sourceType,omitempty"`
	SourceUpdateType              NotificationSourceUpdateType `json:"sourceUpdateType,omitempty" firestore:"sourceUpdateType,omitempty"`
	SourceContractID              string                       `json:"sourceContractId,omitempty" firestore:"sourceContractId,omitempty"`
	SourceUserName                string                       `json:"sourceUserName,omitempty" firestore:"sourceUserName,omitempty"`
	SourceUserUsername            string                       `json:"sourceUserUsername,omitempty" firestore:"sourceUserUsername,omitempty"`
	SourceUserAvatarURL           string                       `json:"sourceUserAvatarUrl,omitempty" firestore:"sourceUserAvatarUrl,omitempty"`
	SourceText                    string                       `json:"sourceText,omitempty" firestore:"sourceText,omitempty"`
	SourceContractCreatorUsername string                       `json:"sourceContractCreatorUsername,omitempty" firestore:"sourceContractCreatorUsername,omitempty"`
	SourceContractTitle           string                       `json:"sourceContractTitle,omitempty" firestore:"sourceContractTitle,omitempty"`
	SourceContractSlug            string                       `json:"sourceContractSlug,omitempty" firestore:"sourceContractSlug,omitempty"`
	SourceSlug                    string                       `json:"sourceSlug,omitempty" firestore:"sourceSlug,omitempty"`
	SourceTitle                   string                       `json:"sourceTitle,omitempty" firestore:"sourceTitle,omitempty"`

	// Deprecated: written by an older schema, only read as a display fallback.
	ReasonText string `json:"reasonText,omitempty" firestore:"reasonText,omitempty"`
}

// NotificationGroup is derived for display and never persisted.
type NotificationGroup struct {
	ID               string         `json:"id"`
	SourceContractID string         `json:"sourceContractId,omitempty"`
	TimePeriod       string         `json:"timePeriod"`
	IsSeen           bool           `json:"isSeen"`
	Notifications    []Notification `json:"notifications"`
}
