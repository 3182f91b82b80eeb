package models

// CreateMarketRequest is the body of POST /createmarket. Outcome-specific
// fields are checked after the common ones, depending on OutcomeType.
type CreateMarketRequest struct {
	Question    string      `json:"question" validate:"required,min=1,max=480"`
	Description string      `json:"description" validate:"max=10000"`
	Tags        []string    `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=60"`
	CloseTime   int64       `json:"closeTime" validate:"required,gt=0"`
	OutcomeType OutcomeType `json:"outcomeType" validate:"required,oneof=BINARY FREE_RESPONSE NUMERIC"`
	GroupID     string      `json:"groupId,omitempty" validate:"omitempty,min=1,max=60"`

	InitialProb *float64 `json:"initialProb,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
}

type BinaryMarketFields struct {
	InitialProb *float64 `validate:"required,min=1,max=99"`
}

type NumericMarketFields struct {
	Min *float64 `validate:"required"`
	Max *float64 `validate:"required"`
}

type MarkSeenRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1,dive,required"`
}

type UpdateNotificationSettingsRequest struct {
	NotificationPreferences *NotificationSubscribeType `json:"notification_preferences,omitempty" validate:"omitempty,oneof=all less none"`
	EmailPreferences        *NotificationSubscribeType `json:"email_preferences,omitempty" validate:"omitempty,oneof=all less none"`
}

type NotificationSettings struct {
	NotificationPreferences NotificationSubscribeType `json:"notification_preferences"`
	EmailPreferences        NotificationSubscribeType `json:"email_preferences"`
}
