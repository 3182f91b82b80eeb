package models

type User struct {
	ID                  string  `json:"id" firestore:"id"`
	Name                string  `json:"name" firestore:"name"`
	Username            string  `json:"username" firestore:"username"`
	AvatarURL           string  `json:"avatarUrl,omitempty" firestore:"avatarUrl,omitempty"`
	Balance             float64 `json:"balance" firestore:"balance"`
	TotalDeposits       float64 `json:"totalDeposits" firestore:"totalDeposits"`
	CreatedTime         int64   `json:"createdTime" firestore:"createdTime"`
	CreatorVolumeCached float64 `json:"creatorVolumeCached,omitempty" firestore:"creatorVolumeCached,omitempty"`
}

type PrivateUser struct {
	ID                               string                    `json:"id" firestore:"id"`
	Username                         string                    `json:"username" firestore:"username"`
	Email                            string                    `json:"email,omitempty" firestore:"email,omitempty"`
	NotificationPreferences          NotificationSubscribeType `json:"notificationPreferences,omitempty" firestore:"notificationPreferences,omitempty"`
	UnsubscribedFromResolutionEmails bool                      `json:"unsubscribedFromResolutionEmails" firestore:"unsubscribedFromResolutionEmails"`
	UnsubscribedFromCommentEmails    bool                      `json:"unsubscribedFromCommentEmails" firestore:"unsubscribedFromCommentEmails"`
	UnsubscribedFromAnswerEmails     bool                      `json:"unsubscribedFromAnswerEmails" firestore:"unsubscribedFromAnswerEmails"`
	DeviceTokens                     []string                  `json:"deviceTokens,omitempty" firestore:"deviceTokens,omitempty"`
}

// Follow lives at users/{followerId}/follows/{userId}.
type Follow struct {
	UserID    string `json:"userId" firestore:"userId"`
	Timestamp int64  `json:"timestamp" firestore:"timestamp"`
}
