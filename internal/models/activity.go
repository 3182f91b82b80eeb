package models

type Sale struct {
	Amount float64 `json:"amount" firestore:"amount"`
	BetID  string  `json:"betId" firestore:"betId"`
}

type Bet struct {
	ID                   string             `json:"id" firestore:"id"`
	UserID               string             `json:"userId" firestore:"userId"`
	ContractID           string             `json:"contractId" firestore:"contractId"`
	Amount               float64            `json:"amount" firestore:"amount"`
	Shares               float64            `json:"shares" firestore:"shares"`
	Outcome              string             `json:"outcome" firestore:"outcome"`
	AllOutcomeShares     map[string]float64 `json:"allOutcomeShares,omitempty" firestore:"allOutcomeShares,omitempty"`
	AllBetAmounts        map[string]float64 `json:"allBetAmounts,omitempty" firestore:"allBetAmounts,omitempty"`
	ProbBefore           float64            `json:"probBefore" firestore:"probBefore"`
	ProbAfter            float64            `json:"probAfter" firestore:"probAfter"`
	CreatedTime          int64              `json:"createdTime" firestore:"createdTime"`
	IsAnte               bool               `json:"isAnte,omitempty" firestore:"isAnte,omitempty"`
	IsSold               bool               `json:"isSold,omitempty" firestore:"isSold,omitempty"`
	Sale                 *Sale              `json:"sale,omitempty" firestore:"sale,omitempty"`
	IsRedemption         bool               `json:"isRedemption,omitempty" firestore:"isRedemption,omitempty"`
	IsLiquidityProvision bool               `json:"isLiquidityProvision,omitempty" firestore:"isLiquidityProvision,omitempty"`
}

type Comment struct {
	ID               string `json:"id" firestore:"id"`
	ContractID       string `json:"contractId,omitempty" firestore:"contractId,omitempty"`
	GroupID          string `json:"groupId,omitempty" firestore:"groupId,omitempty"`
	UserID           string `json:"userId" firestore:"userId"`
	Text             string `json:"text" firestore:"text"`
	ReplyToCommentID string `json:"replyToCommentId,omitempty" firestore:"replyToCommentId,omitempty"`
	AnswerOutcome    string `json:"answerOutcome,omitempty" firestore:"answerOutcome,omitempty"`
	UserName         string `json:"userName" firestore:"userName"`
	UserUsername     string `json:"userUsername" firestore:"userUsername"`
	UserAvatarURL    string `json:"userAvatarUrl,omitempty" firestore:"userAvatarUrl,omitempty"`
	CreatedTime      int64  `json:"createdTime" firestore:"createdTime"`
}

type Answer struct {
	ID          string `json:"id" firestore:"id"`
	Number      int    `json:"number" firestore:"number"`
	ContractID  string `json:"contractId" firestore:"contractId"`
	UserID      string `json:"userId" firestore:"userId"`
	Username    string `json:"username" firestore:"username"`
	Name        string `json:"name" firestore:"name"`
	AvatarURL   string `json:"avatarUrl,omitempty" firestore:"avatarUrl,omitempty"`
	Text        string `json:"text" firestore:"text"`
	CreatedTime int64  `json:"createdTime" firestore:"createdTime"`
}

type LiquidityProvision struct {
	ID          string             `json:"id" firestore:"id"`
	UserID      string             `json:"userId" firestore:"userId"`
	ContractID  string             `json:"contractId" firestore:"contractId"`
	Amount      float64            `json:"amount" firestore:"amount"`
	Liquidity   float64            `json:"liquidity" firestore:"liquidity"`
	Pool        map[string]float64 `json:"pool" firestore:"pool"`
	IsAnte      bool               `json:"isAnte,omitempty" firestore:"isAnte,omitempty"`
	CreatedTime int64              `json:"createdTime" firestore:"createdTime"`
}
