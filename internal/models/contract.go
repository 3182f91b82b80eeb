package models

const (
	MaxQuestionLength    = 480
	MaxDescriptionLength = 10000
	MaxTagLength         = 60
	NumericBucketCount   = 200
)

type GroupDetails struct {
	GroupID   string `json:"groupId" firestore:"groupId"`
	GroupName string `json:"groupName" firestore:"groupName"`
	GroupSlug string `json:"groupSlug" firestore:"groupSlug"`
}

// Contract is a market. Outcome-specific fields are left zero for the outcome
// types that do not use them.
type Contract struct {
	ID               string         `json:"id" firestore:"id"`
	Slug             string         `json:"slug" firestore:"slug"`
	CreatorID        string         `json:"creatorId" firestore:"creatorId"`
	CreatorName      string         `json:"creatorName" firestore:"creatorName"`
	CreatorUsername  string         `json:"creatorUsername" firestore:"creatorUsername"`
	CreatorAvatarURL string         `json:"creatorAvatarUrl,omitempty" firestore:"creatorAvatarUrl,omitempty"`
	Question         string         `json:"question" firestore:"question"`
	Description      string         `json:"description" firestore:"description"`
	Tags             []string       `json:"tags" firestore:"tags"`
	LowercaseTags    []string       `json:"lowercaseTags" firestore:"lowercaseTags"`
	Visibility       string         `json:"visibility" firestore:"visibility"`
	OutcomeType      OutcomeType    `json:"outcomeType" firestore:"outcomeType"`
	Mechanism        Mechanism      `json:"mechanism" firestore:"mechanism"`
	CreatedTime      int64          `json:"createdTime" firestore:"createdTime"`
	CloseTime        int64          `json:"closeTime" firestore:"closeTime"`
	IsResolved       bool           `json:"isResolved" firestore:"isResolved"`
	Resolution       string         `json:"resolution,omitempty" firestore:"resolution,omitempty"`
	ResolutionTime   int64          `json:"resolutionTime,omitempty" firestore:"resolutionTime,omitempty"`
	Volume           float64        `json:"volume" firestore:"volume"`
	Volume24Hours    float64        `json:"volume24Hours" firestore:"volume24Hours"`
	Volume7Days      float64        `json:"volume7Days" firestore:"volume7Days"`
	CollectedFees    Fees           `json:"collectedFees" firestore:"collectedFees"`
	GroupDetails     []GroupDetails `json:"groupDetails,omitempty" firestore:"groupDetails,omitempty"`
	CloseNotified    bool           `json:"closeNotified" firestore:"closeNotified"`

	// cpmm-1 binary
	Pool           map[string]float64 `json:"pool,omitempty" firestore:"pool,omitempty"`
	P              float64            `json:"p,omitempty" firestore:"p,omitempty"`
	InitialProb    float64            `json:"initialProbability,omitempty" firestore:"initialProbability,omitempty"`
	TotalLiquidity float64            `json:"totalLiquidity,omitempty" firestore:"totalLiquidity,omitempty"`

	// dpm-2
	TotalShares map[string]float64 `json:"totalShares,omitempty" firestore:"totalShares,omitempty"`
	TotalBets   map[string]float64 `json:"totalBets,omitempty" firestore:"totalBets,omitempty"`
	Answers     []Answer           `json:"answers,omitempty" firestore:"answers,omitempty"`

	// numeric
	BucketCount int     `json:"bucketCount,omitempty" firestore:"bucketCount,omitempty"`
	Min         float64 `json:"min,omitempty" firestore:"min,omitempty"`
	Max         float64 `json:"max,omitempty" firestore:"max,omitempty"`
}

type Fees struct {
	CreatorFee   float64 `json:"creatorFee" firestore:"creatorFee"`
	PlatformFee  float64 `json:"platformFee" firestore:"platformFee"`
	LiquidityFee float64 `json:"liquidityFee" firestore:"liquidityFee"`
}
