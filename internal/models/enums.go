package models

type NotificationSourceType string

const (
	SourceTypeComment   NotificationSourceType = "comment"
	SourceTypeAnswer    NotificationSourceType = "answer"
	SourceTypeContract  NotificationSourceType = "contract"
	SourceTypeLiquidity NotificationSourceType = "liquidity"
	SourceTypeFollow    NotificationSourceType = "follow"
	SourceTypeGroup     NotificationSourceType = "group"
)

type NotificationSourceUpdateType string

const (
	SourceUpdateCreated  NotificationSourceUpdateType = "created"
	SourceUpdateUpdated  NotificationSourceUpdateType = "updated"
	SourceUpdateResolved NotificationSourceUpdateType = "resolved"
	SourceUpdateClosed   NotificationSourceUpdateType = "closed"
)

type NotificationReason string

const (
	ReasonReplyToUsersComment          NotificationReason = "reply_to_users_comment"
	ReasonReplyToUsersAnswer           NotificationReason = "reply_to_users_answer"
	ReasonTaggedUser                   NotificationReason = "tagged_user"
	ReasonOnUsersContract              NotificationReason = "on_users_contract"
	ReasonOnContractWithUsersAnswer    NotificationReason = "on_contract_with_users_answer"
	ReasonOnContractWithUsersComment   NotificationReason = "on_contract_with_users_comment"
	ReasonOnContractWithUsersSharesIn  NotificationReason = "on_contract_with_users_shares_in"
	ReasonOnContractWithUsersSharesOut NotificationReason = "on_contract_with_users_shares_out"
	ReasonYouFollowUser                NotificationReason = "you_follow_user"
	ReasonOnNewFollow                  NotificationReason = "on_new_follow"
	ReasonAddedYouToGroup              NotificationReason = "added_you_to_group"
)

// NotificationSubscribeType is both the in-app preference and the derived
// email setting.
type NotificationSubscribeType string

const (
	SubscribeAll  NotificationSubscribeType = "all"
	SubscribeLess NotificationSubscribeType = "less"
	SubscribeNone NotificationSubscribeType = "none"
)

func IsValidSubscribeType(t NotificationSubscribeType) bool {
	switch t {
	case SubscribeAll, SubscribeLess, SubscribeNone:
		return true
	default:
		return false
	}
}

type OutcomeType string

const (
	OutcomeBinary       OutcomeType = "BINARY"
	OutcomeFreeResponse OutcomeType = "FREE_RESPONSE"
	OutcomeNumeric      OutcomeType = "NUMERIC"
)

type Mechanism string

const (
	MechanismCPMM1 Mechanism = "cpmm-1"
	MechanismDPM2  Mechanism = "dpm-2"
)
