package models

const MaxGroupIDLength = 60

type Group struct {
	ID          string   `json:"id" firestore:"id"`
	Slug        string   `json:"slug" firestore:"slug"`
	Name        string   `json:"name" firestore:"name"`
	CreatorID   string   `json:"creatorId" firestore:"creatorId"`
	MemberIDs   []string `json:"memberIds" firestore:"memberIds"`
	ContractIDs []string `json:"contractIds,omitempty" firestore:"contractIds,omitempty"`
	CreatedTime int64    `json:"createdTime" firestore:"createdTime"`
}

func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
