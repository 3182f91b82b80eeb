package services

import (
	"testing"

	"market-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRecipientMap_FirstWriterWins(t *testing.T) {
	m := NewRecipientMap("actor")

	assert.True(t, m.Add("u1", models.ReasonTaggedUser))
	assert.False(t, m.Add("u1", models.ReasonOnUsersContract))

	reason, ok := m.Reason("u1")
	assert.True(t, ok)
	assert.Equal(t, models.ReasonTaggedUser, reason)
}

func TestRecipientMap_SkipsActorAndEmptyIDs(t *testing.T) {
	m := NewRecipientMap("actor")

	assert.False(t, m.Add("actor", models.ReasonOnUsersContract))
	assert.False(t, m.Add("", models.ReasonOnUsersContract))
	assert.Equal(t, 0, m.Len())
}

func TestRecipientMap_ForceOverridesButKeepsPosition(t *testing.T) {
	m := NewRecipientMap("actor")
	m.Add("u1", models.ReasonOnContractWithUsersAnswer)
	m.Add("u2", models.ReasonOnContractWithUsersComment)

	m.Force("u1", models.ReasonOnUsersContract)
	m.Force("actor", models.ReasonOnUsersContract)

	assert.Equal(t, []RecipientEntry{
		{UserID: "u1", Reason: models.ReasonOnUsersContract},
		{UserID: "u2", Reason: models.ReasonOnContractWithUsersComment},
		{UserID: "actor", Reason: models.ReasonOnUsersContract},
	}, m.Entries())
}

func TestRecipientMap_EntriesKeepInsertionOrder(t *testing.T) {
	m := NewRecipientMap("actor")
	for _, id := range []string{"c", "a", "b"} {
		m.Add(id, models.ReasonYouFollowUser)
	}

	var ids []string
	for _, e := range m.Entries() {
		ids = append(ids, e.UserID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
