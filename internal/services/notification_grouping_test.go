package services

import (
	"testing"
	"time"

	"market-service/internal/models"

	"github.com/stretchr/testify/assert"
)

const hourMs = int64(time.Hour / time.Millisecond)

func note(id, contractID string, createdTime int64) models.Notification {
	return models.Notification{ID: id, UserID: "u", SourceContractID: contractID, CreatedTime: createdTime}
}

func groupIDs(groups []models.NotificationGroup) [][]string {
	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		var ids []string
		for _, n := range g.Notifications {
			ids = append(ids, n.ID)
		}
		out = append(out, ids)
	}
	return out
}

func TestGroupNotifications_RollingWindowPerContract(t *testing.T) {
	base := int64(1_700_000_000_000)
	input := []models.Notification{
		note("n4", "c1", base-60*hourMs),
		note("n1", "c1", base),
		note("n2", "c1", base-20*hourMs),
		note("n3", "c1", base-40*hourMs),
	}

	groups := GroupNotifications(input, 24*time.Hour)

	assert.Equal(t, [][]string{{"n1", "n2", "n3", "n4"}}, groupIDs(groups))
}

func TestGroupNotifications_GapStartsNewGroup(t *testing.T) {
	base := int64(1_700_000_000_000)
	input := []models.Notification{
		note("n1", "c1", base),
		note("x", "c2", base-hourMs),
		note("n2", "c1", base-2*hourMs),
		note("n3", "c1", base-30*hourMs),
	}

	groups := GroupNotifications(input, 24*time.Hour)

	assert.Equal(t, [][]string{{"n1", "n2"}, {"x"}, {"n3"}}, groupIDs(groups))
	assert.Equal(t, "c1", groups[0].SourceContractID)
	assert.Equal(t, "n1", groups[0].ID)
}

func TestGroupNotifications_NoContractNeverMerged(t *testing.T) {
	base := int64(1_700_000_000_000)
	input := []models.Notification{
		note("f1", "", base),
		note("f2", "", base-1),
	}

	groups := GroupNotifications(input, 0)

	assert.Equal(t, [][]string{{"f1"}, {"f2"}}, groupIDs(groups))
}

func TestGroupNotifications_LabelsAndSeenFromNewest(t *testing.T) {
	created := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC).UnixMilli()
	newest := note("n1", "c1", created)
	older := note("n2", "c1", created-hourMs)
	older.IsSeen = true

	groups := GroupNotifications([]models.Notification{older, newest}, 24*time.Hour)

	if assert.Len(t, groups, 1) {
		assert.Equal(t, "Tue Mar 05 2024", groups[0].TimePeriod)
		assert.False(t, groups[0].IsSeen)
	}
}

func TestFilterByPreference(t *testing.T) {
	input := []models.Notification{
		{ID: "1", Reason: models.ReasonOnUsersContract},
		{ID: "2", Reason: models.ReasonOnContractWithUsersComment},
		{ID: "3", Reason: models.ReasonOnContractWithUsersAnswer},
		{ID: "4", Reason: models.ReasonOnContractWithUsersSharesOut},
		{ID: "5", Reason: models.ReasonOnContractWithUsersSharesIn},
		{ID: "6", Reason: models.ReasonTaggedUser},
	}
	ids := func(ns []models.Notification) []string {
		out := []string{}
		for _, n := range ns {
			out = append(out, n.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(FilterByPreference(input, models.SubscribeAll)))
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(FilterByPreference(input, "")))
	assert.Equal(t, []string{"1", "5", "6"}, ids(FilterByPreference(input, models.SubscribeLess)))
	assert.Empty(t, FilterByPreference(input, models.SubscribeNone))
}
