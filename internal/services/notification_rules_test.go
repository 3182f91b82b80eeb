package services

import (
	"context"
	"errors"
	"testing"

	"market-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func testUser(id string) *models.User {
	return &models.User{ID: id, Name: "Name " + id, Username: id}
}

func testContract() *models.Contract {
	return &models.Contract{
		ID:              "c1",
		Slug:            "will-it-rain",
		CreatorID:       "creator",
		CreatorUsername: "creator",
		Question:        "Will it rain?",
	}
}

func newTestSelector() (*recipientSelector, *fakeUsers, *fakeContracts) {
	users := newFakeUsers(testUser("actor"), testUser("creator"), testUser("alice"), testUser("carol"))
	contracts := newFakeContracts(testContract())
	return &recipientSelector{users: users, activity: contracts}, users, contracts
}

func reasonsOf(m *RecipientMap) map[string]models.NotificationReason {
	out := make(map[string]models.NotificationReason)
	for _, e := range m.Entries() {
		out[e.UserID] = e.Reason
	}
	return out
}

// ============================================================================
// RULE TABLE
// ============================================================================

func TestCollectRecipients_CommentReplyBeatsCreatorReason(t *testing.T) {
	selector, _, _ := newTestSelector()
	ev := &NotificationEvent{
		SourceType:        models.SourceTypeComment,
		SourceUser:        testUser("actor"),
		SourceContract:    testContract(),
		SourceText:        "good point",
		RelatedSourceType: models.SourceTypeComment,
		RelatedUserID:     "creator",
	}

	recipients, err := selector.collectRecipients(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, map[string]models.NotificationReason{
		"creator": models.ReasonReplyToUsersComment,
	}, reasonsOf(recipients))
}

func TestCollectRecipients_ReplyToAnswer(t *testing.T) {
	selector, _, _ := newTestSelector()
	ev := &NotificationEvent{
		SourceType:        models.SourceTypeComment,
		SourceUser:        testUser("actor"),
		SourceContract:    testContract(),
		RelatedSourceType: models.SourceTypeAnswer,
		RelatedUserID:     "alice",
	}

	recipients, err := selector.collectRecipients(context.Background(), ev)
	require.NoError(t, err)

	reason, ok := recipients.Reason("alice")
	assert.True(t, ok)
	assert.Equal(t, models.ReasonReplyToUsersAnswer, reason)
}

func TestCollectRecipients_TagsResolveKnownUsersOnly(t *testing.T) {
	selector, _, _ := newTestSelector()
	ev := &NotificationEvent{
		SourceType:     models.SourceTypeComment,
		SourceUser:     testUser("actor"),
		SourceContract: testContract(),
		SourceText:     "@alice @bob what do you think? cc @actor",
	}

	recipients, err := selector.collectRecipients(context.Background(), ev)
	require.NoError(t, err)

	got := reasonsOf(recipients)
	assert.Equal(t, models.ReasonTaggedUser, got["alice"])
	assert.NotContains(t, got, "bob")
	assert.NotContains(t, got, "actor")
	assert.Equal(t, models.ReasonOnUsersContract, got["creator"])
}

func TestCollectRecipients_TagsMatchUsernameExactly(t *testing.T) {
	selector, _, _ := newTestSelector()
	ev := &NotificationEvent{
		SourceType:     models.SourceTypeComment,
		SourceUser:     testUser("actor"),
		SourceContract: testContract(),
		SourceText:     "@Alice",
	}

	recipients, err := selector.collectRecipients(context.Background(), ev)
	require.NoError(t, err)
	assert.NotContains(t, reasonsOf(recipients), "alice")
}

func TestCollectRecipients_TagLookupFailuresAreSkipped(t *testing.T) {
	selector, users, _ := newTestSelector()
	users.lookupErr = errors.New("firestore unavailable")
	ev := &NotificationEvent{
		SourceType:     models.SourceTypeComment,
		SourceUser:     testUser("actor"),
		SourceContract: testContract(),
		SourceText:     "@alice",
	}

	recipients, err := selector.collectRecipients(context.Background(), ev)
	require.NoError(t, err)
	assert.NotContains(t, reasonsOf(recipients), "alice")
}

func TestCollectRecipients_EarlierRuleWins(t *testing.T) {
	selector, _, contracts := newTestSelector()
	contracts.answers["c1"] = []models.Answer{{ID: "a1", UserID: "alice"}}
	contracts.bets["c1"] = []models.Bet{{UserID: "alice", Amount: 50}, {UserID: "carol", Amount: 10}}
	contracts.comments["c1"] = []models.Comment{{ID: "m1", UserID: "carol"}}

	ev := &NotificationEvent{
		SourceType:     models.SourceTypeAnswer,
		SourceUser:     testUser("actor"),
		SourceContract: testContract(),
	}

	recipients, err := selector.collectRecipients(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, []RecipientEntry{
		{UserID: "creator", Reason: models.ReasonOnUsersContract},
		{UserID: "alice", Reason: models.ReasonOnContractWithUsersAnswer},
		{UserID: "carol", Reason: models.ReasonOnContractWithUsersSharesIn},
	}, recipients.Entries())
}

func TestCollectRecipients_BettorsNeedPositiveInvestment(t *testing.T) {
	selector, _, contracts := newTestSelector()
	contracts.bets["c1"] = []models.Bet{
		{UserID: "alice", Amount: 10},
		{UserID: "alice", Amount: 20},
		{UserID: "carol", Amount: 10, IsSold: true},
		{UserID: "carol", Amount: -10, Sale: &models.Sale{Amount: 10, BetID: "x"}},
	}
	ev := &NotificationEvent{
		SourceType:       models.SourceTypeContract,
		SourceUpdateType: models.SourceUpdateResolved,
		SourceUser:       testUser("creator"),
		SourceContract:   testContract(),
	}

	recipients, err := selector.collectRecipients(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, []RecipientEntry{
		{UserID: "alice", Reason: models.ReasonOnContractWithUsersSharesIn},
	}, recipients.Entries())
}

func TestCollectRecipients_ActingUserNeverNotified(t *testing.T) {
	selector, _, contracts := newTestSelector()
	contracts.answers["c1"] = []models.Answer{{UserID: "actor"}}
	contracts.comments["c1"] = []models.Comment{{UserID: "actor"}}
	contracts.bets["c1"] = []models.Bet{{UserID: "actor", Amount: 100}}
	contracts.liquidity["c1"] = []models.LiquidityProvision{{UserID: "actor"}}

	events := []*NotificationEvent{
		{SourceType: models.SourceTypeComment, SourceText: "@actor", RelatedSourceType: models.SourceTypeComment, RelatedUserID: "actor"},
		{SourceType: models.SourceTypeAnswer},
		{SourceType: models.SourceTypeContract, SourceUpdateType: models.SourceUpdateUpdated},
		{SourceType: models.SourceTypeLiquidity, SourceUpdateType: models.SourceUpdateCreated},
	}
	for _, ev := range events {
		ev.SourceUser = testUser("actor")
		ev.SourceContract = testContract()
		ev.SourceContract.CreatorID = "actor"

		recipients, err := selector.collectRecipients(context.Background(), ev)
		require.NoError(t, err)
		assert.NotContains(t, reasonsOf(recipients), "actor", "source type %s", ev.SourceType)
	}
}

func TestCollectRecipients_ForcedCloseReachesCreatorWhoActed(t *testing.T) {
	selector, _, _ := newTestSelector()
	ev := &NotificationEvent{
		SourceType:       models.SourceTypeContract,
		SourceUpdateType: models.SourceUpdateClosed,
		SourceUser:       testUser("creator"),
		SourceContract:   testContract(),
	}

	recipients, err := selector.collectRecipients(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, []RecipientEntry{
		{UserID: "creator", Reason: models.ReasonOnUsersContract},
	}, recipients.Entries())
}

func TestCollectRecipients_ContractCreatedNotifiesFollowers(t *testing.T) {
	selector, users, _ := newTestSelector()
	users.followers["creator"] = []string{"alice", "carol"}
	ev := &NotificationEvent{
		SourceType:       models.SourceTypeContract,
		SourceUpdateType: models.SourceUpdateCreated,
		SourceUser:       testUser("creator"),
		SourceContract:   testContract(),
	}

	recipients, err := selector.collectRecipients(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, map[string]models.NotificationReason{
		"alice": models.ReasonYouFollowUser,
		"carol": models.ReasonYouFollowUser,
	}, reasonsOf(recipients))
}

func TestCollectRecipients_UserScopedEvents(t *testing.T) {
	selector, _, _ := newTestSelector()

	tests := []struct {
		name string
		ev   *NotificationEvent
		want map[string]models.NotificationReason
	}{
		{
			name: "follow",
			ev:   &NotificationEvent{SourceType: models.SourceTypeFollow, SourceUpdateType: models.SourceUpdateCreated, RelatedUserID: "alice"},
			want: map[string]models.NotificationReason{"alice": models.ReasonOnNewFollow},
		},
		{
			name: "group add",
			ev:   &NotificationEvent{SourceType: models.SourceTypeGroup, SourceUpdateType: models.SourceUpdateCreated, RelatedUserID: "carol"},
			want: map[string]models.NotificationReason{"carol": models.ReasonAddedYouToGroup},
		},
		{
			name: "follow with a contract matches no row",
			ev:   &NotificationEvent{SourceType: models.SourceTypeFollow, RelatedUserID: "alice", SourceContract: testContract()},
			want: map[string]models.NotificationReason{},
		},
		{
			name: "comment without a contract matches no row",
			ev:   &NotificationEvent{SourceType: models.SourceTypeComment, SourceText: "@alice"},
			want: map[string]models.NotificationReason{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ev.SourceUser = testUser("actor")
			recipients, err := selector.collectRecipients(context.Background(), tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reasonsOf(recipients))
		})
	}
}

func TestCollectRecipients_WrapsRuleErrors(t *testing.T) {
	selector, _, contracts := newTestSelector()
	contracts.listBetsError = errors.New("deadline exceeded")
	ev := &NotificationEvent{
		SourceType:     models.SourceTypeAnswer,
		SourceUser:     testUser("actor"),
		SourceContract: testContract(),
	}

	_, err := selector.collectRecipients(context.Background(), ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bettors_on_contract")
	assert.ErrorIs(t, err, contracts.listBetsError)
}
