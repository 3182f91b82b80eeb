package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"market-service/internal/models"
	"market-service/internal/repository"
)

// UserStore is what the fan-out needs to know about users.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetFollowerIDs(ctx context.Context, userID string) ([]string, error)
}

// ContractActivityStore lists the contract-scoped records the fan-out scans.
type ContractActivityStore interface {
	ListAnswers(ctx context.Context, contractID string) ([]models.Answer, error)
	ListComments(ctx context.Context, contractID string) ([]models.Comment, error)
	ListBets(ctx context.Context, contractID string) ([]models.Bet, error)
	ListLiquidity(ctx context.Context, contractID string) ([]models.LiquidityProvision, error)
}

// NotificationEvent is the action that triggers a fan-out.
type NotificationEvent struct {
	SourceID          string
	SourceType        models.NotificationSourceType
	SourceUpdateType  models.NotificationSourceUpdateType
	SourceUser        *models.User
	IdempotencyKey    string
	SourceText        string
	SourceContract    *models.Contract
	RelatedSourceType models.NotificationSourceType
	RelatedUserID     string
	SourceSlug        string
	SourceTitle       string
}

// recipientRule adds recipients for one reason. Rules never overwrite an
// earlier claim unless they force it.
type recipientRule struct {
	name  string
	apply func(ctx context.Context, ev *NotificationEvent, recipients *RecipientMap) error
}

var taggedUserPattern = regexp.MustCompile(`@\w+`)

type recipientSelector struct {
	users    UserStore
	activity ContractActivityStore
}

func (s *recipientSelector) repliedUsers() recipientRule {
	return recipientRule{name: "replied_users", apply: func(_ context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
		switch ev.RelatedSourceType {
		case models.SourceTypeComment:
			recipients.Add(ev.RelatedUserID, models.ReasonReplyToUsersComment)
		case models.SourceTypeAnswer:
			recipients.Add(ev.RelatedUserID, models.ReasonReplyToUsersAnswer)
		}
		return nil
	}}
}

func (s *recipientSelector) taggedUsers() recipientRule {
	return recipientRule{name: "tagged_users", apply: func(ctx context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
		mentions := taggedUserPattern.FindAllString(ev.SourceText, -1)
		if len(mentions) == 0 {
			return nil
		}

		resolved := make([]*models.User, len(mentions))
		// Unresolved mentions are skipped, so lookups never fail the rule.
		var wg sync.WaitGroup
		for i, mention := range mentions {
			username := mention[1:]
			wg.Add(1)
			go func() {
				defer wg.Done()
				user, err := s.users.GetByUsername(ctx, username)
				if err != nil {
					if !errors.Is(err, repository.ErrNotFound) {
						slog.Warn("failed to resolve tagged user", "username", username, "error", err)
					}
					return
				}
				resolved[i] = user
			}()
		}
		wg.Wait()

		for _, user := range resolved {
			if user != nil {
				recipients.Add(user.ID, models.ReasonTaggedUser)
			}
		}
		return nil
	}}
}

func (s *recipientSelector) contractCreator(force bool) recipientRule {
	name := "contract_creator"
	if force {
		name = "contract_creator_forced"
	}
	return recipientRule{name: name, apply: func(_ context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
		creatorID := ev.SourceContract.CreatorID
		if force {
			recipients.Force(creatorID, models.ReasonOnUsersContract)
			return nil
		}
		recipients.Add(creatorID, models.ReasonOnUsersContract)
		return nil
	}}
}

func (s *recipientSelector) otherAnswerers() recipientRule {
	return recipientRule{name: "other_answerers", apply: func(ctx context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
		answers, err := s.activity.ListAnswers(ctx, ev.SourceContract.ID)
		if err != nil {
			return err
		}
		for _, userID := range uniqueUserIDs(answers, func(a models.Answer) string { return a.UserID }) {
			recipients.Add(userID, models.ReasonOnContractWithUsersAnswer)
		}
		return nil
	}}
}

func (s *recipientSelector) otherCommenters() recipientRule {
	return recipientRule{name: "other_commenters", apply: func(ctx context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
		comments, err := s.activity.ListComments(ctx, ev.SourceContract.ID)
		if err != nil {
			return err
		}
		for _, userID := range uniqueUserIDs(comments, func(c models.Comment) string { return c.UserID }) {
			recipients.Add(userID, models.ReasonOnContractWithUsersComment)
		}
		return nil
	}}
}

func (s *recipientSelector) liquidityProviders() recipientRule {
	return recipientRule{name: "liquidity_providers", apply: func(ctx context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
		provisions, err := s.activity.ListLiquidity(ctx, ev.SourceContract.ID)
		if err != nil {
			return err
		}
		for _, userID := range uniqueUserIDs(provisions, func(lp models.LiquidityProvision) string { return lp.UserID }) {
			recipients.Add(userID, models.ReasonOnContractWithUsersSharesIn)
		}
		return nil
	}}
}

// bettorsOnContract skips users with nothing left invested in the contract.
func (s *recipientSelector) bettorsOnContract() recipientRule {
	return recipientRule{name: "bettors_on_contract", apply: func(ctx context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
		bets, err := s.activity.ListBets(ctx, ev.SourceContract.ID)
		if err != nil {
			return err
		}

		betsByUser := make(map[string][]models.Bet)
		for _, bet := range bets {
			betsByUser[bet.UserID] = append(betsByUser[bet.UserID], bet)
		}

		for _, userID := range uniqueUserIDs(bets, func(b models.Bet) string { return b.UserID }) {
			if currentInvestment(betsByUser[userID]) <= 0 {
				continue
			}
			recipients.Add(userID, models.ReasonOnContractWithUsersSharesIn)
		}
		return nil
	}}
}

func (s *recipientSelector) usersFollowers() recipientRule {
	return recipientRule{name: "users_followers", apply: func(ctx context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
		followerIDs, err := s.users.GetFollowerIDs(ctx, ev.SourceUser.ID)
		if err != nil {
			return err
		}
		for _, followerID := range followerIDs {
			recipients.Add(followerID, models.ReasonYouFollowUser)
		}
		return nil
	}}
}

func (s *recipientSelector) followedUser() recipientRule {
	return recipientRule{name: "followed_user", apply: func(_ context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
		recipients.Add(ev.RelatedUserID, models.ReasonOnNewFollow)
		return nil
	}}
}

func (s *recipientSelector) userAddedToGroup() recipientRule {
	return recipientRule{name: "user_added_to_group", apply: func(_ context.Context, ev *NotificationEvent, recipients *RecipientMap) error {
		recipients.Add(ev.RelatedUserID, models.ReasonAddedYouToGroup)
		return nil
	}}
}

// rulesFor returns the ordered rules for an event. Order is precedence: the
// first rule to claim a user decides the reason that user sees.
func (s *recipientSelector) rulesFor(ev *NotificationEvent) []recipientRule {
	contractActivity := func() []recipientRule {
		return []recipientRule{
			s.contractCreator(false),
			s.otherAnswerers(),
			s.liquidityProviders(),
			s.bettorsOnContract(),
			s.otherCommenters(),
		}
	}

	if ev.SourceContract != nil {
		switch {
		case ev.SourceType == models.SourceTypeComment:
			var rules []recipientRule
			if ev.RelatedUserID != "" && ev.RelatedSourceType != "" {
				rules = append(rules, s.repliedUsers())
			}
			if ev.SourceText != "" {
				rules = append(rules, s.taggedUsers())
			}
			return append(rules, contractActivity()...)
		case ev.SourceType == models.SourceTypeAnswer:
			return contractActivity()
		case ev.SourceType == models.SourceTypeContract &&
			(ev.SourceUpdateType == models.SourceUpdateUpdated || ev.SourceUpdateType == models.SourceUpdateResolved):
			return contractActivity()
		case ev.SourceType == models.SourceTypeContract && ev.SourceUpdateType == models.SourceUpdateCreated:
			return []recipientRule{s.usersFollowers()}
		case ev.SourceType == models.SourceTypeContract && ev.SourceUpdateType == models.SourceUpdateClosed:
			return []recipientRule{s.contractCreator(true)}
		case ev.SourceType == models.SourceTypeLiquidity && ev.SourceUpdateType == models.SourceUpdateCreated:
			return []recipientRule{s.contractCreator(false)}
		}
		return nil
	}

	switch {
	case ev.SourceType == models.SourceTypeFollow && ev.RelatedUserID != "":
		return []recipientRule{s.followedUser()}
	case ev.SourceType == models.SourceTypeGroup && ev.RelatedUserID != "" && ev.SourceUpdateType == models.SourceUpdateCreated:
		return []recipientRule{s.userAddedToGroup()}
	}
	return nil
}

// collectRecipients runs the rules for ev one after another.
func (s *recipientSelector) collectRecipients(ctx context.Context, ev *NotificationEvent) (*RecipientMap, error) {
	recipients := NewRecipientMap(ev.SourceUser.ID)
	for _, rule := range s.rulesFor(ev) {
		if err := rule.apply(ctx, ev, recipients); err != nil {
			return nil, fmt.Errorf("recipient rule %s: %w", rule.name, err)
		}
	}
	return recipients, nil
}
