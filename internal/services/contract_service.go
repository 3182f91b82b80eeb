package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"market-service/internal/metrics"
	"market-service/internal/models"
	"market-service/internal/repository"
	"market-service/shared/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	freeMarketResetHourUTC = 16
	maxSlugLength          = 35
	slugSuffixLength       = 12
	minNumericRange        = 0.01
)

// APIError is a failure the caller can act on. Handlers send Status and
// Message as is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func badRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

type MarketUserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	ChargeUser(ctx context.Context, id string, amount float64) error
}

type GroupLookup interface {
	GetByID(ctx context.Context, id string) (*models.Group, error)
}

type ContractStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.Contract, error)
	CountCreatedSince(ctx context.Context, creatorID string, since int64) (int, error)
	NewID() string
	Create(ctx context.Context, contract *models.Contract) error
	SetLiquidity(ctx context.Context, lp *models.LiquidityProvision) error
	SetBet(ctx context.Context, bet *models.Bet) error
	SetAnswer(ctx context.Context, answer *models.Answer) error
}

// EventPublisher hands notification events to the fan-out.
type EventPublisher interface {
	PublishNotificationEvent(ctx context.Context, msg *models.NotificationEventMessage) error
}

type ContractService struct {
	users     MarketUserStore
	groups    GroupLookup
	contracts ContractStore
	publisher EventPublisher
	validate  *validator.Validate
	now       func() time.Time
}

func NewContractService(users MarketUserStore, groups GroupLookup, contracts ContractStore, publisher EventPublisher) *ContractService {
	return &ContractService{
		users:     users,
		groups:    groups,
		contracts: contracts,
		publisher: publisher,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// freeMarketResetTime is the most recent 16:00 UTC at or before now.
func freeMarketResetTime(now time.Time) time.Time {
	now = now.UTC()
	reset := time.Date(now.Year(), now.Month(), now.Day(), freeMarketResetHourUTC, 0, 0, 0, time.UTC)
	if now.Before(reset) {
		reset = reset.Add(-24 * time.Hour)
	}
	return reset
}

func (s *ContractService) CreateMarket(ctx context.Context, userID string, req *models.CreateMarketRequest) (*models.Contract, error) {
	now := s.now()

	if err := s.validate.Struct(req); err != nil {
		return nil, badRequest(validationMessage(err))
	}
	if req.CloseTime <= now.UnixMilli() {
		return nil, badRequest("Close time must be in the future.")
	}

	var initialProb, rangeMin, rangeMax float64
	switch req.OutcomeType {
	case models.OutcomeNumeric:
		if err := s.validate.Struct(&models.NumericMarketFields{Min: req.Min, Max: req.Max}); err != nil {
			return nil, badRequest(validationMessage(err))
		}
		rangeMin, rangeMax = *req.Min, *req.Max
		if rangeMax-rangeMin <= minNumericRange {
			return nil, badRequest("Invalid range.")
		}
	case models.OutcomeBinary:
		if err := s.validate.Struct(&models.BinaryMarketFields{InitialProb: req.InitialProb}); err != nil {
			return nil, badRequest(validationMessage(err))
		}
		initialProb = *req.InitialProb
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, badRequest("No user exists with the authenticated user ID.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	var group *models.Group
	if req.GroupID != "" {
		group, err = s.groups.GetByID(ctx, req.GroupID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, badRequest("No group exists with the given group ID.")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load group %s: %w", req.GroupID, err)
		}
		if !group.HasMember(user.ID) {
			return nil, badRequest("User is not a member of the group.")
		}
	}

	resetTime := freeMarketResetTime(now)
	createdToday, err := s.contracts.CountCreatedSince(ctx, user.ID, resetTime.UnixMilli())
	if err != nil {
		return nil, err
	}
	isFree := createdToday == 0

	ante := float64(FixedAnte)
	// The balance check and the charge are not atomic.
	if ante > user.Balance && !isFree {
		return nil, badRequest(fmt.Sprintf("Balance must be at least %d.", FixedAnte))
	}

	slog.Info("creating market",
		"username", user.Username,
		"question", req.Question,
		"outcome_type", req.OutcomeType,
		"ante", ante,
		"is_free", isFree,
		"free_market_reset", resetTime,
	)

	slug, err := s.uniqueSlug(ctx, req.Question)
	if err != nil {
		return nil, err
	}

	contract := newContract(newContractParams{
		ID:          s.contracts.NewID(),
		Slug:        slug,
		Creator:     user,
		Question:    req.Question,
		Description: req.Description,
		OutcomeType: req.OutcomeType,
		InitialProb: initialProb,
		Ante:        ante,
		CloseTime:   req.CloseTime,
		ExtraTags:   req.Tags,
		Min:         rangeMin,
		Max:         rangeMax,
		Group:       group,
		CreatedTime: now.UnixMilli(),
	})

	if !isFree {
		if err := s.users.ChargeUser(ctx, user.ID, ante); err != nil {
			return nil, err
		}
	}

	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, err
	}

	providerID := user.ID
	if isFree {
		providerID = HouseLiquidityProviderID
	}
	if err := s.seedMarket(ctx, contract, user, providerID, ante); err != nil {
		return nil, err
	}

	metrics.MarketsCreated.WithLabelValues(string(contract.OutcomeType)).Inc()
	s.publishCreated(ctx, contract)
	return contract, nil
}

func (s *ContractService) seedMarket(ctx context.Context, contract *models.Contract, creator *models.User, providerID string, ante float64) error {
	switch contract.OutcomeType {
	case models.OutcomeBinary:
		return s.contracts.SetLiquidity(ctx, initialLiquidity(providerID, contract, uuid.NewString(), ante))
	case models.OutcomeFreeResponse:
		if err := s.contracts.SetAnswer(ctx, noneAnswer(contract.ID, creator, contract.CreatedTime)); err != nil {
			return err
		}
		return s.contracts.SetBet(ctx, freeAnswerAnte(providerID, contract, uuid.NewString()))
	case models.OutcomeNumeric:
		return s.contracts.SetBet(ctx, numericAnte(providerID, contract, ante, uuid.NewString()))
	}
	return nil
}

func (s *ContractService) uniqueSlug(ctx context.Context, question string) (string, error) {
	slug := utils.Slugify(question, "-", maxSlugLength)

	_, err := s.contracts.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return slug, nil
	}
	if err != nil {
		return "", err
	}
	return slug + "-" + utils.GenerateRandomStringWithLength(slugSuffixLength), nil
}

// publishCreated notifies followers. The market already exists, so a failed
// publish is logged rather than returned.
func (s *ContractService) publishCreated(ctx context.Context, contract *models.Contract) {
	if s.publisher == nil {
		return
	}
	msg := &models.NotificationEventMessage{
		EventID:          uuid.NewString(),
		SourceID:         contract.ID,
		SourceType:       models.SourceTypeContract,
		SourceUpdateType: models.SourceUpdateCreated,
		SourceUserID:     contract.CreatorID,
		IdempotencyKey:   contract.ID,
		SourceText:       contract.Question,
		SourceContractID: contract.ID,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.publisher.PublishNotificationEvent(ctx, msg); err != nil {
		slog.Error("failed to publish contract created event",
			"contract_id", contract.ID,
			"error", err,
		)
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed on '%s=%s'", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
	}
	return "Invalid request: " + strings.Join(parts, "; ")
}
