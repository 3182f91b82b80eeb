package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"market-service/internal/models"
	"market-service/internal/repository"
)

// ============================================================================
// IN-MEMORY STORES
// ============================================================================

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[string]*models.User
	followers map[string][]string
	charged   map[string]float64
	lookupErr error
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{
		byID:      make(map[string]*models.User),
		followers: make(map[string][]string),
		charged:   make(map[string]float64),
	}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetFollowerIDs(_ context.Context, userID string) ([]string, error) {
	return f.followers[userID], nil
}

func (f *fakeUsers) ChargeUser(_ context.Context, id string, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.charged[id] += amount
	return nil
}

type fakeContracts struct {
	mu            sync.Mutex
	contracts     map[string]*models.Contract
	answers       map[string][]models.Answer
	comments      map[string][]models.Comment
	bets          map[string][]models.Bet
	liquidity     map[string][]models.LiquidityProvision
	createdCount  int
	nextID        int
	getCalls      int
	listBetsError error
	backfillCalls int
	backfillErr   error
}

func newFakeContracts(contracts ...*models.Contract) *fakeContracts {
	f := &fakeContracts{
		contracts: make(map[string]*models.Contract),
		answers:   make(map[string][]models.Answer),
		comments:  make(map[string][]models.Comment),
		bets:      make(map[string][]models.Bet),
		liquidity: make(map[string][]models.LiquidityProvision),
	}
	for _, c := range contracts {
		f.contracts[c.ID] = c
	}
	return f
}

func (f *fakeContracts) GetByID(_ context.Context, id string) (*models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if c, ok := f.contracts[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeContracts) GetBySlug(_ context.Context, slug string) (*models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contracts {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeContracts) CountCreatedSince(_ context.Context, _ string, _ int64) (int, error) {
	return f.createdCount, nil
}

func (f *fakeContracts) NewID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return fmt.Sprintf("contract-%d", f.nextID)
}

func (f *fakeContracts) Create(_ context.Context, c *models.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contracts[c.ID]; ok {
		return errors.New("already exists")
	}
	f.contracts[c.ID] = c
	return nil
}

func (f *fakeContracts) ListAnswers(_ context.Context, id string) ([]models.Answer, error) {
	return f.answers[id], nil
}

func (f *fakeContracts) ListComments(_ context.Context, id string) ([]models.Comment, error) {
	return f.comments[id], nil
}

func (f *fakeContracts) ListBets(_ context.Context, id string) ([]models.Bet, error) {
	if f.listBetsError != nil {
		return nil, f.listBetsError
	}
	return f.bets[id], nil
}

func (f *fakeContracts) ListLiquidity(_ context.Context, id string) ([]models.LiquidityProvision, error) {
	return f.liquidity[id], nil
}

func (f *fakeContracts) GetAnswer(_ context.Context, contractID, answerID string) (*models.Answer, error) {
	for _, a := range f.answers[contractID] {
		if a.ID == answerID {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeContracts) GetComment(_ context.Context, contractID, commentID string) (*models.Comment, error) {
	for _, c := range f.comments[contractID] {
		if c.ID == commentID {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeContracts) SetLiquidity(_ context.Context, lp *models.LiquidityProvision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.liquidity[lp.ContractID] = append(f.liquidity[lp.ContractID], *lp)
	return nil
}

func (f *fakeContracts) SetBet(_ context.Context, bet *models.Bet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bets[bet.ContractID] = append(f.bets[bet.ContractID], *bet)
	return nil
}

func (f *fakeContracts) SetAnswer(_ context.Context, answer *models.Answer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers[answer.ContractID] = append(f.answers[answer.ContractID], *answer)
	return nil
}

// ListClosedUnnotified mirrors the repository query: filter, order by
// closeTime, then limit.
func (f *fakeContracts) ListClosedUnnotified(_ context.Context, now int64, limit int) ([]models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Contract
	for _, c := range f.contracts {
		if !c.IsResolved && !c.CloseNotified && c.CloseTime <= now {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CloseTime != out[j].CloseTime {
			return out[i].CloseTime < out[j].CloseTime
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeContracts) BackfillCloseNotified(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backfillCalls++
	return 0, f.backfillErr
}

func (f *fakeContracts) MarkCloseNotified(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contracts[id].CloseNotified = true
	return nil
}

type fakeGroups struct {
	groups map[string]*models.Group
}

func (f *fakeGroups) GetByID(_ context.Context, id string) (*models.Group, error) {
	if g, ok := f.groups[id]; ok {
		return g, nil
	}
	return nil, repository.ErrNotFound
}

// fakeNotifications keys documents by user and id like the real collection.
type fakeNotifications struct {
	mu      sync.Mutex
	docs    map[string]models.Notification
	writes  int
	seenErr error
}

func newFakeNotifications(ns ...models.Notification) *fakeNotifications {
	f := &fakeNotifications{docs: make(map[string]models.Notification)}
	for _, n := range ns {
		f.docs[n.UserID+"/"+n.ID] = n
	}
	return f
}

func (f *fakeNotifications) Set(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.docs[n.UserID+"/"+n.ID] = *n
	return nil
}

func (f *fakeNotifications) get(userID, id string) (models.Notification, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.docs[userID+"/"+id]
	return n, ok
}

func (f *fakeNotifications) forUser(userID string) []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.docs {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	out := f.forUser(userID)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedTime > out[j].CreatedTime })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotifications) MarkSeen(_ context.Context, userID, id string, viewTime time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seenErr != nil {
		return f.seenErr
	}
	key := userID + "/" + id
	n, ok := f.docs[key]
	if !ok {
		return repository.ErrNotFound
	}
	n.IsSeen = true
	n.ViewTime = &viewTime
	f.docs[key] = n
	return nil
}

type fakePrivateUsers struct {
	mu    sync.Mutex
	users map[string]*models.PrivateUser
}

func (f *fakePrivateUsers) GetPrivateUser(_ context.Context, id string) (*models.PrivateUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pu, ok := f.users[id]; ok {
		copied := *pu
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePrivateUsers) UpdatePrivateUser(_ context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pu, ok := f.users[id]
	if !ok {
		pu = &models.PrivateUser{ID: id}
		f.users[id] = pu
	}
	for k, v := range fields {
		switch k {
		case "notificationPreferences":
			pu.NotificationPreferences = models.NotificationSubscribeType(v.(string))
		case "unsubscribedFromResolutionEmails":
			pu.UnsubscribedFromResolutionEmails = v.(bool)
		case "unsubscribedFromCommentEmails":
			pu.UnsubscribedFromCommentEmails = v.(bool)
		case "unsubscribedFromAnswerEmails":
			pu.UnsubscribedFromAnswerEmails = v.(bool)
		}
	}
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []*models.NotificationEventMessage
	err      error
}

func (f *fakePublisher) PublishNotificationEvent(_ context.Context, msg *models.NotificationEventMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

type fakePush struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakePush) SendNotification(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n.UserID)
	return f.err
}
