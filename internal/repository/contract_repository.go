package repository

import (
	"context"
	"fmt"

	"market-service/internal/models"

	"cloud.google.com/go/firestore"
)

const backfillPageSize = 500

type ContractRepository struct {
	db *firestore.Client
}

func NewContractRepository(db *firestore.Client) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) contracts() *firestore.CollectionRef {
	return r.db.Collection("contracts")
}

func (r *ContractRepository) sub(contractID, name string) *firestore.CollectionRef {
	return r.contracts().Doc(contractID).Collection(name)
}

func (r *ContractRepository) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	snap, err := r.contracts().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contract %s: %w", id, err)
	}

	var contract models.Contract
	if err := snap.DataTo(&contract); err != nil {
		return nil, fmt.Errorf("failed to decode contract %s: %w", id, err)
	}
	return &contract, nil
}

func (r *ContractRepository) GetBySlug(ctx context.Context, slug string) (*models.Contract, error) {
	docs, err := r.contracts().Where("slug", "==", slug).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query contract by slug %s: %w", slug, err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}

	var contract models.Contract
	if err := docs[0].DataTo(&contract); err != nil {
		return nil, fmt.Errorf("failed to decode contract %s: %w", slug, err)
	}
	return &contract, nil
}

// CountCreatedSince counts contracts by creatorID with createdTime >= since (ms).
func (r *ContractRepository) CountCreatedSince(ctx context.Context, creatorID string, since int64) (int, error) {
	docs, err := r.contracts().
		Where("creatorId", "==", creatorID).
		Where("createdTime", ">=", since).
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to count contracts for %s: %w", creatorID, err)
	}
	return len(docs), nil
}

func (r *ContractRepository) NewID() string {
	return r.contracts().NewDoc().ID
}

// Create fails if a contract with the same id already exists.
func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	if _, err := r.contracts().Doc(contract.ID).Create(ctx, contract); err != nil {
		return fmt.Errorf("failed to create contract %s: %w", contract.ID, err)
	}
	return nil
}

func (r *ContractRepository) ListAnswers(ctx context.Context, contractID string) ([]models.Answer, error) {
	return listAll[models.Answer](ctx, r.sub(contractID, "answers"))
}

func (r *ContractRepository) ListComments(ctx context.Context, contractID string) ([]models.Comment, error) {
	return listAll[models.Comment](ctx, r.sub(contractID, "comments"))
}

func (r *ContractRepository) ListBets(ctx context.Context, contractID string) ([]models.Bet, error) {
	return listAll[models.Bet](ctx, r.sub(contractID, "bets"))
}

func (r *ContractRepository) ListLiquidity(ctx context.Context, contractID string) ([]models.LiquidityProvision, error) {
	return listAll[models.LiquidityProvision](ctx, r.sub(contractID, "liquidity"))
}

func (r *ContractRepository) GetAnswer(ctx context.Context, contractID, answerID string) (*models.Answer, error) {
	return getOne[models.Answer](ctx, r.sub(contractID, "answers").Doc(answerID))
}

func (r *ContractRepository) GetComment(ctx context.Context, contractID, commentID string) (*models.Comment, error) {
	return getOne[models.Comment](ctx, r.sub(contractID, "comments").Doc(commentID))
}

func (r *ContractRepository) SetLiquidity(ctx context.Context, lp *models.LiquidityProvision) error {
	if _, err := r.sub(lp.ContractID, "liquidity").Doc(lp.ID).Set(ctx, lp); err != nil {
		return fmt.Errorf("failed to write liquidity %s: %w", lp.ID, err)
	}
	return nil
}

func (r *ContractRepository) SetBet(ctx context.Context, bet *models.Bet) error {
	if _, err := r.sub(bet.ContractID, "bets").Doc(bet.ID).Set(ctx, bet); err != nil {
		return fmt.Errorf("failed to write bet %s: %w", bet.ID, err)
	}
	return nil
}

func (r *ContractRepository) SetAnswer(ctx context.Context, answer *models.Answer) error {
	if _, err := r.sub(answer.ContractID, "answers").Doc(answer.ID).Set(ctx, answer); err != nil {
		return fmt.Errorf("failed to write answer %s: %w", answer.ID, err)
	}
	return nil
}

// ListClosedUnnotified returns open contracts whose closeTime has passed and
// that have not produced a close notification yet. Documents missing the
// closeNotified field are invisible to this query until BackfillCloseNotified
// has run.
func (r *ContractRepository) ListClosedUnnotified(ctx context.Context, now int64, limit int) ([]models.Contract, error) {
	docs, err := r.contracts().
		Where("isResolved", "==", false).
		Where("closeNotified", "==", false).
		Where("closeTime", "<=", now).
		OrderBy("closeTime", firestore.Asc).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query closed contracts: %w", err)
	}

	contracts := make([]models.Contract, 0, len(docs))
	for _, doc := range docs {
		var c models.Contract
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to decode contract %s: %w", doc.Ref.ID, err)
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

// BackfillCloseNotified writes closeNotified=false on unresolved contracts
// stored before the field existed. It returns how many documents it updated.
func (r *ContractRepository) BackfillCloseNotified(ctx context.Context) (int, error) {
	query := r.contracts().
		Where("isResolved", "==", false).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Limit(backfillPageSize)

	updated := 0
	var last *firestore.DocumentSnapshot
	for {
		page := query
		if last != nil {
			page = query.StartAfter(last)
		}
		docs, err := page.Documents(ctx).GetAll()
		if err != nil {
			return updated, fmt.Errorf("failed to page contracts for backfill: %w", err)
		}
		if len(docs) == 0 {
			return updated, nil
		}

		bw := r.db.BulkWriter(ctx)
		for _, doc := range docs {
			if _, ok := doc.Data()["closeNotified"]; ok {
				continue
			}
			if _, err := bw.Update(doc.Ref, []firestore.Update{{Path: "closeNotified", Value: false}}); err != nil {
				bw.End()
				return updated, fmt.Errorf("failed to queue backfill of %s: %w", doc.Ref.ID, err)
			}
			updated++
		}
		bw.End()

		if len(docs) < backfillPageSize {
			return updated, nil
		}
		last = docs[len(docs)-1]
	}
}

func (r *ContractRepository) MarkCloseNotified(ctx context.Context, contractID string) error {
	_, err := r.contracts().Doc(contractID).Update(ctx, []firestore.Update{
		{Path: "closeNotified", Value: true},
	})
	if err != nil {
		return fmt.Errorf("failed to mark contract %s close-notified: %w", contractID, err)
	}
	return nil
}

func listAll[T any](ctx context.Context, col *firestore.CollectionRef) ([]T, error) {
	docs, err := col.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", col.Path, err)
	}

	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", doc.Ref.Path, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func getOne[T any](ctx context.Context, ref *firestore.DocumentRef) (*T, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", ref.Path, err)
	}

	var item T
	if err := snap.DataTo(&item); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ref.Path, err)
	}
	return &item, nil
}
