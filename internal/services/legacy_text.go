package services

import (
	"context"
	"log/slog"

	"market-service/internal/models"
)

// LegacySourceStore loads the records older notifications point at but did
// not snapshot.
type LegacySourceStore interface {
	GetByID(ctx context.Context, id string) (*models.Contract, error)
	GetAnswer(ctx context.Context, contractID, answerID string) (*models.Answer, error)
	GetComment(ctx context.Context, contractID, commentID string) (*models.Comment, error)
}

type LegacyTextResolver struct {
	store LegacySourceStore
}

func NewLegacyTextResolver(store LegacySourceStore) *LegacyTextResolver {
	return &LegacyTextResolver{store: store}
}

// DisplayText returns the text a notification shows. Notifications written
// without sourceText are backfilled from their source record; failures are
// logged and leave the text empty.
func (r *LegacyTextResolver) DisplayText(ctx context.Context, n *models.Notification, contract *models.Contract) string {
	if n.SourceText != "" {
		return n.SourceText
	}

	if n.SourceContractID != "" && n.SourceID != "" {
		switch n.SourceType {
		case models.SourceTypeContract:
			if contract == nil {
				c, err := r.store.GetByID(ctx, n.SourceContractID)
				if err != nil {
					r.logFailure(n, err)
					return ""
				}
				contract = c
			}
			if isAboutContractResolution(n, contract) && contract.Resolution != "" {
				return contract.Resolution
			}
			return contract.Question
		case models.SourceTypeAnswer:
			answer, err := r.store.GetAnswer(ctx, n.SourceContractID, n.SourceID)
			if err != nil {
				r.logFailure(n, err)
				return ""
			}
			return answer.Text
		case models.SourceTypeComment:
			comment, err := r.store.GetComment(ctx, n.SourceContractID, n.SourceID)
			if err != nil {
				r.logFailure(n, err)
				return ""
			}
			return comment.Text
		}
	}

	return n.ReasonText
}

func (r *LegacyTextResolver) logFailure(n *models.Notification, err error) {
	slog.Warn("failed to load legacy notification source",
		"notification_id", n.ID,
		"source_type", n.SourceType,
		"source_id", n.SourceID,
		"contract_id", n.SourceContractID,
		"error", err,
	)
}
