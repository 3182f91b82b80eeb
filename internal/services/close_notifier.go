package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"market-service/internal/models"

	"github.com/google/uuid"
)

const closeScanBatchSize = 200

type ClosedContractStore interface {
	ListClosedUnnotified(ctx context.Context, now int64, limit int) ([]models.Contract, error)
	MarkCloseNotified(ctx context.Context, contractID string) error
	BackfillCloseNotified(ctx context.Context) (int, error)
}

// CloseNotifier asks creators to resolve markets whose close time has passed.
type CloseNotifier struct {
	contracts  ClosedContractStore
	publisher  EventPublisher
	now        func() time.Time
	backfilled bool
}

func NewCloseNotifier(contracts ClosedContractStore, publisher EventPublisher) *CloseNotifier {
	return &CloseNotifier{contracts: contracts, publisher: publisher, now: time.Now}
}

// ScanOnce publishes one close event per newly closed contract. A contract is
// flagged only after its event was published, so a failed publish is picked
// up again on the next scan.
//
// The first successful scan also backfills contracts stored without the
// closeNotified flag. ScanOnce is not safe for concurrent use.
func (c *CloseNotifier) ScanOnce(ctx context.Context) error {
	if !c.backfilled {
		n, err := c.contracts.BackfillCloseNotified(ctx)
		if err != nil {
			return fmt.Errorf("failed to backfill close-notified flags: %w", err)
		}
		c.backfilled = true
		slog.Info("close-notified backfill finished", "updated", n)
	}

	now := c.now()
	contracts, err := c.contracts.ListClosedUnnotified(ctx, now.UnixMilli(), closeScanBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list closed contracts: %w", err)
	}

	published := 0
	for _, contract := range contracts {
		msg := &models.NotificationEventMessage{
			EventID:          uuid.NewString(),
			SourceID:         contract.ID,
			SourceType:       models.SourceTypeContract,
			SourceUpdateType: models.SourceUpdateClosed,
			SourceUserID:     contract.CreatorID,
			IdempotencyKey:   contract.ID + "-closed",
			SourceText:       contract.Question,
			SourceContractID: contract.ID,
			CreatedAt:        now.UTC(),
		}
		if err := c.publisher.PublishNotificationEvent(ctx, msg); err != nil {
			slog.Error("failed to publish contract closed event", "contract_id", contract.ID, "error", err)
			continue
		}
		if err := c.contracts.MarkCloseNotified(ctx, contract.ID); err != nil {
			slog.Error("failed to flag contract close notified", "contract_id", contract.ID, "error", err)
			continue
		}
		published++
	}

	if len(contracts) > 0 {
		slog.Info("close notifier scan finished", "found", len(contracts), "published", published)
	}
	return nil
}
