package repository

import (
	"context"
	"fmt"

	"market-service/internal/models"

	"cloud.google.com/go/firestore"
)

type GroupRepository struct {
	db *firestore.Client
}

func NewGroupRepository(db *firestore.Client) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	snap, err := r.db.Collection("groups").Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get group %s: %w", id, err)
	}

	var group models.Group
	if err := snap.DataTo(&group); err != nil {
		return nil, fmt.Errorf("failed to decode group %s: %w", id, err)
	}
	return &group, nil
}
