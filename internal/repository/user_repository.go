package repository

import (
	"context"
	"fmt"

	"market-service/internal/models"

	"cloud.google.com/go/firestore"
)

type UserRepository struct {
	db *firestore.Client
}

func NewUserRepository(db *firestore.Client) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user from users/{id}
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	snap, err := r.db.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	var user models.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", id, err)
	}
	return &user, nil
}

// GetByUsername returns ErrNotFound when no user has that username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	docs, err := r.db.Collection("users").
		Where("username", "==", username).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query user by username %s: %w", username, err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}

	var user models.User
	if err := docs[0].DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", username, err)
	}
	return &user, nil
}

// GetFollowerIDs finds every users/{followerId}/follows/{userID} document and
// returns the follower ids.
func (r *UserRepository) GetFollowerIDs(ctx context.Context, userID string) ([]string, error) {
	docs, err := r.db.CollectionGroup("follows").
		Where("userId", "==", userID).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query followers of %s: %w", userID, err)
	}

	followerIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		parent := doc.Ref.Parent.Parent
		if parent == nil {
			continue
		}
		followerIDs = append(followerIDs, parent.ID)
	}
	return followerIDs, nil
}

func (r *UserRepository) GetPrivateUser(ctx context.Context, id string) (*models.PrivateUser, error) {
	snap, err := r.db.Collection("private-users").Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get private user %s: %w", id, err)
	}

	var privateUser models.PrivateUser
	if err := snap.DataTo(&privateUser); err != nil {
		return nil, fmt.Errorf("failed to decode private user %s: %w", id, err)
	}
	return &privateUser, nil
}

// UpdatePrivateUser merges the given fields into private-users/{id}.
func (r *UserRepository) UpdatePrivateUser(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	_, err := r.db.Collection("private-users").Doc(id).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update private user %s: %w", id, err)
	}
	return nil
}

// ChargeUser decrements the balance. It is not transactional with the
// balance check done by the caller.
func (r *UserRepository) ChargeUser(ctx context.Context, id string, amount float64) error {
	_, err := r.db.Collection("users").Doc(id).Update(ctx, []firestore.Update{
		{Path: "balance", Value: firestore.Increment(-amount)},
	})
	if err != nil {
		return fmt.Errorf("failed to charge user %s: %w", id, err)
	}
	return nil
}
