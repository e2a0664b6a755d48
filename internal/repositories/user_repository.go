package repositories

import (
	"context"
	"time"

	"chat-api/internal/auth"
	"chat-api/internal/docstore"
	"chat-api/internal/identity"
)

// UserRepository handles the profile/user documents backing the auth flows
// and the per-app user settings.
type UserRepository interface {
	CreateDocuments(ctx context.Context, acct identity.Account) error
	ApplyLoginUpdate(ctx context.Context, acct identity.Account, now time.Time) error
	SetEmailSubscription(ctx context.Context, userID string, subscribed bool) (string, error)
}

// UserRepo is a document-store implementation of UserRepository.
type UserRepo struct {
	store docstore.Store
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(store docstore.Store) *UserRepo {
	return &UserRepo{store: store}
}

// CreateDocuments writes the profile and user documents for a freshly
// created account. The two writes are independent; there is no atomicity
// guarantee between them.
func (r *UserRepo) CreateDocuments(ctx context.Context, acct identity.Account) error {
	if err := r.store.Set(ctx, profilesCollection, acct.UID, auth.ProfileDocument(acct)); err != nil {
		return err
	}
	return r.store.Set(ctx, usersCollection, acct.UID, auth.UserDocument(acct))
}

// ApplyLoginUpdate bumps the last-login timestamp and recomputes the "new"
// flag on the user document.
func (r *UserRepo) ApplyLoginUpdate(ctx context.Context, acct identity.Account, now time.Time) error {
	return r.store.Update(ctx, usersCollection, acct.UID, auth.LoginUpdate(acct, now))
}

// SetEmailSubscription stores the subscription flag on the user document
// created at sign-up and returns the stored email address. Setting the same
// value twice is idempotent.
func (r *UserRepo) SetEmailSubscription(ctx context.Context, userID string, subscribed bool) (string, error) {
	if err := r.store.Update(ctx, usersCollection, userID, map[string]any{"subscribed": subscribed}); err != nil {
		return "", err
	}

	doc, err := r.store.Get(ctx, usersCollection, userID)
	if err != nil {
		return "", err
	}
	email, _ := doc["email"].(string)
	return email, nil
}

var _ UserRepository = (*UserRepo)(nil)
