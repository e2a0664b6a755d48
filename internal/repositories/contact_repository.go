package repositories

import (
	"context"
	"time"

	"chat-api/internal/docstore"
	"chat-api/internal/models"
)

// ContactRepository defines contact persistence.
type ContactRepository interface {
	CreateWithID(ctx context.Context, appID string, contact models.Contact) error
	Get(ctx context.Context, appID, contactID string) (map[string]any, error)
	ChangeFullname(ctx context.Context, appID, userID, firstname, lastname string) error
	DeletePhoto(ctx context.Context, appID, userID string) error
}

// ContactRepo is a document-store implementation of ContactRepository.
type ContactRepo struct {
	store docstore.Store
}

// NewContactRepo constructs a ContactRepo.
func NewContactRepo(store docstore.Store) *ContactRepo {
	return &ContactRepo{store: store}
}

// CreateWithID stores the contact document keyed by the owning user id.
func (r *ContactRepo) CreateWithID(ctx context.Context, appID string, contact models.Contact) error {
	if contact.CreatedAt == 0 {
		contact.CreatedAt = time.Now().UnixMilli()
	}
	return r.store.Set(ctx, appCollection(appID, "contacts"), contact.UID, contact)
}

// Get fetches a contact document.
func (r *ContactRepo) Get(ctx context.Context, appID, contactID string) (map[string]any, error) {
	return r.store.Get(ctx, appCollection(appID, "contacts"), contactID)
}

// ChangeFullname updates the name fields of the caller's contact.
func (r *ContactRepo) ChangeFullname(ctx context.Context, appID, userID, firstname, lastname string) error {
	fields := map[string]any{"firstname": firstname, "lastname": lastname}
	return r.store.Update(ctx, appCollection(appID, "contacts"), userID, fields)
}

// DeletePhoto removes the photo asset attached to the caller's contact.
// The contact document itself is untouched.
func (r *ContactRepo) DeletePhoto(ctx context.Context, appID, userID string) error {
	return r.store.Delete(ctx, appCollection(appID, "contact_photos"), userID)
}

var _ ContactRepository = (*ContactRepo)(nil)
