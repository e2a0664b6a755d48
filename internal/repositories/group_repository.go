package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chat-api/internal/docstore"
	"chat-api/internal/models"
)

// GroupRepository defines the group lifecycle operations.
type GroupRepository interface {
	Create(ctx context.Context, appID string, group models.Group) (models.Group, error)
	CreateWithID(ctx context.Context, appID string, group models.Group) (models.Group, error)
	Update(ctx context.Context, appID, groupID string, fields map[string]any) error
	Join(ctx context.Context, appID, groupID, memberID string) error
	Leave(ctx context.Context, appID, groupID, memberID string) error
	SetMembers(ctx context.Context, appID, groupID string, members map[string]int) error
	SetAttributes(ctx context.Context, appID, groupID string, attributes map[string]any) error
}

// GroupRepo is a document-store implementation of GroupRepository.
type GroupRepo struct {
	store docstore.Store
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(store docstore.Store) *GroupRepo {
	return &GroupRepo{store: store}
}

// Create stores a group under a generated id.
func (r *GroupRepo) Create(ctx context.Context, appID string, group models.Group) (models.Group, error) {
	group.ID = uuid.NewString()
	return r.CreateWithID(ctx, appID, group)
}

// CreateWithID stores a group under the caller-supplied id.
func (r *GroupRepo) CreateWithID(ctx context.Context, appID string, group models.Group) (models.Group, error) {
	if group.Members == nil {
		group.Members = map[string]int{}
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().UnixMilli()
	}

	if err := r.store.Set(ctx, appCollection(appID, "groups"), group.ID, group); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// Update merges the provided group fields into the stored document.
func (r *GroupRepo) Update(ctx context.Context, appID, groupID string, fields map[string]any) error {
	return r.store.Update(ctx, appCollection(appID, "groups"), groupID, fields)
}

// Join inserts the member into the membership mapping with flag 1.
func (r *GroupRepo) Join(ctx context.Context, appID, groupID, memberID string) error {
	return r.Update(ctx, appID, groupID, map[string]any{"group_members." + memberID: 1})
}

// Leave drops the member's flag to 0. The entry is kept so past membership
// stays visible.
func (r *GroupRepo) Leave(ctx context.Context, appID, groupID, memberID string) error {
	return r.Update(ctx, appID, groupID, map[string]any{"group_members." + memberID: 0})
}

// SetMembers replaces the whole membership mapping.
func (r *GroupRepo) SetMembers(ctx context.Context, appID, groupID string, members map[string]int) error {
	if members == nil {
		members = map[string]int{}
	}
	return r.Update(ctx, appID, groupID, map[string]any{"group_members": members})
}

// SetAttributes replaces the group's free-form attributes.
func (r *GroupRepo) SetAttributes(ctx context.Context, appID, groupID string, attributes map[string]any) error {
	return r.Update(ctx, appID, groupID, map[string]any{"attributes": attributes})
}

var _ GroupRepository = (*GroupRepo)(nil)
