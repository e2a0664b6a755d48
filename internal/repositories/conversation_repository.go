package repositories

import (
	"context"
	"time"

	"chat-api/internal/docstore"
)

// ConversationRepository manages per-user conversation state.
type ConversationRepository interface {
	Archive(ctx context.Context, appID, userID, recipientID string) error
	Delete(ctx context.Context, appID, userID, recipientID string) error
}

// ConversationRepo is a document-store implementation.
type ConversationRepo struct {
	store docstore.Store
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(store docstore.Store) *ConversationRepo {
	return &ConversationRepo{store: store}
}

// Archive soft-removes the conversation for the caller: the conversation
// document is overwritten with an archived marker and stays recoverable.
func (r *ConversationRepo) Archive(ctx context.Context, appID, userID, recipientID string) error {
	doc := map[string]any{
		"user_id":      userID,
		"recipient_id": recipientID,
		"archived":     true,
		"archived_at":  time.Now().UnixMilli(),
	}
	return r.store.Set(ctx, appCollection(appID, "conversations"), conversationID(userID, recipientID), doc)
}

// Delete physically removes the conversation for the caller.
func (r *ConversationRepo) Delete(ctx context.Context, appID, userID, recipientID string) error {
	return r.store.Delete(ctx, appCollection(appID, "conversations"), conversationID(userID, recipientID))
}

var _ ConversationRepository = (*ConversationRepo)(nil)
