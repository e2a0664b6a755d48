package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chat-api/internal/docstore"
	"chat-api/internal/models"
)

// MessageRepository defines the message write operations.
type MessageRepository interface {
	SendDirect(ctx context.Context, appID string, msg models.Message) (models.Message, error)
	SendGroup(ctx context.Context, appID string, msg models.Message) (models.Message, error)
	DeleteForRecipient(ctx context.Context, appID, recipientID, messageID string) error
	DeleteForAll(ctx context.Context, appID, messageID string) error
	DeleteForAllGroupMembers(ctx context.Context, appID, messageID string) error
}

// MessageRepo is a document-store implementation of MessageRepository.
type MessageRepo struct {
	store docstore.Store
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(store docstore.Store) *MessageRepo {
	return &MessageRepo{store: store}
}

// SendDirect stores a direct message and returns it with its generated id
// and timestamp filled in.
func (r *MessageRepo) SendDirect(ctx context.Context, appID string, msg models.Message) (models.Message, error) {
	msg.ChannelType = models.ChannelDirect
	return r.send(ctx, appID, msg)
}

// SendGroup stores a message addressed to a group.
func (r *MessageRepo) SendGroup(ctx context.Context, appID string, msg models.Message) (models.Message, error) {
	msg.ChannelType = models.ChannelGroup
	return r.send(ctx, appID, msg)
}

func (r *MessageRepo) send(ctx context.Context, appID string, msg models.Message) (models.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}

	doc, err := asDocument(msg)
	if err != nil {
		return models.Message{}, err
	}
	// Soft-delete markers are keyed per recipient under deleted_by.
	doc["deleted_by"] = map[string]any{}
	doc["app_id"] = appID

	if err := r.store.Set(ctx, appCollection(appID, "messages"), msg.ID, doc); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// DeleteForRecipient soft-deletes a message for a single recipient; the
// message stays visible to everyone else.
func (r *MessageRepo) DeleteForRecipient(ctx context.Context, appID, recipientID, messageID string) error {
	fields := map[string]any{"deleted_by." + recipientID: true}
	return r.store.Update(ctx, appCollection(appID, "messages"), messageID, fields)
}

// DeleteForAll removes a direct message for all parties.
func (r *MessageRepo) DeleteForAll(ctx context.Context, appID, messageID string) error {
	return r.store.Delete(ctx, appCollection(appID, "messages"), messageID)
}

// DeleteForAllGroupMembers removes a group message for every member.
func (r *MessageRepo) DeleteForAllGroupMembers(ctx context.Context, appID, messageID string) error {
	return r.store.Delete(ctx, appCollection(appID, "messages"), messageID)
}

var _ MessageRepository = (*MessageRepo)(nil)
