package models

// Channel kinds accepted by the messaging endpoints.
const (
	ChannelDirect = "direct"
	ChannelGroup  = "group"
)

// Message is a chat message addressed to a user or a group.
type Message struct {
	ID                string         `json:"message_id"`
	SenderID          string         `json:"sender_id"`
	SenderFullname    string         `json:"sender_fullname"`
	RecipientID       string         `json:"recipient_id"`
	RecipientFullname string         `json:"recipient_fullname"`
	Text              string         `json:"text"`
	ChannelType       string         `json:"channel_type"`
	Attributes        map[string]any `json:"attributes,omitempty"`
	Type              string         `json:"type,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	Timestamp         int64          `json:"timestamp"`
}

// TypingEvent is an ephemeral typing indicator. It has no persistence
// lifecycle beyond being set.
type TypingEvent struct {
	WriterID    string `json:"writer_id"`
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text"`
	Timestamp   int64  `json:"timestamp,omitempty"`
}
