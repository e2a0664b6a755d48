package repositories

import (
	"encoding/json"
	"fmt"
)

// Auth-level collections are global; every chat entity lives in a
// collection scoped by the application id from the request path.
const (
	profilesCollection = "profiles"
	usersCollection    = "users"
)

func appCollection(appID, kind string) string {
	return fmt.Sprintf("apps/%s/%s", appID, kind)
}

// conversationID keys a conversation by its (user, counterpart) pair.
// Conversations are per-user views, so the pair is ordered.
func conversationID(userID, recipientID string) string {
	return userID + ":" + recipientID
}

// asDocument flattens a model into the generic attribute set stored in the
// document store.
func asDocument(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
