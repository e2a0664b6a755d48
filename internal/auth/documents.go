package auth

import (
	"time"

	"chat-api/internal/identity"
)

// newUserWindow is how long an account keeps its "new" flag after creation.
const newUserWindow = 7 * 24 * time.Hour

// ProfileDocument maps a credential record into the attribute set for a new
// profile document. Pure mapping; no I/O.
func ProfileDocument(acct identity.Account) map[string]any {
	return map[string]any{
		"uid":          acct.UID,
		"email":        acct.Email,
		"display_name": acct.DisplayName,
		"created_at":   acct.CreationTime.UnixMilli(),
	}
}

// UserDocument maps a credential record into the attribute set for a new
// user document. A freshly created user is always marked new, subscribed to
// email, and carries both metadata timestamps from the record.
func UserDocument(acct identity.Account) map[string]any {
	return map[string]any{
		"uid":          acct.UID,
		"email":        acct.Email,
		"display_name": acct.DisplayName,
		"is_new":       true,
		"subscribed":   true,
		"metadata": map[string]any{
			"createdAt":   acct.CreationTime.UnixMilli(),
			"lastLoginAt": acct.LastSignInTime.UnixMilli(),
		},
	}
}

// LoginUpdate builds the field set applied to the user document on every
// login: the last-login timestamp always moves to now, and the "new" flag
// drops once the record's last sign-in is more than a week past creation.
func LoginUpdate(acct identity.Account, now time.Time) map[string]any {
	fields := map[string]any{
		"metadata.lastLoginAt": now.UnixMilli(),
	}
	if acct.LastSignInTime.After(acct.CreationTime.Add(newUserWindow)) {
		fields["is_new"] = false
	}
	return fields
}
