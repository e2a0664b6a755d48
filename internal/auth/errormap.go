package auth

import (
	"net/http"

	"chat-api/internal/identity"
)

// Category names an auth operation for provider-error mapping purposes.
type Category string

const (
	CategorySignUp        Category = "signup"
	CategoryPasswordLogin Category = "password-login"
	CategoryFacebookLogin Category = "facebook-login"
	CategoryGoogleLogin   Category = "google-login"
	CategorySignOut       Category = "signout"
)

// payloadShape selects the JSON body layout of a mapped error.
type payloadShape int

const (
	shapeErrorsEmail payloadShape = iota
	shapeErrorsGeneral
	shapeError
)

type errorRule struct {
	status int
	shape  payloadShape
}

type errorTable struct {
	rules    map[string]errorRule
	fallback errorRule
}

// Per-category tables. Password and federated logins map every code, known
// or not, to the same 403 branch; the known codes are listed so the table
// documents the provider's vocabulary for each operation.
var errorTables = map[Category]errorTable{
	CategorySignUp: {
		rules: map[string]errorRule{
			"auth/weak-password":        {http.StatusForbidden, shapeErrorsEmail},
			"auth/email-already-in-use": {http.StatusForbidden, shapeErrorsEmail},
		},
		fallback: errorRule{http.StatusInternalServerError, shapeErrorsGeneral},
	},
	CategoryPasswordLogin: {
		rules: map[string]errorRule{
			"auth/wrong-password":     {http.StatusForbidden, shapeError},
			"auth/invalid-email":      {http.StatusForbidden, shapeError},
			"auth/user-not-found":     {http.StatusForbidden, shapeError},
			"auth/user-disabled":      {http.StatusForbidden, shapeError},
			"auth/user-token-expired": {http.StatusForbidden, shapeError},
		},
		fallback: errorRule{http.StatusForbidden, shapeError},
	},
	CategoryFacebookLogin: {
		rules: map[string]errorRule{
			"auth/user-disabled": {http.StatusForbidden, shapeError},
			"auth/account-exists-with-different-credential": {http.StatusForbidden, shapeError},
		},
		fallback: errorRule{http.StatusForbidden, shapeError},
	},
	CategoryGoogleLogin: {
		rules: map[string]errorRule{
			"auth/user-disabled":      {http.StatusForbidden, shapeError},
			"auth/user-token-expired": {http.StatusForbidden, shapeError},
		},
		fallback: errorRule{http.StatusForbidden, shapeError},
	},
	CategorySignOut: {
		fallback: errorRule{http.StatusInternalServerError, shapeError},
	},
}

// MapProviderError resolves a provider failure into an HTTP status and the
// user-facing error payload for the given operation category.
func MapProviderError(category Category, err error) (int, map[string]any) {
	code := identity.ErrorCode(err)

	table, ok := errorTables[category]
	if !ok {
		return http.StatusInternalServerError, map[string]any{"error": code}
	}

	rule, ok := table.rules[code]
	if !ok {
		rule = table.fallback
	}

	var body map[string]any
	switch rule.shape {
	case shapeErrorsEmail:
		body = map[string]any{"errors": map[string]any{"email": code}}
	case shapeErrorsGeneral:
		body = map[string]any{"errors": map[string]any{"general": code}}
	default:
		body = map[string]any{"error": code}
	}
	return rule.status, body
}
