package identity

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Account is the credential record held by the identity provider.
type Account struct {
	UID            string    `json:"uid"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	Disabled       bool      `json:"disabled"`
	CreationTime   time.Time `json:"creation_time"`
	LastSignInTime time.Time `json:"last_sign_in_time"`
}

// NewAccount carries the attributes for account creation. The password is
// write-only and never persisted by this service.
type NewAccount struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	DisplayName   string `json:"display_name"`
	EmailVerified bool   `json:"email_verified"`
	Disabled      bool   `json:"disabled"`
}

// Credential is a federated sign-in credential exchanged for a session.
type Credential struct {
	Provider string `json:"provider"`
	Token    string `json:"token"`
}

// SignInResult is returned by credential-based sign-ins. IsNewUser reports
// whether the provider created the account during this sign-in.
type SignInResult struct {
	Account   Account `json:"account"`
	IsNewUser bool    `json:"is_new_user"`
}

// Provider is the capability surface of the external identity service.
type Provider interface {
	CreateAccount(ctx context.Context, acct NewAccount) (Account, error)
	SignInWithPassword(ctx context.Context, email, password string) (Account, error)
	SignInWithCredential(ctx context.Context, cred Credential) (SignInResult, error)
	RevokeTokens(ctx context.Context, uid string) error
	GetAccount(ctx context.Context, uid string) (Account, error)
	IssueToken(ctx context.Context, uid string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
}

// Error is a provider-reported failure carrying the auth/... error code.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrorCode extracts the provider error code, or a generic internal code for
// transport and decoding failures.
func ErrorCode(err error) string {
	var perr *Error
	if errors.As(err, &perr) && perr.Code != "" {
		return perr.Code
	}
	return "auth/internal-error"
}
