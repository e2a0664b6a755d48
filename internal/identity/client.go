package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"chat-api/internal/observability"
)

const clientTimeout = 15 * time.Second

// Client is an HTTP implementation of Provider against the identity
// service's REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient constructs the REST client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: clientTimeout},
	}
}

// CreateAccount registers a new account with the provider.
func (c *Client) CreateAccount(ctx context.Context, acct NewAccount) (Account, error) {
	var out Account
	err := c.call(ctx, "create_account", http.MethodPost, "/v1/accounts", acct, &out)
	return out, err
}

// SignInWithPassword exchanges an email/password pair for the account record.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Account, error) {
	in := map[string]string{"email": email, "password": password}
	var out Account
	err := c.call(ctx, "sign_in_password", http.MethodPost, "/v1/accounts:signIn", in, &out)
	return out, err
}

// SignInWithCredential signs in via a federated credential. The provider
// creates the account on first sign-in and reports it through IsNewUser.
func (c *Client) SignInWithCredential(ctx context.Context, cred Credential) (SignInResult, error) {
	var out SignInResult
	err := c.call(ctx, "sign_in_credential", http.MethodPost, "/v1/accounts:signInWithCredential", cred, &out)
	return out, err
}

// RevokeTokens invalidates all refresh tokens for the account.
func (c *Client) RevokeTokens(ctx context.Context, uid string) error {
	path := fmt.Sprintf("/v1/accounts/%s:revokeTokens", uid)
	return c.call(ctx, "revoke_tokens", http.MethodPost, path, nil, nil)
}

// GetAccount fetches the account record by uid.
func (c *Client) GetAccount(ctx context.Context, uid string) (Account, error) {
	var out Account
	err := c.call(ctx, "get_account", http.MethodGet, "/v1/accounts/"+uid, nil, &out)
	return out, err
}

// IssueToken mints a short-lived identity token for the account.
func (c *Client) IssueToken(ctx context.Context, uid string) (string, error) {
	path := fmt.Sprintf("/v1/accounts/%s:issueToken", uid)
	var out struct {
		Token string `json:"token"`
	}
	err := c.call(ctx, "issue_token", http.MethodPost, path, nil, &out)
	return out.Token, err
}

// VerifyToken validates an identity token and returns the subject uid.
func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	in := map[string]string{"token": token}
	var out struct {
		UID string `json:"uid"`
	}
	err := c.call(ctx, "verify_token", http.MethodPost, "/v1/token:verify", in, &out)
	return out.UID, err
}

func (c *Client) call(ctx context.Context, operation, method, path string, in, out any) error {
	ctx, span := otel.Tracer("chat-api/identity").Start(ctx, "identity."+operation)
	defer span.End()
	span.SetAttributes(attribute.String("identity.operation", operation))

	var body *bytes.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", operation, err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observability.IncProviderRequest(operation, "transport_error")
		return fmt.Errorf("identity %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		perr := decodeError(resp)
		observability.IncProviderRequest(operation, perr.Code)
		return perr
	}
	observability.IncProviderRequest(operation, "ok")

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func decodeError(resp *http.Response) *Error {
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error.Code == "" {
		return &Error{Code: "auth/internal-error", Status: resp.StatusCode}
	}
	return &Error{
		Code:    payload.Error.Code,
		Message: payload.Error.Message,
		Status:  resp.StatusCode,
	}
}

var _ Provider = (*Client)(nil)
