package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/buzzerapp/buzzer/pkg/domain"
)

// RegisterRequest is the payload for creating a new account. Address and City
// only apply to cafe/restaurant registration.
type RegisterRequest struct {
	Type     domain.AccountType `json:"type"`
	FullName string             `json:"fullName"`
	Email    string             `json:"email"`
	Phone    string             `json:"phone"`
	Password string             `json:"password"`
	Address  string             `json:"address,omitempty"`
	City     string             `json:"city,omitempty"`
}

// Client is the raw Buzzer API client. It knows nothing about token refresh;
// callers pass the bearer credential explicitly per request. Authorized layers
// the refresh-and-retry behaviour on top.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client against the given base URL (e.g. ".../api/v1").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Login begins a phone login and returns the issued token pair.
func (c *Client) Login(ctx context.Context, typ domain.AccountType, phone string) (domain.TokenPair, error) {
	body := map[string]string{"type": string(typ), "phone": phone}
	var out domain.TokenPair
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", body, &out); err != nil {
		return domain.TokenPair{}, fmt.Errorf("client.Login: %w", err)
	}
	return out, nil
}

// Register creates a new account and returns the issued token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (domain.TokenPair, error) {
	var out domain.TokenPair
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", "", req, &out); err != nil {
		return domain.TokenPair{}, fmt.Errorf("client.Register: %w", err)
	}
	return out, nil
}

// RefreshToken exchanges the refresh token for a new access token.
// The refresh token itself travels as the bearer credential.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/auth/refresh-token", refreshToken, nil, &out); err != nil {
		return "", fmt.Errorf("client.RefreshToken: %w", err)
	}
	return out.AccessToken, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	var out struct {
		User domain.UserProfile `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/auth/profile", accessToken, nil, &out); err != nil {
		return nil, fmt.Errorf("client.Profile: %w", err)
	}
	return &out.User, nil
}

// Logout notifies the backend that the session is ending. Callers treat this
// as best-effort; a failure here never blocks clearing local state.
func (c *Client) Logout(ctx context.Context, accessToken string, typ domain.AccountType) error {
	body := map[string]string{"type": string(typ)}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/logout", accessToken, body, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// ListMerchants fetches the public listing for a merchant account type
// (cafes or restaurants).
func (c *Client) ListMerchants(ctx context.Context, typ domain.AccountType) ([]domain.Merchant, error) {
	path, key, ok := typ.ListingEndpoint()
	if !ok {
		return nil, fmt.Errorf("client.ListMerchants: no listing for account type %q", typ)
	}
	var payload map[string]json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, path, "", nil, &payload); err != nil {
		return nil, fmt.Errorf("client.ListMerchants: %w", err)
	}
	var merchants []domain.Merchant
	if raw, found := payload[key]; found {
		if err := json.Unmarshal(raw, &merchants); err != nil {
			return nil, fmt.Errorf("client.ListMerchants: decode %s: %w", key, err)
		}
	}
	for i := range merchants {
		merchants[i].Kind = typ
	}
	return merchants, nil
}

// ListProducts fetches all available products.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/product/all-products", "", nil, &out); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return out.Products, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var out struct {
		Product domain.Product `json:"product"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/product/get-product/"+strconv.Itoa(id), "", nil, &out); err != nil {
		return nil, fmt.Errorf("client.GetProduct: %w", err)
	}
	return &out.Product, nil
}

// ListCategories fetches all product categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/category/all-categories", "", nil, &out); err != nil {
		return nil, fmt.Errorf("client.ListCategories: %w", err)
	}
	return out.Categories, nil
}

// doRequest performs one HTTP round trip. The backend wraps every payload in
// a {status, message, data} envelope; out (when non-nil) receives the decoded
// data field, falling back to the whole body for the few endpoints that skip
// the envelope.
func (c *Client) doRequest(ctx context.Context, method, path, bearer string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Surface the caller's cancellation rather than the transport's wrapping.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		raw = envelope.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
