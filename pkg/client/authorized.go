package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/buzzerapp/buzzer/pkg/domain"
)

// TokenSource supplies the current access token and owns what happens when it
// can no longer be refreshed. The session manager implements it; keeping it an
// interface here avoids an import cycle and keeps the gateway testable.
type TokenSource interface {
	// AccessToken returns the current access token, or "" when anonymous.
	AccessToken() string
	// Refresh exchanges the refresh token for a new access token and reports
	// success. It must not mutate session state on failure.
	Refresh(ctx context.Context) bool
	// ForceLogout clears the session after an irrecoverable refresh failure.
	ForceLogout(ctx context.Context)
}

// Authorized wraps the raw client with bearer-token injection and a single
// refresh-and-retry on 401, so call sites never re-implement refresh logic.
type Authorized struct {
	api       *Client
	tokens    TokenSource
	onExpired func()
	log       zerolog.Logger
}

// NewAuthorized creates the authenticated request gateway. onExpired (may be
// nil) fires after a forced logout so the UI can navigate to the login entry
// point.
func NewAuthorized(api *Client, tokens TokenSource, onExpired func(), log zerolog.Logger) *Authorized {
	return &Authorized{api: api, tokens: tokens, onExpired: onExpired, log: log}
}

// Do performs an authenticated request. On a 401 it refreshes once and retries
// once with the re-read token; the retry's outcome is returned even if it is
// another 401. If refresh fails the session is cleared and the original 401
// is returned so the caller can short-circuit its own state. An aborted
// request never triggers the refresh cycle.
func (a *Authorized) Do(ctx context.Context, method, path string, body, out any) error {
	err := a.api.doRequest(ctx, method, path, a.tokens.AccessToken(), body, out)
	if err == nil || !IsStatus(err, http.StatusUnauthorized) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if !a.tokens.Refresh(ctx) {
		a.log.Warn().Str("path", path).Msg("token refresh failed, forcing logout")
		a.tokens.ForceLogout(ctx)
		if a.onExpired != nil {
			a.onExpired()
		}
		return err
	}

	// Exactly one retry, with the token re-read after refresh.
	return a.api.doRequest(ctx, method, path, a.tokens.AccessToken(), body, out)
}

// GetCart fetches the authoritative cart snapshot.
func (a *Authorized) GetCart(ctx context.Context) (*domain.CartSnapshot, error) {
	var snap domain.CartSnapshot
	if err := a.Do(ctx, http.MethodGet, "/cart/get-cart", nil, &snap); err != nil {
		return nil, fmt.Errorf("client.GetCart: %w", err)
	}
	return &snap, nil
}

// AddCartItem adds quantity units of a product to the cart.
func (a *Authorized) AddCartItem(ctx context.Context, productID, quantity int) error {
	body := map[string]int{"product_id": productID, "quantity": quantity}
	if err := a.Do(ctx, http.MethodPost, "/cart/add-item", body, nil); err != nil {
		return fmt.Errorf("client.AddCartItem: %w", err)
	}
	return nil
}

// DeleteCartItem removes a cart line by its item ID.
func (a *Authorized) DeleteCartItem(ctx context.Context, itemID int) error {
	if err := a.Do(ctx, http.MethodDelete, "/cart/delete-item/"+strconv.Itoa(itemID), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteCartItem: %w", err)
	}
	return nil
}

// GetOrders fetches the customer's order history.
func (a *Authorized) GetOrders(ctx context.Context) ([]domain.Order, error) {
	var out struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := a.Do(ctx, http.MethodGet, "/order/get-orders", nil, &out); err != nil {
		return nil, fmt.Errorf("client.GetOrders: %w", err)
	}
	return out.Orders, nil
}

// GetOrder fetches a single order by ID.
func (a *Authorized) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	var out struct {
		Order domain.Order `json:"order"`
	}
	if err := a.Do(ctx, http.MethodGet, "/order/get-order/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, fmt.Errorf("client.GetOrder: %w", err)
	}
	return &out.Order, nil
}

// PayWithStripe creates a hosted checkout session for the current cart and
// returns its URL.
func (a *Authorized) PayWithStripe(ctx context.Context) (string, error) {
	var out struct {
		CheckoutSession struct {
			URL string `json:"url"`
		} `json:"checkoutSession"`
	}
	if err := a.Do(ctx, http.MethodPost, "/payment/pay-with-stripe", map[string]string{}, &out); err != nil {
		return "", fmt.Errorf("client.PayWithStripe: %w", err)
	}
	if out.CheckoutSession.URL == "" {
		return "", fmt.Errorf("client.PayWithStripe: no checkout URL in response")
	}
	return out.CheckoutSession.URL, nil
}

// ResolveFile resolves an opaque image public ID to a fetchable URL.
func (a *Authorized) ResolveFile(ctx context.Context, publicID string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := a.Do(ctx, http.MethodGet, "/auth/get-file/"+publicID, nil, &out); err != nil {
		return "", fmt.Errorf("client.ResolveFile: %w", err)
	}
	return out.URL, nil
}

// GetAddresses fetches the customer's saved delivery addresses.
func (a *Authorized) GetAddresses(ctx context.Context) ([]domain.Address, error) {
	var out struct {
		Addresses []domain.Address `json:"addresses"`
	}
	if err := a.Do(ctx, http.MethodGet, "/address/get-all-addresses", nil, &out); err != nil {
		return nil, fmt.Errorf("client.GetAddresses: %w", err)
	}
	return out.Addresses, nil
}
