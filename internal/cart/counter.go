// Package cart maintains the single cart-item count shown in the header
// badge: authoritative on server refresh, optimistic in between.
package cart

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/buzzerapp/buzzer/pkg/client"
	"github.com/buzzerapp/buzzer/pkg/domain"
)

// CartAPI is the slice of the gateway the counter needs.
type CartAPI interface {
	GetCart(ctx context.Context) (*domain.CartSnapshot, error)
}

// Auth answers whether a session currently exists.
type Auth interface {
	Authenticated() bool
}

// Counter derives and incrementally maintains the total cart-item count.
// Increment/Decrement give instant optimistic feedback; Refresh is the
// reconciliation point that restores server truth. Concurrent adjustments
// simply sum; the guarantee is eventual consistency with the backend.
type Counter struct {
	mu    sync.Mutex
	api   CartAPI
	auth  Auth
	log   zerolog.Logger
	count int
	gen   uint64
}

// NewCounter creates a counter over the gateway and auth state.
func NewCounter(api CartAPI, auth Auth, log zerolog.Logger) *Counter {
	return &Counter{api: api, auth: auth, log: log}
}

// Count returns the current count.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Refresh reconciles the count against the backend snapshot. Unauthenticated
// sessions get 0 without a network call. A refresh superseded by an auth
// transition while in flight discards its result so a stale response cannot
// overwrite newer state. Returns the count after reconciliation.
func (c *Counter) Refresh(ctx context.Context) int {
	c.mu.Lock()
	gen := c.gen
	if !c.auth.Authenticated() {
		c.count = 0
		defer c.mu.Unlock()
		return 0
	}
	c.mu.Unlock()

	snap, err := c.api.GetCart(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return c.count
	}
	if err != nil {
		if !client.Canceled(err) {
			c.log.Warn().Err(err).Msg("refresh cart count")
		}
		return c.count
	}
	c.count = snap.CountItems()
	return c.count
}

// Increment optimistically raises the count.
func (c *Counter) Increment(amount int) {
	if amount <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count += amount
}

// Decrement optimistically lowers the count, flooring at zero.
func (c *Counter) Decrement(amount int) {
	if amount <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count -= amount
	if c.count < 0 {
		c.count = 0
	}
}

// Set replaces the count with an authoritative value, e.g. after the cart
// view has loaded the full snapshot.
func (c *Counter) Set(count int) {
	if count < 0 {
		count = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = count
}

// AuthChanged is the session manager's change hook. It supersedes any
// in-flight refresh and zeroes the count when the session ends; the caller
// triggers a fresh Refresh on login.
func (c *Counter) AuthChanged(authenticated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if !authenticated {
		c.count = 0
	}
}
