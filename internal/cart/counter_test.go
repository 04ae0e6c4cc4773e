package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/buzzerapp/buzzer/pkg/domain"
)

type fakeCartAPI struct {
	snap  *domain.CartSnapshot
	err   error
	calls int

	// onCall runs inside GetCart, before returning; lets a test race an auth
	// transition against an in-flight refresh.
	onCall func()
}

func (f *fakeCartAPI) GetCart(ctx context.Context) (*domain.CartSnapshot, error) {
	f.calls++
	if f.onCall != nil {
		f.onCall()
	}
	return f.snap, f.err
}

type fakeAuth struct{ authed bool }

func (f *fakeAuth) Authenticated() bool { return f.authed }

func intp(n int) *int { return &n }

func snapshot(total *int, quantities ...int) *domain.CartSnapshot {
	snap := &domain.CartSnapshot{TotalItems: total}
	for i, q := range quantities {
		snap.Items = append(snap.Items, domain.CartItem{ID: i + 1, Quantity: q})
	}
	return snap
}

func TestRefreshUsesServerTotal(t *testing.T) {
	api := &fakeCartAPI{snap: snapshot(intp(7), 1, 2)}
	c := NewCounter(api, &fakeAuth{authed: true}, zerolog.Nop())
	if got := c.Refresh(context.Background()); got != 7 {
		t.Errorf("count = %d, want the server total 7 over the item sum", got)
	}
}

func TestRefreshSumsItemsWithoutTotal(t *testing.T) {
	api := &fakeCartAPI{snap: snapshot(nil, 2, 3, 1)}
	c := NewCounter(api, &fakeAuth{authed: true}, zerolog.Nop())
	if got := c.Refresh(context.Background()); got != 6 {
		t.Errorf("count = %d, want 6", got)
	}
}

func TestRefreshAnonymousIsZeroAndOffline(t *testing.T) {
	api := &fakeCartAPI{snap: snapshot(intp(5))}
	c := NewCounter(api, &fakeAuth{authed: false}, zerolog.Nop())
	c.Set(4)
	if got := c.Refresh(context.Background()); got != 0 {
		t.Errorf("count = %d, want 0 while anonymous", got)
	}
	if api.calls != 0 {
		t.Errorf("network calls = %d, want 0", api.calls)
	}
}

func TestRefreshErrorKeepsCount(t *testing.T) {
	api := &fakeCartAPI{err: errors.New("backend down")}
	c := NewCounter(api, &fakeAuth{authed: true}, zerolog.Nop())
	c.Set(4)
	if got := c.Refresh(context.Background()); got != 4 {
		t.Errorf("count = %d, want the prior 4 kept on error", got)
	}
}

func TestRefreshIdempotent(t *testing.T) {
	api := &fakeCartAPI{snap: snapshot(intp(3))}
	c := NewCounter(api, &fakeAuth{authed: true}, zerolog.Nop())
	first := c.Refresh(context.Background())
	second := c.Refresh(context.Background())
	if first != 3 || second != 3 {
		t.Errorf("refresh twice = %d, %d, want 3, 3", first, second)
	}
}

func TestOptimisticAdjustments(t *testing.T) {
	c := NewCounter(&fakeCartAPI{}, &fakeAuth{authed: true}, zerolog.Nop())
	c.Increment(2)
	c.Increment(1)
	if c.Count() != 3 {
		t.Errorf("count = %d, want 3", c.Count())
	}
	c.Decrement(5)
	if c.Count() != 0 {
		t.Errorf("count = %d, want floored at 0", c.Count())
	}
	c.Increment(0)
	c.Increment(-1)
	c.Decrement(0)
	if c.Count() != 0 {
		t.Errorf("non-positive amounts must be ignored, count = %d", c.Count())
	}
}

func TestSetClampsNegative(t *testing.T) {
	c := NewCounter(&fakeCartAPI{}, &fakeAuth{authed: true}, zerolog.Nop())
	c.Set(-2)
	if c.Count() != 0 {
		t.Errorf("count = %d, want 0", c.Count())
	}
}

func TestAuthChangedZeroesOnLogout(t *testing.T) {
	c := NewCounter(&fakeCartAPI{}, &fakeAuth{authed: true}, zerolog.Nop())
	c.Set(5)
	c.AuthChanged(false)
	if c.Count() != 0 {
		t.Errorf("count = %d after logout, want 0", c.Count())
	}
	c.AuthChanged(true)
	if c.Count() != 0 {
		t.Errorf("login alone must not invent a count, got %d", c.Count())
	}
}

func TestStaleRefreshDiscarded(t *testing.T) {
	// The session ends while the snapshot fetch is in flight. The fetch still
	// returns a full cart, but its generation is stale and must not overwrite
	// the zeroed count.
	auth := &fakeAuth{authed: true}
	c := NewCounter(nil, auth, zerolog.Nop())
	api := &fakeCartAPI{
		snap: snapshot(intp(9)),
		onCall: func() {
			auth.authed = false
			c.AuthChanged(false)
		},
	}
	c.api = api

	if got := c.Refresh(context.Background()); got != 0 {
		t.Errorf("count = %d, want 0 (stale snapshot discarded)", got)
	}
	if c.Count() != 0 {
		t.Errorf("count = %d after stale refresh, want 0", c.Count())
	}
}
