package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/buzzerapp/buzzer/internal/cart"
	"github.com/buzzerapp/buzzer/internal/session"
	"github.com/buzzerapp/buzzer/pkg/domain"
)

type appAuthAPI struct{}

func (appAuthAPI) Profile(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	return &domain.UserProfile{ID: 1, FullName: "Amira"}, nil
}

func (appAuthAPI) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return "access-2", nil
}

func (appAuthAPI) Logout(ctx context.Context, accessToken string, typ domain.AccountType) error {
	return nil
}

type appCartAPI struct{}

func (appCartAPI) GetCart(ctx context.Context) (*domain.CartSnapshot, error) {
	return &domain.CartSnapshot{}, nil
}

func newTestApp(t *testing.T) App {
	t.Helper()
	store := session.NewStore(t.TempDir())
	sessions := session.NewManager(store, appAuthAPI{}, zerolog.Nop())
	counter := cart.NewCounter(appCartAPI{}, sessions, zerolog.Nop())
	app := NewApp(Deps{
		Sessions: sessions,
		Counter:  counter,
		Store:    store,
		Country:  "+20",
		Version:  "v0.1.0-test",
	})
	app.width = 80
	return app
}

func signIn(t *testing.T, a App) App {
	t.Helper()
	err := a.deps.Sessions.Login(context.Background(), domain.AccountCustomer,
		domain.TokenPair{AccessToken: "a", RefreshToken: "r"})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestAppHeaderGuest(t *testing.T) {
	a := newTestApp(t)
	view := a.View()
	for _, want := range []string{"B U Z Z E R", "v0.1.0-test", "guest", "basket 0"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in header, got:\n%s", want, view)
		}
	}
}

func TestAppHeaderSignedIn(t *testing.T) {
	a := signIn(t, newTestApp(t))
	view := a.View()
	if !strings.Contains(view, "Amira") {
		t.Errorf("expected profile name in header, got:\n%s", view)
	}
	if strings.Contains(view, "guest") {
		t.Errorf("still shows guest after login:\n%s", view)
	}
}

func TestAppHelpLineVariesWithAuth(t *testing.T) {
	a := newTestApp(t)
	if !strings.Contains(a.View(), "l login") {
		t.Errorf("anonymous help missing login hint:\n%s", a.View())
	}
	a = signIn(t, a)
	if !strings.Contains(a.View(), "2 basket") {
		t.Errorf("signed-in help missing basket hint:\n%s", a.View())
	}
}

func TestAppNumberKeySwitchesToCart(t *testing.T) {
	a := newTestApp(t)
	model, cmd := a.Update(keyPress("2"))
	a = model.(App)
	if a.view != viewCart {
		t.Errorf("view = %d, want cart", a.view)
	}
	if cmd == nil {
		t.Error("cart switch did not start a load")
	}
}

func TestAppLoginKeyOnlyWhenAnonymous(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(keyPress("l"))
	a = model.(App)
	if a.view != viewLogin {
		t.Errorf("view = %d, want login", a.view)
	}

	a = signIn(t, newTestApp(t))
	model, _ = a.Update(keyPress("l"))
	a = model.(App)
	if a.view == viewLogin {
		t.Error("login view opened while already signed in")
	}
}

func TestAppGlobalKeysSkippedInForms(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(keyPress("l"))
	a = model.(App)

	// "1" must type into the phone field, not switch views.
	model, _ = a.Update(keyPress("1"))
	a = model.(App)
	if a.view != viewLogin {
		t.Errorf("view = %d, form lost the keyboard", a.view)
	}
	if a.login.phone != "1" {
		t.Errorf("phone = %q, want the typed digit", a.login.phone)
	}
}

func TestAppQuitKeys(t *testing.T) {
	a := newTestApp(t)
	_, cmd := a.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd produced %T, want tea.QuitMsg", cmd())
	}
	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit on ctrl+c")
	}
}

func TestAppAuthExpiredShowsLogin(t *testing.T) {
	a := signIn(t, newTestApp(t))
	model, _ := a.Update(AuthExpiredMsg{})
	a = model.(App)
	if a.view != viewLogin {
		t.Errorf("view = %d, want login", a.view)
	}
	if !strings.Contains(a.View(), "session expired") {
		t.Errorf("expected expiry notice, got:\n%s", a.View())
	}
}

func TestAppLoginTransitionShowsWelcome(t *testing.T) {
	a := signIn(t, newTestApp(t))
	model, cmd := a.Update(authChangedMsg{authenticated: true})
	a = model.(App)
	if a.view != viewShop {
		t.Errorf("view = %d, want shop", a.view)
	}
	if !strings.Contains(a.View(), "welcome back, Amira") {
		t.Errorf("expected welcome banner, got:\n%s", a.View())
	}
	if cmd == nil {
		t.Error("login transition should reconcile the basket badge")
	}
}

func TestAppLogoutFlow(t *testing.T) {
	a := signIn(t, newTestApp(t))
	model, cmd := a.Update(logoutRequestedMsg{})
	a = model.(App)
	if cmd == nil {
		t.Fatal("expected auth change command")
	}
	changed, ok := cmd().(authChangedMsg)
	if !ok || changed.authenticated {
		t.Fatalf("cmd produced %#v, want authChangedMsg{false}", cmd())
	}
	if a.deps.Sessions.Authenticated() {
		t.Error("session survived logout")
	}

	model, _ = a.Update(changed)
	a = model.(App)
	if a.view != viewLogin {
		t.Errorf("view = %d, want login after logout", a.view)
	}
}

func TestAppOptimisticBadgeAdjustments(t *testing.T) {
	a := signIn(t, newTestApp(t))

	model, _ := a.Update(addedToCartMsg{quantity: 2})
	a = model.(App)
	if a.deps.Counter.Count() != 2 {
		t.Errorf("count = %d after add, want 2", a.deps.Counter.Count())
	}
	if !strings.Contains(a.View(), "basket 2") {
		t.Errorf("badge not updated:\n%s", a.View())
	}

	model, _ = a.Update(itemDeletedMsg{itemID: 1, quantity: 1})
	a = model.(App)
	if a.deps.Counter.Count() != 1 {
		t.Errorf("count = %d after delete, want 1", a.deps.Counter.Count())
	}

	// Failed actions never move the badge.
	model, _ = a.Update(addedToCartMsg{quantity: 5, err: errTest})
	a = model.(App)
	if a.deps.Counter.Count() != 1 {
		t.Errorf("count = %d after failed add, want 1", a.deps.Counter.Count())
	}
}

func TestAppCartLoadSetsAuthoritativeCount(t *testing.T) {
	a := signIn(t, newTestApp(t))
	a.deps.Counter.Set(9)
	total := 4
	model, _ := a.Update(cartLoadedMsg{snap: &domain.CartSnapshot{TotalItems: &total}})
	a = model.(App)
	if a.deps.Counter.Count() != 4 {
		t.Errorf("count = %d, want the snapshot's 4", a.deps.Counter.Count())
	}
}

func TestAppNavigateShop(t *testing.T) {
	a := newTestApp(t)
	a.view = viewOrders
	model, _ := a.Update(navigateShopMsg{})
	a = model.(App)
	if a.view != viewShop {
		t.Errorf("view = %d, want shop", a.view)
	}
}

func TestAppOpenProductSwitchesView(t *testing.T) {
	a := newTestApp(t)
	model, cmd := a.Update(openProductMsg{id: 7})
	a = model.(App)
	if a.view != viewProduct {
		t.Errorf("view = %d, want product", a.view)
	}
	if cmd == nil {
		t.Error("product open did not start a fetch")
	}
	if a.product.id != 7 {
		t.Errorf("product id = %d", a.product.id)
	}
}

var errTest = &testErr{msg: "boom"}

// testErr is a simple error type for tests.
type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }
