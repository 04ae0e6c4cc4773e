package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/buzzerapp/buzzer/internal/browser"
	"github.com/buzzerapp/buzzer/internal/cart"
	"github.com/buzzerapp/buzzer/internal/otp"
	"github.com/buzzerapp/buzzer/internal/session"
	"github.com/buzzerapp/buzzer/pkg/client"
)

type view int

const (
	viewShop view = iota
	viewProduct
	viewCart
	viewOrders
	viewProfile
	viewLogin
	viewRegister
)

// AuthExpiredMsg is sent from outside the program when the request gateway
// forces a logout after an irrecoverable refresh failure.
type AuthExpiredMsg struct{}

// authChangedMsg fires after a login or logout completes inside the TUI.
type authChangedMsg struct {
	authenticated bool
}

// cartCountMsg carries the reconciled cart count.
type cartCountMsg struct {
	count int
}

// openProductMsg asks the app to show a product's detail view.
type openProductMsg struct {
	id int
}

// navigateShopMsg returns to the storefront listing.
type navigateShopMsg struct{}

// openCheckoutMsg carries the hosted payment page URL.
type openCheckoutMsg struct {
	url string
	err error
}

// Deps wires the app to the core subsystems.
type Deps struct {
	API      *client.Client
	Gateway  *client.Authorized
	Sessions *session.Manager
	Counter  *cart.Counter
	Verify   otp.Provider
	Country  string
	Store    *session.Store
	Version  string
}

// App is the root Bubbletea model.
type App struct {
	deps     Deps
	view     view
	shop     shopModel
	product  productModel
	cartView cartModel
	orders   ordersModel
	profile  profileModel
	login    loginModel
	register registerModel
	banner   string
	width    int
	height   int
}

// NewApp creates the TUI application.
func NewApp(deps Deps) App {
	return App{
		deps:     deps,
		shop:     newShopModel(deps.API),
		product:  newProductModel(deps.API, deps.Gateway),
		cartView: newCartModel(deps.Gateway),
		orders:   newOrdersModel(deps.Gateway),
		profile:  newProfileModel(deps.Sessions),
		login:    newLoginModel(otp.NewLoginFlow(deps.Verify, deps.API, deps.Sessions, deps.Store, deps.Country)),
		register: newRegisterModel(otp.NewRegisterFlow(deps.Verify, deps.API, deps.Sessions, deps.Store, deps.Country)),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.shop.Init(), a.refreshCartCmd())
}

// refreshCartCmd reconciles the header badge with the backend cart.
func (a App) refreshCartCmd() tea.Cmd {
	counter := a.deps.Counter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return cartCountMsg{count: counter.Refresh(ctx)}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + help(1)
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		a.shop, _ = a.shop.Update(bodyMsg)
		a.product, _ = a.product.Update(bodyMsg)
		a.cartView, _ = a.cartView.Update(bodyMsg)
		a.orders, _ = a.orders.Update(bodyMsg)
		return a, nil

	case AuthExpiredMsg:
		a.view = viewLogin
		a.login = a.login.reset("session expired, please log in again")
		return a, a.refreshCartCmd()

	case authChangedMsg:
		if msg.authenticated {
			a.view = viewShop
			a.banner = ""
			if p := a.deps.Sessions.Profile(); p != nil {
				a.banner = "welcome back, " + p.FullName
			}
		} else {
			a.view = viewLogin
			a.login = a.login.reset("")
		}
		return a, a.refreshCartCmd()

	case cartCountMsg:
		// Counter already holds the value; the message only forces a redraw.
		return a, nil

	case navigateShopMsg:
		a.view = viewShop
		return a, nil

	case openProductMsg:
		a.view = viewProduct
		var cmd tea.Cmd
		a.product, cmd = a.product.open(msg.id)
		return a, cmd

	case addedToCartMsg:
		if msg.err == nil {
			a.deps.Counter.Increment(msg.quantity)
		}
		var cmd tea.Cmd
		a.product, cmd = a.product.Update(msg)
		return a, cmd

	case cartLoadedMsg:
		if msg.err == nil && msg.snap != nil {
			a.deps.Counter.Set(msg.snap.CountItems())
		}
		var cmd tea.Cmd
		a.cartView, cmd = a.cartView.Update(msg)
		return a, cmd

	case itemDeletedMsg:
		if msg.err == nil {
			a.deps.Counter.Decrement(msg.quantity)
		}
		var cmd tea.Cmd
		a.cartView, cmd = a.cartView.Update(msg)
		return a, cmd

	case openCheckoutMsg:
		var cmd tea.Cmd
		a.cartView, cmd = a.cartView.Update(msg)
		if msg.err == nil && msg.url != "" {
			if err := browser.Open(msg.url); err != nil {
				a.banner = "open the checkout link manually: " + msg.url
			}
		}
		return a, cmd

	case logoutRequestedMsg:
		a.deps.Sessions.Logout(context.Background())
		return a, func() tea.Msg { return authChangedMsg{authenticated: false} }

	case loggedInMsg:
		return a, func() tea.Msg { return authChangedMsg{authenticated: true} }

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	return a.routeToView(msg)
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Form views own the keyboard.
	if a.view == viewLogin || a.view == viewRegister {
		return a.routeToView(msg)
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "1":
		a.view = viewShop
		return a, nil
	case "2":
		a.view = viewCart
		var cmd tea.Cmd
		a.cartView, cmd = a.cartView.load()
		return a, cmd
	case "3":
		a.view = viewOrders
		var cmd tea.Cmd
		a.orders, cmd = a.orders.load()
		return a, cmd
	case "4":
		a.view = viewProfile
		return a, nil
	case "l":
		if !a.deps.Sessions.Authenticated() {
			a.view = viewLogin
			a.login = a.login.reset("")
			return a, nil
		}
	case "R":
		if !a.deps.Sessions.Authenticated() {
			a.view = viewRegister
			a.register = a.register.reset()
			return a, nil
		}
	}

	return a.routeToView(msg)
}

func (a App) routeToView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewShop:
		a.shop, cmd = a.shop.Update(msg)
	case viewProduct:
		a.product, cmd = a.product.Update(msg)
	case viewCart:
		a.cartView, cmd = a.cartView.Update(msg)
	case viewOrders:
		a.orders, cmd = a.orders.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	var body string
	switch a.view {
	case viewShop:
		body = a.shop.View()
	case viewProduct:
		body = a.product.View()
	case viewCart:
		body = a.cartView.View()
	case viewOrders:
		body = a.orders.View()
	case viewProfile:
		body = a.profile.View()
	case viewLogin:
		body = a.login.View()
	case viewRegister:
		body = a.register.View()
	}

	return a.header() + "\n" + body + "\n" + a.helpLine()
}

func (a App) header() string {
	logo := logoStyle.Render("B U Z Z E R")
	if a.deps.Version != "" {
		logo += dimStyle.Render(" " + a.deps.Version)
	}

	who := dimStyle.Render("guest")
	if a.deps.Sessions.Authenticated() {
		who = accentStyle.Render("signed in")
		if p := a.deps.Sessions.Profile(); p != nil {
			who = accentStyle.Render(p.FullName)
		}
	}

	badge := badgeStyle.Render(fmt.Sprintf("basket %d", a.deps.Counter.Count()))

	left := headerStyle.Render(logo + "  " + who)
	right := headerStyle.Render(badge)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right

	banner := ""
	if a.banner != "" {
		banner = dimStyle.Render(" " + a.banner)
	}
	return line + "\n" + banner
}

func (a App) helpLine() string {
	switch a.view {
	case viewLogin, viewRegister:
		return helpStyle.Render(" enter confirm · r resend · esc back")
	case viewProduct:
		return helpStyle.Render(" +/- quantity · a add to basket · esc back · q quit")
	case viewCart:
		return helpStyle.Render(" d remove · p checkout · c copy link · 1 shop · q quit")
	case viewOrders:
		return helpStyle.Render(" enter details · c copy id · esc back · q quit")
	default:
		if a.deps.Sessions.Authenticated() {
			return helpStyle.Render(" 1 shop · 2 basket · 3 orders · 4 profile · q quit")
		}
		return helpStyle.Render(" 1 shop · l login · R register · q quit")
	}
}
