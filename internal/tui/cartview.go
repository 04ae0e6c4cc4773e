package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buzzerapp/buzzer/pkg/client"
	"github.com/buzzerapp/buzzer/pkg/domain"
)

// cartLoadedMsg carries the authoritative cart snapshot. gen guards against a
// stale load finishing after the view reloaded.
type cartLoadedMsg struct {
	gen  int
	snap *domain.CartSnapshot
	err  error
}

// itemDeletedMsg carries the outcome of removing a cart line; quantity is the
// line's quantity so the app can adjust the badge optimistically.
type itemDeletedMsg struct {
	itemID   int
	quantity int
	err      error
}

type cartModel struct {
	gateway    *client.Authorized
	gen        int
	items      []domain.CartItem
	totalPrice string
	cursor     int
	loading    bool
	deleting   bool
	paying     bool
	err        error
	status     string
	lastURL    string
}

func newCartModel(gateway *client.Authorized) cartModel {
	return cartModel{gateway: gateway}
}

// load fetches the cart snapshot, superseding any load still in flight.
func (m cartModel) load() (cartModel, tea.Cmd) {
	m.gen++
	m.loading = true
	m.err = nil
	m.status = ""

	gen := m.gen
	gw := m.gateway
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		snap, err := gw.GetCart(ctx)
		return cartLoadedMsg{gen: gen, snap: snap, err: err}
	}
}

func (m cartModel) Update(msg tea.Msg) (cartModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cartLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			if client.Canceled(msg.err) {
				return m, nil
			}
			m.err = msg.err
			return m, nil
		}
		m.items = msg.snap.Items
		m.totalPrice = msg.snap.TotalPrice
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case itemDeletedMsg:
		m.deleting = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		kept := m.items[:0]
		for _, it := range m.items {
			if it.ID != msg.itemID {
				kept = append(kept, it)
			}
		}
		m.items = kept
		if m.cursor >= len(m.items) && m.cursor > 0 {
			m.cursor--
		}
		m.status = "item removed"
		return m, nil

	case openCheckoutMsg:
		m.paying = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.lastURL = msg.url
		m.status = "checkout opened in your browser"
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m cartModel) updateKeys(msg tea.KeyMsg) (cartModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "d", "x":
		if m.deleting || m.cursor >= len(m.items) {
			return m, nil
		}
		m.deleting = true
		m.status = ""
		item := m.items[m.cursor]
		gw := m.gateway
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			err := gw.DeleteCartItem(ctx, item.ID)
			return itemDeletedMsg{itemID: item.ID, quantity: item.Quantity, err: err}
		}
	case "p":
		if m.paying || len(m.items) == 0 {
			return m, nil
		}
		m.paying = true
		m.status = ""
		gw := m.gateway
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			url, err := gw.PayWithStripe(ctx)
			return openCheckoutMsg{url: url, err: err}
		}
	case "c":
		if m.lastURL == "" {
			return m, nil
		}
		if err := clipboard.WriteAll(m.lastURL); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = "checkout link copied"
		}
	}
	return m, nil
}

func (m cartModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Your Basket") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("loading…") + "\n")
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("error: "+m.err.Error()) + "\n")
	case len(m.items) == 0:
		b.WriteString(" " + dimStyle.Render("your basket is empty") + "\n")
	default:
		for i, it := range m.items {
			line := fmt.Sprintf("%-30s ×%-3d %8s", truncate(it.Product.Name, 30), it.Quantity, it.Product.Price)
			b.WriteString(renderRow(line, i == m.cursor))
		}
		if m.totalPrice != "" {
			b.WriteString("\n " + dimStyle.Render("total ") + accentStyle.Render(m.totalPrice) + "\n")
		}
	}

	if m.paying {
		b.WriteString("\n " + dimStyle.Render("creating checkout session…") + "\n")
	}
	if m.status != "" {
		style := okStyle
		if strings.Contains(m.status, "failed") || strings.Contains(m.status, "error") {
			style = errorStyle
		}
		b.WriteString("\n " + style.Render(m.status) + "\n")
	}
	return b.String()
}
