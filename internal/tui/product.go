package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buzzerapp/buzzer/pkg/client"
	"github.com/buzzerapp/buzzer/pkg/domain"
)

// productLoadedMsg carries a product detail fetch. id guards against a late
// response for a product the user already navigated away from.
type productLoadedMsg struct {
	id      int
	product *domain.Product
	err     error
}

// addedToCartMsg carries the outcome of an add-to-basket action; the app
// applies the optimistic counter bump before forwarding it here.
type addedToCartMsg struct {
	quantity int
	err      error
}

type productModel struct {
	api     *client.Client
	gateway *client.Authorized
	id      int
	product *domain.Product
	qty     int
	loading bool
	adding  bool
	err     error
	status  string
	cancel  context.CancelFunc
}

func newProductModel(api *client.Client, gateway *client.Authorized) productModel {
	return productModel{api: api, gateway: gateway, qty: 1}
}

// open starts loading the given product, cancelling any fetch for a previous
// one so a late response cannot overwrite the newer view.
func (m productModel) open(id int) (productModel, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.id = id
	m.product = nil
	m.qty = 1
	m.loading = true
	m.err = nil
	m.status = ""

	api := m.api
	return m, func() tea.Msg {
		product, err := api.GetProduct(ctx, id)
		return productLoadedMsg{id: id, product: product, err: err}
	}
}

func (m productModel) Update(msg tea.Msg) (productModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productLoadedMsg:
		if msg.id != m.id {
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
		m.product = msg.product
		return m, nil

	case addedToCartMsg:
		m.adding = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("added %d to basket", msg.quantity)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m productModel) updateKeys(msg tea.KeyMsg) (productModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return navigateShopMsg{} }
	case "+", "up", "k":
		max := 99
		if m.product != nil && m.product.AvailableQuantity > 0 {
			max = m.product.AvailableQuantity
		}
		if m.qty < max {
			m.qty++
		}
	case "-", "down", "j":
		if m.qty > 1 {
			m.qty--
		}
	case "a", "enter":
		if m.product == nil || m.adding {
			return m, nil
		}
		if !m.product.IsAvailable {
			m.status = "this product is not available"
			return m, nil
		}
		m.adding = true
		m.status = ""
		gw := m.gateway
		id, qty := m.id, m.qty
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			err := gw.AddCartItem(ctx, id, qty)
			return addedToCartMsg{quantity: qty, err: err}
		}
	}
	return m, nil
}

func (m productModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("loading…") + "\n")
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("error: "+m.err.Error()) + "\n")
	case m.product == nil:
		b.WriteString(" " + dimStyle.Render("no product selected") + "\n")
	default:
		p := m.product
		b.WriteString(" " + titleStyle.Render(p.Name) + "\n")
		if p.Description != "" {
			b.WriteString(" " + dimStyle.Render(p.Description) + "\n")
		}
		b.WriteString("\n " + accentStyle.Render(p.Price) + "\n")
		if p.AvailableQuantity > 0 {
			b.WriteString(" " + dimStyle.Render(fmt.Sprintf("%d in stock", p.AvailableQuantity)) + "\n")
		}
		b.WriteString(fmt.Sprintf("\n quantity: %s\n", accentStyle.Render(fmt.Sprintf("%d", m.qty))))
		if m.adding {
			b.WriteString("\n " + dimStyle.Render("adding…") + "\n")
		}
	}

	if m.status != "" {
		style := okStyle
		if !strings.HasPrefix(m.status, "added") {
			style = errorStyle
		}
		b.WriteString("\n " + style.Render(m.status) + "\n")
	}
	return b.String()
}
