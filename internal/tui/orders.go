package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buzzerapp/buzzer/pkg/client"
	"github.com/buzzerapp/buzzer/pkg/domain"
)

type ordersLoadedMsg struct {
	gen    int
	orders []domain.Order
	err    error
}

// orderDetailMsg carries a detail fetch; id guards against late responses
// after the user moved to a different order.
type orderDetailMsg struct {
	id    int
	order *domain.Order
	err   error
}

type ordersModel struct {
	gateway  *client.Authorized
	gen      int
	orders   []domain.Order
	cursor   int
	loading  bool
	err      error
	status   string
	detail   *domain.Order
	detailID int
	cancel   context.CancelFunc
}

func newOrdersModel(gateway *client.Authorized) ordersModel {
	return ordersModel{gateway: gateway}
}

func (m ordersModel) load() (ordersModel, tea.Cmd) {
	m.gen++
	m.loading = true
	m.err = nil
	m.status = ""
	m.detail = nil
	m.detailID = 0

	gen := m.gen
	gw := m.gateway
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		orders, err := gw.GetOrders(ctx)
		return ordersLoadedMsg{gen: gen, orders: orders, err: err}
	}
}

// openDetail fetches one order, cancelling a fetch for a previous id.
func (m ordersModel) openDetail(id int) (ordersModel, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.detailID = id
	m.detail = nil
	m.loading = true

	gw := m.gateway
	return m, func() tea.Msg {
		order, err := gw.GetOrder(ctx, id)
		return orderDetailMsg{id: id, order: order, err: err}
	}
}

func (m ordersModel) Update(msg tea.Msg) (ordersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
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
		m.orders = msg.orders
		if m.cursor >= len(m.orders) {
			m.cursor = 0
		}
		return m, nil

	case orderDetailMsg:
		if msg.id != m.detailID {
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
		m.detail = msg.order
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m ordersModel) updateKeys(msg tea.KeyMsg) (ordersModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.detailID != 0 {
			m.detail = nil
			m.detailID = 0
			m.loading = false
			return m, nil
		}
		return m, func() tea.Msg { return navigateShopMsg{} }
	case "up", "k":
		if m.detailID == 0 && m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.detailID == 0 && m.cursor < len(m.orders)-1 {
			m.cursor++
		}
	case "enter":
		if m.detailID == 0 && m.cursor < len(m.orders) {
			return m.openDetail(m.orders[m.cursor].ID)
		}
	case "c":
		id := m.detailID
		if id == 0 && m.cursor < len(m.orders) {
			id = m.orders[m.cursor].ID
		}
		if id == 0 {
			return m, nil
		}
		if err := clipboard.WriteAll(strconv.Itoa(id)); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("order #%d copied", id)
		}
	}
	return m, nil
}

func (m ordersModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Order History") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("loading…") + "\n")
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("error: "+m.err.Error()) + "\n")
	case m.detail != nil:
		b.WriteString(m.renderDetail())
	case len(m.orders) == 0:
		b.WriteString(" " + dimStyle.Render("no orders yet — start shopping to see them here") + "\n")
	default:
		for i, o := range m.orders {
			status := orderStatusStyle(o.Status).Render(fmt.Sprintf("%-10s", o.Status))
			line := fmt.Sprintf("#%-6d %s %10s  %s", o.ID, status, o.TotalAmount,
				dimStyle.Render(o.CreatedAt.Format("2006-01-02 15:04")))
			b.WriteString(renderRow(line, i == m.cursor))
		}
	}

	if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m ordersModel) renderDetail() string {
	o := m.detail
	var b strings.Builder
	b.WriteString(fmt.Sprintf(" Order #%d  %s\n", o.ID, orderStatusStyle(o.Status).Render(o.Status)))
	if o.PaymentID != nil {
		b.WriteString(" " + dimStyle.Render("payment "+*o.PaymentID) + "\n")
	}
	b.WriteString("\n")
	for _, it := range o.Items {
		b.WriteString(fmt.Sprintf("   %-30s ×%-3d %8s\n", truncate(it.Product.Name, 30), it.Quantity, it.Price))
	}
	b.WriteString("\n " + dimStyle.Render("total ") + accentStyle.Render(o.TotalAmount) + "\n")
	return b.String()
}
