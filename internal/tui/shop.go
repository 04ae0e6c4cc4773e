package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buzzerapp/buzzer/pkg/client"
	"github.com/buzzerapp/buzzer/pkg/domain"
)

type shopTab int

const (
	tabRestaurants shopTab = iota
	tabCafes
	tabProducts
	numShopTabs
)

var shopTabTitles = [numShopTabs]string{"Restaurants", "Cafes", "Products"}

// merchantsLoadedMsg carries a merchant listing. tab identifies which fetch
// produced it so a response from a superseded tab is dropped.
type merchantsLoadedMsg struct {
	tab       shopTab
	merchants []domain.Merchant
	err       error
}

type productsLoadedMsg struct {
	products []domain.Product
	err      error
}

type shopModel struct {
	api       *client.Client
	tab       shopTab
	merchants []domain.Merchant
	products  []domain.Product
	cursor    int
	loading   bool
	err       error
	cancel    context.CancelFunc
	height    int
}

func newShopModel(api *client.Client) shopModel {
	return shopModel{api: api, height: 20, loading: true}
}

func (m shopModel) Init() tea.Cmd {
	// First load; nothing in flight to supersede yet.
	api := m.api
	return func() tea.Msg {
		merchants, err := api.ListMerchants(context.Background(), domain.AccountRestaurant)
		return merchantsLoadedMsg{tab: tabRestaurants, merchants: merchants, err: err}
	}
}

// loadTab cancels any in-flight fetch and starts loading the given tab.
func (m shopModel) loadTab(tab shopTab) (shopModel, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.tab = tab
	m.cursor = 0
	m.loading = true
	m.err = nil

	api := m.api
	if tab == tabProducts {
		return m, func() tea.Msg {
			products, err := api.ListProducts(ctx)
			return productsLoadedMsg{products: products, err: err}
		}
	}
	typ := domain.AccountRestaurant
	if tab == tabCafes {
		typ = domain.AccountCafe
	}
	return m, func() tea.Msg {
		merchants, err := api.ListMerchants(ctx, typ)
		return merchantsLoadedMsg{tab: tab, merchants: merchants, err: err}
	}
}

func (m shopModel) Update(msg tea.Msg) (shopModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case merchantsLoadedMsg:
		if msg.tab != m.tab {
			// A stale response from a tab the user already left.
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
		m.merchants = msg.merchants
		return m, nil

	case productsLoadedMsg:
		if m.tab != tabProducts {
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
		m.products = msg.products
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "right":
			return m.loadTab((m.tab + 1) % numShopTabs)
		case "shift+tab", "left":
			return m.loadTab((m.tab - 1 + numShopTabs) % numShopTabs)
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.rowCount()-1 {
				m.cursor++
			}
		case "enter":
			if m.tab == tabProducts && m.cursor < len(m.products) {
				id := m.products[m.cursor].ID
				return m, func() tea.Msg { return openProductMsg{id: id} }
			}
		}
	}
	return m, nil
}

func (m shopModel) rowCount() int {
	if m.tab == tabProducts {
		return len(m.products)
	}
	return len(m.merchants)
}

func (m shopModel) View() string {
	var b strings.Builder

	b.WriteString(" ")
	for t := shopTab(0); t < numShopTabs; t++ {
		if t == m.tab {
			b.WriteString(activeTabStyle.Render(shopTabTitles[t]))
		} else {
			b.WriteString(tabStyle.Render(shopTabTitles[t]))
		}
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("loading…") + "\n")
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("error: "+m.err.Error()) + "\n")
	case m.rowCount() == 0:
		b.WriteString(" " + dimStyle.Render("nothing here yet") + "\n")
	case m.tab == tabProducts:
		for i, p := range m.products {
			line := fmt.Sprintf("%-32s %8s", truncate(p.Name, 32), p.Price)
			if !p.IsAvailable {
				line += dimStyle.Render("  sold out")
			}
			b.WriteString(renderRow(line, i == m.cursor))
		}
	default:
		for i, mr := range m.merchants {
			line := fmt.Sprintf("%-32s %s", truncate(mr.FullName, 32), dimStyle.Render(mr.Phone))
			if !mr.IsActive {
				line += dimStyle.Render("  closed")
			}
			b.WriteString(renderRow(line, i == m.cursor))
		}
	}
	return b.String()
}

func renderRow(line string, selected bool) string {
	if selected {
		return cursorRowStyle.Render(" ▸ "+line) + "\n"
	}
	return "   " + line + "\n"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
