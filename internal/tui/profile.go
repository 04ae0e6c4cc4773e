package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buzzerapp/buzzer/internal/session"
)

// logoutRequestedMsg asks the app to end the session.
type logoutRequestedMsg struct{}

type profileModel struct {
	sessions *session.Manager
}

func newProfileModel(sessions *session.Manager) profileModel {
	return profileModel{sessions: sessions}
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "L":
			if m.sessions.Authenticated() {
				return m, func() tea.Msg { return logoutRequestedMsg{} }
			}
		case "esc":
			return m, func() tea.Msg { return navigateShopMsg{} }
		}
	}
	return m, nil
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Profile") + "\n\n")

	if !m.sessions.Authenticated() {
		b.WriteString(" " + dimStyle.Render("not signed in — press l to log in") + "\n")
		return b.String()
	}

	p := m.sessions.Profile()
	if p == nil {
		// Tokens exist but hydration is pending or failed; still signed in.
		b.WriteString(" " + dimStyle.Render("profile not loaded yet") + "\n")
		b.WriteString("\n " + helpStyle.Render("L log out") + "\n")
		return b.String()
	}

	b.WriteString(" " + fieldLabelStyle.Render("name") + p.FullName + "\n")
	b.WriteString(" " + fieldLabelStyle.Render("phone") + p.Phone + "\n")
	b.WriteString(" " + fieldLabelStyle.Render("email") + p.Email + "\n")
	if p.PricingPlan != "" {
		b.WriteString(" " + fieldLabelStyle.Render("plan") + p.PricingPlan + "\n")
	}
	if !p.IsActive {
		b.WriteString(" " + errorStyle.Render("account inactive") + "\n")
	}
	b.WriteString("\n " + helpStyle.Render("L log out") + "\n")
	return b.String()
}
