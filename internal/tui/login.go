package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buzzerapp/buzzer/internal/otp"
)

type loginStep int

const (
	loginStepPhone loginStep = iota
	loginStepCode
)

// loggedInMsg tells the app a session now exists.
type loggedInMsg struct{}

// codeSentMsg carries the outcome of sending (or resending) a code.
type codeSentMsg struct {
	resend bool
	err    error
}

// codeCheckedMsg carries the provider's verdict on a submitted code.
type codeCheckedMsg struct {
	ok  bool
	err error
}

// finalizedMsg carries the outcome of the backend login/register call.
type finalizedMsg struct {
	err error
}

type loginModel struct {
	flow    *otp.Flow
	step    loginStep
	phone   string
	code    string
	pending bool
	status  string
}

func newLoginModel(flow *otp.Flow) loginModel {
	m := loginModel{flow: flow}
	// Prefill the phone if an interrupted flow left scratch behind.
	if flow.Restore() {
		m.phone = flow.Identity().Phone
	}
	return m
}

// reset returns the model to step 1, discarding flow state. status seeds the
// first message line (e.g. "session expired").
func (m loginModel) reset(status string) loginModel {
	m.flow.Abandon()
	m.step = loginStepPhone
	m.code = ""
	m.pending = false
	m.status = status
	return m
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case codeSentMsg:
		m.pending = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.step = loginStepCode
		m.code = ""
		if msg.resend {
			m.status = "a new code is on its way"
		} else {
			m.status = ""
		}
		return m, nil

	case codeCheckedMsg:
		if msg.err != nil {
			m.pending = false
			m.status = msg.err.Error()
			return m, nil
		}
		if !msg.ok {
			m.pending = false
			m.status = "invalid code, try again"
			return m, nil
		}
		// Verified: finalize against the backend while still pending.
		return m, m.finalizeCmd()

	case finalizedMsg:
		m.pending = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = ""
		return m, func() tea.Msg { return loggedInMsg{} }

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	key := msg.String()

	switch m.step {
	case loginStepPhone:
		switch key {
		case "enter":
			if strings.TrimSpace(m.phone) == "" {
				m.status = otp.ErrPhoneRequired.Error()
				return m, nil
			}
			m.pending = true
			m.status = ""
			return m, m.sendCmd(false)
		case "esc":
			return m, func() tea.Msg { return navigateShopMsg{} }
		default:
			m.phone = editField(m.phone, key)
		}

	case loginStepCode:
		switch key {
		case "enter":
			code := otp.SanitizeCode(m.code)
			if !otp.CodeComplete(code) {
				m.status = otp.ErrCodeIncomplete.Error()
				return m, nil
			}
			m.pending = true
			m.status = ""
			return m, m.verifyCmd(code)
		case "r":
			m.pending = true
			m.status = ""
			return m, m.sendCmd(true)
		case "esc":
			// Back to step 1 discards all flow state.
			return m.reset(""), nil
		case "backspace":
			m.code = editField(m.code, key)
		default:
			m.code = otp.SanitizeCode(m.code + key)
		}
	}
	return m, nil
}

func (m loginModel) sendCmd(resend bool) tea.Cmd {
	flow := m.flow
	phone := m.phone
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		var err error
		if resend {
			err = flow.Resend(ctx)
		} else {
			err = flow.Begin(ctx, otp.Identity{Phone: phone})
		}
		return codeSentMsg{resend: resend, err: err}
	}
}

func (m loginModel) verifyCmd(code string) tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		ok, err := flow.Submit(ctx, code)
		return codeCheckedMsg{ok: ok, err: err}
	}
}

func (m loginModel) finalizeCmd() tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return finalizedMsg{err: flow.Finalize(ctx)}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	switch m.step {
	case loginStepPhone:
		b.WriteString(" " + titleStyle.Render("Welcome!") + "\n")
		b.WriteString(" " + dimStyle.Render("Log in with your phone number") + "\n\n")
		b.WriteString(" " + renderField("phone", m.phone, !m.pending, false) + "\n")
	case loginStepCode:
		masked := otp.MaskPhone(m.flow.Identity().Phone)
		b.WriteString(" " + titleStyle.Render("Login Code") + "\n")
		b.WriteString(" " + dimStyle.Render("Enter the authentication code we sent at "+masked) + "\n\n")
		b.WriteString(" " + renderField("code", m.code, !m.pending, false) + "\n")
	}

	if m.pending {
		b.WriteString("\n " + dimStyle.Render("working…") + "\n")
	}
	if m.status != "" {
		b.WriteString("\n " + errorStyle.Render(m.status) + "\n")
	}
	return b.String()
}
