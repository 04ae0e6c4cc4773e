package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buzzerapp/buzzer/internal/otp"
	"github.com/buzzerapp/buzzer/pkg/domain"
)

type registerField int

const (
	regFieldFullName registerField = iota
	regFieldEmail
	regFieldPhone
	regFieldPassword
	regFieldAddress
	regFieldCity
	numRegFields
)

var regFieldLabels = [numRegFields]string{
	"full name", "email", "phone", "password", "address", "city",
}

type registerStep int

const (
	regStepIdentity registerStep = iota
	regStepCode
)

type registerModel struct {
	flow    *otp.Flow
	step    registerStep
	typ     domain.AccountType
	fields  [numRegFields]string
	focus   registerField
	code    string
	pending bool
	status  string
}

func newRegisterModel(flow *otp.Flow) registerModel {
	return registerModel{flow: flow, typ: domain.AccountCustomer}
}

func (m registerModel) reset() registerModel {
	m.flow.Abandon()
	m.step = regStepIdentity
	m.typ = domain.AccountCustomer
	m.fields = [numRegFields]string{}
	m.focus = regFieldFullName
	m.code = ""
	m.pending = false
	m.status = ""
	return m
}

// merchant reports whether the selected account type takes address/city.
func (m registerModel) merchant() bool {
	return m.typ == domain.AccountCafe || m.typ == domain.AccountRestaurant
}

func (m registerModel) lastField() registerField {
	if m.merchant() {
		return regFieldCity
	}
	return regFieldPassword
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case codeSentMsg:
		m.pending = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.step = regStepCode
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
		return m, m.finalizeCmd()

	case finalizedMsg:
		m.pending = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		return m, func() tea.Msg { return loggedInMsg{} }

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m registerModel) updateKeys(msg tea.KeyMsg) (registerModel, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	key := msg.String()

	if m.step == regStepCode {
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
			// Back discards the challenge; identity fields stay editable.
			m.flow.Abandon()
			m.step = regStepIdentity
			m.code = ""
			m.status = ""
			return m, nil
		case "backspace":
			m.code = editField(m.code, key)
		default:
			m.code = otp.SanitizeCode(m.code + key)
		}
		return m, nil
	}

	switch key {
	case "esc":
		return m, func() tea.Msg { return navigateShopMsg{} }
	case "tab", "down":
		m.focus = m.nextField(m.focus, 1)
	case "shift+tab", "up":
		m.focus = m.nextField(m.focus, -1)
	case "left", "right":
		m.typ = m.typ.Next()
		if !m.merchant() && m.focus > regFieldPassword {
			m.focus = regFieldPassword
		}
	case "enter":
		if m.focus != m.lastField() {
			m.focus = m.nextField(m.focus, 1)
			return m, nil
		}
		m.pending = true
		m.status = ""
		return m, m.sendCmd(false)
	default:
		m.fields[m.focus] = editField(m.fields[m.focus], key)
	}
	return m, nil
}

func (m registerModel) nextField(f registerField, dir int) registerField {
	n := int(m.lastField()) + 1
	return registerField((int(f) + dir + n) % n)
}

func (m registerModel) identity() otp.Identity {
	return otp.Identity{
		Phone:    m.fields[regFieldPhone],
		Type:     m.typ,
		FullName: m.fields[regFieldFullName],
		Email:    m.fields[regFieldEmail],
		Password: m.fields[regFieldPassword],
		Address:  m.fields[regFieldAddress],
		City:     m.fields[regFieldCity],
	}
}

func (m registerModel) sendCmd(resend bool) tea.Cmd {
	flow := m.flow
	id := m.identity()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		var err error
		if resend {
			err = flow.Resend(ctx)
		} else {
			err = flow.Begin(ctx, id)
		}
		return codeSentMsg{resend: resend, err: err}
	}
}

func (m registerModel) verifyCmd(code string) tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		ok, err := flow.Submit(ctx, code)
		return codeCheckedMsg{ok: ok, err: err}
	}
}

func (m registerModel) finalizeCmd() tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return finalizedMsg{err: flow.Finalize(ctx)}
	}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.step == regStepCode {
		masked := otp.MaskPhone(m.flow.Identity().Phone)
		b.WriteString(" " + titleStyle.Render("Verify your phone") + "\n")
		b.WriteString(" " + dimStyle.Render("Enter the authentication code we sent at "+masked) + "\n\n")
		b.WriteString(" " + renderField("code", m.code, !m.pending, false) + "\n")
	} else {
		b.WriteString(" " + titleStyle.Render("Register") + "\n")
		b.WriteString(" " + fieldLabelStyle.Render("account") + accentStyle.Render(string(m.typ)) + dimStyle.Render("  ←/→ change") + "\n\n")
		for f := regFieldFullName; f <= m.lastField(); f++ {
			secret := f == regFieldPassword
			b.WriteString(" " + renderField(regFieldLabels[f], m.fields[f], f == m.focus && !m.pending, secret) + "\n")
		}
	}

	if m.pending {
		b.WriteString("\n " + dimStyle.Render("working…") + "\n")
	}
	if m.status != "" {
		b.WriteString("\n " + errorStyle.Render(m.status) + "\n")
	}
	return b.String()
}
