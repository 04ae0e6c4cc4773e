package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buzzerapp/buzzer/internal/otp"
	"github.com/buzzerapp/buzzer/internal/session"
)

func newTestLoginModel(t *testing.T) loginModel {
	t.Helper()
	store := session.NewStore(t.TempDir())
	return newLoginModel(otp.NewLoginFlow(nil, nil, nil, store, "+20"))
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoginPhoneStepRenders(t *testing.T) {
	m := newTestLoginModel(t)
	view := m.View()
	if !strings.Contains(view, "Welcome!") {
		t.Errorf("expected welcome title, got:\n%s", view)
	}
	if !strings.Contains(view, "phone") {
		t.Errorf("expected phone field, got:\n%s", view)
	}
}

func TestLoginTypingFillsPhone(t *testing.T) {
	m := newTestLoginModel(t)
	for _, r := range "0100" {
		m, _ = m.Update(keyPress(string(r)))
	}
	if m.phone != "0100" {
		t.Errorf("phone = %q", m.phone)
	}
	if !strings.Contains(m.View(), "0100") {
		t.Errorf("typed phone not rendered:\n%s", m.View())
	}
}

func TestLoginEnterWithEmptyPhoneShowsError(t *testing.T) {
	m := newTestLoginModel(t)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for empty phone")
	}
	if !strings.Contains(m.View(), "phone number is required") {
		t.Errorf("expected inline validation error, got:\n%s", m.View())
	}
}

func TestLoginEnterSendsCode(t *testing.T) {
	m := newTestLoginModel(t)
	m.phone = "0100"
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected send command")
	}
	if !m.pending {
		t.Error("expected pending while the code is in flight")
	}
	if !strings.Contains(m.View(), "working…") {
		t.Errorf("expected pending indicator, got:\n%s", m.View())
	}
}

func TestLoginCodeSentAdvancesToCodeStep(t *testing.T) {
	m := newTestLoginModel(t)
	m.pending = true
	m, _ = m.Update(codeSentMsg{})
	if m.step != loginStepCode {
		t.Fatalf("step = %d, want loginStepCode", m.step)
	}
	if m.pending {
		t.Error("still pending after codeSentMsg")
	}
	if !strings.Contains(m.View(), "Login Code") {
		t.Errorf("expected code step view, got:\n%s", m.View())
	}
}

func TestLoginCodeSentErrorStaysOnPhoneStep(t *testing.T) {
	m := newTestLoginModel(t)
	m.pending = true
	m, _ = m.Update(codeSentMsg{err: errors.New("provider unreachable")})
	if m.step != loginStepPhone {
		t.Errorf("step = %d, want loginStepPhone", m.step)
	}
	if !strings.Contains(m.View(), "provider unreachable") {
		t.Errorf("expected error in view, got:\n%s", m.View())
	}
}

func TestLoginResendShowsConfirmation(t *testing.T) {
	m := newTestLoginModel(t)
	m.step = loginStepCode
	m, _ = m.Update(codeSentMsg{resend: true})
	if !strings.Contains(m.View(), "a new code is on its way") {
		t.Errorf("expected resend confirmation, got:\n%s", m.View())
	}
}

func TestLoginCodeInputFiltersNonDigits(t *testing.T) {
	m := newTestLoginModel(t)
	m.step = loginStepCode
	for _, key := range []string{"1", "a", "2", "!", "3"} {
		m, _ = m.Update(keyPress(key))
	}
	if m.code != "123" {
		t.Errorf("code = %q, want digits only", m.code)
	}
}

func TestLoginCodeInputCapsAtSix(t *testing.T) {
	m := newTestLoginModel(t)
	m.step = loginStepCode
	for _, r := range "12345678" {
		m, _ = m.Update(keyPress(string(r)))
	}
	if m.code != "123456" {
		t.Errorf("code = %q, want capped at 6 digits", m.code)
	}
}

func TestLoginIncompleteCodeNeverSubmits(t *testing.T) {
	m := newTestLoginModel(t)
	m.step = loginStepCode
	m.code = "123"
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an incomplete code")
	}
	if !strings.Contains(m.View(), "code must be 6 digits") {
		t.Errorf("expected inline validation, got:\n%s", m.View())
	}
}

func TestLoginWrongCodeStaysOnCodeStep(t *testing.T) {
	m := newTestLoginModel(t)
	m.step = loginStepCode
	m.pending = true
	m, cmd := m.Update(codeCheckedMsg{ok: false})
	if cmd != nil {
		t.Error("expected no command after a rejected code")
	}
	if m.step != loginStepCode || m.pending {
		t.Errorf("step=%d pending=%v, want code step and not pending", m.step, m.pending)
	}
	if !strings.Contains(m.View(), "invalid code, try again") {
		t.Errorf("expected retry prompt, got:\n%s", m.View())
	}
}

func TestLoginVerifiedCodeFinalizes(t *testing.T) {
	m := newTestLoginModel(t)
	m.step = loginStepCode
	m.pending = true
	m, cmd := m.Update(codeCheckedMsg{ok: true})
	if cmd == nil {
		t.Fatal("expected finalize command after verification")
	}
	if !m.pending {
		t.Error("expected to stay pending through finalization")
	}
}

func TestLoginFinalizedEmitsLoggedIn(t *testing.T) {
	m := newTestLoginModel(t)
	m.pending = true
	m, cmd := m.Update(finalizedMsg{})
	if cmd == nil {
		t.Fatal("expected loggedInMsg command")
	}
	if _, ok := cmd().(loggedInMsg); !ok {
		t.Errorf("cmd produced %T, want loggedInMsg", cmd())
	}
}

func TestLoginFinalizeErrorShown(t *testing.T) {
	m := newTestLoginModel(t)
	m.step = loginStepCode
	m.pending = true
	m, _ = m.Update(finalizedMsg{err: errors.New("account is deactivated")})
	if !strings.Contains(m.View(), "account is deactivated") {
		t.Errorf("expected backend error in view, got:\n%s", m.View())
	}
}

func TestLoginEscFromCodeStepResets(t *testing.T) {
	m := newTestLoginModel(t)
	m.step = loginStepCode
	m.code = "123"
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.step != loginStepPhone || m.code != "" {
		t.Errorf("step=%d code=%q after esc, want phone step with empty code", m.step, m.code)
	}
}

func TestLoginKeysIgnoredWhilePending(t *testing.T) {
	m := newTestLoginModel(t)
	m.pending = true
	m, cmd := m.Update(keyPress("5"))
	if cmd != nil || m.phone != "" {
		t.Errorf("input accepted while pending: phone=%q", m.phone)
	}
}

func TestLoginResetSeedsStatus(t *testing.T) {
	m := newTestLoginModel(t)
	m.step = loginStepCode
	m = m.reset("session expired, please log in again")
	if m.step != loginStepPhone {
		t.Errorf("step = %d", m.step)
	}
	if !strings.Contains(m.View(), "session expired") {
		t.Errorf("expected seeded status, got:\n%s", m.View())
	}
}

func TestLoginRestoresInterruptedFlowPhone(t *testing.T) {
	store := session.NewStore(t.TempDir())
	if err := store.SaveFlow(session.FlowScratch{Phone: "+201234567890"}); err != nil {
		t.Fatal(err)
	}
	m := newLoginModel(otp.NewLoginFlow(nil, nil, nil, store, "+20"))
	if m.phone != "+201234567890" {
		t.Errorf("phone = %q, want the interrupted flow's phone prefilled", m.phone)
	}
	if m.step != loginStepPhone {
		t.Errorf("step = %d, want phone step (codes are never recoverable)", m.step)
	}
}
