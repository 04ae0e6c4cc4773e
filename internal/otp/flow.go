package otp

import (
	"context"
	"errors"
	"fmt"

	"github.com/buzzerapp/buzzer/internal/session"
	"github.com/buzzerapp/buzzer/pkg/client"
	"github.com/buzzerapp/buzzer/pkg/domain"
)

// State is a flow step.
type State int

const (
	// CollectingIdentity: gathering phone (and registration fields).
	CollectingIdentity State = iota
	// ChallengeSent: the provider delivered a code for the current handle.
	ChallengeSent
	// Verified: the provider confirmed the user's code.
	Verified
	// Done: the backend issued tokens and the session manager adopted them.
	Done
)

// Validation and ordering errors, surfaced inline before any network call.
var (
	ErrPhoneRequired  = errors.New("phone number is required")
	ErrFieldsRequired = errors.New("all registration fields are required")
	ErrCodeIncomplete = errors.New("code must be 6 digits")
	ErrNoChallenge    = errors.New("no code has been sent yet")
	ErrNotVerified    = errors.New("phone is not verified yet")
)

// Identity is what the flow collects in step 1.
type Identity struct {
	Phone    string
	Type     domain.AccountType
	FullName string
	Email    string
	Password string
	Address  string
	City     string
}

// Backend is the slice of the API client the flow finalizes against.
type Backend interface {
	Login(ctx context.Context, typ domain.AccountType, phone string) (domain.TokenPair, error)
	Register(ctx context.Context, req client.RegisterRequest) (domain.TokenPair, error)
}

// SessionSink receives the issued tokens. *session.Manager satisfies it.
type SessionSink interface {
	Login(ctx context.Context, typ domain.AccountType, tokens domain.TokenPair) error
}

// Flow is the provider-verified enrollment state machine:
//
//	CollectingIdentity -> ChallengeSent -> Verified -> Done
//
// Resending a code keeps the flow in ChallengeSent with a fresh handle (the
// old one becomes invalid). A wrong code leaves the flow in ChallengeSent.
// Finalization is only permitted once the provider has confirmed the code.
// Errors never corrupt the flow; every step can simply be retried.
type Flow struct {
	provider Provider
	backend  Backend
	sessions SessionSink
	store    *session.Store

	countryCode string
	register    bool

	state     State
	identity  Identity
	challenge string
	handle    string
	verified  bool
}

// NewLoginFlow creates a flow that finalizes with the login endpoint.
func NewLoginFlow(p Provider, b Backend, s SessionSink, store *session.Store, countryCode string) *Flow {
	return &Flow{provider: p, backend: b, sessions: s, store: store, countryCode: countryCode}
}

// NewRegisterFlow creates a flow that finalizes with the register endpoint.
func NewRegisterFlow(p Provider, b Backend, s SessionSink, store *session.Store, countryCode string) *Flow {
	return &Flow{provider: p, backend: b, sessions: s, store: store, countryCode: countryCode, register: true}
}

// State returns the current step.
func (f *Flow) State() State { return f.state }

// Verified reports whether the provider confirmed the code.
func (f *Flow) Verified() bool { return f.verified }

// Identity returns the collected identity (phone already normalized once the
// flow has advanced past step 1).
func (f *Flow) Identity() Identity { return f.identity }

// Restore recovers the transient identity of an interrupted flow, if any.
// The verification handle is never persisted, so a restored flow starts back
// at CollectingIdentity with the identity prefilled and a code must be
// re-sent.
func (f *Flow) Restore() bool {
	scratch, ok := f.store.LoadFlow()
	if !ok {
		return false
	}
	f.identity.Phone = scratch.Phone
	f.identity.Type = scratch.Type
	f.state = CollectingIdentity
	return true
}

// Begin validates the identity, normalizes the phone, starts the provider
// challenge and requests code delivery. On success the flow is in
// ChallengeSent holding the verification handle.
func (f *Flow) Begin(ctx context.Context, id Identity) error {
	if id.Phone == "" {
		return ErrPhoneRequired
	}
	if !id.Type.Valid() {
		id.Type = domain.AccountCustomer
	}
	if f.register && (id.FullName == "" || id.Email == "" || id.Password == "") {
		return ErrFieldsRequired
	}

	id.Phone = NormalizePhone(id.Phone, f.countryCode)
	f.identity = id

	if f.challenge == "" {
		challenge, err := f.provider.InitChallenge(ctx)
		if err != nil {
			return fmt.Errorf("start verification: %w", err)
		}
		f.challenge = challenge
	}

	handle, err := f.provider.SendCode(ctx, f.challenge, id.Phone)
	if err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	f.handle = handle
	f.verified = false
	f.state = ChallengeSent

	// Scratch only matters for recovery after an interruption.
	_ = f.store.SaveFlow(session.FlowScratch{Phone: id.Phone, Type: id.Type})
	return nil
}

// Resend delivers a fresh code. The new handle replaces the old one, which
// the provider no longer honours.
func (f *Flow) Resend(ctx context.Context) error {
	if f.state < ChallengeSent {
		return ErrNoChallenge
	}
	handle, err := f.provider.SendCode(ctx, f.challenge, f.identity.Phone)
	if err != nil {
		return fmt.Errorf("resend code: %w", err)
	}
	f.handle = handle
	f.verified = false
	f.state = ChallengeSent
	return nil
}

// Submit confirms a user-entered code against the live handle. A wrong code
// returns (false, nil) and the flow stays in ChallengeSent; the user may try
// again or resend. Codes shorter than six digits never reach the provider.
func (f *Flow) Submit(ctx context.Context, code string) (bool, error) {
	if f.state < ChallengeSent || f.handle == "" {
		return false, ErrNoChallenge
	}
	code = SanitizeCode(code)
	if !CodeComplete(code) {
		return false, ErrCodeIncomplete
	}

	ok, err := f.provider.ConfirmCode(ctx, f.handle, code)
	if err != nil {
		return false, fmt.Errorf("verify code: %w", err)
	}
	if !ok {
		return false, nil
	}
	f.verified = true
	f.state = Verified
	return true, nil
}

// CanFinalize reports whether the submit action should be enabled for the
// given raw code input.
func (f *Flow) CanFinalize(code string) bool {
	return f.verified && CodeComplete(SanitizeCode(code))
}

// Finalize calls the backend (login or register), hands the issued tokens to
// the session manager and clears the transient flow state. Only permitted
// after the provider confirmed the code.
func (f *Flow) Finalize(ctx context.Context) error {
	if !f.verified {
		return ErrNotVerified
	}

	var (
		tokens domain.TokenPair
		err    error
	)
	if f.register {
		tokens, err = f.backend.Register(ctx, client.RegisterRequest{
			Type:     f.identity.Type,
			FullName: f.identity.FullName,
			Email:    f.identity.Email,
			Phone:    f.identity.Phone,
			Password: f.identity.Password,
			Address:  f.identity.Address,
			City:     f.identity.City,
		})
	} else {
		tokens, err = f.backend.Login(ctx, f.identity.Type, f.identity.Phone)
	}
	if err != nil {
		return err
	}

	if err := f.sessions.Login(ctx, f.identity.Type, tokens); err != nil {
		return err
	}
	f.state = Done
	f.handle = ""
	f.challenge = ""
	_ = f.store.ClearFlow()
	return nil
}

// Abandon discards all flow state, as when the user navigates back to step 1.
func (f *Flow) Abandon() {
	f.state = CollectingIdentity
	f.handle = ""
	f.challenge = ""
	f.verified = false
	f.identity = Identity{}
	_ = f.store.ClearFlow()
}
