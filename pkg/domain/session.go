package domain

// Session is the authenticated identity bound to this client instance.
// The access and refresh tokens are opaque strings; they are set together or
// both absent. Profile may lag behind the tokens (not yet hydrated) but is
// never present without them.
type Session struct {
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	Type         AccountType  `json:"account_type,omitempty"`
	Profile      *UserProfile `json:"profile,omitempty"`
}

// Authenticated reports whether the session holds a complete token pair.
// Profile readiness is independent of this.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}
