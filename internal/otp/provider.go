package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider is the phone-verification capability, treated as opaque: start a
// challenge, ask it to deliver a code, confirm the code the user typed. The
// handle returned by SendCode identifies one delivered code; sending again
// invalidates the previous handle.
type Provider interface {
	InitChallenge(ctx context.Context) (challenge string, err error)
	SendCode(ctx context.Context, challenge, e164Phone string) (handle string, err error)
	ConfirmCode(ctx context.Context, handle, code string) (bool, error)
}

// VerifyClient talks to an Identity-Toolkit-style phone verification API over
// HTTP. The sessionInfo value it returns from sendVerificationCode is the
// opaque verification handle.
type VerifyClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewVerifyClient creates a provider client for the given API base and key.
func NewVerifyClient(baseURL, apiKey string) *VerifyClient {
	return &VerifyClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// InitChallenge obtains the bot-check token the provider requires before it
// will deliver codes.
func (v *VerifyClient) InitChallenge(ctx context.Context) (string, error) {
	var out struct {
		RecaptchaStoken string `json:"recaptchaStoken"`
	}
	if err := v.call(ctx, http.MethodGet, "/v1/recaptchaParams", nil, &out); err != nil {
		return "", fmt.Errorf("otp: init challenge: %w", err)
	}
	if out.RecaptchaStoken == "" {
		return "", fmt.Errorf("otp: init challenge: empty challenge token")
	}
	return out.RecaptchaStoken, nil
}

// SendCode asks the provider to deliver a code to the given E.164 number and
// returns the handle for confirming it.
func (v *VerifyClient) SendCode(ctx context.Context, challenge, e164Phone string) (string, error) {
	body := map[string]string{
		"phoneNumber":    e164Phone,
		"recaptchaToken": challenge,
	}
	var out struct {
		SessionInfo string `json:"sessionInfo"`
	}
	if err := v.call(ctx, http.MethodPost, "/v1/sendVerificationCode", body, &out); err != nil {
		return "", fmt.Errorf("otp: send code: %w", err)
	}
	if out.SessionInfo == "" {
		return "", fmt.Errorf("otp: send code: no session info in response")
	}
	return out.SessionInfo, nil
}

// ConfirmCode submits a user-entered code against a handle. A wrong or
// expired code yields (false, nil); only transport or provider faults are
// errors.
func (v *VerifyClient) ConfirmCode(ctx context.Context, handle, code string) (bool, error) {
	body := map[string]string{
		"sessionInfo": handle,
		"code":        code,
	}
	err := v.call(ctx, http.MethodPost, "/v1/verifyPhoneNumber", body, nil)
	if err == nil {
		return true, nil
	}
	var pe *providerError
	if errors.As(err, &pe) && pe.rejectedCode() {
		return false, nil
	}
	return false, fmt.Errorf("otp: confirm code: %w", err)
}

// providerError is the provider's structured error payload.
type providerError struct {
	StatusCode int
	Code       string
}

func (e *providerError) Error() string {
	return fmt.Sprintf("provider %d: %s", e.StatusCode, e.Code)
}

// rejectedCode reports whether the error means "that code is wrong", as
// opposed to a fault in the provider or the request.
func (e *providerError) rejectedCode() bool {
	switch e.Code {
	case "INVALID_CODE", "SESSION_EXPIRED", "INVALID_SESSION_INFO":
		return true
	}
	return false
}

func (v *VerifyClient) call(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	url := v.baseURL + path
	if v.apiKey != "" {
		url += "?key=" + v.apiKey
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) //nolint:errcheck // best-effort read
		var payload struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		code := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &payload) == nil && payload.Error.Message != "" {
			code = payload.Error.Message
		}
		return &providerError{StatusCode: resp.StatusCode, Code: code}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
