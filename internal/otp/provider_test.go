package otp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func verifyServer(t *testing.T, handler http.HandlerFunc) *VerifyClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewVerifyClient(srv.URL, "test-key")
}

func TestVerifyClientSendCode(t *testing.T) {
	var gotBody map[string]string
	v := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/sendVerificationCode" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"sessionInfo": "sess-1"}) //nolint:errcheck
	})

	handle, err := v.SendCode(context.Background(), "ch-token", "+201234567890")
	if err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if handle != "sess-1" {
		t.Errorf("handle = %q, want sess-1", handle)
	}
	if gotBody["phoneNumber"] != "+201234567890" || gotBody["recaptchaToken"] != "ch-token" {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestVerifyClientConfirmCode(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
		wantOK  bool
		wantErr bool
	}{
		{"accepted", http.StatusOK, `{"phoneNumber":"+201234567890"}`, true, false},
		{"wrong code", http.StatusBadRequest, `{"error":{"message":"INVALID_CODE"}}`, false, false},
		{"expired session", http.StatusBadRequest, `{"error":{"message":"SESSION_EXPIRED"}}`, false, false},
		{"stale handle", http.StatusBadRequest, `{"error":{"message":"INVALID_SESSION_INFO"}}`, false, false},
		{"provider fault", http.StatusInternalServerError, `{"error":{"message":"INTERNAL"}}`, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload)) //nolint:errcheck
			})
			ok, err := v.ConfirmCode(context.Background(), "sess-1", "123456")
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyClientInitChallenge(t *testing.T) {
	v := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/recaptchaParams" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"recaptchaStoken": "ch-1"}) //nolint:errcheck
	})
	challenge, err := v.InitChallenge(context.Background())
	if err != nil {
		t.Fatalf("InitChallenge: %v", err)
	}
	if challenge != "ch-1" {
		t.Errorf("challenge = %q", challenge)
	}
}
