package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"academiq-gateway/gateway/application"
	"academiq-gateway/gateway/domain"
)

type stubVerifier struct {
	calls int
	id    domain.Identity
	err   error
}

func (v *stubVerifier) Verify(context.Context, string) (domain.Identity, error) {
	v.calls++
	return v.id, v.err
}

func TestRequireSession_NoCredentialIs401WithoutVerifierCall(t *testing.T) {
	v := &stubVerifier{id: domain.Identity{UserID: "u1"}}
	calls := 0
	h := RequireSession(application.AuthService{Verifier: v})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	r := httptest.NewRequest(http.MethodGet, "http://example/api/pdf", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if v.calls != 0 {
		t.Fatalf("expected verifier not to be called for missing credential")
	}
	if calls != 0 {
		t.Fatalf("expected handler not to be reached")
	}
}

func TestRequireSession_InvalidSessionIsSame401(t *testing.T) {
	v := &stubVerifier{err: errors.New("signature mismatch")}
	h := RequireSession(application.AuthService{Verifier: v})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "http://example/api/pdf", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bad"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	// mesmo corpo do caso "sem credencial": nada vaza sobre o motivo
	if w.Body.String() != `{"error":"Unauthorized"}` {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestRequireSession_CookieAndBearerBothWork(t *testing.T) {
	for name, decorate := range map[string]func(*http.Request){
		"cookie": func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
		},
		"bearer": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer tok")
		},
	} {
		t.Run(name, func(t *testing.T) {
			v := &stubVerifier{id: domain.Identity{UserID: "u1"}}
			var got domain.Identity
			h := RequireSession(application.AuthService{Verifier: v})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = IdentityFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			r := httptest.NewRequest(http.MethodGet, "http://example/api/pdf", nil)
			decorate(r)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if got.UserID != "u1" {
				t.Fatalf("expected identity in context, got %+v", got)
			}
		})
	}
}
