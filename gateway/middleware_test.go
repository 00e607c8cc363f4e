package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"academiq-gateway/gateway/domain"
	"academiq-gateway/gateway/infra"
)

func TestRateLimit_AllowsThenRejectsSameKey(t *testing.T) {
	store := infra.NewWindowStore(domain.LimitRule{MaxRequests: 1, Window: time.Minute})

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	h := RateLimit(LimitOptions{Store: store, Scope: "global"})(next)

	r1 := httptest.NewRequest(http.MethodGet, "http://example/api/pdf", nil)
	r1.RemoteAddr = "10.0.0.1:1234"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}

	r2 := httptest.NewRequest(http.MethodGet, "http://example/api/pdf", nil)
	r2.RemoteAddr = "10.0.0.1:5678" // mesma origem, porta diferente
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
	if got := w2.Header().Get("Retry-After"); got == "" {
		t.Fatalf("expected Retry-After header to be set")
	}
	if body := w2.Body.String(); !strings.Contains(body, "Too many requests") {
		t.Fatalf("expected rate limit message in body, got %q", body)
	}

	if calls != 1 {
		t.Fatalf("expected next handler to be called once, got %d", calls)
	}
}

func TestRateLimit_DifferentIPsDoNotShareBudget(t *testing.T) {
	store := infra.NewWindowStore(domain.LimitRule{MaxRequests: 1, Window: time.Minute})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RateLimit(LimitOptions{Store: store})(next)

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", addr, w.Code)
		}
	}
}

func TestRateLimit_RecordsStats(t *testing.T) {
	store := infra.NewWindowStore(domain.LimitRule{MaxRequests: 1, Window: time.Minute})
	stats := infra.NewMemoryStatsStore()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RateLimit(LimitOptions{Store: store, Stats: stats, Scope: "ai"})(next)

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodPost, "http://example/api/study-plan", nil)
		r.RemoteAddr = "10.0.0.1:1"
		h.ServeHTTP(httptest.NewRecorder(), r)
	}

	snap := stats.Snapshot()
	if snap.ByScope["ai"].Allowed != 1 || snap.ByScope["ai"].Denied != 1 {
		t.Fatalf("expected 1 allowed / 1 denied for scope ai, got %+v", snap.ByScope["ai"])
	}
}

func TestClientIP_TrustXFFOnlyWhenEnabled(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:1234"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if got := ClientIP(false)(r); got != "10.0.0.9" {
		t.Fatalf("expected RemoteAddr host without trustXFF, got %q", got)
	}
	if got := ClientIP(true)(r); got != "203.0.113.7" {
		t.Fatalf("expected first XFF entry with trustXFF, got %q", got)
	}
}
