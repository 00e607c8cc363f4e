package application

import (
	"testing"
	"time"

	"academiq-gateway/gateway/domain"
)

type fakeStore struct {
	dec domain.Decision
}

func (s fakeStore) Take(domain.Key) domain.Decision { return s.dec }

func TestService_Decide_AllowsWhenNoStore(t *testing.T) {
	svc := Service{}
	dec := svc.Decide("k")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_PassesStoreDecisionThrough(t *testing.T) {
	svc := Service{Store: fakeStore{dec: domain.Decision{Allowed: false, RetryAfter: 40 * time.Second}}}
	dec := svc.Decide("k")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 40*time.Second {
		t.Fatalf("expected RetryAfter=40s, got %s", dec.RetryAfter)
	}
}
