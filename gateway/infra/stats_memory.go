package infra

import (
	"context"
	"sync"

	"academiq-gateway/gateway/domain"
)

type Counters struct {
	Allowed int64 `json:"allowed"`
	Denied  int64 `json:"denied"`
}

// MemoryStatsStore acumula decisões de rate limit em memória.
//
// Alimenta a rota interna de stats do gateway e os testes. Não expira
// nada; para retenção/consulta fora do processo use o RedisStatsStore.
type MemoryStatsStore struct {
	mu      sync.Mutex
	total   Counters
	byScope map[string]Counters
	byRoute map[string]Counters
	byKey   map[string]Counters

	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byScope: make(map[string]Counters),
		byRoute: make(map[string]Counters),
		byKey:   make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	route := ev.Method + " " + ev.Path

	s.mu.Lock()
	defer s.mu.Unlock()

	bump := func(c Counters) Counters {
		if ev.Allowed {
			c.Allowed++
		} else {
			c.Denied++
		}
		return c
	}

	s.total = bump(s.total)
	if ev.Scope != "" {
		s.byScope[ev.Scope] = bump(s.byScope[ev.Scope])
	}
	s.byRoute[route] = bump(s.byRoute[route])
	if s.trackKeys {
		s.byKey[string(ev.Key)] = bump(s.byKey[string(ev.Key)])
	}
	return nil
}

// Snapshot é a visão serializável exposta na rota interna de stats.
type Snapshot struct {
	Total   Counters            `json:"total"`
	ByScope map[string]Counters `json:"byScope"`
	ByRoute map[string]Counters `json:"byRoute"`
	ByKey   map[string]Counters `json:"byKey,omitempty"`
}

func (s *MemoryStatsStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Total:   s.total,
		ByScope: cloneCounters(s.byScope),
		ByRoute: cloneCounters(s.byRoute),
	}
	if s.trackKeys {
		snap.ByKey = cloneCounters(s.byKey)
	}
	return snap
}

func cloneCounters(in map[string]Counters) map[string]Counters {
	out := make(map[string]Counters, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
