package infra

import (
	"sync"
	"time"

	"academiq-gateway/gateway/domain"
)

// WindowStore implementa domain.LimiterStore com contador de janela
// fixa por chave.
//
// Todo o check-and-increment acontece dentro de um único trecho
// crítico: entre ler o contador e gravar o incremento não há ponto de
// suspensão nem liberação do lock, então duas requisições concorrentes
// da mesma chave nunca consomem a mesma vaga.
//
// Cada instância tem seu próprio mapa e seu próprio espaço de chaves.
// O gateway usa instâncias independentes para o limite global, o de
// rotas de IA e o de recuperação de conta; um reset em uma nunca
// afeta o teto de outra.
type WindowStore struct {
	mu      sync.Mutex
	entries map[domain.Key]*windowEntry

	rule  domain.LimitRule
	clock Clock

	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type windowEntry struct {
	count       int
	windowStart time.Time
}

type WindowStoreOption func(*WindowStore)

func WithClock(c Clock) WindowStoreOption {
	return func(s *WindowStore) { s.clock = c }
}

// WithIdleTTL controla por quanto tempo uma janela já vencida ainda
// fica no mapa antes do janitor varrer.
func WithIdleTTL(d time.Duration) WindowStoreOption {
	return func(s *WindowStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) WindowStoreOption {
	return func(s *WindowStore) { s.cleanupEvery = d }
}

func NewWindowStore(rule domain.LimitRule, opts ...WindowStoreOption) *WindowStore {
	s := &WindowStore{
		entries:      make(map[domain.Key]*windowEntry),
		rule:         rule,
		clock:        SystemClock(),
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WindowStore) Rule() domain.LimitRule { return s.rule }

// Take implementa domain.LimiterStore.
//
// Semântica da janela:
//   - chave nunca vista: count=1, windowStart=now, permite
//   - janela vencida (elapsed >= Window): reseta (count=1,
//     windowStart=now), permite
//   - count < max: incrementa, permite
//   - senão: nega com RetryAfter = tempo restante da janela
//
// Um deny só acontece dentro da janela, então RetryAfter é sempre
// positivo.
func (s *WindowStore) Take(key domain.Key) domain.Decision {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		s.entries[key] = &windowEntry{count: 1, windowStart: now}
		return domain.Decision{Allowed: true}
	}

	elapsed := now.Sub(ent.windowStart)
	if elapsed >= s.rule.Window {
		ent.count = 1
		ent.windowStart = now
		return domain.Decision{Allowed: true}
	}

	if ent.count < s.rule.MaxRequests {
		ent.count++
		return domain.Decision{Allowed: true}
	}

	return domain.Decision{Allowed: false, RetryAfter: s.rule.Window - elapsed}
}

// Len retorna o número de chaves vivas no mapa (inclui vencidas ainda
// não varridas).
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup remove entradas cuja janela venceu há mais de idleTTL.
// A correção não depende disso; é só para o mapa não crescer sem
// limite com IPs que nunca voltam.
func (s *WindowStore) Cleanup() {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if now.Sub(ent.windowStart) > s.rule.Window+s.idleTTL {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que varre chaves vencidas
// periodicamente. Pare cancelando o contexto.
func (s *WindowStore) StartJanitor(ctx DoneContext) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem
// importar context aqui. (Permite reuso em libs sem acoplar.)
type DoneContext interface {
	Done() <-chan struct{}
}
