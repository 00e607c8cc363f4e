package infra

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"academiq-gateway/gateway/domain"
)

func TestWindowStore_AllowsUpToMaxThenDenies(t *testing.T) {
	clk := NewManualClock(time.Unix(1000, 0))
	s := NewWindowStore(domain.LimitRule{MaxRequests: 3, Window: time.Minute}, WithClock(clk))

	for i := 0; i < 3; i++ {
		require.True(t, s.Take("10.0.0.1").Allowed, "request %d should pass", i+1)
	}

	dec := s.Take("10.0.0.1")
	require.False(t, dec.Allowed)
	require.Greater(t, dec.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, dec.RetryAfter, time.Minute)
}

func TestWindowStore_RetryAfterIsRemainingWindow(t *testing.T) {
	clk := NewManualClock(time.Unix(1000, 0))
	s := NewWindowStore(domain.LimitRule{MaxRequests: 1, Window: time.Minute}, WithClock(clk))

	require.True(t, s.Take("k").Allowed)

	clk.Advance(20 * time.Second)
	dec := s.Take("k")
	require.False(t, dec.Allowed)
	require.Equal(t, 40*time.Second, dec.RetryAfter)
}

func TestWindowStore_WindowExpiryResetsCounter(t *testing.T) {
	clk := NewManualClock(time.Unix(1000, 0))
	s := NewWindowStore(domain.LimitRule{MaxRequests: 2, Window: time.Minute}, WithClock(clk))

	require.True(t, s.Take("k").Allowed)
	require.True(t, s.Take("k").Allowed)
	require.False(t, s.Take("k").Allowed)

	clk.Advance(time.Minute + time.Second)

	// janela nova: o reset conta a própria requisição (count=1)
	require.True(t, s.Take("k").Allowed)
	require.True(t, s.Take("k").Allowed)
	require.False(t, s.Take("k").Allowed)
}

// No instante exato em que a janela completa, o contador reseta: a
// requisição abre uma janela nova em vez de levar deny com RetryAfter
// zerado. Todo deny carrega RetryAfter positivo.
func TestWindowStore_ExactWindowBoundaryOpensNewWindow(t *testing.T) {
	clk := NewManualClock(time.Unix(1000, 0))
	s := NewWindowStore(domain.LimitRule{MaxRequests: 1, Window: time.Minute}, WithClock(clk))

	require.True(t, s.Take("k").Allowed)

	// um instante antes do fim: deny, ainda com restante positivo
	clk.Advance(time.Minute - time.Millisecond)
	dec := s.Take("k")
	require.False(t, dec.Allowed)
	require.Equal(t, time.Millisecond, dec.RetryAfter)

	// exatamente no fim da janela: reseta e permite
	clk.Advance(time.Millisecond)
	require.True(t, s.Take("k").Allowed)
}

func TestWindowStore_KeysAreIndependent(t *testing.T) {
	clk := NewManualClock(time.Unix(1000, 0))
	s := NewWindowStore(domain.LimitRule{MaxRequests: 1, Window: time.Minute}, WithClock(clk))

	require.True(t, s.Take("a").Allowed)
	require.False(t, s.Take("a").Allowed)
	require.True(t, s.Take("b").Allowed)
}

// Duas instâncias com a mesma chave não compartilham estado: esgotar o
// limiter de recovery não mexe no contador do global.
func TestWindowStore_InstancesAreIndependent(t *testing.T) {
	clk := NewManualClock(time.Unix(1000, 0))
	global := NewWindowStore(domain.LimitRule{MaxRequests: 100, Window: 15 * time.Minute}, WithClock(clk))
	recovery := NewWindowStore(domain.LimitRule{MaxRequests: 3, Window: time.Hour}, WithClock(clk))

	for i := 0; i < 3; i++ {
		require.True(t, recovery.Take("ip").Allowed)
	}
	require.False(t, recovery.Take("ip").Allowed)

	require.True(t, global.Take("ip").Allowed)
}

// Cenário do limite global: 100 passam, a 101 leva deny com retry
// dentro da janela de 15 minutos.
func TestWindowStore_GlobalScenario(t *testing.T) {
	clk := NewManualClock(time.Unix(1000, 0))
	s := NewWindowStore(domain.LimitRule{MaxRequests: 100, Window: 15 * time.Minute}, WithClock(clk))

	for i := 0; i < 100; i++ {
		require.True(t, s.Take("X").Allowed, "request %d", i+1)
		clk.Advance(500 * time.Millisecond) // 100 requisições em ~1 minuto
	}

	dec := s.Take("X")
	require.False(t, dec.Allowed)
	require.Greater(t, dec.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, dec.RetryAfter, 15*time.Minute)
}

// O contrato central: check-and-increment é atômico. N goroutines
// disputando a mesma chave nunca conseguem mais vagas do que o máximo.
func TestWindowStore_ConcurrentTakeNeverOverAllows(t *testing.T) {
	s := NewWindowStore(domain.LimitRule{MaxRequests: 10, Window: time.Minute})

	const workers = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if s.Take("hot-key").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 10, allowed)
}

func TestWindowStore_CleanupSweepsLongExpiredWindows(t *testing.T) {
	clk := NewManualClock(time.Unix(1000, 0))
	s := NewWindowStore(domain.LimitRule{MaxRequests: 1, Window: time.Minute},
		WithClock(clk), WithIdleTTL(time.Minute))

	require.True(t, s.Take("old").Allowed)
	require.Equal(t, 1, s.Len())

	// janela vencida mas dentro do idleTTL: fica
	clk.Advance(90 * time.Second)
	s.Cleanup()
	require.Equal(t, 1, s.Len())

	clk.Advance(time.Hour)
	s.Cleanup()
	require.Equal(t, 0, s.Len())

	// chave varrida volta como nunca vista
	require.True(t, s.Take("old").Allowed)
}
