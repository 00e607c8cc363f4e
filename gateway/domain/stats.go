package domain

import (
	"context"
	"time"
)

// StatsEvent registra uma decisão de rate limit.
//
// Scope identifica a instância do limiter (global, ai, recovery):
// cada limiter tem seu próprio store e seu próprio espaço de chaves,
// então as contagens nunca se misturam.
//
// Cuidado com cardinalidade: gravar Key sem controle pode explodir o
// número de chaves no backend (por isso o track de keys é opcional).
type StatsEvent struct {
	Key     Key
	Scope   string
	Allowed bool

	Method string
	Path   string

	At time.Time
}

// StatsStore persiste estatísticas de decisão. Sempre best-effort:
// erro de gravação nunca derruba a requisição.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
