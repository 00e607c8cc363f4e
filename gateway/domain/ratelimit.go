package domain

import "time"

// Key identifica quem está sendo limitado (ex: IP do cliente).
type Key string

// LimitRule é uma janela fixa: no máximo MaxRequests por Window.
type LimitRule struct {
	MaxRequests int
	Window      time.Duration
}

// Decision é o resultado de uma checagem de rate limit.
type Decision struct {
	Allowed bool
	// RetryAfter é o tempo restante da janela quando bloqueia.
	RetryAfter time.Duration
}

// LimiterStore decide e contabiliza em uma única operação.
//
// Take é o check-and-increment inteiro: implementações devem garantir
// atomicidade por chave: duas requisições concorrentes da mesma chave
// nunca podem consumir a mesma vaga restante.
type LimiterStore interface {
	Take(Key) Decision
}
