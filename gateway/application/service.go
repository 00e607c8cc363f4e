package application

import "academiq-gateway/gateway/domain"

// Service concentra a regra de aplicação do rate limit.
//
// Não sabe nada sobre HTTP (headers/status), apenas retorna a decisão.
type Service struct {
	Store domain.LimiterStore
}

func (s Service) Decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	return s.Store.Take(key)
}
