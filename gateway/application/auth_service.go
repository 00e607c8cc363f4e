package application

import (
	"context"
	"strings"

	"academiq-gateway/gateway/domain"
)

// AuthService resolve a identidade de uma credencial de sessão.
//
// Qualquer falha (credencial vazia, malformada, expirada, assinatura
// inválida) vira domain.ErrUnauthenticated: o chamador não consegue
// distinguir "ausente" de "inválida", de propósito.
type AuthService struct {
	Verifier domain.SessionVerifier
}

func (s AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" || s.Verifier == nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	id, err := s.Verifier.Verify(ctx, token)
	if err != nil || id.UserID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	id.Token = token
	return id, nil
}
