package domain

import (
	"context"
	"errors"
)

// ErrUnauthenticated cobre qualquer falha de sessão (ausente, inválida,
// expirada). O gateway não distingue os casos para o cliente.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity é a identidade resolvida de uma sessão válida.
//
// Token é a credencial opaca apresentada pelo cliente; fica dentro do
// gateway e nunca é propagada para serviços internos.
type Identity struct {
	UserID string
	Token  string
}

// SessionVerifier valida uma credencial junto ao provedor de auth
// (colaborador externo). Implementações não sabem nada de rate limit
// nem de secret interno.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
