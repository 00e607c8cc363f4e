package gateway

import (
	"context"
	"net/http"
	"strings"

	"academiq-gateway/gateway/application"
	"academiq-gateway/gateway/domain"
)

// SessionCookieName é o cookie de sessão emitido pelo provedor de auth.
const SessionCookieName = "academiq_session"

type ctxKey int

const identityKey ctxKey = 0

// WithIdentity anexa a identidade resolvida ao contexto da requisição.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom retorna a identidade resolvida, se houver.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

// sessionToken extrai a credencial: cookie de sessão, com fallback
// para Authorization: Bearer. O conteúdo é opaco para o gateway.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// RequireSession autentica a requisição e injeta a Identity no
// contexto. Toda falha vira o mesmo 401: credencial ausente e
// credencial inválida são indistinguíveis para o cliente.
func RequireSession(svc application.AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := svc.Authenticate(r.Context(), sessionToken(r))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
