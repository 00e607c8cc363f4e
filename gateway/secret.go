package gateway

import (
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Headers injetados em toda chamada interna. Minúsculos e únicos: o
// serviço interno confia no x-user-id apenas porque o x-internal-secret
// prova que a chamada veio do gateway.
const (
	HeaderUserID         = "x-user-id"
	HeaderInternalSecret = "x-internal-secret"
)

// SecretGate valida o secret compartilhado nas rotas internas do
// próprio gateway e injeta o secret nas chamadas de saída.
//
// Secret vazio liga o modo dev: fail-open explícito, com warning alto
// no log (limitado por rate.Sometimes para não inundar). É a única
// checagem fail-open do gateway e nunca deve ser usada em produção.
type SecretGate struct {
	secret string
	warn   rate.Sometimes
}

func NewSecretGate(secret string) *SecretGate {
	return &SecretGate{
		secret: secret,
		warn:   rate.Sometimes{First: 1, Interval: time.Minute},
	}
}

// Configured indica se o gate está em modo fail-closed.
func (g *SecretGate) Configured() bool { return g.secret != "" }

// Require é o middleware de validação de entrada.
//
// Mismatch vira 403 (Forbidden), distinto do 401 de sessão: "você não
// pode chamar isso direto" em vez de "quem é você".
func (g *SecretGate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.secret == "" {
			g.warn.Do(func() {
				log.Printf("WARNING: internal secret is not set; allowing internal call without auth (dev mode)")
			})
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get(HeaderInternalSecret)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(g.secret)) != 1 {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Inject grava o secret e a identidade verificada nos headers de uma
// chamada de saída. userID vazio (rota sem sessão) não emite header.
func (g *SecretGate) Inject(h http.Header, userID string) {
	h.Set(HeaderInternalSecret, g.secret)
	if userID != "" {
		h.Set(HeaderUserID, userID)
	}
}
