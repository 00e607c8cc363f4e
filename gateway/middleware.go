package gateway

import (
	"net"
	"net/http"
	"strings"
	"time"

	"academiq-gateway/gateway/application"
	"academiq-gateway/gateway/domain"
)

type KeyFunc func(r *http.Request) string

// ClientIP extrai a chave de limitação da requisição.
//
// Só confia em X-Forwarded-For quando o gateway está atrás de um proxy
// conhecido (trustXFF); caso contrário o header é controlado pelo
// cliente e furaria o limite.
func ClientIP(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			// primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				parts := strings.Split(xff, ",")
				if ip := strings.TrimSpace(parts[0]); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

type LimitOptions struct {
	Store domain.LimiterStore
	Stats domain.StatsStore
	// Scope identifica a instância nos stats (global, ai, recovery).
	Scope   string
	KeyFn   KeyFunc
	Message string
}

// RateLimit devolve o middleware de uma instância de limiter.
//
// Cada instância carrega seu próprio Store; empilhar instâncias numa
// rota (global e depois classe) mantém contagens independentes.
func RateLimit(opts LimitOptions) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = ClientIP(false)
	}
	if opts.Message == "" {
		opts.Message = "Too many requests, please try again later."
	}

	svc := application.Service{Store: opts.Store}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			dec := svc.Decide(domain.Key(key))
			if opts.Stats != nil {
				// best-effort: stats nunca derrubam a requisição
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     domain.Key(key),
					Scope:   opts.Scope,
					Allowed: dec.Allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}
			if !dec.Allowed {
				writeRateLimited(w, dec.RetryAfter, opts.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
