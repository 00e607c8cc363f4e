package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"academiq-gateway/gateway/application"
	"academiq-gateway/gateway/domain"
	"academiq-gateway/gateway/infra"
)

// Mensagens de bloqueio por escopo (viram o corpo do 429).
const (
	msgGlobalLimited   = "Too many requests from this IP, please try again after 15 minutes"
	msgAILimited       = "Too many AI requests from this IP, please try again later"
	msgRecoveryLimited = "Too many requests. Please try again later."
)

// Options junta os colaboradores do gateway, todos construídos no boot.
type Options struct {
	Forwarder *Forwarder
	Auth      application.AuthService
	Gate      *SecretGate

	// Uma instância de store por limiter: estados independentes.
	Global   domain.LimiterStore
	AIRoutes domain.LimiterStore
	Recovery domain.LimiterStore

	Stats  domain.StatsStore
	Memory *infra.MemoryStatsStore

	AllowedOrigins []string
	TrustXFF       bool
}

type Gateway struct {
	fwd    *Forwarder
	auth   application.AuthService
	gate   *SecretGate
	opts   Options
	memory *infra.MemoryStatsStore
}

func New(opts Options) *Gateway {
	return &Gateway{
		fwd:    opts.Forwarder,
		auth:   opts.Auth,
		gate:   opts.Gate,
		opts:   opts,
		memory: opts.Memory,
	}
}

// Handler monta a árvore de rotas.
//
// Ordem por requisição: request-id → CORS → limite global → limite da
// classe de rota → sessão → validação → forward. O limite global roda
// antes de qualquer trabalho de identidade: a requisição 101 de um IP
// leva 429 sem sequer tocar o provedor de auth.
func (g *Gateway) Handler() http.Handler {
	keyFn := ClientIP(g.opts.TrustXFF)

	globalLimit := RateLimit(LimitOptions{
		Store:   g.opts.Global,
		Stats:   g.opts.Stats,
		Scope:   "global",
		KeyFn:   keyFn,
		Message: msgGlobalLimited,
	})
	aiLimit := RateLimit(LimitOptions{
		Store:   g.opts.AIRoutes,
		Stats:   g.opts.Stats,
		Scope:   "ai",
		KeyFn:   keyFn,
		Message: msgAILimited,
	})
	recoveryLimit := RateLimit(LimitOptions{
		Store:   g.opts.Recovery,
		Stats:   g.opts.Stats,
		Scope:   "recovery",
		KeyFn:   keyFn,
		Message: msgRecoveryLimited,
	})
	requireSession := RequireSession(g.auth)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(CORS(g.opts.AllowedOrigins))
	r.Use(globalLimit)

	r.Get("/", g.handleHealth)
	r.Get("/healthz", g.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.With(recoveryLimit).Post("/auth/recover", g.handleRecover)

		r.Route("/study-plan", func(r chi.Router) {
			r.Use(aiLimit)
			r.Use(requireSession)
			r.Get("/", g.handleListPlans)
			r.Post("/", g.handleCreatePlan)
			r.Delete("/", g.handleDeletePlan)
		})

		r.Route("/curate-resources", func(r chi.Router) {
			r.Use(aiLimit)
			r.Use(requireSession)
			r.Get("/", g.handleListResources)
			r.Post("/", g.handleCreateResource)
			r.Delete("/", g.handleDeleteResource)
		})

		r.Route("/pdf", func(r chi.Router) {
			r.Use(requireSession)
			r.Get("/", g.handleListPDFs)
			r.Post("/", g.handleUploadPDF)
			r.Delete("/", g.handleDeletePDF)
			r.Get("/{documentID}", g.handleFetchPDF)
			r.Post("/{documentID}/chat", g.handleChatPDF)
		})
	})

	// Rotas internas: só o próprio gateway (ou um peer confiável com o
	// secret) pode chamar. Sessão de usuário não vale aqui.
	r.Route("/internal", func(r chi.Router) {
		r.Use(g.gate.Require)
		r.Get("/stats", g.handleStats)
	})

	return r
}
