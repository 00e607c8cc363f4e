package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"academiq-gateway/config"
	"academiq-gateway/gateway"
	"academiq-gateway/gateway/application"
	"academiq-gateway/gateway/domain"
	"academiq-gateway/gateway/infra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Um store por limiter: global, rotas de IA e recuperação de conta
	// têm janelas, chaves e resets totalmente independentes.
	globalStore := infra.NewWindowStore(rule(cfg.Global))
	aiStore := infra.NewWindowStore(rule(cfg.AIRoutes))
	recoveryStore := infra.NewWindowStore(rule(cfg.Recovery))
	globalStore.StartJanitor(ctx)
	aiStore.StartJanitor(ctx)
	recoveryStore.StartJanitor(ctx)

	memory := infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.Stats.TrackKeys))
	var stats domain.StatsStore = memory
	if cfg.Stats.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Stats.RedisAddr,
			Password: cfg.Stats.RedisPassword,
			DB:       cfg.Stats.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		pingCancel()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		stats = multiStats{memory, infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.Stats.Prefix),
			infra.WithStatsTTL(cfg.Stats.TTL),
			infra.WithStatsTrackKeys(cfg.Stats.TrackKeys),
		)}
	}

	gate := gateway.NewSecretGate(cfg.InternalSecret)
	if !gate.Configured() {
		log.Printf("WARNING: INTERNAL_SECRET is not set; internal routes run fail-open (dev mode only)")
	}

	verifier := infra.NewSessionClient(cfg.SessionVerifyURL, 5*time.Second)

	fwdOpts := []gateway.ForwarderOption{gateway.WithGETRetry(true)}
	if cfg.MaxInFlight > 0 {
		fwdOpts = append(fwdOpts, gateway.WithSlots(infra.NewChanPool(cfg.MaxInFlight), cfg.ForwardTimeout))
	}
	fwd, err := gateway.NewForwarder(cfg.DownstreamURL, cfg.ForwardTimeout, gate, fwdOpts...)
	if err != nil {
		log.Fatalf("invalid DOWNSTREAM_URL: %v", err)
	}

	gw := gateway.New(gateway.Options{
		Forwarder:      fwd,
		Auth:           application.AuthService{Verifier: verifier},
		Gate:           gate,
		Global:         globalStore,
		AIRoutes:       aiStore,
		Recovery:       recoveryStore,
		Stats:          stats,
		Memory:         memory,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustXFF:       cfg.TrustXFF,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("gateway listening on %s -> %s", cfg.ListenAddr, cfg.DownstreamURL)
	log.Printf("rate: global=%d/%s ai=%d/%s recovery=%d/%s trustXFF=%v",
		cfg.Global.MaxRequests, cfg.Global.Window,
		cfg.AIRoutes.MaxRequests, cfg.AIRoutes.Window,
		cfg.Recovery.MaxRequests, cfg.Recovery.Window,
		cfg.TrustXFF)
	log.Printf("stats: redisAddr=%q trackKeys=%v", cfg.Stats.RedisAddr, cfg.Stats.TrackKeys)
	log.Printf("secret gate: configured=%v", gate.Configured())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func rule(lc config.LimitConfig) domain.LimitRule {
	return domain.LimitRule{MaxRequests: lc.MaxRequests, Window: lc.Window}
}

// multiStats replica cada evento em todos os sinks (memória + Redis).
type multiStats []domain.StatsStore

func (m multiStats) Record(ctx context.Context, ev domain.StatsEvent) error {
	var firstErr error
	for _, s := range m {
		if err := s.Record(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
