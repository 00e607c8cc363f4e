// Package config centraliza o carregamento de configurações do gateway.
//
// Tudo vem do ambiente (com suporte a .env via godotenv), é validado uma
// única vez no boot e entregue como struct imutável. Nenhum pacote lê
// variáveis de ambiente fora daqui.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string

	// DownstreamURL é a base dos serviços internos (plan, resources, pdf).
	DownstreamURL string

	// SessionVerifyURL é o endpoint do provedor de auth que valida a
	// credencial de sessão. Se vazio, deriva de DownstreamURL.
	SessionVerifyURL string

	// InternalSecret vazio liga o modo dev (fail-open, com warning).
	InternalSecret string

	AllowedOrigins []string
	TrustXFF       bool

	ForwardTimeout time.Duration
	MaxInFlight    int

	Global   LimitConfig
	AIRoutes LimitConfig
	Recovery LimitConfig

	Stats StatsConfig
}

// LimitConfig parametriza uma janela fixa de rate limit.
type LimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

type StatsConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
	TTL           time.Duration
	TrackKeys     bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	cfg.ListenAddr = getEnv("LISTEN_ADDR", ":8080")
	cfg.DownstreamURL = strings.TrimSpace(os.Getenv("DOWNSTREAM_URL"))
	cfg.SessionVerifyURL = strings.TrimSpace(os.Getenv("SESSION_VERIFY_URL"))
	cfg.InternalSecret = os.Getenv("INTERNAL_SECRET")
	cfg.AllowedOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000"))

	var err error
	if cfg.TrustXFF, err = getBool("TRUST_XFF", false); err != nil {
		return Config{}, err
	}
	if cfg.ForwardTimeout, err = getDuration("FORWARD_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.MaxInFlight, err = getInt("MAX_IN_FLIGHT", 100); err != nil {
		return Config{}, err
	}

	if cfg.Global, err = loadLimit("GLOBAL_RATE", 100, 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.AIRoutes, err = loadLimit("AI_RATE", 10, 1*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Recovery, err = loadLimit("RECOVERY_RATE", 3, 1*time.Hour); err != nil {
		return Config{}, err
	}

	if cfg.Stats, err = loadStats(); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.SessionVerifyURL == "" {
		cfg.SessionVerifyURL = strings.TrimRight(cfg.DownstreamURL, "/") + "/auth/session"
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.DownstreamURL == "" {
		return errors.New("DOWNSTREAM_URL is required")
	}
	if _, err := url.Parse(c.DownstreamURL); err != nil {
		return fmt.Errorf("invalid DOWNSTREAM_URL: %w", err)
	}
	if c.ForwardTimeout <= 0 {
		return errors.New("FORWARD_TIMEOUT must be > 0")
	}
	if c.MaxInFlight < 0 {
		return errors.New("MAX_IN_FLIGHT must be >= 0")
	}
	for _, lim := range []struct {
		name string
		lc   LimitConfig
	}{
		{"GLOBAL_RATE", c.Global},
		{"AI_RATE", c.AIRoutes},
		{"RECOVERY_RATE", c.Recovery},
	} {
		if lim.lc.MaxRequests <= 0 {
			return fmt.Errorf("%s_MAX must be > 0", lim.name)
		}
		if lim.lc.Window <= 0 {
			return fmt.Errorf("%s_WINDOW must be > 0", lim.name)
		}
	}
	return nil
}

func loadLimit(prefix string, defMax int, defWindow time.Duration) (LimitConfig, error) {
	max, err := getInt(prefix+"_MAX", defMax)
	if err != nil {
		return LimitConfig{}, err
	}
	window, err := getDuration(prefix+"_WINDOW", defWindow)
	if err != nil {
		return LimitConfig{}, err
	}
	return LimitConfig{MaxRequests: max, Window: window}, nil
}

func loadStats() (StatsConfig, error) {
	s := StatsConfig{
		RedisAddr:     strings.TrimSpace(os.Getenv("STATS_REDIS_ADDR")),
		RedisPassword: os.Getenv("STATS_REDIS_PASSWORD"),
		Prefix:        getEnv("STATS_PREFIX", "gateway:stats"),
	}
	var err error
	if s.RedisDB, err = getInt("STATS_REDIS_DB", 0); err != nil {
		return StatsConfig{}, err
	}
	if s.TTL, err = getDuration("STATS_TTL", 24*time.Hour); err != nil {
		return StatsConfig{}, err
	}
	if s.TrackKeys, err = getBool("STATS_TRACK_KEYS", false); err != nil {
		return StatsConfig{}, err
	}
	return s, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return i, nil
}

func getBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", k, err)
	}
	return b, nil
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return d, nil
}
