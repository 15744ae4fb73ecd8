package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port            int
	DBDSN           string
	RedisURL        string
	JWTAccessTTL    time.Duration
	JWTSecret       string
	AllowOrigins    []string
	LogLevel        string
	LogFormat       string
	MediaPathPrefix string
	ConfigCacheTTL  time.Duration
	RateLimitPublic RateLimitConfig
	RateLimitAdmin  RateLimitConfig
	Storage         StorageConfig
	Regen           RegenConfig
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// StorageConfig descreve o backend de blobs.
type StorageConfig struct {
	Provider     string
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	PublicDomain string
}

// RegenConfig controla a fila de regeneração de variantes.
type RegenConfig struct {
	Buffer        int
	Queue         string
	DedupTTL      time.Duration
	RetryAttempts int
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	port, err := parseIntEnv("PORT", 8080)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.DBDSN = getEnv("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obrigatório")
	}

	// sem Redis os pedidos de regeneração são apenas registrados em log
	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET deve ter pelo menos 32 caracteres")
	}

	if cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", 15*time.Minute); err != nil {
		return nil, err
	}

	cfg.AllowOrigins = splitList(getEnv("ALLOW_ORIGINS", ""))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info")))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", "json")))

	cfg.MediaPathPrefix = "/" + strings.Trim(strings.TrimSpace(getEnv("MEDIA_PATH_PREFIX", "/o/adaptive-media/image")), "/")
	if cfg.MediaPathPrefix == "/" {
		return nil, errors.New("MEDIA_PATH_PREFIX não pode ser a raiz")
	}

	if cfg.ConfigCacheTTL, err = parseDurationEnv("CONFIG_CACHE_TTL", 2*time.Minute); err != nil {
		return nil, err
	}

	if cfg.RateLimitPublic, err = parseRateLimit("RATE_LIMIT_PUBLIC", RateLimitConfig{RequestsPerSecond: 50, Burst: 100}); err != nil {
		return nil, err
	}
	if cfg.RateLimitAdmin, err = parseRateLimit("RATE_LIMIT_ADMIN", RateLimitConfig{RequestsPerSecond: 10, Burst: 40}); err != nil {
		return nil, err
	}

	if cfg.Storage, err = loadStorage(); err != nil {
		return nil, err
	}
	if cfg.Regen, err = loadRegen(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadStorage() (StorageConfig, error) {
	sc := StorageConfig{
		Provider:     strings.ToLower(strings.TrimSpace(getEnv("STORAGE_PROVIDER", "noop"))),
		Endpoint:     strings.TrimSpace(getEnv("S3_ENDPOINT", "")),
		Region:       strings.TrimSpace(getEnv("S3_REGION", "auto")),
		Bucket:       strings.TrimSpace(getEnv("S3_BUCKET", "")),
		AccessKey:    strings.TrimSpace(getEnv("S3_ACCESS_KEY", "")),
		SecretKey:    strings.TrimSpace(getEnv("S3_SECRET_KEY", "")),
		PublicDomain: strings.TrimSpace(getEnv("S3_PUBLIC_DOMAIN", "")),
	}

	switch sc.Provider {
	case "noop", "memory":
	case "s3", "r2":
		if sc.Endpoint == "" || sc.Bucket == "" || sc.AccessKey == "" || sc.SecretKey == "" {
			return sc, errors.New("S3_ENDPOINT, S3_BUCKET, S3_ACCESS_KEY e S3_SECRET_KEY são obrigatórios")
		}
	default:
		return sc, errors.New("STORAGE_PROVIDER inválido")
	}
	return sc, nil
}

func loadRegen() (RegenConfig, error) {
	rc := RegenConfig{Queue: strings.TrimSpace(getEnv("REGEN_QUEUE", "midia:regen"))}

	var err error
	if rc.Buffer, err = parseIntEnv("REGEN_BUFFER", 256); err != nil || rc.Buffer <= 0 {
		return rc, errors.New("REGEN_BUFFER inválido")
	}
	if rc.DedupTTL, err = parseDurationEnv("REGEN_DEDUP_TTL", 10*time.Minute); err != nil {
		return rc, err
	}
	if rc.RetryAttempts, err = parseIntEnv("REGEN_RETRY_ATTEMPTS", 3); err != nil || rc.RetryAttempts <= 0 {
		return rc, errors.New("REGEN_RETRY_ATTEMPTS inválido")
	}
	if rc.Queue == "" {
		rc.Queue = "midia:regen"
	}
	return rc, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseIntEnv(key string, def int) (int, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return n, nil
}

// parseRateLimit lê KEY_RPS e KEY_BURST.
func parseRateLimit(prefix string, def RateLimitConfig) (RateLimitConfig, error) {
	rl := def
	if raw := strings.TrimSpace(getEnv(prefix+"_RPS", "")); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return rl, errors.New(prefix + "_RPS inválido")
		}
		rl.RequestsPerSecond = rps
	}
	burst, err := parseIntEnv(prefix+"_BURST", def.Burst)
	if err != nil || burst <= 0 {
		return rl, errors.New(prefix + "_BURST inválido")
	}
	rl.Burst = burst
	return rl, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
