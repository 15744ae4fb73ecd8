package regen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Commander é o subconjunto do cliente Redis usado pelo publicador.
type Commander interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisConfig agrupa fila, deduplicação e política de retentativa.
type RedisConfig struct {
	Queue      string
	DedupTTL   time.Duration
	Attempts   uint
	RetryDelay time.Duration
}

// RedisPublisher enfileira jobs em uma lista Redis com deduplicação por versão.
type RedisPublisher struct {
	client Commander
	cfg    RedisConfig
	logger zerolog.Logger
}

// NewRedisPublisher cria o publicador aplicando valores padrão.
func NewRedisPublisher(client Commander, cfg RedisConfig, logger zerolog.Logger) *RedisPublisher {
	if cfg.Queue == "" {
		cfg.Queue = "midia:regen"
	}
	if cfg.DedupTTL <= 0 {
		cfg.DedupTTL = 10 * time.Minute
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 100 * time.Millisecond
	}
	return &RedisPublisher{client: client, cfg: cfg, logger: logger}
}

// Publish grava a chave de deduplicação e empilha o job.
// Devolve ErrDuplicate se a versão já estiver na janela.
func (p *RedisPublisher) Publish(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("regen: serializar job: %w", err)
	}

	key := p.dedupKey(job)
	duplicate := false
	// owned: a chave de deduplicação já é desta chamada; retentativas vão direto ao LPUSH
	owned := false

	err = retry.Do(func() error {
		if !owned {
			acquired, err := p.client.SetNX(ctx, key, job.RequestedAt.Unix(), p.cfg.DedupTTL).Result()
			if err != nil {
				return err
			}
			if !acquired {
				duplicate = true
				return nil
			}
			owned = true
		}
		return p.client.LPush(ctx, p.cfg.Queue, payload).Err()
	},
		retry.Context(ctx),
		retry.Attempts(p.cfg.Attempts),
		retry.Delay(p.cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn().Err(err).Uint("attempt", n+1).Str("key", key).Msg("regen: nova tentativa de publicação")
		}),
	)
	if err != nil {
		if owned {
			// libera a versão para o próximo pedido; se falhar, a chave expira em DedupTTL
			if delErr := p.client.Del(context.WithoutCancel(ctx), key).Err(); delErr != nil {
				p.logger.Error().Err(delErr).Str("key", key).Msg("regen: falha ao liberar chave de deduplicação")
				err = errors.Join(err, delErr)
			}
		}
		return fmt.Errorf("regen: publicar no redis: %w", err)
	}
	if duplicate {
		return ErrDuplicate
	}
	return nil
}

func (p *RedisPublisher) dedupKey(job Job) string {
	return fmt.Sprintf("%s:dedup:%s:%s:%s", p.cfg.Queue, job.TenantID, job.AssetID, job.VersionID)
}
