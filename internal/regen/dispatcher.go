package regen

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gestaozabele/midia/internal/media"
	"github.com/gestaozabele/midia/internal/metrics"
)

const (
	publishTimeout = 10 * time.Second
	// prazo total para publicar o que restou no buffer depois de Stop
	defaultDrainTimeout = 5 * time.Second
)

// Dispatcher agenda regenerações sem bloquear quem chama Trigger.
// Jobs excedentes ou recebidos após Stop são descartados com aviso.
type Dispatcher struct {
	publisher Publisher
	jobs      chan Job
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	drain     time.Duration

	mu       sync.RWMutex
	stopped  bool
	once     sync.Once
	stopOnce sync.Once
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewDispatcher cria o despachante com buffer do tamanho informado.
func NewDispatcher(publisher Publisher, buffer int, logger zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Dispatcher{
		publisher: publisher,
		jobs:      make(chan Job, buffer),
		logger:    logger,
		metrics:   m,
		now:       time.Now,
		drain:     defaultDrainTimeout,
	}
}

// Trigger implementa media.RegenerationTrigger.
func (d *Dispatcher) Trigger(asset *media.Asset, versionID string) {
	if asset == nil {
		return
	}
	job := Job{
		TenantID:    asset.TenantID,
		AssetID:     asset.ID,
		VersionID:   versionID,
		FileName:    asset.FileName,
		MimeType:    asset.MimeType,
		RequestedAt: d.now().UTC(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(job, "despachante encerrado")
		return
	}

	select {
	case d.jobs <- job:
		d.metrics.RegenerationEnqueued()
	default:
		d.drop(job, "buffer cheio")
	}
}

// Start inicia o loop de publicação. Safe para chamar múltiplas vezes.
// O loop sobrevive ao cancelamento de parent; só Stop o encerra.
func (d *Dispatcher) Start(parent context.Context) {
	d.once.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.stopped {
			return
		}
		ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
		d.cancel = cancel
		d.wg.Add(1)
		go d.run(ctx)
	})
}

// Stop recusa novos jobs e publica os pendentes dentro do prazo de drenagem.
// Vencido o prazo, a publicação em curso é cancelada e o restante descartado.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.jobs)
		cancel := d.cancel
		d.mu.Unlock()

		if cancel == nil {
			return
		}
		deadline := time.AfterFunc(d.drain, cancel)
		d.wg.Wait()
		deadline.Stop()
		cancel()
	})
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	d.logger.Info().Int("buffer", cap(d.jobs)).Msg("regen: loop iniciado")

	for job := range d.jobs {
		if ctx.Err() != nil {
			d.drop(job, "prazo de encerramento esgotado")
			continue
		}
		d.publish(ctx, job)
	}

	d.logger.Info().Msg("regen: loop encerrado")
}

func (d *Dispatcher) publish(ctx context.Context, job Job) {
	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := d.publisher.Publish(publishCtx, job)
	switch {
	case err == nil:
		d.metrics.RegenerationPublished("published")
		d.logger.Debug().Str("asset", job.AssetID.String()).Str("version", job.VersionID).Msg("regen: job publicado")
	case errors.Is(err, ErrDuplicate):
		d.metrics.RegenerationPublished("duplicate")
	default:
		d.metrics.RegenerationPublished("failed")
		d.logger.Error().Err(err).Str("asset", job.AssetID.String()).Str("version", job.VersionID).Msg("regen: publicação falhou")
	}
}

func (d *Dispatcher) drop(job Job, reason string) {
	d.metrics.RegenerationDropped()
	d.logger.Warn().Str("asset", job.AssetID.String()).Str("version", job.VersionID).Str("reason", reason).Msg("regen: job descartado")
}
