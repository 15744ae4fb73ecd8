package regen

import (
	"context"

	"github.com/rs/zerolog"
)

// LogPublisher apenas registra os jobs; usado quando não há Redis configurado.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, job Job) error {
	p.logger.Info().
		Str("tenant", job.TenantID.String()).
		Str("asset", job.AssetID.String()).
		Str("version", job.VersionID).
		Msg("regen: regeneração solicitada")
	return nil
}
