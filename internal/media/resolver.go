package media

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gestaozabele/midia/internal/metrics"
)

// RequestResolver escolhe a melhor variante disponível para uma requisição.
// Cada chamada é síncrona e não guarda estado entre resoluções.
type RequestResolver struct {
	interpreter    PathInterpreter
	configurations ConfigurationResolver
	finder         VariantFinder
	trigger        RegenerationTrigger
	logger         zerolog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

// Option personaliza o RequestResolver.
type Option func(*RequestResolver)

// WithLogger define o logger do componente.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *RequestResolver) {
		r.logger = logger
	}
}

// WithMetrics habilita a coleta de métricas.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *RequestResolver) {
		r.metrics = m
	}
}

// WithTracer substitui o tracer global.
func WithTracer(t trace.Tracer) Option {
	return func(r *RequestResolver) {
		r.tracer = t
	}
}

// NewRequestResolver cria o resolvedor com seus colaboradores.
func NewRequestResolver(interpreter PathInterpreter, configurations ConfigurationResolver, finder VariantFinder, trigger RegenerationTrigger, opts ...Option) *RequestResolver {
	r := &RequestResolver{
		interpreter:    interpreter,
		configurations: configurations,
		finder:         finder,
		trigger:        trigger,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer("github.com/gestaozabele/midia/internal/media")
	}
	return r
}

// Resolve devolve a variante exata, a mais próxima ou o original embrulhado.
// Caminhos não interpretáveis e configurações ausentes resultam em Result vazio;
// falhas do armazenamento de variantes são propagadas como *ResolveError.
// Uma requisição nil é erro de programação e provoca panic.
func (r *RequestResolver) Resolve(ctx context.Context, req *Request) (Result, error) {
	if req == nil {
		panic("media: requisição nil")
	}

	started := time.Now()
	ctx, span := r.tracer.Start(ctx, "media.Resolve", trace.WithAttributes(attribute.String("media.path", req.Path)))
	defer span.End()

	result, err := r.resolve(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.metrics.ResolutionFailed()
		r.logger.Error().Err(err).Str("path", req.Path).Msg("media: resolução falhou")
		return Result{}, err
	}

	span.SetAttributes(attribute.String("media.source", string(result.Source)))
	r.metrics.ObserveResolution(string(result.Source), started)
	return result, nil
}

func (r *RequestResolver) resolve(ctx context.Context, req *Request) (Result, error) {
	interpretation, ok, err := r.interpreter.InterpretPath(ctx, req.Path)
	if err != nil {
		r.logger.Debug().Err(err).Str("path", req.Path).Msg("media: caminho não interpretado")
		return Result{}, nil
	}
	if !ok || interpretation.Asset == nil {
		return Result{}, nil
	}

	asset := interpretation.Asset
	configurationUUID := strings.TrimSpace(interpretation.Properties[AttributeConfigurationUUID])
	if configurationUUID == "" {
		return Result{}, nil
	}

	entry, ok, err := r.configurations.Resolve(ctx, asset.TenantID, configurationUUID)
	if err != nil {
		r.logger.Warn().Err(err).Str("tenant", asset.TenantID.String()).Str("configuration", configurationUUID).Msg("media: configuração indisponível")
		return Result{}, nil
	}
	if !ok {
		return Result{}, nil
	}

	exact, err := r.exactMatch(ctx, asset, entry)
	if err != nil {
		return Result{}, &ResolveError{Stage: SourceExact, Err: err}
	}
	if exact != nil {
		return Result{Variant: exact, Source: SourceExact}, nil
	}

	closest, err := r.closestMatch(ctx, asset, entry)
	if err != nil {
		return Result{}, &ResolveError{Stage: SourceClosest, Err: err}
	}

	r.triggerRegeneration(asset)

	if closest != nil {
		return Result{Variant: closest, Source: SourceClosest}, nil
	}
	return Result{Variant: originalVariant(asset, entry), Source: SourceOriginal}, nil
}

func (r *RequestResolver) exactMatch(ctx context.Context, asset *Asset, entry ConfigurationEntry) (*Variant, error) {
	stream, err := r.finder.FindVariants(ctx, func(b QueryBuilder) Query {
		return b.ForAsset(asset).ForConfiguration(entry.UUID)
	})
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, nil
	}
	defer stream.Close()

	for stream.Next() {
		if v := stream.Variant(); v != nil {
			return v, nil
		}
	}
	return nil, stream.Err()
}

// closestMatch percorre todos os candidatos e mantém o de menor distância.
// Empates preservam o primeiro candidato encontrado.
func (r *RequestResolver) closestMatch(ctx context.Context, asset *Asset, entry ConfigurationEntry) (*Variant, error) {
	width, height := entry.Dimensions()

	stream, err := r.finder.FindVariants(ctx, func(b QueryBuilder) Query {
		return b.ForAsset(asset).WithDimensions(width, height)
	})
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, nil
	}
	defer stream.Close()

	var (
		best         *Variant
		bestDistance int
	)
	for stream.Next() {
		candidate := stream.Variant()
		if candidate == nil {
			continue
		}
		d, ok := Distance(candidate.Attributes, width, height)
		if !ok {
			continue
		}
		if best == nil || d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return best, nil
}

func (r *RequestResolver) triggerRegeneration(asset *Asset) {
	if r.trigger == nil {
		return
	}
	r.trigger.Trigger(asset, asset.VersionKey())
}

// Distance calcula |w-W| + |h-H| para os atributos informados.
// ok=false quando a variante não declara largura ou altura.
func Distance(attributes Attributes, width, height int) (int, bool) {
	w, ok := attributes.Width()
	if !ok {
		return 0, false
	}
	h, ok := attributes.Height()
	if !ok {
		return 0, false
	}
	return abs(w-width) + abs(h-height), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
