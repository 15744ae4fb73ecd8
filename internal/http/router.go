package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gestaozabele/midia/internal/asset"
	"github.com/gestaozabele/midia/internal/auth"
	"github.com/gestaozabele/midia/internal/config"
	"github.com/gestaozabele/midia/internal/configuration"
	httpmiddleware "github.com/gestaozabele/midia/internal/http/middleware"
	"github.com/gestaozabele/midia/internal/media"
	"github.com/gestaozabele/midia/internal/variant"
)

// MediaResolver escolhe a variante servida para um caminho.
type MediaResolver interface {
	Resolve(ctx context.Context, req *media.Request) (media.Result, error)
}

// ConfigurationService cobre o cadastro de configurações por tenant.
type ConfigurationService interface {
	Resolve(ctx context.Context, tenantID uuid.UUID, configurationUUID string) (media.ConfigurationEntry, bool, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]media.ConfigurationEntry, error)
	Create(ctx context.Context, input configuration.CreateInput) (*media.ConfigurationEntry, error)
	Update(ctx context.Context, tenantID uuid.UUID, configurationUUID string, input configuration.UpdateInput) error
	SetEnabled(ctx context.Context, tenantID uuid.UUID, configurationUUID string, enabled bool) error
	Delete(ctx context.Context, tenantID uuid.UUID, configurationUUID string) error
}

// AssetService registra e localiza versões de arquivos.
type AssetService interface {
	Lookup(ctx context.Context, assetID uuid.UUID, versionID int64) (*media.Asset, error)
	Register(ctx context.Context, input asset.RegisterInput) (*asset.Record, error)
}

// VariantService registra variantes produzidas fora do processo.
type VariantService interface {
	Register(ctx context.Context, input variant.RegisterInput) (*variant.Record, error)
}

// PingFunc verifica uma dependência externa.
type PingFunc func(ctx context.Context) error

// Deps reúne os colaboradores do roteador.
type Deps struct {
	Config         *config.Config
	Resolver       MediaResolver
	Configurations ConfigurationService
	Assets         AssetService
	Variants       VariantService
	JWT            *auth.JWTManager
	Checks         map[string]PingFunc
	Metrics        http.Handler
	Logger         zerolog.Logger
}

type Handler struct {
	cfg            *config.Config
	resolver       MediaResolver
	configurations ConfigurationService
	assets         AssetService
	variants       VariantService
	checks         map[string]PingFunc
	logger         zerolog.Logger
	publicLimit    *httpmiddleware.Throttle
	adminLimit     *httpmiddleware.Throttle
}

// NewRouter devolve roteador configurado.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	h := &Handler{
		cfg:            cfg,
		resolver:       deps.Resolver,
		configurations: deps.Configurations,
		assets:         deps.Assets,
		variants:       deps.Variants,
		checks:         deps.Checks,
		logger:         deps.Logger,
		publicLimit:    httpmiddleware.NewThrottle(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		adminLimit:     httpmiddleware.NewThrottle(cfg.RateLimitAdmin.RequestsPerSecond, cfg.RateLimitAdmin.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging(deps.Logger))
	r.Use(httpmiddleware.Recover(deps.Logger))
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Group(func(public chi.Router) {
		public.Use(h.publicLimit.Middleware(httpmiddleware.ByClientIP))

		prefix := strings.TrimRight(cfg.MediaPathPrefix, "/")
		public.Get(prefix+"/*", h.ServeMedia)
		public.Head(prefix+"/*", h.ServeMedia)
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.Auth(deps.JWT))
		admin.Use(httpmiddleware.RequireRoles(auth.RoleMediaAdmin))
		admin.Use(h.adminLimit.Middleware(httpmiddleware.BySubject))

		admin.Route("/tenants/{tenantID}", func(t chi.Router) {
			t.Use(httpmiddleware.TenantScope("tenantID"))

			t.Route("/configurations", func(c chi.Router) {
				c.Get("/", h.ListConfigurations)
				c.Post("/", h.CreateConfiguration)
				c.Get("/{configurationUUID}", h.GetConfiguration)
				c.Put("/{configurationUUID}", h.UpdateConfiguration)
				c.Delete("/{configurationUUID}", h.DeleteConfiguration)
				c.Post("/{configurationUUID}/enable", h.EnableConfiguration)
				c.Post("/{configurationUUID}/disable", h.DisableConfiguration)
			})

			t.Route("/assets", func(a chi.Router) {
				a.Post("/", h.RegisterAsset)
				a.Post("/{assetID}/versions/{versionID}/variants", h.RegisterVariant)
			})
		})
	})

	return r
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida as dependências registradas (Postgres e, quando configurado, Redis).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := false
	details := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed = true
			details[name] = err.Error()
			continue
		}
		details[name] = ""
	}

	if failed {
		writeError(w, http.StatusServiceUnavailable, "INTERNAL", "dependências indisponíveis", details)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
}
