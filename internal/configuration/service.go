package configuration

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gestaozabele/midia/internal/media"
	"github.com/gestaozabele/midia/internal/metrics"
)

// Store abstrai a persistência das configurações.
type Store interface {
	Get(ctx context.Context, tenantID uuid.UUID, configurationUUID string) (*media.ConfigurationEntry, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]media.ConfigurationEntry, error)
	Create(ctx context.Context, entry media.ConfigurationEntry) (*media.ConfigurationEntry, error)
	Update(ctx context.Context, entry media.ConfigurationEntry) error
	SetEnabled(ctx context.Context, tenantID uuid.UUID, configurationUUID string, enabled bool) error
	Delete(ctx context.Context, tenantID uuid.UUID, configurationUUID string) error
}

// Service contém as regras de cadastro e resolução de configurações.
type Service struct {
	store    Store
	cache    sync.Map
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
	// epoch avança a cada invalidação; leituras iniciadas antes dela não ficam no cache
	epoch atomic.Uint64
}

// cachedEntry armazena dados no cache em memória.
type cachedEntry struct {
	entry    media.ConfigurationEntry
	expireAt time.Time
}

// NewService cria uma nova instância de Service.
func NewService(store Store, cacheTTL time.Duration, m *metrics.Metrics) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}
	return &Service{store: store, cacheTTL: cacheTTL, metrics: m, now: time.Now}
}

// Resolve encontra a configuração do tenant. Ausência não é erro.
func (s *Service) Resolve(ctx context.Context, tenantID uuid.UUID, configurationUUID string) (media.ConfigurationEntry, bool, error) {
	configurationUUID = strings.TrimSpace(configurationUUID)
	if configurationUUID == "" {
		return media.ConfigurationEntry{}, false, nil
	}

	key := cacheKey(tenantID, configurationUUID)
	if v, ok := s.cache.Load(key); ok {
		cached := v.(*cachedEntry)
		if s.now().Before(cached.expireAt) {
			s.metrics.ConfigurationLookupDone("hit")
			return cloneEntry(cached.entry), true, nil
		}
		s.cache.Delete(key)
	}

	s.metrics.ConfigurationLookupDone("miss")
	start := s.epoch.Load()
	entry, err := s.store.Get(ctx, tenantID, configurationUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return media.ConfigurationEntry{}, false, nil
		}
		return media.ConfigurationEntry{}, false, err
	}

	cached := &cachedEntry{entry: cloneEntry(*entry), expireAt: s.now().Add(s.cacheTTL)}
	s.cache.Store(key, cached)
	if s.epoch.Load() != start {
		s.cache.CompareAndDelete(key, cached)
	}
	return cloneEntry(*entry), true, nil
}

// List devolve as configurações do tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]media.ConfigurationEntry, error) {
	return s.store.List(ctx, tenantID)
}

// Create valida e registra uma nova configuração.
func (s *Service) Create(ctx context.Context, input CreateInput) (*media.ConfigurationEntry, error) {
	if input.TenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: tenant obrigatório", ErrInvalidConfiguration)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nome obrigatório", ErrInvalidConfiguration)
	}
	if err := validateDimensions(input.MaxWidth, input.MaxHeight); err != nil {
		return nil, err
	}

	configurationUUID := strings.TrimSpace(input.UUID)
	if configurationUUID == "" {
		configurationUUID = uuid.NewString()
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	return s.store.Create(ctx, media.ConfigurationEntry{
		UUID:        configurationUUID,
		TenantID:    input.TenantID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Enabled:     enabled,
		Properties:  dimensionProperties(input.MaxWidth, input.MaxHeight),
	})
}

// Update altera a configuração e limpa o cache.
func (s *Service) Update(ctx context.Context, tenantID uuid.UUID, configurationUUID string, input UpdateInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("%w: nome obrigatório", ErrInvalidConfiguration)
	}
	if err := validateDimensions(input.MaxWidth, input.MaxHeight); err != nil {
		return err
	}

	err := s.store.Update(ctx, media.ConfigurationEntry{
		UUID:        configurationUUID,
		TenantID:    tenantID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Properties:  dimensionProperties(input.MaxWidth, input.MaxHeight),
	})
	if err != nil {
		return err
	}

	s.invalidate(tenantID, configurationUUID)
	return nil
}

// SetEnabled habilita ou desabilita a configuração.
func (s *Service) SetEnabled(ctx context.Context, tenantID uuid.UUID, configurationUUID string, enabled bool) error {
	if err := s.store.SetEnabled(ctx, tenantID, configurationUUID, enabled); err != nil {
		return err
	}
	s.invalidate(tenantID, configurationUUID)
	return nil
}

// Delete remove a configuração.
func (s *Service) Delete(ctx context.Context, tenantID uuid.UUID, configurationUUID string) error {
	if err := s.store.Delete(ctx, tenantID, configurationUUID); err != nil {
		return err
	}
	s.invalidate(tenantID, configurationUUID)
	return nil
}

func (s *Service) invalidate(tenantID uuid.UUID, configurationUUID string) {
	s.epoch.Add(1)
	s.cache.Delete(cacheKey(tenantID, configurationUUID))
}

func validateDimensions(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: dimensões não podem ser negativas", ErrInvalidConfiguration)
	}
	if width == 0 && height == 0 {
		return fmt.Errorf("%w: informe max-width ou max-height", ErrInvalidConfiguration)
	}
	return nil
}

func dimensionProperties(width, height int) map[string]string {
	return map[string]string{
		media.PropertyMaxWidth:  strconv.Itoa(width),
		media.PropertyMaxHeight: strconv.Itoa(height),
	}
}

func cacheKey(tenantID uuid.UUID, configurationUUID string) string {
	return tenantID.String() + "/" + configurationUUID
}

func cloneEntry(entry media.ConfigurationEntry) media.ConfigurationEntry {
	entry.Properties = maps.Clone(entry.Properties)
	return entry
}
