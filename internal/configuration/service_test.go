package configuration

import (
	"context"
	"errors"
	"maps"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/midia/internal/media"
)

type stubStore struct {
	entries  map[string]media.ConfigurationEntry
	getCalls int
	getErr   error
	// afterGet roda depois da leitura, simulando uma escrita concorrente
	afterGet func()
}

func newStubStore() *stubStore {
	return &stubStore{entries: make(map[string]media.ConfigurationEntry)}
}

func (s *stubStore) Get(ctx context.Context, tenantID uuid.UUID, configurationUUID string) (*media.ConfigurationEntry, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	entry, ok := s.entries[cacheKey(tenantID, configurationUUID)]
	if !ok {
		return nil, ErrNotFound
	}
	entry.Properties = maps.Clone(entry.Properties)
	if hook := s.afterGet; hook != nil {
		s.afterGet = nil
		hook()
	}
	return &entry, nil
}

func (s *stubStore) List(ctx context.Context, tenantID uuid.UUID) ([]media.ConfigurationEntry, error) {
	var out []media.ConfigurationEntry
	for _, entry := range s.entries {
		if entry.TenantID == tenantID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *stubStore) Create(ctx context.Context, entry media.ConfigurationEntry) (*media.ConfigurationEntry, error) {
	key := cacheKey(entry.TenantID, entry.UUID)
	if _, ok := s.entries[key]; ok {
		return nil, ErrConflict
	}
	s.entries[key] = entry
	return &entry, nil
}

func (s *stubStore) Update(ctx context.Context, entry media.ConfigurationEntry) error {
	key := cacheKey(entry.TenantID, entry.UUID)
	current, ok := s.entries[key]
	if !ok {
		return ErrNotFound
	}
	entry.Enabled = current.Enabled
	s.entries[key] = entry
	return nil
}

func (s *stubStore) SetEnabled(ctx context.Context, tenantID uuid.UUID, configurationUUID string, enabled bool) error {
	key := cacheKey(tenantID, configurationUUID)
	entry, ok := s.entries[key]
	if !ok {
		return ErrNotFound
	}
	entry.Enabled = enabled
	s.entries[key] = entry
	return nil
}

func (s *stubStore) Delete(ctx context.Context, tenantID uuid.UUID, configurationUUID string) error {
	key := cacheKey(tenantID, configurationUUID)
	if _, ok := s.entries[key]; !ok {
		return ErrNotFound
	}
	delete(s.entries, key)
	return nil
}

func TestCreateValidatesInput(t *testing.T) {
	svc := NewService(newStubStore(), time.Minute, nil)
	tenantID := uuid.New()

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"sem tenant", CreateInput{Name: "thumb", MaxWidth: 100}},
		{"sem nome", CreateInput{TenantID: tenantID, MaxWidth: 100}},
		{"sem dimensões", CreateInput{TenantID: tenantID, Name: "thumb"}},
		{"negativa", CreateInput{TenantID: tenantID, Name: "thumb", MaxWidth: -1, MaxHeight: 10}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	store := newStubStore()
	svc := NewService(store, time.Minute, nil)
	tenantID := uuid.New()

	entry, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: " thumb ", MaxWidth: 200, MaxHeight: 500})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.UUID)
	assert.Equal(t, "thumb", entry.Name)
	assert.True(t, entry.Enabled)
	assert.Equal(t, "200", entry.Properties[media.PropertyMaxWidth])
	assert.Equal(t, "500", entry.Properties[media.PropertyMaxHeight])

	disabled := false
	other, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, UUID: "fixed", Name: "big", MaxWidth: 1000, Enabled: &disabled})
	require.NoError(t, err)
	assert.Equal(t, "fixed", other.UUID)
	assert.False(t, other.Enabled)
	assert.Equal(t, "0", other.Properties[media.PropertyMaxHeight])

	_, err = svc.Create(context.Background(), CreateInput{TenantID: tenantID, UUID: "fixed", Name: "dup", MaxWidth: 10})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestResolveCachesEntries(t *testing.T) {
	store := newStubStore()
	svc := NewService(store, time.Minute, nil)
	tenantID := uuid.New()

	created, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: "thumb", MaxWidth: 200, MaxHeight: 500})
	require.NoError(t, err)

	entry, ok, err := svc.Resolve(context.Background(), tenantID, created.UUID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.UUID, entry.UUID)

	entry.Properties[media.PropertyMaxWidth] = "999"

	again, ok, err := svc.Resolve(context.Background(), tenantID, created.UUID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "200", again.Properties[media.PropertyMaxWidth])
	assert.Equal(t, 1, store.getCalls)
}

func TestResolveExpiresCache(t *testing.T) {
	store := newStubStore()
	svc := NewService(store, time.Minute, nil)
	current := time.Now()
	svc.now = func() time.Time { return current }
	tenantID := uuid.New()

	created, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: "thumb", MaxWidth: 200})
	require.NoError(t, err)

	_, _, err = svc.Resolve(context.Background(), tenantID, created.UUID)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, _, err = svc.Resolve(context.Background(), tenantID, created.UUID)
	require.NoError(t, err)

	assert.Equal(t, 2, store.getCalls)
}

func TestResolveAbsentAndFailures(t *testing.T) {
	store := newStubStore()
	svc := NewService(store, time.Minute, nil)
	tenantID := uuid.New()

	_, ok, err := svc.Resolve(context.Background(), tenantID, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.Resolve(context.Background(), tenantID, "  ")
	require.NoError(t, err)
	assert.False(t, ok)

	store.getErr = errors.New("db down")
	_, ok, err = svc.Resolve(context.Background(), tenantID, "other")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestResolveIsScopedByTenant(t *testing.T) {
	store := newStubStore()
	svc := NewService(store, time.Minute, nil)

	created, err := svc.Create(context.Background(), CreateInput{TenantID: uuid.New(), Name: "thumb", MaxWidth: 200})
	require.NoError(t, err)

	_, ok, err := svc.Resolve(context.Background(), uuid.New(), created.UUID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMutationsInvalidateCache(t *testing.T) {
	store := newStubStore()
	svc := NewService(store, time.Hour, nil)
	tenantID := uuid.New()

	created, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: "thumb", MaxWidth: 200, MaxHeight: 500})
	require.NoError(t, err)
	_, _, err = svc.Resolve(context.Background(), tenantID, created.UUID)
	require.NoError(t, err)

	require.NoError(t, svc.Update(context.Background(), tenantID, created.UUID, UpdateInput{Name: "thumb", MaxWidth: 300, MaxHeight: 600}))
	entry, ok, err := svc.Resolve(context.Background(), tenantID, created.UUID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "300", entry.Properties[media.PropertyMaxWidth])

	require.NoError(t, svc.SetEnabled(context.Background(), tenantID, created.UUID, false))
	entry, ok, err = svc.Resolve(context.Background(), tenantID, created.UUID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, entry.Enabled)

	require.NoError(t, svc.Delete(context.Background(), tenantID, created.UUID))
	_, ok, err = svc.Resolve(context.Background(), tenantID, created.UUID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.Delete(context.Background(), tenantID, created.UUID), ErrNotFound)
}

func TestResolveDoesNotCacheReadRacingUpdate(t *testing.T) {
	store := newStubStore()
	svc := NewService(store, time.Hour, nil)
	tenantID := uuid.New()

	created, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: "thumb", MaxWidth: 200, MaxHeight: 500})
	require.NoError(t, err)

	store.afterGet = func() {
		require.NoError(t, svc.Update(context.Background(), tenantID, created.UUID, UpdateInput{Name: "thumb", MaxWidth: 300, MaxHeight: 600}))
	}
	stale, ok, err := svc.Resolve(context.Background(), tenantID, created.UUID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "200", stale.Properties[media.PropertyMaxWidth])

	fresh, ok, err := svc.Resolve(context.Background(), tenantID, created.UUID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "300", fresh.Properties[media.PropertyMaxWidth])
	assert.Equal(t, 2, store.getCalls)
}
