package media

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueries(t *testing.T) {
	asset := NewAsset(uuid.New(), 7, uuid.New(), "a.png", "image/png", 10, nil)

	exact, err := Build(func(b QueryBuilder) Query {
		return b.ForAsset(asset).ForConfiguration("cfg")
	})
	require.NoError(t, err)
	assert.Equal(t, QueryByConfiguration, exact.Kind())
	assert.Same(t, asset, exact.Asset())
	assert.Equal(t, "cfg", exact.ConfigurationUUID())

	closest, err := Build(func(b QueryBuilder) Query {
		return b.ForAsset(asset).WithDimensions(320, 240)
	})
	require.NoError(t, err)
	width, height := closest.Dimensions()
	assert.Equal(t, QueryByDimensions, closest.Kind())
	assert.Equal(t, 320, width)
	assert.Equal(t, 240, height)
	assert.Empty(t, closest.ConfigurationUUID())
}

func TestBuildRejectsInvalidQueries(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = Build(func(b QueryBuilder) Query { return Query{} })
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = Build(func(b QueryBuilder) Query { return b.ForAsset(nil).ForConfiguration("cfg") })
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestConfigurationEntryDimensions(t *testing.T) {
	entry := ConfigurationEntry{Properties: map[string]string{PropertyMaxWidth: " 300 ", PropertyMaxHeight: "x"}}

	width, ok := entry.MaxWidth()
	assert.True(t, ok)
	assert.Equal(t, 300, width)

	_, ok = entry.MaxHeight()
	assert.False(t, ok)

	w, h := entry.Dimensions()
	assert.Equal(t, 300, w)
	assert.Equal(t, 0, h)
}

func TestSliceStreamIsNotRestartable(t *testing.T) {
	a := NewVariant(Attributes{AttributeWidth: "1"}, nil)
	stream := SliceStream(a)

	require.True(t, stream.Next())
	assert.Same(t, a, stream.Variant())
	assert.False(t, stream.Next())
	assert.False(t, stream.Next())
	assert.NoError(t, stream.Err())
}
