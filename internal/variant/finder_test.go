package variant

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/midia/internal/media"
	"github.com/gestaozabele/midia/internal/storage"
)

type fakeRows struct {
	values  [][]any
	pos     int
	err     error
	scanErr error
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.values[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.values[r.pos-1]
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

type fakeRow struct {
	createdAt time.Time
	err       error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*time.Time)) = r.createdAt
	return nil
}

type fakeQuerier struct {
	rows     *fakeRows
	queryErr error
	rowErr   error
	sql      string
	args     []any
}

func (q *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql = sql
	q.args = args
	if q.queryErr != nil {
		return nil, q.queryErr
	}
	return q.rows, nil
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.sql = sql
	q.args = args
	return fakeRow{createdAt: time.Unix(1700000000, 0), err: q.rowErr}
}

func variantRow(configurationUUID string, width, height int, key string) []any {
	return []any{uuid.New(), uuid.New(), uuid.New(), int64(42), configurationUUID, "foto.jpg", "image/jpeg", int64(3), width, height, key, time.Now()}
}

func testAsset() *media.Asset {
	return media.NewAsset(uuid.New(), 42, uuid.New(), "foto.jpg", "image/jpeg", 10, nil)
}

func TestFindVariantsByConfiguration(t *testing.T) {
	blobs := storage.NewMemoryStore()
	_, err := blobs.Upload(context.Background(), storage.UploadInput{Key: "v/1", Body: []byte("abc")})
	require.NoError(t, err)

	rows := &fakeRows{values: [][]any{variantRow("thumb", 200, 500, "v/1")}}
	q := &fakeQuerier{rows: rows}
	finder := NewFinder(q, blobs)
	a := testAsset()

	stream, err := finder.FindVariants(context.Background(), func(b media.QueryBuilder) media.Query {
		return b.ForAsset(a).ForConfiguration("thumb")
	})
	require.NoError(t, err)
	defer stream.Close()

	assert.Contains(t, q.sql, "configuration_uuid = $2")
	assert.Equal(t, []any{int64(42), "thumb"}, q.args)

	require.True(t, stream.Next())
	v := stream.Variant()
	require.NotNil(t, v)
	w, _ := v.Attributes.Width()
	h, _ := v.Attributes.Height()
	assert.Equal(t, 200, w)
	assert.Equal(t, 500, h)
	length, _ := v.Attributes.ContentLength()
	assert.Equal(t, int64(3), length)

	body, err := v.Open(context.Background())
	require.NoError(t, err)
	content, _ := io.ReadAll(body)
	assert.Equal(t, "abc", string(content))

	assert.False(t, stream.Next())
	assert.NoError(t, stream.Err())

	stream.Close()
	stream.Close()
	assert.True(t, rows.closed)
}

func TestFindVariantsByDimensions(t *testing.T) {
	rows := &fakeRows{values: [][]any{
		variantRow("a", 201, 501, "v/1"),
		variantRow("b", 100, 100, "v/2"),
	}}
	q := &fakeQuerier{rows: rows}
	a := testAsset()

	stream, err := NewFinder(q, nil).FindVariants(context.Background(), func(b media.QueryBuilder) media.Query {
		return b.ForAsset(a).WithDimensions(200, 500)
	})
	require.NoError(t, err)
	defer stream.Close()

	assert.True(t, strings.Contains(q.sql, "ORDER BY abs(width - $2) + abs(height - $3)"))
	assert.Equal(t, []any{int64(42), 200, 500}, q.args)

	count := 0
	for stream.Next() {
		count++
	}
	assert.Equal(t, 2, count)
	assert.Nil(t, stream.Variant())
}

func TestFindVariantsErrors(t *testing.T) {
	a := testAsset()
	build := func(b media.QueryBuilder) media.Query { return b.ForAsset(a).ForConfiguration("thumb") }

	_, err := NewFinder(&fakeQuerier{}, nil).FindVariants(context.Background(), func(media.QueryBuilder) media.Query { return media.Query{} })
	assert.ErrorIs(t, err, media.ErrInvalidQuery)

	_, err = NewFinder(&fakeQuerier{queryErr: errors.New("conn reset")}, nil).FindVariants(context.Background(), build)
	assert.ErrorIs(t, err, media.ErrQueryFailed)

	rows := &fakeRows{values: [][]any{variantRow("thumb", 1, 1, "k")}, scanErr: errors.New("bad column")}
	stream, err := NewFinder(&fakeQuerier{rows: rows}, nil).FindVariants(context.Background(), build)
	require.NoError(t, err)
	assert.False(t, stream.Next())
	assert.ErrorIs(t, stream.Err(), media.ErrQueryFailed)

	rows = &fakeRows{err: errors.New("timeout")}
	stream, err = NewFinder(&fakeQuerier{rows: rows}, nil).FindVariants(context.Background(), build)
	require.NoError(t, err)
	assert.False(t, stream.Next())
	assert.ErrorIs(t, stream.Err(), media.ErrQueryFailed)
}

func TestStreamWithoutBlobs(t *testing.T) {
	rows := &fakeRows{values: [][]any{variantRow("thumb", 1, 1, "k")}}
	a := testAsset()

	stream, err := NewFinder(&fakeQuerier{rows: rows}, nil).FindVariants(context.Background(), func(b media.QueryBuilder) media.Query {
		return b.ForAsset(a).ForConfiguration("thumb")
	})
	require.NoError(t, err)
	require.True(t, stream.Next())

	_, err = stream.Variant().Open(context.Background())
	assert.ErrorIs(t, err, media.ErrNoContent)
}
