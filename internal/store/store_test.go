package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()

	s, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(ctx))
	return s
}

func qrRecord(id, method string) Record {
	return Record{
		"qr_id":          id,
		"payment_method": method,
		"qr_image_url":   "https://img.example/" + id,
		"account_name":   "Urban Fashion",
		"active":         true,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestInsertFindOne_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, TablePaymentQR, qrRecord("qr1", "esewa")))

	got, err := s.FindOne(ctx, TablePaymentQR, Filter{"qr_id": "qr1"})
	require.NoError(t, err)

	assert.Equal(t, "qr1", got["qr_id"])
	assert.Equal(t, "esewa", got["payment_method"])
	assert.Equal(t, "https://img.example/qr1", got["qr_image_url"])
	assert.EqualValues(t, 1, got["active"])
}

func TestDelete_ThenFindReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, TablePaymentQR, qrRecord("qr1", "esewa")))

	n, err := s.Delete(ctx, TablePaymentQR, Filter{"qr_id": "qr1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.FindOne(ctx, TablePaymentQR, Filter{"qr_id": "qr1"})
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = s.Delete(ctx, TablePaymentQR, Filter{"qr_id": "qr1"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestUpdate_PartialPatchKeepsOtherColumns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, TablePaymentQR, qrRecord("qr1", "esewa")))

	n, err := s.Update(ctx, TablePaymentQR, Filter{"qr_id": "qr1"}, Record{"account_name": "New Name"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.FindOne(ctx, TablePaymentQR, Filter{"qr_id": "qr1"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", got["account_name"])
	assert.Equal(t, "esewa", got["payment_method"])
	assert.Equal(t, "https://img.example/qr1", got["qr_image_url"])
}

func TestUpdate_NoMatchReturnsZero(t *testing.T) {
	s := newTestStore(t)

	n, err := s.Update(context.Background(), TablePaymentQR, Filter{"qr_id": "missing"}, Record{"active": false})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestFindMany_ConjunctiveFilterAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, TablePaymentQR, qrRecord("qr1", "esewa")))
	require.NoError(t, s.Insert(ctx, TablePaymentQR, qrRecord("qr2", "khalti")))
	inactive := qrRecord("qr3", "esewa")
	inactive["active"] = false
	require.NoError(t, s.Insert(ctx, TablePaymentQR, inactive))

	all, err := s.FindMany(ctx, TablePaymentQR, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := s.FindMany(ctx, TablePaymentQR, Filter{"payment_method": "esewa", "active": true}, 10)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "qr1", active[0]["qr_id"])

	limited, err := s.FindMany(ctx, TablePaymentQR, nil, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, TablePaymentQR, qrRecord("qr1", "esewa")))
	require.NoError(t, s.Insert(ctx, TablePaymentQR, qrRecord("qr2", "khalti")))

	total, err := s.Count(ctx, TablePaymentQR, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	esewa, err := s.Count(ctx, TablePaymentQR, Filter{"payment_method": "esewa"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, esewa)
}

func TestFilterValuesAreBoundNotInterpolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, TablePaymentQR, qrRecord("qr1", "esewa")))

	_, err := s.FindOne(ctx, TablePaymentQR, Filter{"qr_id": "x' OR '1'='1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidIdentifiersRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.FindMany(ctx, "payment_qr; DROP TABLE orders", nil, 1)
	assert.Error(t, err)

	_, err = s.FindOne(ctx, TablePaymentQR, Filter{"qr_id OR 1=1 --": "x"})
	assert.Error(t, err)

	_, err = s.Delete(ctx, TablePaymentQR, nil)
	assert.Error(t, err)
}

func TestPlaceholders_Postgres(t *testing.T) {
	s := &SQLStore{dialect: DialectPostgres}

	where, args, err := s.where(Filter{"b": 2, "a": true}, 3)
	require.NoError(t, err)
	assert.Equal(t, " WHERE a=$3 AND b=$4", where)
	assert.Equal(t, []any{1, 2}, args)
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/app.db", "data/app.db?" + sqliteParams},
		{"data/app.db?cache=shared", "data/app.db?cache=shared&" + sqliteParams},
		{"data/app.db?", "data/app.db?" + sqliteParams},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.path))
		})
	}
}

func TestOpen_PathWithQueryString(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, filepath.Join(t.TempDir(), "query.db")+"?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Insert(ctx, TablePaymentQR, qrRecord("q1", "esewa")))
	n, err := s.Count(ctx, TablePaymentQR, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
