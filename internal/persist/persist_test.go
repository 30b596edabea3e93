package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xtding233/wordharbor/internal/logger"
	"github.com/xtding233/wordharbor/internal/progress"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()

	f, err := NewFile(filepath.Join(dir, "files"))
	require.NoError(t, err)
	db, err := NewSQLite(context.Background(), "file:"+filepath.Join(dir, "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Backend{
		"memory": NewMemory(),
		"file":   f,
		"sqlite": db,
	}
}

func TestBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, b.Name())

			_, err := b.Get(ctx, DefaultKey)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, b.Put(ctx, DefaultKey, []byte(`{"a":1}`)))
			require.NoError(t, b.Put(ctx, DefaultKey, []byte(`{"a":2}`)))
			got, err := b.Get(ctx, DefaultKey)
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":2}`, string(got))

			_, err = b.Get(ctx, "other/key")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, f.Put(context.Background(), "k", []byte("x")))
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k.json", entries[0].Name())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", b.Name())

	b, err = Open(ctx, Options{Backend: "file", Path: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "file", b.Name())

	_, err = Open(ctx, Options{Backend: "etcd"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Backend: "redis"})
	assert.Error(t, err, "redis needs an address")
}

func newStateAdapter(t *testing.T, b Backend) *Adapter[progress.State] {
	return NewAdapter(b, DefaultKey, progress.DefaultState, logger.FromZap(zaptest.NewLogger(t)))
}

func TestAdapterDefaultsWhenMissing(t *testing.T) {
	a := newStateAdapter(t, NewMemory())
	assert.Equal(t, progress.DefaultState(), a.Load(context.Background()))
}

func TestAdapterMergesOverDefaults(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	// an older record without newer fields, plus a field this version does not know
	require.NoError(t, m.Put(ctx, DefaultKey, []byte(`{
		"ownedCardIds": ["c001"],
		"masteryMap": {"c001": 2},
		"pityCount": 4,
		"legacyFlag": true
	}`)))

	st := newStateAdapter(t, m).Load(ctx)
	assert.Equal(t, []string{"c001"}, st.OwnedCardIDs)
	assert.Equal(t, 2, st.MasteryMap["c001"])
	assert.Equal(t, 4, st.PityCount)
	assert.Equal(t, 3, st.DailyGachaRemaining, "absent field keeps its default")
	assert.Equal(t, []string{}, st.NewCardIDs)
}

func TestAdapterCorruptFallsBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, DefaultKey, []byte(`{"ownedCardIds": ["c001"], "pity`)))
	assert.Equal(t, progress.DefaultState(), newStateAdapter(t, m).Load(ctx))
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := newStateAdapter(t, b)
			st := progress.DefaultState()
			st.OwnedCardIDs = []string{"c004", "c011"}
			st.MasteryMap = map[string]int{"c004": 1, "c011": 0}
			st.SecretaryCardID = "c011"
			st.LastLoginDate = "2024-01-02"

			require.NoError(t, a.Save(ctx, st))
			assert.Equal(t, st, a.Load(ctx))
		})
	}
}

type failingBackend struct{ Memory }

func (failingBackend) Put(context.Context, string, []byte) error { return errors.New("quota exceeded") }
func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset")
}

func TestAdapterBackendErrors(t *testing.T) {
	ctx := context.Background()
	a := newStateAdapter(t, &failingBackend{})
	assert.Equal(t, progress.DefaultState(), a.Load(ctx))
	assert.Error(t, a.Save(ctx, progress.DefaultState()))
}

func TestStoreOverAdapter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	s := progress.Open(ctx, nil, progress.DefaultRules(), newStateAdapter(t, f), nil)
	require.NoError(t, s.AddBonusGacha(2))

	reopened := progress.Open(ctx, nil, progress.DefaultRules(), newStateAdapter(t, f), nil)
	assert.Equal(t, 2, reopened.Snapshot().BonusGacha)
}
