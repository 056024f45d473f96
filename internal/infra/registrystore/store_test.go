package registrystore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func buildSnapshot(t *testing.T, name string) domain.RegistrySnapshot {
	t.Helper()
	reg, err := domain.BuildRegistry([]domain.UnitDefinition{
		domain.Unconvertible("package"),
		domain.Relation("1 cup", "240 ml"),
		domain.Relation("1oz", "28.35g"),
		domain.Relation("1 stick", "4 oz"),
	})
	require.NoError(t, err)
	return domain.NewSnapshot(name, reg, time.Time{})
}

func openStores(t *testing.T) map[string]ports.RegistryStore {
	t.Helper()
	dir := t.TempDir()

	bolt, err := Open(dir, ".bake/registry.db", WithNow(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { bolt.Close() })

	js, err := Open(dir, "units.json", WithNow(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { js.Close() })

	return map[string]ports.RegistryStore{"bolt": bolt, "json": js}
}

func TestOpen_PicksBackend(t *testing.T) {
	stores := openStores(t)
	assert.IsType(t, &BoltStore{}, stores["bolt"])
	assert.IsType(t, &JSONStore{}, stores["json"])
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(t.TempDir(), " ")
	assert.True(t, domain.IsKind(err, domain.KindInvalidConfig))
}

func TestStore_RoundTrip(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			snap := buildSnapshot(t, "kitchen")

			id, err := store.SaveSnapshot(snap)
			require.NoError(t, err)
			_, err = uuid.Parse(id)
			require.NoError(t, err, "id should be a uuid")

			got, err := store.LoadSnapshot("kitchen")
			require.NoError(t, err)

			assert.Equal(t, id, got.ID)
			assert.Equal(t, "kitchen", got.Name)
			assert.True(t, got.CreatedAt.Equal(fixedNow), "created_at=%s", got.CreatedAt)
			assert.Equal(t, domain.PrefixesFull, got.Prefixes)
			assert.Equal(t, []string{"package"}, got.Unconvertible)
			require.Len(t, got.Records, len(snap.Records))
			for i := range snap.Records {
				assert.Equal(t, snap.Records[i].Unit, got.Records[i].Unit)
				assert.Equal(t, snap.Records[i].Dimension, got.Records[i].Dimension)
				assert.Equal(t, snap.Records[i].Via, got.Records[i].Via)
				assert.True(t, snap.Records[i].Multiplier.Equal(got.Records[i].Multiplier),
					"%s: %s != %s", snap.Records[i].Unit, snap.Records[i].Multiplier, got.Records[i].Multiplier)
			}

			reg, err := got.Registry()
			require.NoError(t, err)
			rec, ok := reg.Resolve("stick")
			require.True(t, ok)
			assert.Equal(t, "113.4", rec.Multiplier.String())
		})
	}
}

func TestStore_ReplacesByName(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			first, err := store.SaveSnapshot(buildSnapshot(t, "kitchen"))
			require.NoError(t, err)
			second, err := store.SaveSnapshot(buildSnapshot(t, "kitchen"))
			require.NoError(t, err)
			assert.NotEqual(t, first, second)

			got, err := store.LoadSnapshot("kitchen")
			require.NoError(t, err)
			assert.Equal(t, second, got.ID)

			names, err := store.ListSnapshots()
			require.NoError(t, err)
			assert.Equal(t, []string{"kitchen"}, names)
		})
	}
}

func TestStore_DefaultName(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.SaveSnapshot(buildSnapshot(t, ""))
			require.NoError(t, err)

			got, err := store.LoadSnapshot("")
			require.NoError(t, err)
			assert.Equal(t, defaultName, got.Name)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.LoadSnapshot("missing")
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.KindNotFound), "got %v", err)
		})
	}
}

func TestBoltStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")

	s, err := NewBoltStore(path)
	require.NoError(t, err)
	id, err := s.SaveSnapshot(buildSnapshot(t, "kitchen"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := NewBoltStore(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.LoadSnapshot("kitchen")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestJSONStore_WritesReadableDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "units.json")
	s := NewJSONStore(path)

	_, err := s.SaveSnapshot(buildSnapshot(t, "kitchen"))
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"snapshots"`)
	assert.Contains(t, string(b), `"multiplier": "0.24"`)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "tmp file should be renamed away")
}

func TestJSONStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewJSONStore(path).LoadSnapshot("kitchen")
	assert.True(t, domain.IsKind(err, domain.KindInvalidConfig), "got %v", err)
}

func TestFromDTO_RejectsBadRecords(t *testing.T) {
	_, err := fromDTO(snapshotDTO{Records: []recordDTO{{Unit: "cup", Dimension: "volume", Multiplier: "abc"}}})
	assert.Error(t, err)

	_, err = fromDTO(snapshotDTO{Records: []recordDTO{{Unit: "cup", Dimension: "length", Multiplier: "1"}}})
	assert.Error(t, err)
}
