package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "group_ids.csv"), nil)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	reg, err := newTestStore(t).Load()
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), nil, 0o600))

	reg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	content := "group_id,group_name\n" +
		"-100111,Team_A\n" +
		"not-a-number,Broken\n" +
		"-100333\n" +
		"-100222,Team_B\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o600))

	reg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: -100222, Name: "Team_B"}, {ID: -100111, Name: "Team_A"}}, reg.Entries())
}

func TestLoadHeaderColumnOrder(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	content := "group_name,group_id\nTeam_A,-100111\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o600))

	reg, err := store.Load()
	require.NoError(t, err)
	name, ok := reg.Get(-100111)
	require.True(t, ok)
	assert.Equal(t, "Team_A", name)
}

func TestSaveWritesSortedRowsWithHeader(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	reg := New(Entry{ID: 10, Name: "ten"}, Entry{ID: -100222, Name: "Team_B"}, Entry{ID: -100333, Name: "Team, C"})

	require.NoError(t, store.Save(reg))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "group_id,group_name\n-100333,\"Team, C\"\n-100222,Team_B\n10,ten\n", string(data))

	matches, err := filepath.Glob(store.Path() + ".*.tmp")
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary file is renamed into place")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		entries := rapid.SliceOfNDistinct(
			rapid.Custom(func(rt *rapid.T) Entry {
				return Entry{
					ID:   rapid.Int64().Draw(rt, "id"),
					Name: rapid.StringMatching(`[A-Za-z0-9 _,"'\-]{1,24}`).Draw(rt, "name"),
				}
			}),
			0, 20,
			func(e Entry) int64 { return e.ID },
		).Draw(rt, "entries")

		dir, err := os.MkdirTemp("", "registry-rapid-")
		if err != nil {
			rt.Fatalf("mkdir temp: %v", err)
		}
		defer os.RemoveAll(dir)

		store := NewStore(filepath.Join(dir, "group_ids.csv"), nil)
		want := New(entries...)
		if err := store.Save(want); err != nil {
			rt.Fatalf("save: %v", err)
		}

		got, err := store.Load()
		if err != nil {
			rt.Fatalf("load: %v", err)
		}

		wantEntries, gotEntries := want.Entries(), got.Entries()
		if len(wantEntries) != len(gotEntries) {
			rt.Fatalf("got %d entries, want %d", len(gotEntries), len(wantEntries))
		}
		for i := range wantEntries {
			if wantEntries[i] != gotEntries[i] {
				rt.Fatalf("entry %d: got %+v, want %+v", i, gotEntries[i], wantEntries[i])
			}
			if i > 0 && gotEntries[i-1].ID >= gotEntries[i].ID {
				rt.Fatalf("entries not ascending at %d", i)
			}
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	require.NoError(t, store.Update(func(reg *Registry) error {
		return reg.Add(-100111, "Team_A")
	}))

	errStop := errors.New("stop")
	err := store.Update(func(reg *Registry) error {
		_, _ = reg.Remove(-100111)
		return errStop
	})
	assert.ErrorIs(t, err, errStop)

	reg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len(), "failed update must not be persisted")
}

func TestUpdateSerializesWriters(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, store.Update(func(reg *Registry) error {
				return reg.Add(id, "group-"+strings.Repeat("x", int(id)))
			}))
		}(int64(i + 1))
	}
	wg.Wait()

	reg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, writers, reg.Len(), "no update is lost")
}
