package watchlist_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marco/moviedb/internal/catalog"
	"github.com/marco/moviedb/internal/storage"
	"github.com/marco/moviedb/internal/watchlist"
)

// recordingStorage counts writes and can be told to fail them.
type recordingStorage struct {
	data    map[string][]byte
	writes  int
	failSet bool
	failGet bool
	closed  bool
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{data: make(map[string][]byte)}
}

func (r *recordingStorage) Get(slot string) ([]byte, bool, error) {
	if r.failGet {
		return nil, false, errors.New("storage disabled")
	}
	d, ok := r.data[slot]
	return d, ok, nil
}

func (r *recordingStorage) Set(slot string, data []byte) error {
	if r.failSet {
		return errors.New("quota exceeded")
	}
	r.writes++
	r.data[slot] = append([]byte(nil), data...)
	return nil
}

func (r *recordingStorage) Close() error {
	r.closed = true
	return nil
}

func movie(id int) catalog.Movie {
	return catalog.Movie{ID: id, Title: "Movie", VoteAverage: 7.5}
}

func persisted(t *testing.T, st storage.Storage) []catalog.Movie {
	t.Helper()
	data, found, err := st.Get(watchlist.DefaultSlot)
	require.NoError(t, err)
	require.True(t, found, "expected watchlist slot to be written")
	entries, err := watchlist.Decode(data)
	require.NoError(t, err)
	return entries
}

func TestInitializeMissingOrCorrupt(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		set  bool
	}{
		{"absent", nil, false},
		{"empty", []byte(""), true},
		{"corrupt", []byte("{not json"), true},
		{"wrong shape", []byte(`{"id":1}`), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := newRecordingStorage()
			if tc.set {
				st.data[watchlist.DefaultSlot] = tc.data
			}
			s := watchlist.NewStore(st)
			require.NotPanics(t, s.Initialize)
			assert.Empty(t, s.List())
		})
	}
}

func TestInitializeReadFailure(t *testing.T) {
	st := newRecordingStorage()
	st.failGet = true
	s := watchlist.NewStore(st)
	s.Initialize()
	assert.Equal(t, 0, s.Len())
}

func TestInitializeLoadsAndDedupes(t *testing.T) {
	st := newRecordingStorage()
	st.data[watchlist.DefaultSlot] = []byte(`[{"id":3,"title":"C"},{"id":1,"title":"A"},{"id":3,"title":"dup"},{"id":0}]`)

	s := watchlist.NewStore(st)
	s.Initialize()
	s.Initialize()

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "C", list[0].Title)
	assert.Equal(t, 1, list[1].ID)
	assert.Equal(t, 0, st.writes, "initialize must not write")
}

func TestAddIsIdempotent(t *testing.T) {
	st := newRecordingStorage()
	s := watchlist.NewStore(st)
	s.Initialize()

	assert.True(t, s.Add(movie(1)))
	assert.True(t, s.Add(movie(2)))
	assert.False(t, s.Add(catalog.Movie{ID: 1, Title: "changed"}))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, []int{1, 2}, []int{list[0].ID, list[1].ID})
	assert.Equal(t, "Movie", list[0].Title, "snapshot from first add is kept")
	assert.Equal(t, 2, st.writes)
}

func TestAddRejectsMissingID(t *testing.T) {
	st := storage.NewFileStorageFs(afero.NewMemMapFs(), "/data")
	s := watchlist.NewStore(st)
	s.Initialize()

	assert.False(t, s.Add(catalog.Movie{Title: "No id"}))
	assert.False(t, s.Add(catalog.Movie{ID: -3, Title: "Negative"}))
	assert.Equal(t, 0, s.Len())

	s.Add(movie(5))
	reloaded := watchlist.NewStore(st)
	reloaded.Initialize()
	assert.Equal(t, s.List(), reloaded.List(), "reload matches in-memory list")
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	st := newRecordingStorage()
	s := watchlist.NewStore(st)
	s.Initialize()
	s.Add(movie(1))
	before := string(st.data[watchlist.DefaultSlot])

	assert.False(t, s.Remove(99))
	assert.Equal(t, 1, st.writes)
	assert.Equal(t, before, string(st.data[watchlist.DefaultSlot]))
}

func TestRemovePreservesOrder(t *testing.T) {
	st := newRecordingStorage()
	s := watchlist.NewStore(st)
	s.Initialize()
	for _, id := range []int{1, 2, 3, 4} {
		s.Add(movie(id))
	}

	assert.True(t, s.Remove(2))
	assert.False(t, s.Contains(2))
	assert.True(t, s.Contains(4))

	ids := func() []int {
		var out []int
		for _, m := range s.List() {
			out = append(out, m.ID)
		}
		return out
	}
	assert.Equal(t, []int{1, 3, 4}, ids())

	assert.True(t, s.Remove(4))
	assert.True(t, s.Add(movie(2)))
	assert.Equal(t, []int{1, 3, 2}, ids())
}

func TestToggle(t *testing.T) {
	s := watchlist.NewStore(newRecordingStorage())
	s.Initialize()

	assert.True(t, s.Toggle(movie(5)))
	assert.True(t, s.Contains(5))
	assert.False(t, s.Toggle(movie(5)))
	assert.False(t, s.Contains(5))
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	st := newRecordingStorage()
	st.failSet = true
	s := watchlist.NewStore(st)
	s.Initialize()

	require.True(t, s.Add(movie(1)))
	assert.True(t, s.Contains(1))
	require.True(t, s.Remove(1))
	assert.False(t, s.Contains(1))
}

func TestReadOnlyFilesystemKeepsMutation(t *testing.T) {
	st := storage.NewFileStorageFs(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/data")
	s := watchlist.NewStore(st)
	s.Initialize()

	require.True(t, s.Add(movie(7)))
	assert.Equal(t, 1, s.Len())
}

func TestPersistedStateMatchesListAfterEveryMutation(t *testing.T) {
	st := storage.NewFileStorageFs(afero.NewMemMapFs(), "/data")
	s := watchlist.NewStore(st)
	s.Initialize()

	rng := rand.New(rand.NewSource(1))
	present := make(map[int]bool)
	for i := 0; i < 300; i++ {
		id := rng.Intn(12) + 1
		changed := false
		if rng.Intn(2) == 0 {
			changed = s.Add(movie(id))
			present[id] = true
		} else {
			changed = s.Remove(id)
			delete(present, id)
		}

		for candidate := 1; candidate <= 12; candidate++ {
			require.Equal(t, present[candidate], s.Contains(candidate), "contains(%d) at step %d", candidate, i)
		}

		list := s.List()
		seen := make(map[int]bool)
		for _, m := range list {
			require.False(t, seen[m.ID], "duplicate id %d", m.ID)
			seen[m.ID] = true
		}

		if changed {
			require.Equal(t, list, persisted(t, st))
		}
	}
}

func TestReloadFromStorage(t *testing.T) {
	st := storage.NewFileStorageFs(afero.NewMemMapFs(), "/data")
	first := watchlist.NewStore(st)
	first.Initialize()
	first.Add(catalog.Movie{ID: 10, Title: "Ten", ReleaseDate: "2001-01-01", Runtime: 99})
	first.Add(movie(11))

	second := watchlist.NewStore(st)
	second.Initialize()
	assert.Equal(t, first.List(), second.List())
}

func TestTeardown(t *testing.T) {
	st := newRecordingStorage()
	s := watchlist.NewStore(st)
	assert.ErrorIs(t, s.Teardown(), watchlist.ErrNotInitialized)

	s.Initialize()
	require.NoError(t, s.Teardown())
	assert.True(t, st.closed)
}
