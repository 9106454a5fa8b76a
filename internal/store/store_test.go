package store

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"

	"github.com/aanand-mishra/students-roster/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIDs hands out "id-1", "id-2", ... so tests can predict ids.
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, seed ...types.Student) *Store {
	t.Helper()
	s, err := New(seed, WithIDGenerator(sequentialIDs()), WithLogger(quietLogger()))
	require.NoError(t, err)
	return s
}

func ann() types.Student {
	return types.Student{
		ID: "1",
		StudentInput: types.StudentInput{
			FirstName:   "Ann",
			LastName:    "Lee",
			CollegeName: "X",
		},
	}
}

func ids(recs []types.Student) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestSearchScenario(t *testing.T) {
	s := newTestStore(t, ann())

	s.Search("an")
	assert.Equal(t, []string{"1"}, ids(s.Filtered()))
	assert.Equal(t, "an", s.SearchTerm())

	s.Search("zz")
	assert.Empty(t, s.Filtered())
	assert.Len(t, s.All(), 1)
}

func TestSearchMatchesOnlyNameAndCollegeFields(t *testing.T) {
	s := newTestStore(t,
		types.Student{ID: "a", StudentInput: types.StudentInput{FirstName: "Maria"}},
		types.Student{ID: "b", StudentInput: types.StudentInput{LastName: "MARIANI"}},
		types.Student{ID: "c", StudentInput: types.StudentInput{CollegeName: "St. Maria College"}},
		types.Student{ID: "d", StudentInput: types.StudentInput{Email: "maria@example.com", Department: "maria"}},
		types.Student{ID: "e"},
	)

	s.Search("mAri")
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Filtered()))

	s.Search("")
	assert.Equal(t, ids(s.All()), ids(s.Filtered()))
}

func TestAddScenario(t *testing.T) {
	s := newTestStore(t, ann())

	rec := s.Add(types.StudentInput{FirstName: "Bo"})
	assert.NotEmpty(t, rec.ID)
	assert.NotEqual(t, "1", rec.ID)
	assert.Equal(t, "Bo", rec.FirstName)
	assert.Empty(t, rec.LastName)
	assert.Len(t, s.All(), 2)
}

func TestAddRespectsActiveSearch(t *testing.T) {
	s := newTestStore(t, ann())
	s.Search("ann")

	bo := s.Add(types.StudentInput{FirstName: "Bo"})
	annie := s.Add(types.StudentInput{FirstName: "Annie"})

	assert.Equal(t, []string{"1", bo.ID, annie.ID}, ids(s.All()))
	assert.Equal(t, []string{"1", annie.ID}, ids(s.Filtered()))
}

func TestAddSkipsCollidingIDs(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		if calls < 3 {
			return "1"
		}
		return "fresh"
	}
	s, err := New([]types.Student{ann()}, WithIDGenerator(gen), WithLogger(quietLogger()))
	require.NoError(t, err)

	rec := s.Add(types.StudentInput{FirstName: "Bo"})
	assert.Equal(t, "fresh", rec.ID)
}

func TestAddWithStuckGeneratorStillUnique(t *testing.T) {
	s, err := New([]types.Student{ann()},
		WithIDGenerator(func() string { return "1" }),
		WithLogger(quietLogger()))
	require.NoError(t, err)

	rec := s.Add(types.StudentInput{FirstName: "Bo"})
	assert.NotEqual(t, "1", rec.ID)
	assert.Contains(t, rec.ID, "1-")
}

func TestEditScenario(t *testing.T) {
	s := newTestStore(t, ann())

	s.Edit("1", types.StudentInput{FirstName: "Annie"})
	s.Select("1")

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "Annie", sel.FirstName)
	assert.Empty(t, sel.LastName)
	assert.Empty(t, sel.CollegeName)
	assert.Equal(t, types.Student{ID: "1", StudentInput: types.StudentInput{FirstName: "Annie"}}, sel)
}

func TestEditReplacesRatherThanMerges(t *testing.T) {
	s := newTestStore(t, types.Student{ID: "1", StudentInput: types.StudentInput{
		FirstName: "Ann", Email: "ann@example.com", Hobbies: "chess",
	}})

	s.Edit("1", types.StudentInput{Email: "new@example.com"})

	rec, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, types.Student{ID: "1", StudentInput: types.StudentInput{Email: "new@example.com"}}, rec)
}

func TestEditRecomputesFilter(t *testing.T) {
	s := newTestStore(t, ann(), types.Student{ID: "2", StudentInput: types.StudentInput{FirstName: "Bo"}})
	s.Search("bo")
	require.Equal(t, []string{"2"}, ids(s.Filtered()))

	s.Edit("1", types.StudentInput{FirstName: "Bob"})
	assert.Equal(t, []string{"1", "2"}, ids(s.Filtered()))

	s.Edit("2", types.StudentInput{FirstName: "Cy"})
	assert.Equal(t, []string{"1"}, ids(s.Filtered()))
	assert.Equal(t, "Bob", s.Filtered()[0].FirstName)
}

func TestEditUnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t, ann())
	before := s.Snapshot()

	s.Edit("missing", types.StudentInput{FirstName: "Ghost"})

	assert.Equal(t, before, s.Snapshot())
}

func TestSelectionTracksEdits(t *testing.T) {
	s := newTestStore(t, ann())
	s.Select("1")

	s.Edit("1", types.StudentInput{FirstName: "Annie", LastName: "Lee"})

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "Annie", sel.FirstName)
}

func TestSelectUnknownClearsSelection(t *testing.T) {
	s := newTestStore(t, ann())
	s.Select("1")
	_, ok := s.Selected()
	require.True(t, ok)

	s.Select("nope")
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestClearSelectionIsIdempotent(t *testing.T) {
	s := newTestStore(t, ann())
	s.Select("1")

	s.ClearSelection()
	s.ClearSelection()

	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newTestStore(t, ann(), types.Student{ID: "2", StudentInput: types.StudentInput{FirstName: "Bo"}})

	s.Remove("1")
	once := s.Snapshot()
	s.Remove("1")

	assert.Equal(t, once, s.Snapshot())
	assert.Equal(t, []string{"2"}, ids(s.All()))
	assert.Equal(t, []string{"2"}, ids(s.Filtered()))
}

func TestRemoveLeavesSelectionAlone(t *testing.T) {
	s := newTestStore(t, ann())
	s.Select("1")

	s.Remove("1")

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "1", sel.ID)
	assert.Empty(t, s.All())
}

func TestSearchAndSelectDoNotTouchEachOther(t *testing.T) {
	s := newTestStore(t, ann())
	s.Select("1")

	s.Search("zz")

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "1", sel.ID)
	assert.Empty(t, s.Filtered())
}

func TestNewRejectsDuplicateSeedIDs(t *testing.T) {
	_, err := New([]types.Student{ann(), ann()}, WithLogger(quietLogger()))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestNewAssignsMissingSeedIDs(t *testing.T) {
	gen := sequentialIDs()
	s, err := New([]types.Student{
		{StudentInput: types.StudentInput{FirstName: "A"}},
		{ID: "id-1", StudentInput: types.StudentInput{FirstName: "B"}},
	}, WithIDGenerator(gen), WithLogger(quietLogger()))
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "id-2", all[0].ID)
	assert.Equal(t, "id-1", all[1].ID)
}

func TestDefaultGeneratorProducesDistinctIDs(t *testing.T) {
	s, err := New(nil, WithLogger(quietLogger()))
	require.NoError(t, err)

	seen := map[string]bool{}
	for range 200 {
		rec := s.Add(types.StudentInput{FirstName: "X"})
		require.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
}

func TestReadersReturnCopies(t *testing.T) {
	s := newTestStore(t, ann())

	all := s.All()
	all[0].FirstName = "Mutated"

	rec, _ := s.Get("1")
	assert.Equal(t, "Ann", rec.FirstName)
}

// TestRandomOperationsKeepInvariants drives the store with a random mix of
// operations and checks uniqueness, filter correctness and ordering after
// each step.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"Ann", "annie", "Bo", "", "Cyrus", "LEE", "xavier"}
	terms := []string{"", "an", "e", "zz", "X", "bo"}

	s := newTestStore(t, ann())
	for step := 0; step < 500; step++ {
		all := s.All()
		pick := func() string {
			if len(all) == 0 || rng.Intn(10) == 0 {
				return "missing"
			}
			return all[rng.Intn(len(all))].ID
		}
		in := types.StudentInput{
			FirstName:   names[rng.Intn(len(names))],
			LastName:    names[rng.Intn(len(names))],
			CollegeName: names[rng.Intn(len(names))],
		}

		switch rng.Intn(6) {
		case 0:
			s.Search(terms[rng.Intn(len(terms))])
		case 1, 2:
			s.Add(in)
		case 3:
			s.Edit(pick(), in)
		case 4:
			s.Remove(pick())
		case 5:
			s.Select(pick())
		}

		assertInvariants(t, s.Snapshot())
	}
}

func assertInvariants(t *testing.T, v View) {
	t.Helper()

	seen := map[string]bool{}
	for _, r := range v.All {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}

	var want []types.Student
	for _, r := range v.All {
		if Matches(r, v.SearchTerm) {
			want = append(want, r)
		}
	}
	assert.Equal(t, ids(want), ids(v.Filtered))
	assert.Equal(t, want, append([]types.Student(nil), v.Filtered...))
}

func TestConcurrentAccess(t *testing.T) {
	s, err := New([]types.Student{ann()}, WithLogger(quietLogger()))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rec := s.Add(types.StudentInput{FirstName: fmt.Sprintf("w%d-%d", i, j)})
				s.Search("w")
				s.Edit(rec.ID, types.StudentInput{FirstName: "edited"})
				s.Select(rec.ID)
				assertInvariants(t, s.Snapshot())
				if j%2 == 0 {
					s.Remove(rec.ID)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.All(), 1+8*25)
}
