package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAdd(t *testing.T) {
	t.Parallel()

	reg := New(Entry{ID: -100111, Name: "Team_A"})

	require.NoError(t, reg.Add(-100222, "Team_B"))
	name, ok := reg.Get(-100222)
	require.True(t, ok)
	assert.Equal(t, "Team_B", name)

	err := reg.Add(-100111, "Renamed")
	assert.ErrorIs(t, err, ErrExists)
	name, _ = reg.Get(-100111)
	assert.Equal(t, "Team_A", name, "adding an existing id never changes its name")

	err = reg.Add(-100333, "team_a")
	assert.ErrorIs(t, err, ErrNameTaken)
	_, ok = reg.Get(-100333)
	assert.False(t, ok)

	assert.Equal(t, 2, reg.Len())
}

func TestRegistryZeroValue(t *testing.T) {
	t.Parallel()

	var reg Registry
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Entries())
	require.NoError(t, reg.Add(1, "one"))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryRemove(t *testing.T) {
	t.Parallel()

	reg := New(Entry{ID: 1, Name: "one"}, Entry{ID: 2, Name: "two"})

	name, ok := reg.Remove(1)
	require.True(t, ok)
	assert.Equal(t, "one", name)
	assert.Equal(t, []int64{2}, reg.IDs())

	_, ok = reg.Remove(99)
	assert.False(t, ok)
	assert.Equal(t, []int64{2}, reg.IDs(), "removing an absent id leaves the registry unchanged")
}

func TestRegistryEntriesSorted(t *testing.T) {
	t.Parallel()

	reg := New(
		Entry{ID: 5, Name: "five"},
		Entry{ID: -100222, Name: "b"},
		Entry{ID: -100333, Name: "c"},
		Entry{ID: 0, Name: "zero"},
	)

	assert.Equal(t, []int64{-100333, -100222, 0, 5}, reg.IDs())
}

func TestRegistryNameIndexShadowing(t *testing.T) {
	t.Parallel()

	// New does not enforce name uniqueness, so files edited by hand can collide.
	reg := New(Entry{ID: -200, Name: "Ops"}, Entry{ID: -100, Name: "OPS"})

	index := reg.NameIndex()
	assert.Len(t, index, 1)
	assert.Equal(t, int64(-100), index["ops"])
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := New(
		Entry{ID: -100111, Name: "GroupA"},
		Entry{ID: -100222, Name: "GroupB"},
		Entry{ID: -100333, Name: "Team C"},
	)

	tests := []struct {
		name           string
		input          string
		wantResolved   []Entry
		wantUnresolved []string
	}{
		{
			name:         "case and whitespace insensitive",
			input:        "GroupA, groupb ",
			wantResolved: []Entry{{ID: -100111, Name: "GroupA"}, {ID: -100222, Name: "GroupB"}},
		},
		{
			name:           "mixed found and missing",
			input:          "groupa,Team_X",
			wantResolved:   []Entry{{ID: -100111, Name: "GroupA"}},
			wantUnresolved: []string{"Team_X"},
		},
		{
			name:         "names with spaces",
			input:        "team c",
			wantResolved: []Entry{{ID: -100333, Name: "Team C"}},
		},
		{
			name:         "blank tokens and duplicates",
			input:        ",GROUPB,,groupb, ",
			wantResolved: []Entry{{ID: -100222, Name: "GroupB"}},
		},
		{
			name:           "nothing resolves",
			input:          "x,y",
			wantUnresolved: []string{"x", "y"},
		},
		{
			name:  "empty",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolved, unresolved := reg.Resolve(tt.input)
			assert.Equal(t, tt.wantResolved, resolved)
			assert.Equal(t, tt.wantUnresolved, unresolved)
		})
	}
}
