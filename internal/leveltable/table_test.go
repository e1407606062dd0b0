package leveltable

import (
	"os"
	"path/filepath"
	"testing"

	"yonexus/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	entries := table.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, 1, entries[0].Level)
	assert.Equal(t, 2500, table.MaxLevel())

	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].Level, entries[i-1].Level)
		assert.GreaterOrEqual(t, entries[i].Experience, entries[i-1].Experience,
			"experience decreases at level %d", entries[i].Level)
	}

	xp, err := table.ExperienceFor(8)
	require.NoError(t, err)
	assert.Equal(t, int64(4200), xp)

	xp, err = table.ExperienceFor(60)
	require.NoError(t, err)
	assert.Equal(t, int64(3256800), xp)
}

func TestExperienceForGap(t *testing.T) {
	table, err := New([]domain.LevelEntry{
		{Level: 1, Experience: 0},
		{Level: 2, Experience: 100},
		{Level: 4, Experience: 400},
	})
	require.NoError(t, err)

	_, err = table.ExperienceFor(3)
	assert.ErrorIs(t, err, domain.ErrLevelNotFound)

	_, err = table.ExperienceFor(0)
	assert.ErrorIs(t, err, domain.ErrLevelNotFound)
}

func TestNewRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.LevelEntry
	}{
		{name: "empty"},
		{
			name:    "duplicate level",
			entries: []domain.LevelEntry{{Level: 1}, {Level: 1, Experience: 10}},
		},
		{
			name:    "decreasing experience",
			entries: []domain.LevelEntry{{Level: 1, Experience: 100}, {Level: 2, Experience: 50}},
		},
		{
			name:    "level zero",
			entries: []domain.LevelEntry{{Level: 0}},
		},
		{
			name:    "negative experience",
			entries: []domain.LevelEntry{{Level: 1, Experience: -1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			assert.Error(t, err)
		})
	}
}

func TestNewSortsEntries(t *testing.T) {
	table, err := New([]domain.LevelEntry{
		{Level: 3, Experience: 200},
		{Level: 1, Experience: 0},
		{Level: 2, Experience: 100},
	})
	require.NoError(t, err)

	entries := table.Entries()
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Level, entries[1].Level, entries[2].Level})

	entries[0].Experience = 999
	xp, _ := table.ExperienceFor(1)
	assert.Equal(t, int64(0), xp)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	data := `{"experience_table":[{"level":1,"experience":0},{"level":2,"experience":100}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.MaxLevel())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
