package leveltable

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"yonexus/internal/domain"
)

//go:embed experience_table.json
var defaultTable []byte

// Table maps a level to the cumulative experience required to reach it.
// It is immutable after construction.
type Table struct {
	entries []domain.LevelEntry
	byLevel map[int]int64
}

type tableFile struct {
	ExperienceTable []domain.LevelEntry `json:"experience_table"`
}

// Default returns the Tibia experience table bundled with the binary.
func Default() (*Table, error) {
	return Parse(defaultTable)
}

// Load reads a table from path, or the bundled table when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open experience table: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read experience table: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Table, error) {
	var file tableFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode experience table: %w", err)
	}
	return New(file.ExperienceTable)
}

// New validates entries and builds a table. Levels must be unique and
// positive, and experience must not decrease as the level grows.
func New(entries []domain.LevelEntry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("experience table is empty")
	}

	sorted := make([]domain.LevelEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	byLevel := make(map[int]int64, len(sorted))
	for i, e := range sorted {
		if e.Level < 1 {
			return nil, fmt.Errorf("experience table: invalid level %d", e.Level)
		}
		if e.Experience < 0 {
			return nil, fmt.Errorf("experience table: negative experience at level %d", e.Level)
		}
		if _, dup := byLevel[e.Level]; dup {
			return nil, fmt.Errorf("experience table: duplicate level %d", e.Level)
		}
		if i > 0 && e.Experience < sorted[i-1].Experience {
			return nil, fmt.Errorf("experience table: experience decreases at level %d", e.Level)
		}
		byLevel[e.Level] = e.Experience
	}

	return &Table{entries: sorted, byLevel: byLevel}, nil
}

// ExperienceFor returns the exact table value for level. Gaps are data
// errors and are never interpolated.
func (t *Table) ExperienceFor(level int) (int64, error) {
	xp, ok := t.byLevel[level]
	if !ok {
		return 0, fmt.Errorf("%w: %d", domain.ErrLevelNotFound, level)
	}
	return xp, nil
}

// Entries returns the table ordered by level.
func (t *Table) Entries() []domain.LevelEntry {
	out := make([]domain.LevelEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) MaxLevel() int {
	return t.entries[len(t.entries)-1].Level
}
