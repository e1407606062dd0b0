package main

import (
	"strings"
	"testing"

	"yonexus/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImport(t *testing.T) {
	in := `# exported from the old tracker
2026-01-04 1,250,000

2026-01-05 -30000
2026-01-06 0
`
	entries, err := parseImport(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []domain.XpLog{
		{Day: "2026-01-04", Xp: 1_250_000},
		{Day: "2026-01-05", Xp: -30_000},
		{Day: "2026-01-06", Xp: 0},
	}, entries)
}

func TestParseImportErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "missing xp", in: "2026-01-04\n", want: "line 1"},
		{name: "bad date", in: "2026-01-04 1\n04/01/2026 5\n", want: "line 2: bad date"},
		{name: "bad xp", in: "2026-01-04 lots\n", want: "bad xp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseImport(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
