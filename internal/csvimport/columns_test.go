package csvimport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumns_SurveyHeader(t *testing.T) {
	table, err := ReadTable(openFixture(t))
	require.NoError(t, err)

	cols := ResolveColumns(table.Header, nil)

	assert.Equal(t, 0, cols.FullName)
	assert.Equal(t, 1, cols.Email)
	assert.Equal(t, 2, cols.College)
	assert.Equal(t, 3, cols.RegistrationType)
	assert.Equal(t, 4, cols.IndividualExperience)
	assert.Equal(t, 5, cols.IndividualTheme)
	assert.Equal(t, 6, cols.TeamExperience)
	assert.Equal(t, 7, cols.TeamTheme)
	assert.Equal(t, 8, cols.SeekingMembers)
	assert.Equal(t, 9, cols.SlotsNeeded)
	assert.Equal(t, 10, cols.DeclaredMemberCount)
	assert.Equal(t, 11, cols.MemberName(1))
	assert.Equal(t, 12, cols.MemberEmail(1))
	assert.Equal(t, 13, cols.MemberName(2))
	assert.Equal(t, 14, cols.MemberEmail(2))
	assert.Equal(t, -1, cols.MemberName(3))
	assert.Empty(t, cols.Missing())
}

func TestResolveColumns_SlotDigitBoundary(t *testing.T) {
	cols := ResolveColumns([]string{"Full Name", "Team Member 10", "Team Member 1"}, nil)

	assert.Equal(t, 2, cols.MemberName(1))
	assert.Equal(t, 1, cols.MemberName(10))
}

func TestResolveColumns_MaxMemberSlot(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   int
	}{
		{"no member columns", []string{"Full Name", "Email"}, 0},
		{"default slots", []string{"Full Name", "Team Member 1", "Team Member 3"}, 3},
		{"beyond default slots", []string{"Full Name", "Team Member 2", "Team Member 7 Name", "Team Member 9 Email"}, 7},
		{"unrelated numbers", []string{"Full Name", "Team Member 1", "Year 2025"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveColumns(tt.header, nil).MaxMemberSlot())
		})
	}
}

func TestResolveColumns_NameAndEmailKeptApart(t *testing.T) {
	cols := ResolveColumns([]string{"Full Name", "Team Member 1 Email", "Team Member 1"}, nil)

	assert.Equal(t, 2, cols.MemberName(1))
	assert.Equal(t, 1, cols.MemberEmail(1))
}

func TestResolveColumns_FallbackMemberKeyword(t *testing.T) {
	cols := ResolveColumns([]string{"Full Name", "Name of member 2 (optional)", "Email of member 2"}, nil)

	assert.Equal(t, 1, cols.MemberName(2))
	assert.Equal(t, 2, cols.MemberEmail(2))
	assert.Equal(t, -1, cols.MemberName(1))
}

func TestResolveColumns_ExactBeatsSubstring(t *testing.T) {
	cols := ResolveColumns([]string{"Full Name (as on ID)", "  full   name "}, nil)

	assert.Equal(t, 1, cols.FullName)
}

func TestResolveColumns_Missing(t *testing.T) {
	cols := ResolveColumns([]string{"Timestamp"}, nil)

	assert.Equal(t, -1, cols.FullName)
	assert.ElementsMatch(t,
		[]string{"full name", "registration type", "email", "college", "declared member count"},
		cols.Missing(),
	)
}

func TestLoadAliases(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		aliases, err := LoadAliases("")
		require.NoError(t, err)
		assert.Nil(t, aliases)
	})

	t.Run("extends matchers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "columns.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
full_name:
  - Your name
registration_type:
  - Solo or squad?
member_name_patterns:
  - "Teammate #{i}"
`), 0o600))

		aliases, err := LoadAliases(path)
		require.NoError(t, err)

		cols := ResolveColumns([]string{"Solo or squad?", "Your name", "Teammate #1", "Teammate #2"}, aliases)
		assert.Equal(t, 1, cols.FullName)
		assert.Equal(t, 0, cols.RegistrationType)
		assert.Equal(t, 2, cols.MemberName(1))
		assert.Equal(t, 3, cols.MemberName(2))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAliases(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "columns.yaml")
		require.NoError(t, os.WriteFile(path, []byte("full_name: [unterminated"), 0o600))

		_, err := LoadAliases(path)
		assert.Error(t, err)
	})
}

func TestContainsBounded(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"team member 1", "member 1", true},
		{"team member 10", "member 1", false},
		{"member 10 or member 1 name", "member 1", true},
		{"member 1 name", "member 1", true},
		{"member", "member 1", false},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, containsBounded(tt.s, tt.sub))
		})
	}
}
