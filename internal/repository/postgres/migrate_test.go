package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/fortuna?sslmode=disable", "pgx5://u:p@localhost:5432/fortuna?sslmode=disable"},
		{"postgresql://localhost/fortuna", "pgx5://localhost/fortuna"},
		{"pgx5://localhost/fortuna", "pgx5://localhost/fortuna"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, migrateURL(tt.in))
	}
}

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestBudgetsAreUniquePerUserCategory(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "migrations/000003_create_budgets.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "UNIQUE (user_id, category)")
}
