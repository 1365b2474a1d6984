package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add employee records", "add_employee_records"},
		{"Add-Siae-Brand", "add_siae_brand"},
		{"ADD__ASP__ID", "add_asp_id"},
		{"   spaces   ", "spaces"},
		{"index on coords!", "index_on_coords"},
		{"données structure", "donnes_structure"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	t.Run("first migration", func(t *testing.T) {
		mf, err := CreateMigration(dir, "init schema", "Users and structures")
		require.NoError(t, err)
		assert.Equal(t, "000001", mf.Version)
		assert.Equal(t, filepath.Join(dir, "000001_init_schema.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_init_schema.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "-- Description: Users and structures")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "(Rollback)")
	})

	t.Run("numbers after the last migration", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_manual.up.sql"), nil, 0o644))

		mf, err := CreateMigration(dir, "add siae brand", "")
		require.NoError(t, err)
		assert.Equal(t, "000008", mf.Version)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := CreateMigration(dir, "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		list, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("sorted up migrations only", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"000002_b.up.sql", "000002_b.down.sql",
			"000001_a.up.sql", "000001_a.down.sql",
			"README.md",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

		list, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_a", "000002_b"}, list)
	})
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	list, err := ListMigrations("../../../migrations")
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for _, base := range list {
		_, err := os.Stat(filepath.Join("../../../migrations", base+".down.sql"))
		assert.NoError(t, err, base)
	}
}
