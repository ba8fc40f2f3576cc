package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Vehicle Plate Index", "add index on vehicles.plate_number")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_vehicle_plate_index.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_vehicle_plate_index.down.sql"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add index on vehicles.plate_number")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "rollback")
}

func TestCreateMigration_MakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(dir, "init", "initial schema")
	require.NoError(t, err)
	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"create sync tables", "create_sync_tables"},
		{"Add-Plate--Index", "add_plate_index"},
		{"weird!chars@here", "weirdcharshere"},
		{"trailing space ", "trailing_space"},
		{"UPPER_case_123", "upper_case_123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.input), "name %q", tt.input)
	}
}
