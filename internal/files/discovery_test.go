package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "catalogcli/internal/errors"
)

// touch creates name in dir with the given modification time
func touch(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("show_id\n"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestFindCatalogFiles(t *testing.T) {
	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{
			name:  "only catalogs",
			files: []string{"a.csv", "b.xlsx", "c.XLSM"},
			want:  []string{"a.csv", "b.xlsx", "c.XLSM"},
		},
		{
			name:  "mixed file types",
			files: []string{"titles.csv", "notes.txt", "report.pdf", "legacy.xls"},
			want:  []string{"titles.csv"},
		},
		{
			name:  "office lock file",
			files: []string{"~$titles.xlsx", "titles.xlsx"},
			want:  []string{"titles.xlsx"},
		},
		{
			name:  "empty directory",
			files: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for i, name := range tt.files {
				touch(t, dir, name, base.Add(time.Duration(i)*time.Hour))
			}

			found, err := NewDiscovery("").FindCatalogFiles(dir)
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFindCatalogFiles_RelativeToBase(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "data"), 0755))
	touch(t, filepath.Join(base, "data"), "titles.csv", time.Now())

	found, err := NewDiscovery(base).FindCatalogFiles("data")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(base, "data", "titles.csv"), found[0].Path)

	_, err = NewDiscovery(base).FindCatalogFiles("missing")
	assert.Error(t, err)
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	now := time.Now()
	latest, ok := GetLatestFile([]FileInfo{
		{Name: "old.csv", ModTime: now.Add(-time.Hour)},
		{Name: "new.csv", ModTime: now},
		{Name: "older.csv", ModTime: now.Add(-2 * time.Hour)},
	})
	require.True(t, ok)
	assert.Equal(t, "new.csv", latest.Name)
}

func TestResolveInput(t *testing.T) {
	dir := t.TempDir()
	old := touch(t, dir, "2023.csv", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	newest := touch(t, dir, "2024.xlsx", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0755))

	d := NewDiscovery("")

	got, err := d.ResolveInput(old)
	require.NoError(t, err)
	assert.Equal(t, old, got, "files are used as is")

	got, err = d.ResolveInput(dir)
	require.NoError(t, err)
	assert.Equal(t, newest, got)

	got, err = NewDiscovery(dir).ResolveInput("2023.csv")
	require.NoError(t, err)
	assert.Equal(t, old, got)

	_, err = d.ResolveInput(empty)
	assert.ErrorIs(t, err, apperrors.ErrDataSource)

	_, err = d.ResolveInput(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, apperrors.ErrDataSource)
}
