package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "catalogcli/internal/errors"
)

// catalogExtensions lists the file types the loader can read
var catalogExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xlsm": true,
}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds catalog files below a base path
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// IsCatalogFile reports whether name has an extension the loader reads
func IsCatalogFile(name string) bool {
	return catalogExtensions[strings.ToLower(filepath.Ext(name))]
}

// FindCatalogFiles finds the CSV and workbook files directly inside dir,
// oldest first. Relative dirs are resolved against the base path.
func (d *Discovery) FindCatalogFiles(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsCatalogFile(entry.Name()) {
			continue
		}
		// Office lock files such as ~$titles.xlsx
		if strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if !file.ModTime.Before(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}

// ResolveInput turns a catalog location into a file path. A file path is
// returned unchanged; a directory resolves to its most recently modified
// catalog file.
func (d *Discovery) ResolveInput(path string) (string, error) {
	fullPath := path
	if !filepath.IsAbs(path) && d.basePath != "" {
		fullPath = filepath.Join(d.basePath, path)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return "", apperrors.NewDataSourceError(fullPath, err)
	}
	if !info.IsDir() {
		return fullPath, nil
	}

	files, err := d.FindCatalogFiles(fullPath)
	if err != nil {
		return "", apperrors.NewDataSourceError(fullPath, err)
	}
	latest, ok := GetLatestFile(files)
	if !ok {
		return "", apperrors.NewDataSourceError(fullPath, fmt.Errorf("no catalog files (.csv, .xlsx) in directory"))
	}
	return latest.Path, nil
}
