package utils

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tieubaoca/chatpdf/types"
)

// MatchesAccept reports whether name passes an HTML-style accept filter,
// e.g. "application/pdf" or ".pdf,.txt". An empty filter accepts everything.
func MatchesAccept(name, accept string) bool {
	if strings.TrimSpace(accept) == "" {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	contentType := DetectContentType(name)
	for _, item := range strings.Split(accept, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		switch {
		case item == "":
			continue
		case strings.HasPrefix(item, "."):
			if ext == item {
				return true
			}
		case strings.HasSuffix(item, "/*"):
			if strings.HasPrefix(contentType, strings.TrimSuffix(item, "*")) {
				return true
			}
		default:
			if contentType == item {
				return true
			}
		}
	}
	return false
}

func DetectContentType(name string) string {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		return "application/octet-stream"
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return contentType
}

// LoadUploadSet reads the given paths into memory. Files named directly are
// always taken; directories contribute only entries that pass accept,
// sorted by name.
func LoadUploadSet(paths []string, accept string) (types.UploadSet, error) {
	set := make(types.UploadSet, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			blob, err := ReadFileBlob(path)
			if err != nil {
				return nil, err
			}
			set = append(set, blob)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory: %w", err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !MatchesAccept(entry.Name(), accept) {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			blob, err := ReadFileBlob(filepath.Join(path, name))
			if err != nil {
				return nil, err
			}
			set = append(set, blob)
		}
	}
	return set, nil
}

func ReadFileBlob(path string) (types.FileBlob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FileBlob{}, fmt.Errorf("failed to read file: %w", err)
	}
	return types.FileBlob{
		Name:        filepath.Base(path),
		ContentType: DetectContentType(path),
		Data:        data,
	}, nil
}

