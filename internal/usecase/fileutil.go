package usecase

import (
	"os"
	"path/filepath"
	"strings"
)

func readFileContent(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// writeFileAtomic writes data to path via a temp-file-then-rename, so a
// crash mid-write never leaves a truncated checkpoint or index file.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func extensionOf(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimPrefix(ext, ".")
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
