package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Exporter writes generated files somewhere outside the process.
type Exporter interface {
	Put(path string, r io.Reader) (Written, error)
}

// Written describes one exported file.
type Written struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// LocalExporter writes under Root on the local filesystem.
type LocalExporter struct {
	Root string
}

func (s *LocalExporter) resolve(p string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(p, "/")))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("export: path %q escapes root", p)
	}
	return filepath.Join(s.Root, clean), nil
}

func (s *LocalExporter) Put(p string, r io.Reader) (Written, error) {
	full, err := s.resolve(p)
	if err != nil {
		return Written{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Written{}, err
	}
	f, err := os.Create(full)
	if err != nil {
		return Written{}, err
	}
	n, sum, err := copyClose(f, r)
	if err != nil {
		return Written{}, err
	}
	return Written{Path: p, Size: n, SHA256: sum}, nil
}

// copyClose copies r into f and closes it. A failed close fails the write.
func copyClose(f io.WriteCloser, r io.Reader) (int64, string, error) {
	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}

// Export writes every file in path order and stops at the first error.
func Export(e Exporter, files Files) ([]Written, error) {
	out := make([]Written, 0, len(files))
	for _, p := range files.Paths() {
		w, err := e.Put(p, strings.NewReader(files[p]))
		if err != nil {
			return out, fmt.Errorf("export %s: %w", p, err)
		}
		out = append(out, w)
	}
	return out, nil
}
