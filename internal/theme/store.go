package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// Store writes generated color schemes into a themes directory.
// The directory is created on first save, not on construction.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the themes directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path a theme with the given name is stored at.
func (s *Store) Path(themeName string) string {
	return filepath.Join(s.dir, FileName(themeName))
}

// ErrInvalidName is returned by Save for a theme name that would place the
// file outside the themes directory.
var ErrInvalidName = errors.New("invalid theme name")

// Save writes d to the themes directory, replacing any file with the same
// derived name. It returns the written file path.
func (s *Store) Save(d Descriptor) (string, error) {
	if strings.ContainsAny(d.Name, `/\`) {
		return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, d.Name)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create themes directory: %w", err)
	}

	path := s.Path(d.Name)
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("failed to remove existing theme file: %w", err)
		}
		s.logger.Debug("removed existing theme file", "path", path)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(Encode(d))); err != nil {
		return "", fmt.Errorf("failed to write theme file: %w", err)
	}
	if err := os.Chmod(path, 0644); err != nil {
		return "", fmt.Errorf("failed to set theme file permissions: %w", err)
	}

	return path, nil
}

// Entry describes a generated theme file found in the themes directory.
type Entry struct {
	FileName   string
	Path       string
	ModTime    time.Time
	Descriptor *Descriptor // nil when the file is not valid JSON
}

// List returns the generated theme files, sorted by file name.
// A missing themes directory yields an empty list.
func (s *Store) List() ([]Entry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	var out []Entry
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			s.logger.Debug("failed to stat theme file", "name", e.Name(), "error", err)
			continue
		}

		entry := Entry{
			FileName: e.Name(),
			Path:     filepath.Join(s.dir, e.Name()),
			ModTime:  info.ModTime(),
		}
		if d, err := readDescriptor(entry.Path); err == nil {
			entry.Descriptor = d
		} else {
			s.logger.Debug("theme file is not valid JSON", "path", entry.Path, "error", err)
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out, nil
}

func readDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
