// Package storage owns the shared upload and output directories. The only
// discipline it enforces is that artifact names are unique per job and that
// client-supplied names can never escape their directory.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound reports a missing upload or artifact.
var ErrNotFound = errors.New("file not found")

// ErrBadName rejects names that would escape the storage directories.
var ErrBadName = errors.New("invalid file name")

// ArtifactPrefix starts every persisted output name.
const ArtifactPrefix = "obfuscated"

// Store resolves uploads and persists artifacts under two shared
// directories. The per-process counter combined with a random suffix keeps
// output names collision-free under sub-millisecond concurrent submission.
type Store struct {
	uploadDir string
	outputDir string
	counter   atomic.Uint64

	stat      func(string) (os.FileInfo, error)
	readFile  func(string) ([]byte, error)
	writeFile func(string, []byte, os.FileMode) error
	mkdirAll  func(string, os.FileMode) error
}

// New creates a store over the given directories with real OS dependencies.
func New(uploadDir, outputDir string) *Store {
	return &Store{
		uploadDir: uploadDir,
		outputDir: outputDir,
		stat:      os.Stat,
		readFile:  os.ReadFile,
		writeFile: os.WriteFile,
		mkdirAll:  os.MkdirAll,
	}
}

// EnsureDirs creates both storage directories.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.uploadDir, s.outputDir} {
		if err := s.mkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage directory %s: %w", dir, err)
		}
	}
	return nil
}

// UploadDir returns the shared upload directory.
func (s *Store) UploadDir() string {
	return s.uploadDir
}

// OutputDir returns the shared output directory.
func (s *Store) OutputDir() string {
	return s.outputDir
}

// ReadUpload returns the content of a previously uploaded file.
func (s *Store) ReadUpload(name string) (string, error) {
	path, err := s.safeJoin(s.uploadDir, name)
	if err != nil {
		return "", err
	}

	data, err := s.readFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("upload %s: %w", name, ErrNotFound)
		}
		return "", fmt.Errorf("read upload %s: %w", name, err)
	}
	return string(data), nil
}

// SaveUpload stores one raw upload under a sanitized unique name and
// returns that name.
func (s *Store) SaveUpload(original string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}

	base := sanitizeUploadName(original)
	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], base)
	if err := s.writeFile(filepath.Join(s.uploadDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return name, nil
}

// maxNameAttempts bounds the collision-check retries in WriteArtifact.
const maxNameAttempts = 8

// WriteArtifact persists content under a fresh collision-free name and
// returns the name. The candidate is re-checked for existence before the
// write commits to it; a stat failure other than non-existence is a
// persistence error, not a collision.
func (s *Store) WriteArtifact(content string) (string, error) {
	var name string
	found := false
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name = fmt.Sprintf(
			"%s-%d-%d-%s.js",
			ArtifactPrefix,
			time.Now().UnixMilli(),
			s.counter.Add(1),
			uuid.NewString()[:8],
		)
		_, err := s.stat(filepath.Join(s.outputDir, name))
		if errors.Is(err, os.ErrNotExist) {
			found = true
			break
		}
		if err != nil {
			return "", fmt.Errorf("probe artifact name %s: %w", name, err)
		}
	}
	if !found {
		return "", fmt.Errorf("no free artifact name after %d attempts", maxNameAttempts)
	}

	if err := s.writeFile(filepath.Join(s.outputDir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", name, err)
	}
	return name, nil
}

// ArtifactPath resolves a persisted artifact name for download, verifying
// existence.
func (s *Store) ArtifactPath(name string) (string, error) {
	path, err := s.safeJoin(s.outputDir, name)
	if err != nil {
		return "", err
	}
	if _, err := s.stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("artifact %s: %w", name, ErrNotFound)
		}
		return "", fmt.Errorf("stat artifact %s: %w", name, err)
	}
	return path, nil
}

// safeJoin joins a client-supplied name onto dir, rejecting separators and
// parent references.
func (s *Store) safeJoin(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%q: %w", name, ErrBadName)
	}
	return filepath.Join(dir, name), nil
}

// sanitizeUploadName strips path components and odd characters from a
// client file name, keeping a recognizable suffix.
func sanitizeUploadName(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return "upload.js"
	}
	return cleaned
}
