// Package checkpoint persists ingest progress so an interrupted profile
// load can resume where it stopped instead of starting over. Checkpoints
// are small JSON files keyed by the source file being ingested.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrCheckpointNotFound is returned when no checkpoint exists for a source.
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	// ErrInvalidSourceID is returned when a source ID cannot be used as a file name.
	ErrInvalidSourceID = errors.New("invalid source id")
)

// IngestCheckpoint records how far an ingest run got through one source
// file. Records are processed in file order, so Processed is both a count
// and a resume offset.
type IngestCheckpoint struct {
	SourceID  string    `json:"source_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"last_updated_at"`

	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
	Completed bool   `json:"completed"`
	LastError string `json:"last_error,omitempty"`
}

// Manager reads and writes ingest checkpoints under a single directory.
type Manager struct {
	dir string
}

// NewManager creates a checkpoint manager. An empty dir selects
// os.TempDir()/lawsearch-checkpoints.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "lawsearch-checkpoints")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// SourceID derives the checkpoint key for a profiles file from its base
// name, stripped of extension and path-unsafe characters.
func SourceID(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, base)
	return base
}

// validateSourceID rejects IDs that would escape the checkpoint directory.
func validateSourceID(sourceID string) error {
	if sourceID == "" {
		return ErrInvalidSourceID
	}
	if strings.Contains(sourceID, "..") {
		return ErrInvalidSourceID
	}
	if strings.ContainsAny(sourceID, `/\`) {
		return ErrInvalidSourceID
	}
	if strings.ContainsRune(sourceID, 0) {
		return ErrInvalidSourceID
	}
	return nil
}

func (m *Manager) path(sourceID string) (string, error) {
	if err := validateSourceID(sourceID); err != nil {
		return "", err
	}
	return filepath.Join(m.dir, sourceID+".checkpoint.json"), nil
}

// Save writes a checkpoint atomically, stamping UpdatedAt.
func (m *Manager) Save(ctx context.Context, cp *IngestCheckpoint) error {
	path, err := m.path(cp.SourceID)
	if err != nil {
		return err
	}

	cp.UpdatedAt = time.Now()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = cp.UpdatedAt
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize checkpoint: %w", err)
	}
	return nil
}

// Load reads the checkpoint for a source, or ErrCheckpointNotFound.
func (m *Manager) Load(ctx context.Context, sourceID string) (*IngestCheckpoint, error) {
	path, err := m.path(sourceID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var cp IngestCheckpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint: %w", err)
	}
	return &cp, nil
}

// LoadOrCreate returns the existing checkpoint for sourceID, or a fresh one.
// The second return reports whether an existing checkpoint was found.
func (m *Manager) LoadOrCreate(ctx context.Context, sourceID string) (*IngestCheckpoint, bool, error) {
	cp, err := m.Load(ctx, sourceID)
	if err == nil {
		return cp, true, nil
	}
	if !errors.Is(err, ErrCheckpointNotFound) {
		return nil, false, err
	}
	return &IngestCheckpoint{SourceID: sourceID, CreatedAt: time.Now()}, false, nil
}

// Delete removes the checkpoint for a source. Missing checkpoints are not
// an error.
func (m *Manager) Delete(ctx context.Context, sourceID string) error {
	path, err := m.path(sourceID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}

// List returns every checkpoint in the directory, skipping unreadable files.
func (m *Manager) List(ctx context.Context) ([]*IngestCheckpoint, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint directory: %w", err)
	}

	var checkpoints []*IngestCheckpoint
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".checkpoint.json") {
			continue
		}
		sourceID := strings.TrimSuffix(entry.Name(), ".checkpoint.json")
		cp, err := m.Load(ctx, sourceID)
		if err != nil {
			continue
		}
		checkpoints = append(checkpoints, cp)
	}
	return checkpoints, nil
}

// CleanOld removes checkpoints not updated within maxAge. Returns how many
// were removed.
func (m *Manager) CleanOld(ctx context.Context, maxAge time.Duration) (int, error) {
	checkpoints, err := m.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, cp := range checkpoints {
		if cp.UpdatedAt.After(cutoff) {
			continue
		}
		if err := m.Delete(ctx, cp.SourceID); err != nil {
			continue
		}
		removed++
	}
	return removed, nil
}

// Summary renders a one-line progress description for CLI output.
func (c *IngestCheckpoint) Summary() string {
	status := "in progress"
	if c.Completed {
		status = "completed"
	}
	return fmt.Sprintf("%s: %d/%d ingested, %d failed (%s)",
		c.SourceID, c.Processed, c.Total, c.Failed, status)
}
