// Package artifact persists the trained classifier and its class labels as a
// single file under <root>/models/.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"irisd/internal/common/fsutil"
	"irisd/internal/forest"
)

const (
	// FormatV1 tags files written by this package.
	FormatV1 = "irisd.forest/v1"
	// ModelsDir is the directory under the installation root holding artifacts.
	ModelsDir = "models"
	// DefaultName is the artifact file name used when none is configured.
	DefaultName = "iris_model.json"
)

// Metadata records how an artifact was produced. It is informational only.
type Metadata struct {
	TrainedAt    time.Time `json:"trained_at"`
	Seed         int64     `json:"seed"`
	Accuracy     float64   `json:"accuracy"`
	TrainSamples int       `json:"train_samples"`
	TestSamples  int       `json:"test_samples"`
}

// Artifact is a trained classifier plus the label for each class index.
// Labels may be shorter than the class count; callers fall back to synthetic
// labels for the missing indices.
type Artifact struct {
	Classifier *forest.Forest
	Labels     []string
	Features   []string
	Meta       *Metadata
}

// fileV1 is the on-disk layout.
type fileV1 struct {
	Format   string         `json:"format"`
	Labels   []string       `json:"target_names,omitempty"`
	Features []string       `json:"feature_names,omitempty"`
	Model    *forest.Forest `json:"model"`
	Meta     *Metadata      `json:"metadata,omitempty"`
}

// Store reads and writes the artifact at a fixed path.
type Store struct {
	path string
}

// NewStore resolves <root>/models/<name>. An empty name selects DefaultName.
func NewStore(root, name string) (*Store, error) {
	base, err := fsutil.ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if filepath.Base(name) != name {
		return nil, fmt.Errorf("artifact name must be a bare file name, got %q", name)
	}
	return &Store{path: filepath.Join(base, ModelsDir, name)}, nil
}

// Path returns the absolute artifact location.
func (s *Store) Path() string { return s.path }

// Load reads and validates the artifact. It fails with an error matching
// IsNotFound when the file is absent and IsCorrupt when it cannot be decoded
// into a usable classifier. There is no retry.
func (s *Store) Load() (*Artifact, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFoundError{path: s.path}
		}
		return nil, corruptError{path: s.path, err: err}
	}
	if fi.IsDir() {
		return nil, corruptError{path: s.path, err: errors.New("path is a directory")}
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, corruptError{path: s.path, err: err}
	}
	var f fileV1
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, corruptError{path: s.path, err: fmt.Errorf("decode: %w", err)}
	}
	if f.Format != FormatV1 {
		return nil, corruptError{path: s.path, err: fmt.Errorf("unsupported format %q", f.Format)}
	}
	if f.Model == nil {
		return nil, corruptError{path: s.path, err: errors.New("missing model")}
	}
	if err := f.Model.Validate(); err != nil {
		return nil, corruptError{path: s.path, err: fmt.Errorf("invalid model: %w", err)}
	}
	return &Artifact{Classifier: f.Model, Labels: f.Labels, Features: f.Features, Meta: f.Meta}, nil
}

// Save writes a atomically, replacing any existing artifact. Concurrent
// writers are not coordinated.
func (s *Store) Save(a *Artifact) error {
	if a == nil || a.Classifier == nil {
		return errors.New("artifact has no classifier")
	}
	if err := a.Classifier.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid model: %w", err)
	}
	b, err := json.Marshal(fileV1{
		Format:   FormatV1,
		Labels:   a.Labels,
		Features: a.Features,
		Model:    a.Classifier,
		Meta:     a.Meta,
	})
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
