package artifact

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"irisd/internal/forest"
)

func tinyForest() *forest.Forest {
	return &forest.Forest{
		NFeatures: 4,
		NClasses:  2,
		Trees: []forest.Tree{{Nodes: []forest.Node{
			{Feature: 2, Threshold: 2.5, Left: 1, Right: 2},
			{Feature: -1, Left: -1, Right: -1, Value: []float64{1, 0}},
			{Feature: -1, Left: -1, Right: -1, Value: []float64{0, 1}},
		}}},
	}
}

func writeArtifactFile(t *testing.T, s *Store, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestNewStorePath(t *testing.T) {
	root := t.TempDir()
	s, err := NewStore(root, "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if want := filepath.Join(root, "models", DefaultName); s.Path() != want {
		t.Fatalf("path=%q want %q", s.Path(), want)
	}
	if _, err := NewStore(root, "../escape.json"); err == nil {
		t.Fatalf("expected error for name with directory part")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := NewStore(t.TempDir(), "m.json")
	meta := &Metadata{TrainedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), Seed: 42, Accuracy: 0.9, TrainSamples: 8, TestSamples: 2}
	in := &Artifact{Classifier: tinyForest(), Labels: []string{"a", "b"}, Features: []string{"w", "x", "y", "z"}, Meta: meta}
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(out.Labels, in.Labels) || !reflect.DeepEqual(out.Features, in.Features) {
		t.Fatalf("labels/features changed: %+v", out)
	}
	if !reflect.DeepEqual(out.Classifier, in.Classifier) {
		t.Fatalf("classifier changed")
	}
	if out.Meta == nil || !out.Meta.TrainedAt.Equal(meta.TrainedAt) || out.Meta.Seed != 42 {
		t.Fatalf("metadata changed: %+v", out.Meta)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s, _ := NewStore(t.TempDir(), "")
	if err := s.Save(&Artifact{Classifier: tinyForest(), Labels: []string{"a", "b"}}); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	if err := s.Save(&Artifact{Classifier: tinyForest(), Labels: []string{"c", "d"}}); err != nil {
		t.Fatalf("save 2: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Labels[0] != "c" {
		t.Fatalf("expected second save to win, got %v", out.Labels)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	s, _ := NewStore(t.TempDir(), "")
	if err := s.Save(nil); err == nil {
		t.Fatalf("expected error for nil artifact")
	}
	if err := s.Save(&Artifact{Classifier: &forest.Forest{NFeatures: 4, NClasses: 2}}); err == nil {
		t.Fatalf("expected error for forest without trees")
	}
	if ok, _ := exists(s.Path()); ok {
		t.Fatalf("invalid save must not create a file")
	}
}

func exists(p string) (bool, error) {
	_, err := os.Stat(p)
	return err == nil, err
}

func TestLoadNotFound(t *testing.T) {
	s, _ := NewStore(t.TempDir(), "")
	_, err := s.Load()
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if IsCorrupt(err) {
		t.Fatalf("not found must not be classified as corrupt")
	}
}

func TestLoadCorrupt(t *testing.T) {
	cases := map[string]string{
		"malformed json":  `{"format": "irisd.forest/v1", "model": `,
		"wrong format":    `{"format": "sklearn/joblib", "model": {"n_features": 4, "n_classes": 1, "trees": []}}`,
		"missing format":  `{"model": {"n_features": 4, "n_classes": 1}}`,
		"missing model":   `{"format": "irisd.forest/v1", "target_names": ["a"]}`,
		"no trees":        `{"format": "irisd.forest/v1", "model": {"n_features": 4, "n_classes": 2, "trees": []}}`,
		"bad leaf":        `{"format": "irisd.forest/v1", "model": {"n_features": 4, "n_classes": 2, "trees": [{"nodes": [{"feature": -1, "value": [1]}]}]}}`,
		"wrong structure": `[1, 2, 3]`,
	}
	for name, content := range cases {
		s, _ := NewStore(t.TempDir(), "")
		writeArtifactFile(t, s, content)
		_, err := s.Load()
		if !IsCorrupt(err) {
			t.Fatalf("%s: expected corrupt, got %v", name, err)
		}
	}
}

func TestLoadDirectoryIsCorrupt(t *testing.T) {
	s, _ := NewStore(t.TempDir(), "")
	if err := os.MkdirAll(s.Path(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := s.Load(); !IsCorrupt(err) {
		t.Fatalf("expected corrupt for directory, got %v", err)
	}
}

func TestLoadWithoutLabels(t *testing.T) {
	s, _ := NewStore(t.TempDir(), "")
	if err := s.Save(&Artifact{Classifier: tinyForest()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out.Labels) != 0 {
		t.Fatalf("expected no labels, got %v", out.Labels)
	}
}
