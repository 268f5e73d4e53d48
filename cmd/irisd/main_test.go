package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"irisd/internal/config"
	"irisd/pkg/types"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "train", "predict"} {
		c, _, err := root.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Fatalf("missing subcommand %s: %v", name, err)
		}
	}
	for _, f := range []string{"config", "root", "model-name", "log-level", "log-format", "log-file"} {
		if root.PersistentFlags().Lookup(f) == nil {
			t.Fatalf("missing persistent flag --%s", f)
		}
	}
}

func TestTrainThenPredict(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, "train", "--root", root, "--log-level", "off", "--estimators", "25")
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if !strings.Contains(out, filepath.Join(root, "models", "iris_model.json")) {
		t.Fatalf("train output: %q", out)
	}

	out, err = run(t, "predict", "--root", root, "6.3", "3.3", "6.0", "2.5")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	var resp types.PredictionResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("predict output not json: %v (%q)", err, out)
	}
	if resp.Prediction != "virginica" || resp.PredictionIndex != 2 {
		t.Fatalf("unexpected prediction: %+v", resp)
	}
}

func TestPredictWithoutArtifact(t *testing.T) {
	_, err := run(t, "predict", "--root", t.TempDir(), "5.1", "3.5", "1.4", "0.2")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestPredictArgs(t *testing.T) {
	if _, err := run(t, "predict", "5.1", "3.5"); err == nil {
		t.Fatalf("expected arg count error")
	}
	_, err := run(t, "predict", "--root", t.TempDir(), "5.1", "wide", "1.4", "0.2")
	if err == nil || !strings.Contains(err.Error(), "sepal_width") {
		t.Fatalf("expected parse error naming the field, got %v", err)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "irisd.yaml")
	if err := os.WriteFile(p, []byte("root: /from-file\nlog_level: warn\nmodel_name: file.json\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("IRISD_ROOT", "/from-env")
	t.Setenv("IRISD_LOG_LEVEL", "")

	g := &globalFlags{}
	root := newRootCmdWith(g)
	train, _, err := root.Find([]string{"train"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	var got config.Config
	train.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		got, err = loadConfig(cmd, g)
		return err
	}
	root.SetArgs([]string{"train", "--config", p, "--model-name", "flag.json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.Root != "/from-env" {
		t.Fatalf("env should beat file: root=%q", got.Root)
	}
	if got.ModelName != "flag.json" {
		t.Fatalf("flag should beat file: model_name=%q", got.ModelName)
	}
	if got.LogLevel != "warn" || got.Addr != config.DefaultAddr {
		t.Fatalf("file and defaults not applied: %+v", got)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	if _, err := run(t, "train", "--root", t.TempDir(), "--log-format", "xml"); err == nil {
		t.Fatalf("expected invalid config error")
	}
	if _, err := run(t, "train", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing config error")
	}
}

func TestServeHandlerDegradedWithoutArtifact(t *testing.T) {
	cfg := config.Config{Root: t.TempDir()}
	cfg.Defaults()
	svc, err := buildService(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := newHandler(cfg, zerolog.Nop(), svc)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"model_loaded":false`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("predict status=%d", w.Code)
	}
}
