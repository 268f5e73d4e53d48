package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"irisd/internal/artifact"
	"irisd/internal/httpapi"
	"irisd/internal/inference"
	"irisd/internal/training"
)

// trainInto writes a model artifact under root using the default training run.
func trainInto(t *testing.T, root string) *artifact.Store {
	t.Helper()
	store, err := artifact.NewStore(root, "")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := training.Run(store, training.Options{}, zerolog.Nop()); err != nil {
		t.Fatalf("train: %v", err)
	}
	return store
}

// newServerForRoot starts the full HTTP stack over whatever artifact root holds.
func newServerForRoot(t *testing.T, root string, opts ...inference.Option) (*httptest.Server, *inference.Service) {
	t.Helper()
	store, err := artifact.NewStore(root, "")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	svc, err := inference.New(inference.StoreLoader{Store: store}, opts...)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	_ = svc.Initialize()
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv, svc
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
