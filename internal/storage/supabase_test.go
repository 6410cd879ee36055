package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wedding-app-go/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, maxBytes int64) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(
		config.SupabaseConfig{URL: server.URL + "/", ServiceKey: "service-key"},
		config.StorageConfig{Bucket: "wedding-media", MaxUploadBytes: maxBytes},
		nil,
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRequiresConfig(t *testing.T) {
	_, err := NewClient(config.SupabaseConfig{URL: "http://x"}, config.StorageConfig{Bucket: "b"}, nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestUpload(t *testing.T) {
	var gotPath, gotAuth, gotType, gotUpsert, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"wedding-media/w1/photos/p1.jpg"}`))
	}, 0)

	publicURL, err := client.Upload(context.Background(), "/w1/photos/my photo.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if gotPath != "/storage/v1/object/wedding-media/w1/photos/my%20photo.jpg" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer service-key" || gotType != "image/jpeg" || gotUpsert != "true" {
		t.Fatalf("unexpected headers: %q %q %q", gotAuth, gotType, gotUpsert)
	}
	if gotBody != "jpeg-bytes" {
		t.Fatalf("unexpected body %q", gotBody)
	}
	if !strings.HasSuffix(publicURL, "/storage/v1/object/public/wedding-media/w1/photos/my%20photo.jpg") {
		t.Fatalf("unexpected public url %q", publicURL)
	}
}

func TestUploadRejectsOversizedBody(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, 4)

	_, err := client.Upload(context.Background(), "w1/photos/p.jpg", "image/jpeg", strings.NewReader("12345"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if called {
		t.Fatalf("expected no request for an oversized body")
	}
}

func TestUploadSurfacesServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"new row violates row-level security policy"}`))
	}, 0)

	_, err := client.Upload(context.Background(), "w1/photos/p.jpg", "", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "row-level security") {
		t.Fatalf("expected server message in error, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`[]`))
	}, 0)

	if err := client.Remove(context.Background(), "w1/contracts/c1/deal.pdf"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/storage/v1/object/wedding-media" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if len(gotBody["prefixes"]) != 1 || gotBody["prefixes"][0] != "w1/contracts/c1/deal.pdf" {
		t.Fatalf("unexpected body %+v", gotBody)
	}

	if err := client.Remove(context.Background(), " / "); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}
