package crates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/cargoplan/pkg/httputil"
	"github.com/matzehuels/cargoplan/pkg/registry"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	c := NewClientWithCache(cache)
	c.baseURL = srv.URL
	return c, srv
}

func TestFetchCrate(t *testing.T) {
	var gotPath, gotAgent string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"crate": {
			"name": "libc",
			"max_version": "0.2.155",
			"description": "Raw FFI bindings",
			"license": "MIT OR Apache-2.0",
			"repository": "https://github.com/rust-lang/libc",
			"downloads": 400000000
		}}`))
	}))

	info, err := c.FetchCrate(context.Background(), "libc", false)
	if err != nil {
		t.Fatalf("FetchCrate: %v", err)
	}

	if gotPath != "/crates/libc" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAgent == "" {
		t.Error("crates.io requires a User-Agent header")
	}
	if info.Name != "libc" || info.Version != "0.2.155" {
		t.Errorf("info = %+v", info)
	}
	if info.License != "MIT OR Apache-2.0" || info.Downloads != 400000000 {
		t.Errorf("info = %+v", info)
	}
}

func TestFetchCrateNotFound(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := c.FetchCrate(context.Background(), "no-such-crate", false)
	if !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchCrateUsesCache(t *testing.T) {
	calls := 0
	c, srv := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"crate": {"name": "serde", "max_version": "1.0.200"}}`))
	}))

	if _, err := c.FetchCrate(context.Background(), "serde", false); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	// Second fetch is served from cache, even with the server gone.
	srv.Close()
	info, err := c.FetchCrate(context.Background(), "serde", false)
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if info.Version != "1.0.200" {
		t.Errorf("cached info = %+v", info)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestFetchCrateRefreshBypassesCache(t *testing.T) {
	calls := 0
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"crate": {"name": "serde", "max_version": "1.0.200"}}`))
	}))

	if _, err := c.FetchCrate(context.Background(), "serde", false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.FetchCrate(context.Background(), "serde", true); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
