package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/cargoplan/pkg/cache"
	"github.com/matzehuels/cargoplan/pkg/plan"
	"github.com/matzehuels/cargoplan/pkg/store"
)

const testDescriptor = `
[package]
name = "deltachat_ffi"
version = "1.112.0"

[lib]
name = "deltachat"
crate-type = ["cdylib", "staticlib"]

[dependencies]
deltachat = { path = "../deltachat", default-features = false }
deltachat-jsonrpc = { version = "1.112.0", optional = true }
libc = "0.2"

[features]
default = ["vendored"]
vendored = ["deltachat/vendored"]
jsonrpc = ["dep:deltachat-jsonrpc"]
`

func testServer(t *testing.T) *Server {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(Config{Cache: fc, Store: fs})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func do(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, testServer(t), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCheck(t *testing.T) {
	rec := do(t, testServer(t), http.MethodPost, "/api/v1/check", []byte(testDescriptor))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Valid    bool     `json:"valid"`
		Name     string   `json:"name"`
		Version  string   `json:"version"`
		Features []string `json:"features"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Valid || resp.Name != "deltachat_ffi" || resp.Version != "1.112.0" {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Features) != 3 {
		t.Errorf("features = %v", resp.Features)
	}
}

func TestCheckInvalidDescriptor(t *testing.T) {
	body := []byte("[package]\nname = \"pkg\"\n") // missing version
	rec := do(t, testServer(t), http.MethodPost, "/api/v1/check", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var resp struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "INVALID_IDENTITY" || resp.Field != "package.version" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestResolveAndGetPlan(t *testing.T) {
	s := testServer(t)

	reqBody, _ := json.Marshal(map[string]any{
		"descriptor": testDescriptor,
		"features":   []string{"jsonrpc"},
	})
	rec := do(t, s, http.MethodPost, "/api/v1/resolve", reqBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var p plan.Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ID == "" {
		t.Fatal("plan should carry an ID")
	}
	if len(p.Features) != 2 || p.Features[0] != "jsonrpc" || p.Features[1] != "vendored" {
		t.Errorf("features = %v", p.Features)
	}

	// The plan was persisted and is retrievable by ID.
	rec = do(t, s, http.MethodGet, "/api/v1/plans/"+p.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get plan status = %d: %s", rec.Code, rec.Body.String())
	}
	var stored plan.Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &stored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stored.ID != p.ID || stored.Package.Name != "deltachat_ffi" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestResolveServesCachedPlan(t *testing.T) {
	s := testServer(t)
	reqBody, _ := json.Marshal(map[string]any{"descriptor": testDescriptor})

	first := do(t, s, http.MethodPost, "/api/v1/resolve", reqBody)
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d", first.Code)
	}
	second := do(t, s, http.MethodPost, "/api/v1/resolve", reqBody)
	if second.Code != http.StatusOK {
		t.Fatalf("status = %d", second.Code)
	}

	// Same request, same cache key: the cached plan comes back unchanged,
	// including its ID.
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("second resolve should be served from cache")
	}
}

func TestResolveErrors(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"not json", "not json", http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"missing descriptor", `{}`, http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{
			"unknown feature",
			`{"descriptor": "[package]\nname = \"pkg\"\nversion = \"1.0.0\"\n", "features": ["nope"]}`,
			http.StatusUnprocessableEntity,
			"UNRESOLVED_FEATURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/resolve", []byte(tt.body))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			var resp struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestGetPlanNotFound(t *testing.T) {
	id := uuid.NewString()
	rec := do(t, testServer(t), http.MethodGet, "/api/v1/plans/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "PLAN_NOT_FOUND" {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestGetPlanRejectsMalformedID(t *testing.T) {
	// IDs that are not UUIDs are rejected before the store sees them, so
	// path-shaped values can never turn into file lookups.
	s := testServer(t)

	for _, id := range []string{
		"no-such-id",
		"..%2f..%2fetc%2fpasswd",
		"a.json",
	} {
		t.Run(id, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/v1/plans/"+id, nil)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
			}
			var resp struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != "PLAN_NOT_FOUND" {
				t.Errorf("code = %q", resp.Code)
			}
		})
	}
}
