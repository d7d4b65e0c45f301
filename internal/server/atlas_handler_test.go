package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/DestrierStudios/Rayfall/internal/atlas"
)

func TestParseTexturePath(t *testing.T) {
	t.Run("entry", func(t *testing.T) {
		name, ok := parseTexturePath("/atlas/dunes.png")
		if !ok {
			t.Fatalf("expected ok")
		}
		if name != "dunes" {
			t.Fatalf("unexpected name: %q", name)
		}
	})

	t.Run("listing", func(t *testing.T) {
		name, ok := parseTexturePath("/atlas/")
		if !ok {
			t.Fatalf("expected ok")
		}
		if name != "" {
			t.Fatalf("expected empty name, got %q", name)
		}
	})

	t.Run("dotted name", func(t *testing.T) {
		name, ok := parseTexturePath("/atlas/island.v2.png")
		if !ok {
			t.Fatalf("expected ok")
		}
		if name != "island.v2" {
			t.Fatalf("unexpected name: %q", name)
		}
	})

	t.Run("reject non-png", func(t *testing.T) {
		if _, ok := parseTexturePath("/atlas/dunes.jpg"); ok {
			t.Fatalf("expected not ok")
		}
	})

	t.Run("reject bare extension", func(t *testing.T) {
		if _, ok := parseTexturePath("/atlas/.png"); ok {
			t.Fatalf("expected not ok")
		}
	})

	t.Run("reject nested path", func(t *testing.T) {
		if _, ok := parseTexturePath("/atlas/sub/dunes.png"); ok {
			t.Fatalf("expected not ok")
		}
	})

	t.Run("reject other prefix", func(t *testing.T) {
		if _, ok := parseTexturePath("/textures/dunes.png"); ok {
			t.Fatalf("expected not ok")
		}
	})
}

func newTestAtlas(t *testing.T, entries []atlas.Entry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.atlas")

	w, err := atlas.New(path, atlas.Metadata{Name: "Test Atlas", Version: "1.0"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	for _, e := range entries {
		if err := w.WriteTexture(e); err != nil {
			t.Fatalf("Failed to write texture %q: %v", e.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return path
}

func TestAtlasHandler(t *testing.T) {
	entries := []atlas.Entry{
		{
			Name: "dunes", Seed: 11, Width: 64, Height: 64,
			Scale: 80, Octaves: 4, Persistence: 0.5, Lacunarity: 2,
			Algorithm: "perlin", Ramp: "desert",
			PNG: []byte("dunes payload"),
		},
		{
			Name: "highlands", Seed: 42, Width: 128, Height: 128,
			Scale: 120, Octaves: 6, Persistence: 0.45, Lacunarity: 2.2,
			Algorithm: "simplex", Ramp: "terrain",
			PNG: []byte("highlands payload"),
		},
	}
	path := newTestAtlas(t, entries)

	h, err := NewAtlasHandler(AtlasConfig{AtlasPath: path}, nil)
	if err != nil {
		t.Fatalf("Failed to open handler: %v", err)
	}
	defer h.Close()

	handler := h.Handler()

	t.Run("serve entry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/atlas/dunes.png", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Fatalf("Content-Type = %q", ct)
		}
		if seed := rec.Header().Get(SeedHeader); seed != "11" {
			t.Fatalf("%s = %q, want 11", SeedHeader, seed)
		}
		if !bytes.Equal(rec.Body.Bytes(), []byte("dunes payload")) {
			t.Fatalf("unexpected body: %q", rec.Body.String())
		}
	})

	t.Run("list entries", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/atlas/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("Content-Type = %q", ct)
		}

		var payload struct {
			Textures []atlasItem `json:"textures"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode list: %v", err)
		}
		if len(payload.Textures) != 2 {
			t.Fatalf("listed %d textures, want 2", len(payload.Textures))
		}

		// Listing is name-ordered.
		got := payload.Textures[1]
		if got.Name != "highlands" || got.Seed != 42 {
			t.Fatalf("unexpected entry: %+v", got)
		}
		if got.Algorithm != "simplex" || got.Ramp != "terrain" {
			t.Fatalf("generation parameters not preserved: %+v", got)
		}
		if got.Width != 128 || got.Octaves != 6 {
			t.Fatalf("generation parameters not preserved: %+v", got)
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/atlas/nope.png", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("malformed path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/atlas/dunes.jpg", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestNewAtlasHandler_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.atlas")
	if _, err := NewAtlasHandler(AtlasConfig{AtlasPath: path}, nil); err == nil {
		t.Fatal("expected error opening nonexistent atlas")
	}
}
