package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/DestrierStudios/Rayfall/internal/atlas"
)

// AtlasHandler serves textures stored in an atlas database.
type AtlasHandler struct {
	reader       *atlas.Reader
	logger       *slog.Logger
	cacheControl string
}

// AtlasConfig configures the atlas handler.
type AtlasConfig struct {
	AtlasPath    string
	CacheControl string
}

// NewAtlasHandler opens the atlas at cfg.AtlasPath for serving.
func NewAtlasHandler(cfg AtlasConfig, logger *slog.Logger) (*AtlasHandler, error) {
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}

	reader, err := atlas.OpenReader(cfg.AtlasPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open atlas: %w", err)
	}

	return &AtlasHandler{
		reader:       reader,
		logger:       logger,
		cacheControl: cfg.CacheControl,
	}, nil
}

// Handler returns the HTTP handler. GET /atlas/ lists the stored
// entries as JSON; GET /atlas/{name}.png returns one stored texture.
func (h *AtlasHandler) Handler() http.Handler {
	return http.HandlerFunc(h.serve)
}

func (h *AtlasHandler) serve(w http.ResponseWriter, r *http.Request) {
	name, ok := parseTexturePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if name == "" {
		h.serveList(w)
		return
	}

	entry, err := h.reader.Get(name)
	if errors.Is(err, atlas.ErrNotFound) {
		http.Error(w, "texture not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log().Error("failed to read texture", "name", name, "error", err)
		http.Error(w, "failed to read texture", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", h.cacheControl)
	w.Header().Set(SeedHeader, strconv.FormatInt(entry.Seed, 10))
	if _, err := w.Write(entry.PNG); err != nil {
		h.log().Error("failed to write response", "error", err)
	}
}

// atlasItem is the JSON shape of one listed entry; the PNG payload is
// not included, clients fetch it per texture.
type atlasItem struct {
	Name        string  `json:"name"`
	Seed        int64   `json:"seed"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Scale       float64 `json:"scale"`
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Lacunarity  float64 `json:"lacunarity"`
	Algorithm   string  `json:"algorithm"`
	Ramp        string  `json:"ramp"`
}

func (h *AtlasHandler) serveList(w http.ResponseWriter) {
	entries, err := h.reader.List()
	if err != nil {
		h.log().Error("failed to list textures", "error", err)
		http.Error(w, "failed to list textures", http.StatusInternalServerError)
		return
	}

	items := make([]atlasItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, atlasItem{
			Name:        e.Name,
			Seed:        e.Seed,
			Width:       e.Width,
			Height:      e.Height,
			Scale:       e.Scale,
			Octaves:     e.Octaves,
			Persistence: e.Persistence,
			Lacunarity:  e.Lacunarity,
			Algorithm:   e.Algorithm,
			Ramp:        e.Ramp,
		})
	}

	payload := struct {
		Textures []atlasItem `json:"textures"`
	}{Textures: items}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log().Error("failed to encode texture list", "error", err)
	}
}

// Close closes the underlying atlas reader.
func (h *AtlasHandler) Close() error {
	return h.reader.Close()
}

func (h *AtlasHandler) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

// parseTexturePath extracts the entry name from an /atlas/ request
// path. An empty name with ok=true is the listing request.
func parseTexturePath(requestPath string) (string, bool) {
	// Expect: /atlas/, or /atlas/{name}.png
	if !strings.HasPrefix(requestPath, "/atlas/") {
		return "", false
	}
	if requestPath == "/atlas/" {
		return "", true
	}

	base := path.Base(requestPath)
	if !strings.HasSuffix(base, ".png") {
		return "", false
	}

	name := strings.TrimSuffix(base, ".png")
	if name == "" || base != strings.TrimPrefix(requestPath, "/atlas/") {
		return "", false
	}
	return name, true
}
