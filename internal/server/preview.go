// Package server exposes on-demand texture synthesis over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/DestrierStudios/Rayfall/internal/export"
	"github.com/DestrierStudios/Rayfall/internal/noise"
	"github.com/DestrierStudios/Rayfall/internal/ramp"
	"github.com/DestrierStudios/Rayfall/internal/texture"
)

// SeedHeader reports the resolved seed of a synthesized response, so a
// request with seed=0 can be reproduced exactly.
const SeedHeader = "X-Texture-Seed"

// Config configures the preview server.
type Config struct {
	// MaxConcurrent bounds simultaneous syntheses (default: 1).
	MaxConcurrent int
	// SynthesisTimeout is the deadline applied to each synthesis (default: 30s).
	SynthesisTimeout time.Duration
	// CacheControl is sent with texture responses (default: "no-store").
	CacheControl string
	// MaxPixels caps width*height per request (default: 4096*4096).
	MaxPixels int
}

// Preview synthesizes textures on demand for HTTP clients.
type Preview struct {
	synth  *texture.Synthesizer
	logger *slog.Logger
	sem    chan struct{}
	cfg    Config

	// Status tracking for renders
	activeRenders atomic.Int32
	queuedRenders atomic.Int32
	totalRendered atomic.Int64
	totalFailed   atomic.Int64
}

// Status represents the current state of the synthesis queue.
type Status struct {
	Render RenderStatus `json:"render"`
}

// RenderStatus contains current render operation counters.
type RenderStatus struct {
	ActiveRenders int   `json:"active_renders"`
	QueuedRenders int   `json:"queued_renders"`
	TotalRendered int64 `json:"total_rendered"`
	TotalFailed   int64 `json:"total_failed"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// NewPreview creates a preview server around synth. logger may be nil.
func NewPreview(synth *texture.Synthesizer, cfg Config, logger *slog.Logger) *Preview {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.SynthesisTimeout <= 0 {
		cfg.SynthesisTimeout = 30 * time.Second
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = 4096 * 4096
	}

	return &Preview{
		synth:  synth,
		logger: logger,
		cfg:    cfg,
		sem:    make(chan struct{}, cfg.MaxConcurrent),
	}
}

// TextureHandler synthesizes a PNG per request. Parameters arrive as
// query values; omitted ones fall back to the library defaults.
func (p *Preview) TextureHandler() http.Handler {
	return http.HandlerFunc(p.serveTexture)
}

func (p *Preview) serveTexture(w http.ResponseWriter, r *http.Request) {
	params, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if px := params.Width * params.Height; px > p.cfg.MaxPixels {
		http.Error(w, fmt.Sprintf("requested %d pixels, limit is %d", px, p.cfg.MaxPixels),
			http.StatusBadRequest)
		return
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Wait for a synthesis slot; a client that gives up while queued
	// releases its place without rendering.
	p.queuedRenders.Add(1)
	select {
	case p.sem <- struct{}{}:
		p.queuedRenders.Add(-1)
		defer func() { <-p.sem }()
	case <-r.Context().Done():
		p.queuedRenders.Add(-1)
		http.Error(w, "synthesis queue saturated", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), p.cfg.SynthesisTimeout)
	defer cancel()

	start := time.Now()
	p.activeRenders.Add(1)
	res, err := p.synth.Synthesize(ctx, params)
	p.activeRenders.Add(-1)

	if err != nil {
		p.totalFailed.Add(1)
		switch {
		case errors.Is(err, texture.ErrInvalidParameter):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			http.Error(w, "synthesis timed out", http.StatusServiceUnavailable)
		default:
			p.log().Error("failed to synthesize texture", "error", err)
			http.Error(w, "failed to synthesize texture", http.StatusInternalServerError)
		}
		return
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, res.Image, export.Options{Format: export.PNG}); err != nil {
		p.totalFailed.Add(1)
		p.log().Error("failed to encode texture", "error", err)
		http.Error(w, "failed to encode texture", http.StatusInternalServerError)
		return
	}

	p.totalRendered.Add(1)
	p.log().Info("texture synthesized on-demand",
		"width", params.Width, "height", params.Height,
		"seed", res.Seed, "ms", time.Since(start).Milliseconds())

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", p.cfg.CacheControl)
	w.Header().Set(SeedHeader, strconv.FormatInt(res.Seed, 10))
	if _, err := w.Write(buf.Bytes()); err != nil {
		p.log().Error("failed to write response", "error", err)
	}
}

// RampsHandler lists the built-in color ramp presets as JSON.
func (p *Preview) RampsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		payload := struct {
			Ramps []string `json:"ramps"`
		}{Ramps: ramp.PresetNames()}

		if err := json.NewEncoder(w).Encode(payload); err != nil {
			p.log().Error("failed to encode ramp list", "error", err)
			http.Error(w, "failed to encode ramp list", http.StatusInternalServerError)
		}
	})
}

// Status returns the current synthesis queue counters.
func (p *Preview) Status() Status {
	return Status{
		Render: RenderStatus{
			ActiveRenders: int(p.activeRenders.Load()),
			QueuedRenders: int(p.queuedRenders.Load()),
			TotalRendered: p.totalRendered.Load(),
			TotalFailed:   p.totalFailed.Load(),
			MaxConcurrent: p.cfg.MaxConcurrent,
		},
	}
}

// StatusHandler returns an HTTP handler for the status endpoint (JSON).
func (p *Preview) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		if err := json.NewEncoder(w).Encode(p.Status()); err != nil {
			p.log().Error("failed to encode status", "error", err)
			http.Error(w, "failed to encode status", http.StatusInternalServerError)
		}
	})
}

func (p *Preview) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

// paramsFromQuery builds generation parameters from URL query values,
// starting from the library defaults so a bare request still renders.
func paramsFromQuery(q url.Values) (texture.Params, error) {
	p := texture.DefaultParams()
	p.Width, p.Height = 256, 256
	p.Seed = 0

	var err error
	if v := q.Get("width"); v != "" {
		if p.Width, err = strconv.Atoi(v); err != nil {
			return texture.Params{}, fmt.Errorf("invalid width %q", v)
		}
	}
	if v := q.Get("height"); v != "" {
		if p.Height, err = strconv.Atoi(v); err != nil {
			return texture.Params{}, fmt.Errorf("invalid height %q", v)
		}
	}
	if v := q.Get("seed"); v != "" {
		if p.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return texture.Params{}, fmt.Errorf("invalid seed %q", v)
		}
	}
	if v := q.Get("scale"); v != "" {
		if p.NoiseScale, err = strconv.ParseFloat(v, 64); err != nil {
			return texture.Params{}, fmt.Errorf("invalid scale %q", v)
		}
	}
	if v := q.Get("octaves"); v != "" {
		if p.Octaves, err = strconv.Atoi(v); err != nil {
			return texture.Params{}, fmt.Errorf("invalid octaves %q", v)
		}
	}
	if v := q.Get("persistence"); v != "" {
		if p.Persistence, err = strconv.ParseFloat(v, 64); err != nil {
			return texture.Params{}, fmt.Errorf("invalid persistence %q", v)
		}
	}
	if v := q.Get("lacunarity"); v != "" {
		if p.Lacunarity, err = strconv.ParseFloat(v, 64); err != nil {
			return texture.Params{}, fmt.Errorf("invalid lacunarity %q", v)
		}
	}
	if v := q.Get("ramp"); v != "" {
		if p.Ramp, err = ramp.FromSpec(v); err != nil {
			return texture.Params{}, fmt.Errorf("invalid ramp %q: %w", v, err)
		}
	}
	if v := q.Get("algorithm"); v != "" {
		if p.Algorithm, err = noise.ParseAlgorithm(v); err != nil {
			return texture.Params{}, err
		}
	}

	return p, nil
}
