package cmd

import (
	"fmt"
	"io/fs"
	"net/http"
	"runtime"
	"time"

	"github.com/DestrierStudios/Rayfall/assets"
	"github.com/DestrierStudios/Rayfall/internal/server"
	"github.com/DestrierStudios/Rayfall/internal/texture"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve textures over HTTP, synthesizing them on demand",
	Long: `Serve an HTTP preview endpoint that synthesizes textures on demand.

GET /texture renders a texture from query parameters (width, height,
seed, scale, octaves, persistence, lacunarity, ramp, algorithm) and
returns it as PNG; GET /ramps lists the ramp presets; GET /status
reports the synthesis queue; GET / serves a browser playground. With
--atlas, stored textures are also served under /atlas/.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().Int("max-concurrent", runtime.NumCPU(), "Max concurrent syntheses (default: number of CPUs)")
	serveCmd.Flags().Duration("synthesis-timeout", 30*time.Second, "Timeout per texture synthesis")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for served textures")
	serveCmd.Flags().Int("max-pixels", 4096*4096, "Maximum pixels (width*height) per request")
	serveCmd.Flags().String("atlas", "", "Also serve stored textures from this atlas database under /atlas/")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.max_concurrent", "max-concurrent")
	mustBind("serve.synthesis_timeout", "synthesis-timeout")
	mustBind("serve.cache_control", "cache-control")
	mustBind("serve.max_pixels", "max-pixels")
	mustBind("serve.atlas", "atlas")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	maxConcurrent := viper.GetInt("serve.max_concurrent")
	synthesisTimeout := viper.GetDuration("serve.synthesis_timeout")
	cacheControl := viper.GetString("serve.cache_control")
	maxPixels := viper.GetInt("serve.max_pixels")
	atlasPath := viper.GetString("serve.atlas")

	preview := server.NewPreview(texture.New(logger), server.Config{
		MaxConcurrent:    maxConcurrent,
		SynthesisTimeout: synthesisTimeout,
		CacheControl:     cacheControl,
		MaxPixels:        maxPixels,
	}, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/texture", withCORS(preview.TextureHandler()))
	mux.Handle("/ramps", withCORS(preview.RampsHandler()))
	mux.Handle("/status", withCORS(preview.StatusHandler()))

	playground, err := fs.Sub(assets.PlaygroundFS, "playground")
	if err != nil {
		return fmt.Errorf("failed to load playground assets: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(playground)))

	if atlasPath != "" {
		handler, err := server.NewAtlasHandler(server.AtlasConfig{
			AtlasPath:    atlasPath,
			CacheControl: cacheControl,
		}, logger)
		if err != nil {
			return err
		}
		defer handler.Close()

		mux.Handle("/atlas/", withCORS(handler.Handler()))
	}

	logger.Info("preview server listening",
		"addr", addr,
		"max_concurrent", maxConcurrent,
		"synthesis_timeout", synthesisTimeout,
		"atlas", atlasPath,
	)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
