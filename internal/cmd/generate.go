package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/DestrierStudios/Rayfall/internal/atlas"
	"github.com/DestrierStudios/Rayfall/internal/export"
	"github.com/DestrierStudios/Rayfall/internal/noise"
	"github.com/DestrierStudios/Rayfall/internal/ramp"
	"github.com/DestrierStudios/Rayfall/internal/texture"
	"github.com/DestrierStudios/Rayfall/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate terrain textures",
	Long: `Generate procedural terrain textures from seeded fractal noise.

With --variants N the command renders N seed variants into --output-dir
instead of a single file; with --atlas FILE textures are stored in an
atlas database instead of loose image files.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	// Generation parameters
	generateCmd.Flags().Int("width", 512, "Texture width in pixels")
	generateCmd.Flags().Int("height", 512, "Texture height in pixels")
	generateCmd.Flags().Int64("seed", 0, "Noise seed (0 draws a fresh seed and reports it)")
	generateCmd.Flags().Float64("scale", 120, "Noise scale (inverse zoom; larger means broader features)")
	generateCmd.Flags().Int("octaves", 4, "Number of noise octaves")
	generateCmd.Flags().Float64("persistence", 0.5, "Per-octave amplitude decay, in [0,1]")
	generateCmd.Flags().Float64("lacunarity", 2.0, "Per-octave frequency growth")
	generateCmd.Flags().String("ramp", "terrain", "Color ramp: preset name or inline stops (pos:#hex,...)")
	generateCmd.Flags().String("algorithm", "perlin", "Noise algorithm (perlin, simplex)")
	generateCmd.Flags().IntP("workers", "w", 0, "Parallel workers (default: number of CPUs)")

	// Output
	generateCmd.Flags().StringP("output", "o", "texture.png", "Output file path (single-texture mode)")
	generateCmd.Flags().String("format", "png", "Output format: png, bmp or tiff")
	generateCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")
	generateCmd.Flags().Int("upscale", 1, "Integer upscale factor applied after synthesis")
	generateCmd.Flags().Bool("smooth-upscale", false, "Use smooth resampling instead of nearest-neighbor when upscaling")
	generateCmd.Flags().Float64("soften", 0, "Gaussian blur sigma applied after upscaling (0 disables)")
	generateCmd.Flags().Bool("stats", false, "Log height-field distribution statistics")

	// Variant batches
	generateCmd.Flags().Int("variants", 0, "Render N seed variants instead of a single texture")
	generateCmd.Flags().String("output-dir", "./textures", "Output directory for variant textures")
	generateCmd.Flags().Bool("progress", true, "Show progress bar during variant generation")

	// Atlas storage
	generateCmd.Flags().String("atlas", "", "Store textures in this atlas database instead of image files")
	generateCmd.Flags().String("name", "", "Texture name (default: output file name without extension)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"generate.width", "width"},
		{"generate.height", "height"},
		{"generate.seed", "seed"},
		{"generate.scale", "scale"},
		{"generate.octaves", "octaves"},
		{"generate.persistence", "persistence"},
		{"generate.lacunarity", "lacunarity"},
		{"generate.ramp", "ramp"},
		{"generate.algorithm", "algorithm"},
		{"generate.workers", "workers"},
		{"generate.output", "output"},
		{"generate.format", "format"},
		{"generate.png_compression", "png-compression"},
		{"generate.upscale", "upscale"},
		{"generate.smooth_upscale", "smooth-upscale"},
		{"generate.soften", "soften"},
		{"generate.stats", "stats"},
		{"generate.variants", "variants"},
		{"generate.output_dir", "output-dir"},
		{"generate.progress", "progress"},
		{"generate.atlas", "atlas"},
		{"generate.name", "name"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, generateCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	params, rampSpec, err := paramsFromConfig()
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}

	opts, err := exportOptionsFromConfig()
	if err != nil {
		return err
	}

	output := viper.GetString("generate.output")
	name := viper.GetString("generate.name")
	if name == "" {
		name = defaultName(output)
	}

	variants := viper.GetInt("generate.variants")
	if variants < 0 {
		return fmt.Errorf("variants must not be negative, got %d", variants)
	}
	atlasPath := viper.GetString("generate.atlas")
	stats := viper.GetBool("generate.stats")

	logger.Info("Starting texture generation",
		"width", params.Width,
		"height", params.Height,
		"seed", params.Seed,
		"scale", params.NoiseScale,
		"octaves", params.Octaves,
		"persistence", params.Persistence,
		"lacunarity", params.Lacunarity,
		"algorithm", params.Algorithm,
		"ramp", rampSpec,
		"variants", variants,
		"atlas", atlasPath,
	)

	synth := texture.New(logger)

	if atlasPath != "" {
		if opts.Upscale > 1 || opts.Soften > 0 {
			logger.Warn("Post-processing flags are ignored in atlas mode; entries store the raw render")
		}

		writer, err := atlas.New(atlasPath, atlas.Metadata{
			Name:        "Rayfall",
			Description: "Procedural terrain textures",
			Version:     "1.0",
		})
		if err != nil {
			return fmt.Errorf("failed to create atlas %s: %w", atlasPath, err)
		}
		defer writer.Close()

		ren := &atlasRenderer{
			synth:       synth,
			writer:      writer,
			path:        atlasPath,
			compression: opts.PNGCompression,
			rampSpec:    rampSpec,
			stats:       stats,
		}

		if err := dispatchGenerate(ren, name, params, variants); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush atlas: %w", err)
		}
		return nil
	}

	dir := viper.GetString("generate.output_dir")
	if variants == 0 {
		dir = filepath.Dir(output)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	ren := &fileRenderer{synth: synth, opts: opts, dir: dir, stats: stats}
	return dispatchGenerate(ren, name, params, variants)
}

func dispatchGenerate(ren worker.Renderer, name string, params texture.Params, variants int) error {
	if variants > 0 {
		return runVariants(ren, name, params, variants)
	}
	return runSingle(ren, name, params)
}

func runSingle(ren worker.Renderer, name string, params texture.Params) error {
	if _, err := ren.Render(context.Background(), name, params); err != nil {
		return fmt.Errorf("failed to render texture: %w", err)
	}
	return nil
}

func runVariants(ren worker.Renderer, name string, params texture.Params, count int) error {
	poolWorkers := params.Workers
	if poolWorkers <= 0 {
		poolWorkers = runtime.NumCPU()
	}

	// In variant mode parallelism comes from the task pool; each
	// texture renders its rows serially.
	params.Workers = 1
	tasks := variantTasks(name, count, params)

	// Allow Ctrl-C to abort the batch cleanly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received interrupt signal, cancelling...")
		cancel()
	}()

	progress := worker.NewProgress(len(tasks), viper.GetBool("generate.progress"))
	pool := worker.New(worker.Config{
		Workers:    poolWorkers,
		Renderer:   ren,
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("Variant generation failed", "name", r.Task.Name, "error", r.Err)
		}
	}

	logger.Info(progress.Summary())

	if failed > 0 {
		return fmt.Errorf("%d variants failed to generate", failed)
	}
	return nil
}

// paramsFromConfig assembles generation parameters from the bound flag
// and config values. The raw ramp spec is returned alongside so atlas
// entries can record it.
func paramsFromConfig() (texture.Params, string, error) {
	rampSpec := viper.GetString("generate.ramp")
	r, err := ramp.FromSpec(rampSpec)
	if err != nil {
		return texture.Params{}, "", fmt.Errorf("invalid ramp %q: %w", rampSpec, err)
	}

	alg, err := noise.ParseAlgorithm(viper.GetString("generate.algorithm"))
	if err != nil {
		return texture.Params{}, "", err
	}

	params := texture.Params{
		Width:       viper.GetInt("generate.width"),
		Height:      viper.GetInt("generate.height"),
		Seed:        viper.GetInt64("generate.seed"),
		NoiseScale:  viper.GetFloat64("generate.scale"),
		Octaves:     viper.GetInt("generate.octaves"),
		Persistence: viper.GetFloat64("generate.persistence"),
		Lacunarity:  viper.GetFloat64("generate.lacunarity"),
		Ramp:        r,
		Algorithm:   alg,
		Workers:     viper.GetInt("generate.workers"),
	}
	return params, rampSpec, nil
}

func exportOptionsFromConfig() (export.Options, error) {
	format, err := export.ParseFormat(viper.GetString("generate.format"))
	if err != nil {
		return export.Options{}, err
	}

	level, err := export.ParsePNGCompression(viper.GetString("generate.png_compression"))
	if err != nil {
		return export.Options{}, err
	}

	opts := export.Options{
		Format:         format,
		PNGCompression: level,
		Upscale:        viper.GetInt("generate.upscale"),
		SmoothUpscale:  viper.GetBool("generate.smooth_upscale"),
		Soften:         viper.GetFloat64("generate.soften"),
	}
	if err := opts.Validate(); err != nil {
		return export.Options{}, err
	}
	return opts, nil
}

// defaultName derives a texture name from an output path: the base
// file name without its extension.
func defaultName(output string) string {
	base := filepath.Base(output)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		return "texture"
	}
	return base
}

// variantTasks derives one rendering task per variant. With a non-zero
// base seed, variant i renders with seed base+i so the whole batch is
// reproducible from a single number; a zero base leaves every variant
// drawing its own fresh seed.
func variantTasks(name string, count int, params texture.Params) []worker.Task {
	tasks := make([]worker.Task, 0, count)
	for i := 0; i < count; i++ {
		tp := params
		if params.Seed != 0 {
			tp.Seed = params.Seed + int64(i)
		}
		tasks = append(tasks, worker.Task{
			Name:   fmt.Sprintf("%s_%03d", name, i+1),
			Params: tp,
		})
	}
	return tasks
}

// fileRenderer writes each rendered texture to its own image file.
type fileRenderer struct {
	synth *texture.Synthesizer
	opts  export.Options
	dir   string
	stats bool
}

func (r *fileRenderer) Render(ctx context.Context, name string, params texture.Params) (string, error) {
	hf, err := r.synth.Heightfield(ctx, params)
	if err != nil {
		return "", err
	}
	img := export.Process(hf.Render(params.Ramp), r.opts)

	dest := filepath.Join(r.dir, name+"."+string(r.opts.Format))
	if err := export.Write(dest, img, r.opts); err != nil {
		return "", err
	}

	if r.stats {
		logFieldStats(name, hf)
	}

	logger.Info("Texture rendered", "name", name, "seed", hf.Seed, "dest", dest)
	return dest, nil
}

// atlasRenderer stores each rendered texture in a shared atlas
// database. Entries keep the raw render and its generation parameters;
// post-processing is a file-output concern.
type atlasRenderer struct {
	synth       *texture.Synthesizer
	writer      *atlas.Writer
	path        string
	compression png.CompressionLevel
	rampSpec    string
	stats       bool
}

func (r *atlasRenderer) Render(ctx context.Context, name string, params texture.Params) (string, error) {
	hf, err := r.synth.Heightfield(ctx, params)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = export.Encode(&buf, hf.Render(params.Ramp), export.Options{
		Format:         export.PNG,
		PNGCompression: r.compression,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}

	err = r.writer.WriteTexture(atlas.Entry{
		Name:        name,
		Seed:        hf.Seed,
		Width:       params.Width,
		Height:      params.Height,
		Scale:       params.NoiseScale,
		Octaves:     params.Octaves,
		Persistence: params.Persistence,
		Lacunarity:  params.Lacunarity,
		Algorithm:   params.Algorithm.String(),
		Ramp:        r.rampSpec,
		PNG:         buf.Bytes(),
	})
	if err != nil {
		return "", err
	}

	if r.stats {
		logFieldStats(name, hf)
	}

	dest := r.path + "#" + name
	logger.Info("Texture rendered", "name", name, "seed", hf.Seed, "dest", dest)
	return dest, nil
}

func logFieldStats(name string, hf *texture.Heightfield) {
	stats, err := texture.FieldStats(hf)
	if err != nil {
		logger.Warn("Failed to compute field statistics", "name", name, "error", err)
		return
	}
	logger.Info("Height-field distribution",
		"name", name,
		"min", stats.Min,
		"max", stats.Max,
		"mean", stats.Mean,
		"stddev", stats.StdDev,
		"median", stats.Median,
		"p05", stats.P05,
		"p95", stats.P95,
	)
}
