package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"time"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/df07/go-envmap-pathtracer/pkg/loaders"
	"github.com/df07/go-envmap-pathtracer/pkg/output"
	"github.com/df07/go-envmap-pathtracer/pkg/renderer"
	"github.com/df07/go-envmap-pathtracer/pkg/scene"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
)

// options holds the parsed command line
type options struct {
	scene     string
	env       string
	bucket    string
	outBucket string
	out       string
	toneMap   string
	report    bool
	list      bool
	verbose   bool
	help      bool

	config renderer.Config
	set    map[string]bool // Render flags given explicitly
}

// renderFlags maps render flag names to the config field they override
var renderFlags = map[string]func(dst *renderer.Config, src renderer.Config){
	"width":       func(dst *renderer.Config, src renderer.Config) { dst.Width = src.Width },
	"height":      func(dst *renderer.Config, src renderer.Config) { dst.Height = src.Height },
	"spp":         func(dst *renderer.Config, src renderer.Config) { dst.SamplesPerPixel = src.SamplesPerPixel },
	"fov":         func(dst *renderer.Config, src renderer.Config) { dst.FieldOfView = src.FieldOfView },
	"tile":        func(dst *renderer.Config, src renderer.Config) { dst.TileSize = src.TileSize },
	"workers":     func(dst *renderer.Config, src renderer.Config) { dst.NumWorkers = src.NumWorkers },
	"seed":        func(dst *renderer.Config, src renderer.Config) { dst.Seed = src.Seed },
	"max-bounces": func(dst *renderer.Config, src renderer.Config) { dst.MaxBounces = src.MaxBounces },
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	defaults := renderer.DefaultConfig()

	fs := flag.NewFlagSet("envmap-pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.scene, "scene", "default", "Scene: 'default' or the key of a .yaml/.json scene file in -bucket")
	fs.StringVar(&opts.env, "env", "", "Environment map key in -bucket (.hdr, .pic, .png, .jpg); overrides the scene file")
	fs.StringVar(&opts.bucket, "bucket", "file://.", "Bucket URL for scenes and environment maps")
	fs.StringVar(&opts.outBucket, "out-bucket", "", "Bucket URL for renders (default: -bucket)")
	fs.StringVar(&opts.out, "out", "", "Output key (default: output/<scene>/render_<timestamp>.png)")
	fs.StringVar(&opts.toneMap, "tonemap", "gamma", "Tone map: 'gamma' or 'aces'")
	fs.BoolVar(&opts.report, "report", false, "Write a JSON render report next to the image")
	fs.BoolVar(&opts.list, "list", false, "List scene files in -bucket and exit")
	fs.BoolVar(&opts.verbose, "v", false, "Log every tile")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	fs.IntVar(&opts.config.Width, "width", defaults.Width, "Image width")
	fs.IntVar(&opts.config.Height, "height", defaults.Height, "Image height")
	fs.IntVar(&opts.config.SamplesPerPixel, "spp", defaults.SamplesPerPixel, "Samples per pixel")
	fs.Float64Var(&opts.config.FieldOfView, "fov", defaults.FieldOfView, "Vertical field of view in degrees")
	fs.IntVar(&opts.config.TileSize, "tile", defaults.TileSize, "Tile size in pixels")
	fs.IntVar(&opts.config.NumWorkers, "workers", defaults.NumWorkers, "Parallel workers (0 = CPU count)")
	fs.Uint64Var(&opts.config.Seed, "seed", defaults.Seed, "Master random seed")
	fs.IntVar(&opts.config.MaxBounces, "max-bounces", defaults.MaxBounces, "Diffuse bounce limit (0 = unbounded)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, errors.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		if _, ok := renderFlags[f.Name]; ok {
			opts.set[f.Name] = true
		}
	})

	if opts.help {
		fmt.Fprintln(stderr, "Environment Map Path Tracer")
		fmt.Fprintln(stderr, "Usage: envmap-pathtracer [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Render settings come from the defaults, then the scene file's render block, then flags.")
	}
	return opts, nil
}

// renderConfig layers the scene file's render block and explicit flags over the defaults
func renderConfig(opts options, desc *scene.Description) renderer.Config {
	config := renderer.DefaultConfig()

	if desc != nil {
		r := desc.Render
		if r.Width > 0 {
			config.Width = r.Width
		}
		if r.Height > 0 {
			config.Height = r.Height
		}
		if r.SamplesPerPixel > 0 {
			config.SamplesPerPixel = r.SamplesPerPixel
		}
		if r.FieldOfView > 0 {
			config.FieldOfView = r.FieldOfView
		}
		if r.TileSize > 0 {
			config.TileSize = r.TileSize
		}
		if r.Seed > 0 {
			config.Seed = r.Seed
		}
		if r.MaxBounces > 0 {
			config.MaxBounces = r.MaxBounces
		}
	}

	for name := range opts.set {
		renderFlags[name](&config, opts.config)
	}
	return config
}

// sceneName returns the name used for the output directory
func sceneName(key string) string {
	if key == "default" {
		return key
	}
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}

func newLogger(w io.Writer, verbose bool, runID string) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).With("run", runID)
}

func run(ctx context.Context, opts options, logger *slog.Logger, runID string) error {
	inBucket, err := blob.OpenBucket(ctx, opts.bucket)
	if err != nil {
		return errors.Wrapf(err, "failed to open bucket %q", opts.bucket)
	}
	defer inBucket.Close()

	if opts.list {
		return listScenes(ctx, inBucket, logger)
	}

	toneMap, err := renderer.ParseToneMap(opts.toneMap)
	if err != nil {
		return err
	}

	var desc *scene.Description
	if opts.scene != "default" {
		if desc, err = scene.LoadDescription(ctx, inBucket, opts.scene); err != nil {
			return err
		}
	}

	envKey := opts.env
	if envKey == "" && desc != nil {
		envKey = desc.Environment
	}
	if envKey == "" {
		envKey = scene.DefaultEnvironment
	}

	logger.InfoContext(ctx, "loading environment", "key", envKey)
	env, err := loaders.LoadEnvironment(ctx, inBucket, envKey)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "environment loaded", "width", env.Width, "height", env.Height)

	var sc *scene.Scene
	if desc != nil {
		if sc, err = desc.Build(env); err != nil {
			return errors.Wrapf(err, "invalid scene %q", opts.scene)
		}
	} else {
		sc = scene.NewDefaultScene(env)
	}

	config := renderConfig(opts, desc)
	r, err := renderer.NewRenderer(sc, config, logger)
	if err != nil {
		return err
	}
	raster, stats, err := r.Render(ctx, nil)
	if err != nil {
		return err
	}

	return save(ctx, opts, logger, runID, envKey, config, raster, stats, toneMap)
}

func save(ctx context.Context, opts options, logger *slog.Logger, runID, envKey string, config renderer.Config,
	raster *core.Raster, stats renderer.RenderStats, toneMap renderer.ToneMapper) error {
	outURL := opts.outBucket
	if outURL == "" {
		outURL = opts.bucket
	}
	outBucket, err := blob.OpenBucket(ctx, outURL)
	if err != nil {
		return errors.Wrapf(err, "failed to open bucket %q", outURL)
	}
	defer outBucket.Close()

	finished := time.Now()
	key := opts.out
	if key == "" {
		// Create timestamped filename
		timestamp := finished.Format("20060102_150405")
		key = path.Join("output", sceneName(opts.scene), fmt.Sprintf("render_%s.png", timestamp))
	}

	if err := output.WritePNG(ctx, outBucket, key, renderer.ToImage(raster, toneMap)); err != nil {
		return err
	}
	logger.InfoContext(ctx, "render saved", "key", key)

	if !opts.report {
		return nil
	}
	reportKey := strings.TrimSuffix(key, path.Ext(key)) + ".json"
	report := output.Report{
		RunID:       runID,
		Scene:       opts.scene,
		Environment: envKey,
		Image:       key,
		ToneMap:     opts.toneMap,
		Config:      config,
		Stats:       output.NewReportStats(stats),
		Finished:    finished.UTC(),
	}
	if err := output.WriteReport(ctx, outBucket, reportKey, report); err != nil {
		return err
	}
	logger.InfoContext(ctx, "report saved", "key", reportKey)
	return nil
}

func listScenes(ctx context.Context, bucket *blob.Bucket, logger *slog.Logger) error {
	scenes, err := scene.ListScenes(ctx, bucket, "")
	if err != nil {
		return err
	}
	fmt.Println("Available scenes:")
	fmt.Println("  default - Ground plane and three spheres")
	for _, s := range scenes {
		if s.Description != "" {
			fmt.Printf("  %s - %s (%s)\n", s.Key, s.Name, s.Description)
		} else {
			fmt.Printf("  %s - %s\n", s.Key, s.Name)
		}
	}
	logger.DebugContext(ctx, "scenes listed", "count", len(scenes))
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.help {
		return
	}

	runID := uuid.NewString()
	logger := newLogger(os.Stderr, opts.verbose, runID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger, runID); err != nil {
		logger.Error("render failed", "error", err)
		stop()
		os.Exit(1)
	}
}
