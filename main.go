package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/config"
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/output"
	"github.com/df07/go-stochastic-raytracer/pkg/publish"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// renderOptions collects everything the CLI controls
type renderOptions struct {
	Scene     string
	Width     int
	Samples   int
	MaxDepth  int
	Workers   int
	Passes    int
	UseBVH    bool
	Format    string
	Texture   string
	OutputDir string
	Seed      int64
	Thumbnail uint
	Upload    bool
	Help      bool
}

// newFlagSet binds every CLI flag to opts, using cfg for the defaults
func newFlagSet(cfg *config.Config, opts *renderOptions) *flag.FlagSet {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)

	fs.StringVar(&opts.Scene, "scene", cfg.Scene, "Scene: random, two-spheres, two-perlin-spheres, earth, basic, or globe:<file in data/>")
	fs.IntVar(&opts.Width, "width", cfg.Width, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.Samples, "samples", cfg.Samples, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.MaxDepth, "depth", cfg.MaxDepth, "Maximum bounce depth (0 = scene default)")
	fs.IntVar(&opts.Workers, "workers", cfg.Workers, "Number of parallel workers (0 = CPU count)")
	fs.IntVar(&opts.Passes, "passes", cfg.Passes, "Number of progressive passes")
	fs.BoolVar(&opts.UseBVH, "bvh", cfg.UseBVH, "Build a bounding volume hierarchy over the scene")
	fs.StringVar(&opts.Format, "format", cfg.Format, "Output format: png, ppm, jpg, bmp or tif")
	fs.StringVar(&opts.Texture, "texture", cfg.Texture, "Texture image for the earth scene")
	fs.StringVar(&opts.OutputDir, "output", cfg.OutputDir, "Output directory")
	fs.Int64Var(&opts.Seed, "seed", cfg.Seed, "Seed for scene generation")
	fs.UintVar(&opts.Thumbnail, "thumbnail", 0, "Also write a thumbnail of this width (0 = none)")
	fs.BoolVar(&opts.Upload, "upload", false, "Upload the render to the configured S3 bucket")
	fs.BoolVar(&opts.Help, "help", false, "Show help information")
	return fs
}

// parseFlags reads command line flags, using cfg for the defaults
func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (renderOptions, error) {
	var opts renderOptions
	fs := newFlagSet(cfg, &opts)
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.Format = strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	switch opts.Format {
	case "png", "ppm", "jpg", "jpeg", "bmp", "tif", "tiff":
	default:
		return opts, fmt.Errorf("unsupported output format: %q", opts.Format)
	}
	if opts.Passes <= 0 {
		opts.Passes = 1
	}
	return opts, nil
}

// createScene builds the requested scene and applies the command line overrides
func createScene(opts renderOptions, logger core.Logger) (*scene.Scene, error) {
	var cameraOverrides geometry.CameraConfig
	if opts.Width > 0 {
		cameraOverrides.Width = opts.Width
	}

	s, err := scene.NewSceneByName(opts.Scene, scene.SceneOptions{
		Seed:        opts.Seed,
		TexturePath: opts.Texture,
		Logger:      logger,
		Camera:      cameraOverrides,
	})
	if err != nil {
		return nil, err
	}

	if opts.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.Samples
	}
	if opts.MaxDepth > 0 {
		s.SamplingConfig.MaxDepth = opts.MaxDepth
	}
	if opts.UseBVH {
		s.SamplingConfig.UseBVH = true
	}
	return s, nil
}

// sceneDirName turns a scene ID into a safe directory name
func sceneDirName(id string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, strings.TrimSuffix(id, filepath.Ext(id)))
	if name == "" {
		return "scene"
	}
	return name
}

// renderScene renders the scene and returns the final image. A single pass on a
// single worker runs on the calling goroutine with one sampler seeded from -seed;
// everything else goes through the progressive tile renderer.
func renderScene(ctx context.Context, s *scene.Scene, opts renderOptions, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	pt := integrator.NewPathTracingIntegrator(s.TopColor, s.BottomColor)

	if opts.Passes == 1 && opts.Workers == 1 {
		rt, err := renderer.NewRaytracer(s, pt)
		if err != nil {
			return nil, renderer.RenderStats{}, err
		}
		logger.Printf("Rendering single pass on one worker\n")
		img, stats := rt.RenderPass(core.NewSeededSampler(opts.Seed))
		return img, stats, ctx.Err()
	}

	progressiveConfig := renderer.DefaultProgressiveConfig()
	progressiveConfig.MaxSamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	progressiveConfig.MaxPasses = opts.Passes
	progressiveConfig.NumWorkers = opts.Workers

	pr, err := renderer.NewProgressiveRaytracer(s, pt, progressiveConfig, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return pr.Render(ctx)
}

// run executes one CLI invocation and returns the path of the saved render
func run(ctx context.Context, opts renderOptions, cfg *config.Config, logger core.Logger) (string, error) {
	s, err := createScene(opts, logger)
	if err != nil {
		return "", err
	}

	logger.Printf("Rendering %s at %dx%d, %d samples, depth %d (%d primitives)\n",
		opts.Scene, s.SamplingConfig.Width, s.SamplingConfig.Height,
		s.SamplingConfig.SamplesPerPixel, s.SamplingConfig.MaxDepth, s.GetPrimitiveCount())

	startTime := time.Now()
	img, stats, err := renderScene(ctx, s, opts, logger)
	if err != nil {
		return "", fmt.Errorf("render failed: %w", err)
	}
	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	// Create timestamped filename
	sceneName := sceneDirName(opts.Scene)
	timestamp := time.Now().Format("20060102_150405")
	baseName := fmt.Sprintf("render_%s", timestamp)
	filename := filepath.Join(opts.OutputDir, sceneName, baseName+"."+opts.Format)

	if err := output.SaveImage(filename, img); err != nil {
		return "", err
	}
	logger.Printf("Render saved as %s\n", filename)

	if opts.Thumbnail > 0 {
		thumbName := filepath.Join(opts.OutputDir, sceneName, baseName+"_thumb.png")
		if err := output.SaveImage(thumbName, output.Thumbnail(img, opts.Thumbnail)); err != nil {
			return filename, err
		}
		logger.Printf("Thumbnail saved as %s\n", thumbName)
	}

	if opts.Upload {
		if !cfg.S3Enabled() {
			return filename, fmt.Errorf("upload requested but S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are not all set")
		}
		s3Options := publish.S3Options{
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			CDNURL:    cfg.CDNURL,
		}
		client, err := publish.NewS3Client(s3Options)
		if err != nil {
			return filename, err
		}
		thumbWidth := opts.Thumbnail
		if thumbWidth == 0 {
			thumbWidth = publish.DefaultThumbnailWidth
		}
		urls, err := publish.NewS3Publisher(client, s3Options, logger).
			PublishRender(ctx, sceneName+"_"+timestamp, img, thumbWidth)
		if err != nil {
			return filename, err
		}
		for _, url := range urls {
			logger.Printf("Published %s\n", url)
		}
	}

	return filename, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts, err := parseFlags(os.Args[1:], cfg, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Show help if requested
	if opts.Help {
		fmt.Println("Stochastic Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		fs := newFlagSet(cfg, &renderOptions{})
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		response, err := scene.ListAllScenes("")
		if err == nil {
			for _, group := range response.Groups {
				for _, info := range group.Scenes {
					fmt.Printf("  %-22s %s\n", info.ID, info.Description)
				}
			}
		}
		fmt.Println()
		fmt.Println("Output will be saved to <output>/<scene>/render_<timestamp>.<format>")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := run(ctx, opts, cfg, renderer.NewDefaultLogger()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
