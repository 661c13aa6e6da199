package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/config"
	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

func defaultConfig() *config.Config {
	return &config.Config{
		Scene:     "random",
		Format:    "png",
		Passes:    1,
		OutputDir: "output",
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
		check       func(t *testing.T, opts renderOptions)
	}{
		{
			name: "defaults from config",
			args: nil,
			check: func(t *testing.T, opts renderOptions) {
				if opts.Scene != "random" || opts.Format != "png" || opts.Passes != 1 {
					t.Errorf("Unexpected defaults %+v", opts)
				}
			},
		},
		{
			name: "all render flags",
			args: []string{"-scene", "earth", "-width", "200", "-samples", "8", "-depth", "5",
				"-workers", "2", "-passes", "3", "-bvh", "-format", "PPM", "-texture", "moon.png", "-thumbnail", "64"},
			check: func(t *testing.T, opts renderOptions) {
				if opts.Scene != "earth" || opts.Width != 200 || opts.Samples != 8 || opts.MaxDepth != 5 ||
					opts.Workers != 2 || opts.Passes != 3 || !opts.UseBVH || opts.Format != "ppm" ||
					opts.Texture != "moon.png" || opts.Thumbnail != 64 {
					t.Errorf("Flags not applied: %+v", opts)
				}
			},
		},
		{
			name: "non-positive passes become one",
			args: []string{"-passes", "0"},
			check: func(t *testing.T, opts renderOptions) {
				if opts.Passes != 1 {
					t.Errorf("Expected 1 pass, got %d", opts.Passes)
				}
			},
		},
		{name: "unknown format", args: []string{"-format", "gif"}, expectError: true},
		{name: "unknown flag", args: []string{"-bogus"}, expectError: true},
		{name: "bad number", args: []string{"-width", "wide"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			opts, err := parseFlags(tt.args, defaultConfig(), &stderr)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %v", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, opts)
		})
	}
}

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"random scene", "random", false},
		{"two spheres", "two-spheres", false},
		{"two perlin spheres", "two-perlin-spheres", false},
		{"earth without texture", "earth", false},
		{"default scene", "basic", false},
		{"globe outside data directory", "globe:../secret.png", true},
		{"unknown globe", "globe:missing.png", true},
		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := renderOptions{Scene: tt.sceneType, Texture: filepath.Join(t.TempDir(), "none.jpg")}
			scene, err := createScene(opts, core.NopLogger{})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if scene != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if scene.SamplingConfig.Width <= 0 || scene.SamplingConfig.Height <= 0 {
				t.Errorf("Scene size should be positive, got %dx%d", scene.SamplingConfig.Width, scene.SamplingConfig.Height)
			}
		})
	}
}

func TestCreateScene_Overrides(t *testing.T) {
	opts := renderOptions{Scene: "two-spheres", Width: 80, Samples: 3, MaxDepth: 4, UseBVH: true}
	s, err := createScene(opts, core.NopLogger{})
	if err != nil {
		t.Fatalf("createScene failed: %v", err)
	}

	if s.SamplingConfig.Width != 80 || s.SamplingConfig.Height != 45 {
		t.Errorf("Expected 80x45, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	if s.SamplingConfig.SamplesPerPixel != 3 || s.SamplingConfig.MaxDepth != 4 || !s.SamplingConfig.UseBVH {
		t.Errorf("Overrides not applied: %+v", s.SamplingConfig)
	}
}

func TestSceneDirName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"random", "random"},
		{"two-perlin-spheres", "two-perlin-spheres"},
		{"globe:moon.png", "globe-moon"},
		{"", "scene"},
	}
	for _, tt := range tests {
		if got := sceneDirName(tt.input); got != tt.expected {
			t.Errorf("sceneDirName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRun(t *testing.T) {
	outputDir := t.TempDir()
	opts := renderOptions{
		Scene:     "two-perlin-spheres",
		Width:     16,
		Samples:   2,
		MaxDepth:  3,
		Passes:    2,
		Format:    "ppm",
		OutputDir: outputDir,
		Thumbnail: 8,
	}

	filename, err := run(context.Background(), opts, defaultConfig(), core.NopLogger{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read render: %v", err)
	}
	if !strings.HasPrefix(string(data), "P3\n16 9\n255\n") {
		t.Errorf("Unexpected PPM header %q", string(data[:min(len(data), 20)]))
	}

	thumbs, _ := filepath.Glob(filepath.Join(outputDir, "two-perlin-spheres", "*_thumb.png"))
	if len(thumbs) != 1 {
		t.Errorf("Expected one thumbnail, found %v", thumbs)
	}
}

func TestRun_UploadWithoutCredentials(t *testing.T) {
	opts := renderOptions{
		Scene:     "two-spheres",
		Width:     8,
		Samples:   1,
		Passes:    1,
		Format:    "png",
		OutputDir: t.TempDir(),
		Upload:    true,
	}

	if _, err := run(context.Background(), opts, defaultConfig(), core.NopLogger{}); err == nil {
		t.Error("Expected error when uploading without S3 credentials")
	}
}

func TestRenderScene_SinglePassIsSeeded(t *testing.T) {
	opts := renderOptions{Scene: "two-spheres", Width: 12, Samples: 2, MaxDepth: 3, Passes: 1, Workers: 1, Seed: 5}

	render := func() []byte {
		s, err := createScene(opts, core.NopLogger{})
		if err != nil {
			t.Fatalf("createScene failed: %v", err)
		}
		img, stats, err := renderScene(context.Background(), s, opts, core.NopLogger{})
		if err != nil {
			t.Fatalf("renderScene failed: %v", err)
		}
		if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 6 {
			t.Fatalf("Expected 12x6 image, got %v", img.Bounds())
		}
		if stats.TotalSamples != 12*6*2 {
			t.Errorf("Expected %d samples, got %d", 12*6*2, stats.TotalSamples)
		}
		return img.Pix
	}

	if !bytes.Equal(render(), render()) {
		t.Error("Single-pass renders with the same seed should match")
	}
}
