package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets every variable Load reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"RAYTRACER_SCENE", "RAYTRACER_FORMAT", "RAYTRACER_TEXTURE", "RAYTRACER_OUTPUT_DIR",
		"RAYTRACER_ADDRESS", "RAYTRACER_WIDTH", "RAYTRACER_SAMPLES", "RAYTRACER_MAX_DEPTH",
		"RAYTRACER_WORKERS", "RAYTRACER_PASSES", "RAYTRACER_BVH", "RAYTRACER_SEED",
		"S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "CDN_URL",
	}
	for _, key := range keys {
		// t.Setenv restores the original value when the test ends
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAYTRACER_ROOT_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scene != "random" || cfg.Format != "png" || cfg.Passes != 1 || cfg.ServerAddress != ":8080" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.Width != 0 || cfg.Samples != 0 || cfg.UseBVH {
		t.Errorf("Unexpected render overrides %+v", cfg)
	}
	if cfg.S3Enabled() {
		t.Error("S3 should be disabled without credentials")
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAYTRACER_ROOT_DIR", t.TempDir())
	t.Setenv("RAYTRACER_SCENE", "earth")
	t.Setenv("RAYTRACER_WIDTH", "640")
	t.Setenv("RAYTRACER_SAMPLES", "10")
	t.Setenv("RAYTRACER_BVH", "true")
	t.Setenv("RAYTRACER_SEED", "99")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")
	t.Setenv("S3_BUCKET", "renders")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scene != "earth" || cfg.Width != 640 || cfg.Samples != 10 || !cfg.UseBVH || cfg.Seed != 99 {
		t.Errorf("Environment not applied: %+v", cfg)
	}
	if !cfg.S3Enabled() {
		t.Error("S3 should be enabled")
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("RAYTRACER_ROOT_DIR", dir)
	t.Setenv("RAYTRACER_WIDTH", "300") // Process environment wins over .env

	content := "RAYTRACER_SCENE=two-spheres\nRAYTRACER_WIDTH=999\nS3_REGION=eu-west-1\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scene != "two-spheres" {
		t.Errorf("Expected scene from .env, got %q", cfg.Scene)
	}
	if cfg.Width != 300 {
		t.Errorf("Expected width 300 from the environment, got %d", cfg.Width)
	}
	if cfg.S3Region != "eu-west-1" {
		t.Errorf("Expected region from .env, got %q", cfg.S3Region)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"RAYTRACER_WIDTH", "wide"},
		{"RAYTRACER_PASSES", "1.5"},
		{"RAYTRACER_BVH", "maybe"},
		{"RAYTRACER_SEED", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("RAYTRACER_ROOT_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
