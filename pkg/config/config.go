package config

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds render defaults and publishing credentials read from the environment
type Config struct {
	RootDir string // Directory holding the optional .env file

	// Render defaults; CLI flags override these
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

	// Web server
	ServerAddress string

	// S3-compatible storage for published renders
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	CDNURL      string
}

// Helper to get environment variables with a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// Load reads RAYTRACER_ROOT_DIR/.env if present, then the RAYTRACER_* and S3_* variables.
// Variables already set in the process environment win over the .env file.
func Load() (*Config, error) {
	rootDir := getEnv("RAYTRACER_ROOT_DIR", ".")
	_ = godotenv.Load(path.Join(rootDir, ".env"))

	cfg := &Config{
		RootDir:       rootDir,
		Scene:         getEnv("RAYTRACER_SCENE", "random"),
		Format:        getEnv("RAYTRACER_FORMAT", "png"),
		Texture:       getEnv("RAYTRACER_TEXTURE", ""),
		OutputDir:     getEnv("RAYTRACER_OUTPUT_DIR", "output"),
		ServerAddress: getEnv("RAYTRACER_ADDRESS", ":8080"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		CDNURL:        os.Getenv("CDN_URL"),
	}

	var err error
	if cfg.Width, err = getEnvInt("RAYTRACER_WIDTH", 0); err != nil {
		return nil, err
	}
	if cfg.Samples, err = getEnvInt("RAYTRACER_SAMPLES", 0); err != nil {
		return nil, err
	}
	if cfg.MaxDepth, err = getEnvInt("RAYTRACER_MAX_DEPTH", 0); err != nil {
		return nil, err
	}
	if cfg.Workers, err = getEnvInt("RAYTRACER_WORKERS", 0); err != nil {
		return nil, err
	}
	if cfg.Passes, err = getEnvInt("RAYTRACER_PASSES", 1); err != nil {
		return nil, err
	}
	if cfg.UseBVH, err = getEnvBool("RAYTRACER_BVH", false); err != nil {
		return nil, err
	}
	seed, err := getEnvInt("RAYTRACER_SEED", 0)
	if err != nil {
		return nil, err
	}
	cfg.Seed = int64(seed)

	return cfg, nil
}

// S3Enabled reports whether enough settings are present to publish renders
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
