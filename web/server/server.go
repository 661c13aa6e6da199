package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// Request limits
const (
	MinWidth      = 16
	MaxWidth      = 2000
	MaxSamples    = 10000
	MaxPasses     = 10000
	MaxDepth      = 200
	DefaultScene  = "random"
	DefaultWidth  = 400
	DefaultPasses = 7
)

// Options configures the web server
type Options struct {
	Address     string // Listen address, e.g. ":8080"
	StaticDir   string // Directory served at "/"; empty disables static files
	TexturePath string // Image for the earth scene; empty uses the scene default
	DataDir     string // Directory of globe textures; empty searches data and ../data
	Workers     int    // Render workers per request (0 = CPU count)
}

// Server handles web requests for the raytracer
type Server struct {
	options Options
}

// NewServer creates a new web server
func NewServer(options Options) *Server {
	return &Server{options: options}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string `json:"scene"`      // Scene ID, e.g. "random" or "globe:moon.png"
	Width      int    `json:"width"`      // Image width; height follows the scene's aspect ratio
	Seed       int64  `json:"seed"`       // Seed for scene generation
	MaxSamples int    `json:"maxSamples"` // Samples per pixel for the final pass (0 = scene default)
	MaxPasses  int    `json:"maxPasses"`  // Maximum number of passes
	MaxDepth   int    `json:"maxDepth"`   // Bounce limit (0 = scene default)
	UseBVH     bool   `json:"useBVH"`     // Build a BVH before rendering
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	if s.options.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.options.StaticDir)))
	}

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.options.Address)
	return http.ListenAndServe(s.options.Address, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the texture globes found in the data directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.options.DataDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = DefaultScene
	}

	sceneObj, err := s.createScene(&RenderRequest{Scene: sceneName}, core.NopLogger{})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sampling := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           sampling.Width,
			"height":          sampling.Height,
			"samplesPerPixel": sampling.SamplesPerPixel,
			"maxDepth":        sampling.MaxDepth,
			"useBVH":          sampling.UseBVH,
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": MinWidth, "max": MaxWidth},
			"maxSamples": map[string]int{"min": 1, "max": MaxSamples},
			"maxPasses":  map[string]int{"min": 1, "max": MaxPasses},
			"maxDepth":   map[string]int{"min": 1, "max": MaxDepth},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// createScene builds the requested scene with the request's overrides applied
func (s *Server) createScene(req *RenderRequest, logger core.Logger) (*scene.Scene, error) {
	var cameraOverrides geometry.CameraConfig
	if req.Width > 0 {
		cameraOverrides.Width = req.Width
	}

	sceneObj, err := scene.NewSceneByName(req.Scene, scene.SceneOptions{
		Seed:        req.Seed,
		TexturePath: s.options.TexturePath,
		DataDir:     s.options.DataDir,
		Logger:      logger,
		Camera:      cameraOverrides,
	})
	if err != nil {
		return nil, err
	}

	if req.MaxSamples > 0 {
		sceneObj.SamplingConfig.SamplesPerPixel = req.MaxSamples
	}
	if req.MaxDepth > 0 {
		sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	}
	if req.UseBVH {
		sceneObj.SamplingConfig.UseBVH = true
	}
	return sceneObj, nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = DefaultScene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", DefaultWidth, MinWidth, MaxWidth); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 0, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", DefaultPasses, 1, MaxPasses); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 0, 1, MaxDepth); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}
	if value := query.Get("bvh"); value != "" {
		if req.UseBVH, err = strconv.ParseBool(value); err != nil {
			return nil, fmt.Errorf("invalid bvh: %s", value)
		}
	}

	// Performance warning
	if req.Width > 800 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
