package scene

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "globe"
	FilePath    string `json:"filePath"`    // Path to texture image (globe type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// SceneOptions controls how a scene is built by name
type SceneOptions struct {
	Seed        int64                 // Seed for scene generation (random layout, Perlin tables)
	TexturePath string                // Image used by the earth scene
	Logger      core.Logger           // Receives warnings such as a missing texture
	Camera      geometry.CameraConfig // Overrides merged onto the scene's default camera
	DataDir     string                // Directory holding globe textures; empty searches data and ../data
}

const (
	builtInGroup = "Built-in Scenes"
	globeGroup   = "Texture Globes"
	globePrefix  = "globe:"
)

// builtInScenes lists the scenes that can be created without any files on disk
var builtInScenes = []SceneInfo{
	{
		ID:          "random",
		Name:        "Random Spheres",
		DisplayName: "Random Spheres",
		Description: "Checkered ground with a grid of small moving, metal and glass spheres",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "two-spheres",
		Name:        "Two Spheres",
		DisplayName: "Two Spheres",
		Description: "Checker sphere under a Perlin noise sphere",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "two-perlin-spheres",
		Name:        "Two Perlin Spheres",
		DisplayName: "Two Perlin Spheres",
		Description: "Marble ground and marble ball",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "earth",
		Name:        "Earth",
		DisplayName: "Earth",
		Description: "Image-textured globe",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "basic",
		Name:        "Default Scene",
		DisplayName: "Default Scene",
		Description: "Basic scene with diffuse, metal and hollow glass spheres",
		Group:       builtInGroup,
		Type:        "builtin",
	},
}

// textureExtensions are the image formats the texture loader decodes
var textureExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// NewSceneByName builds a scene from its registry ID
func NewSceneByName(id string, opts SceneOptions) (*Scene, error) {
	random := rand.New(rand.NewSource(opts.Seed))

	switch {
	case id == "random":
		return NewRandomScene(random, opts.Camera), nil
	case id == "two-spheres":
		return NewTwoSpheresScene(random, opts.Camera), nil
	case id == "two-perlin-spheres":
		return NewTwoPerlinSpheresScene(random, opts.Camera), nil
	case id == "earth":
		return NewEarthScene(opts.TexturePath, opts.Logger, opts.Camera), nil
	case id == "basic" || id == "default":
		return NewDefaultScene(opts.Camera), nil
	case strings.HasPrefix(id, globePrefix):
		path, err := resolveGlobeTexture(strings.TrimPrefix(id, globePrefix), opts.DataDir)
		if err != nil {
			return nil, err
		}
		return NewEarthScene(path, opts.Logger, opts.Camera), nil
	default:
		return nil, fmt.Errorf("unknown scene: %q", id)
	}
}

// ListTextureScenes scans dataDir (or the default data directory when empty) for images
// and offers each as a textured globe
func ListTextureScenes(dataDir string) ([]SceneInfo, error) {
	dataDir = findDataDir(dataDir)
	if dataDir == "" {
		// No data directory found, return empty list
		return []SceneInfo{}, nil
	}

	return listTextureScenesIn(dataDir)
}

// findDataDir returns preferred when set, otherwise the first existing default data directory
func findDataDir(preferred string) string {
	if preferred != "" {
		return preferred
	}
	for _, path := range []string{"data", "../data"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// resolveGlobeTexture maps a globe name to a texture listed in the data directory.
// Only bare file names are accepted.
func resolveGlobeTexture(name, dataDir string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("globe scene requires a texture name")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid globe texture name: %q", name)
	}

	dir := findDataDir(dataDir)
	if dir == "" {
		return "", fmt.Errorf("unknown globe texture: %q", name)
	}
	scenes, err := listTextureScenesIn(dir)
	if err != nil {
		return "", err
	}
	for _, info := range scenes {
		if info.ID == globePrefix+name {
			return info.FilePath, nil
		}
	}
	return "", fmt.Errorf("unknown globe texture: %q", name)
}

func listTextureScenesIn(dir string) ([]SceneInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %v", err)
	}

	scenes := []SceneInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !textureExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		filePath := filepath.Join(dir, entry.Name())
		name := titleCase(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		scenes = append(scenes, SceneInfo{
			ID:          globePrefix + entry.Name(),
			Name:        name,
			DisplayName: name + " Globe",
			Description: fmt.Sprintf("Sphere textured with %s", entry.Name()),
			Group:       globeGroup,
			Type:        "globe",
			FilePath:    filePath,
		})
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ListAllScenes returns both built-in and texture globe scenes, grouped by category
func ListAllScenes(dataDir string) (ScenesResponse, error) {
	var response ScenesResponse

	textureScenes, err := ListTextureScenes(dataDir)
	if err != nil {
		return response, fmt.Errorf("failed to list texture scenes: %v", err)
	}

	// Combine all scenes
	allScenes := append(append([]SceneInfo{}, builtInScenes...), textureScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Create ordered groups (Built-in first, then alphabetical)
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})

	// Add other groups alphabetically
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "two-perlin-spheres" -> "Two Perlin Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
