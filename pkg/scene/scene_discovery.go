package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-bvh-pathtracer/pkg/loaders"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                  // Unique identifier, accepted by Lookup
	Name        string `json:"name"`                // Scene name
	DisplayName string `json:"displayName"`         // UI display name
	Description string `json:"description"`         // Optional description
	Group       string `json:"group"`               // Grouping category
	Type        string `json:"type"`                // "builtin" or "ply"
	FilePath    string `json:"filePath,omitempty"`  // Path to PLY file (ply type only)
	Variant     string `json:"variant,omitempty"`   // Variant name (optional)
	Triangles   int    `json:"triangles,omitempty"` // Face count from the PLY header
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

const builtInGroup = "Built-in Scenes"

// ModelDirs are searched in order for PLY models; the first that exists wins
var ModelDirs = []string{"models", "../models"}

// ListPLYModels scans the first existing model directory for PLY meshes
func ListPLYModels() ([]SceneInfo, error) {
	for _, dir := range ModelDirs {
		if _, err := os.Stat(dir); err == nil {
			return ListPLYModelsIn(dir)
		}
	}
	// No model directory found
	return []SceneInfo{}, nil
}

// ListPLYModelsIn returns the PLY meshes in dir sorted by display name
func ListPLYModelsIn(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.ply"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan model directory: %w", err)
	}

	models := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParsePLYMetadata(filePath)
		if err != nil {
			// Keep going; one broken header should not hide the other models
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		models = append(models, info)
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].DisplayName < models[j].DisplayName
	})

	return models, nil
}

// ParsePLYMetadata reads scene metadata from PLY header comments of the form
// "comment Scene: ...", "comment Variant: ...", "comment Description: ..."
// and "comment Group: ...". Missing fields fall back to the file name.
func ParsePLYMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:          "ply:" + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "PLY Models",
		Type:        "ply",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to open model: %w", err)
	}
	defer file.Close()

	header, err := loaders.ReadPLYHeader(file)
	if err != nil {
		return info, err
	}
	info.Triangles = header.FaceCount

	for _, comment := range header.Comments {
		key, value, ok := strings.Cut(comment, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Scene":
			info.Name = value
		case "Variant":
			info.Variant = value
		case "Description":
			info.Description = value
		case "Group":
			if value != "" {
				info.Group = value
			}
		}
	}

	if info.Variant != "" {
		info.DisplayName = fmt.Sprintf("%s - %s", info.Name, info.Variant)
	} else {
		info.DisplayName = info.Name
	}

	return info, nil
}

// ListAllScenes returns both built-in scenes and PLY models, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	models, err := ListPLYModels()
	if err != nil {
		return response, fmt.Errorf("failed to list PLY models: %w", err)
	}

	allScenes := append(BuiltInScenes(), models...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if scenes, exists := groupMap[builtInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtInGroup, Scenes: scenes})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "stanford-bunny" -> "Stanford Bunny"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
