package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"stanford-bunny", "Stanford Bunny"},
		{"dragon_vrip", "Dragon Vrip"},
		{"my-custom-model", "My Custom Model"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParsePLYMetadata(t *testing.T) {
	dir := t.TempDir()
	bare := "ply\nformat ascii 1.0\nelement vertex 0\nproperty float x\nproperty float y\nproperty float z\nend_header\n"

	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name:    "full_metadata.ply",
			content: testMesh,
			expected: SceneInfo{
				ID:          "ply:full_metadata",
				Name:        "Test Quad",
				DisplayName: "Test Quad - Ascii",
				Description: "one quad",
				Group:       "Test Models",
				Type:        "ply",
				Variant:     "Ascii",
				Triangles:   1,
			},
		},
		{
			name:    "no-metadata.ply",
			content: bare,
			expected: SceneInfo{
				ID:          "ply:no-metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "PLY Models",
				Type:        "ply",
			},
		},
		{
			name:    "plain_comments.ply",
			content: strings.Replace(bare, "format ascii 1.0\n", "format ascii 1.0\ncomment made by hand\ncomment Group:\n", 1),
			expected: SceneInfo{
				ID:          "ply:plain_comments",
				Name:        "Plain Comments",
				DisplayName: "Plain Comments",
				Group:       "PLY Models",
				Type:        "ply",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("Failed to write test file: %v", err)
			}

			result, err := ParsePLYMetadata(path)
			if err != nil {
				t.Fatalf("ParsePLYMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParsePLYMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParsePLYMetadata_Errors(t *testing.T) {
	if _, err := ParsePLYMetadata("nonexistent.ply"); err == nil {
		t.Error("Expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.ply")
	if err := os.WriteFile(path, []byte("not a mesh\n"), 0644); err != nil {
		t.Fatal(err)
	}
	info, err := ParsePLYMetadata(path)
	if err == nil {
		t.Error("Expected error for a file without a PLY header")
	}
	if info.ID != "ply:broken" {
		t.Errorf("Expected fallback ID even on error, got %q", info.ID)
	}
}

func TestListPLYModelsIn(t *testing.T) {
	dir := t.TempDir()
	writeTestMesh(t, dir, "b_quad.ply")
	if err := os.WriteFile(filepath.Join(dir, "a_broken.ply"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	models, err := ListPLYModelsIn(dir)
	if err != nil {
		t.Fatalf("ListPLYModelsIn() error: %v", err)
	}

	// The broken header is skipped, the text file never considered
	if len(models) != 1 || models[0].ID != "ply:b_quad" {
		t.Fatalf("Unexpected models %+v", models)
	}
}

func TestListPLYModels_NoDirectory(t *testing.T) {
	saved := ModelDirs
	defer func() { ModelDirs = saved }()
	ModelDirs = []string{filepath.Join(t.TempDir(), "missing")}

	models, err := ListPLYModels()
	if err != nil {
		t.Errorf("ListPLYModels() error: %v", err)
	}
	if models == nil || len(models) != 0 {
		t.Errorf("Expected an empty, non-nil list, got %v", models)
	}
}

func TestListAllScenes(t *testing.T) {
	saved := ModelDirs
	defer func() { ModelDirs = saved }()
	dir := t.TempDir()
	ModelDirs = []string{dir}
	writeTestMesh(t, dir, "quad.ply")

	response, err := ListAllScenes()
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and model groups, got %d groups", len(response.Groups))
	}
	if response.Groups[0].Name != "Built-in Scenes" {
		t.Errorf("Expected built-in scenes first, got %q", response.Groups[0].Name)
	}
	if len(response.Groups[0].Scenes) != len(BuiltInScenes()) {
		t.Errorf("Built-in scenes count = %d, want %d", len(response.Groups[0].Scenes), len(BuiltInScenes()))
	}
	if response.Groups[1].Name != "Test Models" || response.Groups[1].Scenes[0].ID != "ply:quad" {
		t.Errorf("Unexpected model group %+v", response.Groups[1])
	}

	// Every listed ID is accepted by Lookup
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			opts := DefaultOptions()
			opts.Count = 3
			if _, err := Lookup(info.ID, opts); err != nil {
				t.Errorf("Lookup(%q) failed: %v", info.ID, err)
			}
		}
	}
}
