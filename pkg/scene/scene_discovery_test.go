package scene

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gocloud.dev/blob/memblob"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"studio-spheres", "Studio Spheres"},
		{"wooden_lounge", "Wooden Lounge"},
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

func TestListScenes(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	files := map[string]string{
		"scenes/studio.yaml":      "name: Studio\ndescription: Two spheres\nenvironment: studio.hdr\n",
		"scenes/garden-path.json": `{"environment": "garden.hdr"}`,
		"scenes/broken.yml":       "spheres: [",
		"scenes/readme.txt":       "not a scene",
		"elsewhere/outside.yaml":  "name: Outside\n",
	}
	for key, content := range files {
		if err := bucket.WriteAll(ctx, key, []byte(content), nil); err != nil {
			t.Fatalf("WriteAll(%q) failed: %v", key, err)
		}
	}

	scenes, err := ListScenes(ctx, bucket, "scenes/")
	if err != nil {
		t.Fatalf("ListScenes failed: %v", err)
	}

	expected := []SceneInfo{
		{Key: "scenes/broken.yml", Name: "Broken"},
		{Key: "scenes/garden-path.json", Name: "Garden Path", Environment: "garden.hdr"},
		{Key: "scenes/studio.yaml", Name: "Studio", Description: "Two spheres", Environment: "studio.hdr"},
	}
	if diff := cmp.Diff(expected, scenes); diff != "" {
		t.Errorf("scenes mismatch (-want +got):\n%s", diff)
	}
}
