package scene

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
)

// SceneInfo represents a discovered scene file with its metadata
type SceneInfo struct {
	Key         string `json:"key"`                   // Bucket key of the scene file
	Name        string `json:"name"`                  // Scene name
	Description string `json:"description,omitempty"` // Optional description
	Environment string `json:"environment,omitempty"` // Panorama the scene is lit by
}

// ListScenes scans the bucket under prefix for scene files. Files that fail
// to parse are still listed with a name derived from their key.
func ListScenes(ctx context.Context, bucket *blob.Bucket, prefix string) ([]SceneInfo, error) {
	var scenes []SceneInfo
	iter := bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan scenes")
		}
		if obj.IsDir || !isSceneFile(obj.Key) {
			continue
		}
		scenes = append(scenes, describe(ctx, bucket, obj.Key))
	}

	// Sort scenes by name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

func describe(ctx context.Context, bucket *blob.Bucket, key string) SceneInfo {
	base := path.Base(key)
	info := SceneInfo{
		Key:  key,
		Name: titleCase(strings.TrimSuffix(base, path.Ext(base))),
	}

	desc, err := LoadDescription(ctx, bucket, key)
	if err != nil {
		return info
	}
	if desc.Name != "" {
		info.Name = desc.Name
	}
	info.Description = desc.Summary
	info.Environment = desc.Environment
	return info
}

func isSceneFile(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// titleCase converts a filename-style string to title case
// e.g., "studio-spheres" -> "Studio Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
