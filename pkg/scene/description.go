package scene

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/df07/go-envmap-pathtracer/pkg/geometry"
	"github.com/go-json-experiment/json"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gopkg.in/yaml.v3"
)

// Triple is an [x, y, z] or [r, g, b] list in a scene file
type Triple [3]float64

// Vec3 converts the triple to a vector
func (t Triple) Vec3() core.Vec3 {
	return core.NewVec3(t[0], t[1], t[2])
}

// defaultAlbedo is used for shapes that leave albedo out
var defaultAlbedo = Triple{0.5, 0.5, 0.5}

// Description is a scene file. Zero render values leave the renderer's
// defaults in place.
type Description struct {
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Summary     string            `json:"description,omitempty" yaml:"description,omitempty"`
	Environment string            `json:"environment,omitempty" yaml:"environment,omitempty"`
	Render      RenderDescription `json:"render,omitempty" yaml:"render,omitempty"`
	Spheres     []SphereDesc      `json:"spheres,omitempty" yaml:"spheres,omitempty"`
	Planes      []PlaneDesc       `json:"planes,omitempty" yaml:"planes,omitempty"`
}

// RenderDescription overrides render settings
type RenderDescription struct {
	Width           int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height          int     `json:"height,omitempty" yaml:"height,omitempty"`
	SamplesPerPixel int     `json:"spp,omitempty" yaml:"spp,omitempty"`
	FieldOfView     float64 `json:"fov,omitempty" yaml:"fov,omitempty"`
	TileSize        int     `json:"tileSize,omitempty" yaml:"tileSize,omitempty"`
	Seed            uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
	MaxBounces      int     `json:"maxBounces,omitempty" yaml:"maxBounces,omitempty"`
}

// SphereDesc describes a sphere
type SphereDesc struct {
	Center Triple  `json:"center" yaml:"center"`
	Radius float64 `json:"radius" yaml:"radius"`
	Albedo *Triple `json:"albedo,omitempty" yaml:"albedo,omitempty"`
}

// PlaneDesc describes an infinite plane through Point
type PlaneDesc struct {
	Point  Triple  `json:"point" yaml:"point"`
	Normal Triple  `json:"normal" yaml:"normal"`
	Albedo *Triple `json:"albedo,omitempty" yaml:"albedo,omitempty"`
}

// ParseDescription decodes a scene file. name selects the format by
// extension: .yaml and .yml are YAML, .json is JSON. Unknown fields are
// rejected in both.
func ParseDescription(name string, data []byte) (*Description, error) {
	var desc Description
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&desc); err != nil {
			return nil, errors.Wrapf(err, "failed to parse scene %q", name)
		}
	case ".json":
		if err := json.Unmarshal(data, &desc, json.RejectUnknownMembers(true)); err != nil {
			return nil, errors.Wrapf(err, "failed to parse scene %q", name)
		}
	default:
		return nil, errors.Errorf("unsupported scene format %q", path.Ext(name))
	}
	return &desc, nil
}

// LoadDescription reads and parses the scene file stored under key
func LoadDescription(ctx context.Context, bucket *blob.Bucket, key string) (*Description, error) {
	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scene %q", key)
	}
	return ParseDescription(key, data)
}

// Build creates the scene described, lit by env. Spheres are added before
// planes, each in file order.
func (d *Description) Build(env *core.Raster) (*Scene, error) {
	s := NewScene(env)
	for i, sd := range d.Spheres {
		if sd.Radius <= 0 {
			return nil, errors.Errorf("sphere %d: radius must be positive, got %v", i, sd.Radius)
		}
		albedo, err := albedoOrDefault(sd.Albedo)
		if err != nil {
			return nil, errors.Wrapf(err, "sphere %d", i)
		}
		s.Add(geometry.NewSphere(sd.Center.Vec3(), sd.Radius, albedo))
	}
	for i, pd := range d.Planes {
		if pd.Normal.Vec3().IsZero() {
			return nil, errors.Errorf("plane %d: normal must be non-zero", i)
		}
		albedo, err := albedoOrDefault(pd.Albedo)
		if err != nil {
			return nil, errors.Wrapf(err, "plane %d", i)
		}
		s.Add(geometry.NewPlane(pd.Point.Vec3(), pd.Normal.Vec3(), albedo))
	}
	return s, nil
}

// albedoOrDefault returns the albedo, or the default when unset. Components
// must lie in [0,1].
func albedoOrDefault(albedo *Triple) (core.Vec3, error) {
	if albedo == nil {
		return defaultAlbedo.Vec3(), nil
	}
	for _, c := range albedo {
		if !(c >= 0 && c <= 1) {
			return core.Vec3{}, errors.Errorf("albedo components must be within [0,1], got %v", *albedo)
		}
	}
	return albedo.Vec3(), nil
}
