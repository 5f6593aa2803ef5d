package pack

import (
	"encoding/json"

	"github.com/dcrane/packbridge/pkg/geometry"
)

// Pack is the whole in-memory asset aggregate. It has a single owner;
// core operations read it or replace it wholesale, never mutate nested
// structures in place.
type Pack struct {
	Name        string `validate:"required"`
	Description string
	Version     string `validate:"omitempty,semver"`
	Format      int    `validate:"gte=1"`
	Namespace   string `validate:"required,lowercase"`

	Models    []*Model
	Textures  []*Texture
	Fonts     []*Font
	Sounds    []*Sound
	Particles []*Particle
	Shaders   []*Shader
	Languages []*Language

	Icon []byte `json:"-"`
}

// Layer binds a texture-layer name (layer0, layer1, ...) to a texture
// reference. Order is significant.
type Layer struct {
	Name    string
	Texture string
}

// ExtendedData carries the parallel-array identifier used instead of a
// plain integer. Arrays are stored verbatim; colors are packed RGB ints.
type ExtendedData struct {
	Floats  []float64 `json:"floats,omitempty"`
	Flags   []bool    `json:"flags,omitempty"`
	Strings []string  `json:"strings,omitempty"`
	Colors  []int     `json:"colors,omitempty"`
}

type Model struct {
	Id   string
	Name string
	Item string

	// Data is the primary custom identifier. Zero is valid and means
	// "override the base appearance".
	Data     int
	Extended *ExtendedData

	Parent string
	Layers []Layer

	Mesh *geometry.Mesh

	// GeometryDoc holds a verbatim Bedrock geometry document from a
	// previous import so re-exports round-trip it untouched.
	GeometryDoc json.RawMessage
}

type Animation struct {
	Enabled     bool
	FrameTime   *int
	Interpolate *bool
	Frames      []int
}

type Texture struct {
	Id        string
	Name      string
	Path      string
	Data      []byte `json:"-"`
	Size      int64
	Width     int
	Height    int
	Animation *Animation
}

type Font struct {
	Id   string
	Name string

	// Fallback source file carried on the font itself; providers without
	// their own upload fall back to it.
	SourceName string
	Source     []byte `json:"-"`

	Providers []Provider
}

type Sound struct {
	Id       string
	Name     string
	Path     string
	Data     []byte `json:"-"`
	Category string
	Subtitle string
}

type Particle struct {
	Id          string
	Name        string
	Doc         json.RawMessage
	TexturePath string
	Texture     []byte `json:"-"`
}

const (
	SHADER_CORE    = "core"
	SHADER_POST    = "post"
	SHADER_PROGRAM = "program"
)

type Shader struct {
	Id    string
	Name  string
	Kind  string
	Files map[string][]byte `json:"-"`
}

type Language struct {
	Code    string
	Entries map[string]string
}

type VersionConfig struct {
	Label   string
	Format  int
	Enabled bool
}

const (
	RESOLVE_OVERWRITE = "overwrite"
	RESOLVE_SKIP      = "skip"
	RESOLVE_RENAME    = "rename"
)

type ConflictEntry struct {
	Pack string
	Data []byte
}

// MergeConflict records a path contributed by more than one source
// package and how the user chose to reconcile it.
type MergeConflict struct {
	Path       string
	Entries    []ConflictEntry
	Resolution string
}
