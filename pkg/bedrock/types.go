package bedrock

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	PATH_MANIFEST = "manifest.json"
	PATH_ICON     = "pack_icon.png"
	PATH_SOUNDS   = "sounds/sound_definitions.json"
)

func geometryPath(name string) string {
	return fmt.Sprintf("models/entity/%s.geo.json", name)
}

func attachablePath(name string) string {
	return fmt.Sprintf("attachables/%s.json", name)
}

func texturePath(logical string) string {
	return fmt.Sprintf("textures/entity/%s", filepath.Base(logical))
}

func langPath(code string) string {
	return fmt.Sprintf("texts/%s.lang", RegionCode(code))
}

func particlePath(name string) string {
	return fmt.Sprintf("particles/%s.json", name)
}

// RegionCode normalizes a language code to the lowercase_UPPERCASE
// casing the platform expects, e.g. en_us -> en_US.
func RegionCode(code string) string {
	parts := strings.SplitN(strings.ReplaceAll(code, "-", "_"), "_", 2)
	if len(parts) == 1 {
		return strings.ToLower(parts[0])
	}
	return fmt.Sprintf(
		"%s_%s",
		strings.ToLower(parts[0]),
		strings.ToUpper(parts[1]),
	)
}

type Header struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	UUID             string `json:"uuid"`
	Version          [3]int `json:"version"`
	MinEngineVersion [3]int `json:"min_engine_version"`
}

type Module struct {
	Type    string `json:"type"`
	UUID    string `json:"uuid"`
	Version [3]int `json:"version"`
}

type Manifest struct {
	FormatVersion int      `json:"format_version"`
	Header        Header   `json:"header"`
	Modules       []Module `json:"modules"`
}

type AttachableDescription struct {
	Identifier        string            `json:"identifier"`
	Materials         map[string]string `json:"materials,omitempty"`
	Textures          map[string]string `json:"textures,omitempty"`
	Geometry          map[string]string `json:"geometry,omitempty"`
	RenderControllers []string          `json:"render_controllers,omitempty"`
}

type AttachableBody struct {
	Description AttachableDescription `json:"description"`
}

// Attachable binds identifier, geometry and texture together for
// runtime display.
type Attachable struct {
	FormatVersion string         `json:"format_version"`
	Attachable    AttachableBody `json:"minecraft:attachable"`
}

type SoundDefinition struct {
	Category string   `json:"category,omitempty"`
	Sounds   []string `json:"sounds"`
}

type SoundDefinitions struct {
	FormatVersion string                     `json:"format_version"`
	Definitions   map[string]SoundDefinition `json:"sound_definitions"`
}

type RenderParameters struct {
	Material string `json:"material"`
	Texture  string `json:"texture"`
}

type ParticleDescription struct {
	Identifier            string           `json:"identifier"`
	BasicRenderParameters RenderParameters `json:"basic_render_parameters"`
}

type ParticleEffect struct {
	Description ParticleDescription        `json:"description"`
	Components  map[string]json.RawMessage `json:"components"`
}

type ParticleDoc struct {
	FormatVersion string         `json:"format_version"`
	Effect        ParticleEffect `json:"particle_effect"`
}
