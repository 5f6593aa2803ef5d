package java

import (
	"encoding/json"
	"fmt"

	"github.com/dcrane/packbridge/pkg/geometry"
)

// DISPATCH_FORMAT is the first pack format that selects models with
// per-item dispatch documents instead of legacy override lists.
const DISPATCH_FORMAT = 48

const (
	PATH_META = "pack.mcmeta"
	PATH_ICON = "pack.png"
)

func ItemPath(item string) string {
	return fmt.Sprintf("assets/minecraft/items/%s.json", item)
}

func OverridePath(item string) string {
	return fmt.Sprintf("assets/minecraft/models/item/%s.json", item)
}

func modelPath(namespace string, name string) string {
	return fmt.Sprintf("assets/%s/models/item/%s.json", namespace, name)
}

func texturePath(namespace string, logical string) string {
	return fmt.Sprintf("assets/%s/textures/%s", namespace, logical)
}

func fontPath(namespace string, name string) string {
	return fmt.Sprintf("assets/%s/font/%s.json", namespace, name)
}

func soundPath(namespace string, logical string) string {
	return fmt.Sprintf("assets/%s/sounds/%s", namespace, logical)
}

func particlePath(namespace string, name string) string {
	return fmt.Sprintf("assets/%s/particles/%s.json", namespace, name)
}

func langPath(namespace string, code string) string {
	return fmt.Sprintf("assets/%s/lang/%s.json", namespace, code)
}

func shaderPath(namespace string, kind string, file string) string {
	return fmt.Sprintf("assets/%s/shaders/%s/%s", namespace, kind, file)
}

// KNOWN_ITEMS is the fixed catalog of base items searched for legacy
// override lists. Dispatch documents need no catalog because they live
// under their own directory.
var KNOWN_ITEMS = []string{
	"stick",
	"paper",
	"apple",
	"feather",
	"bone",
	"book",
	"bowl",
	"brick",
	"flint",
	"leather",
	"emerald",
	"diamond",
	"carrot_on_a_stick",
	"warped_fungus_on_a_stick",
	"wooden_sword",
	"wooden_pickaxe",
	"wooden_axe",
	"wooden_shovel",
	"wooden_hoe",
	"diamond_sword",
	"diamond_hoe",
	"iron_sword",
	"iron_hoe",
	"golden_hoe",
	"netherite_hoe",
	"leather_horse_armor",
	"snowball",
	"clay_ball",
}

type Meta struct {
	Pack MetaHeader `json:"pack"`
}

type MetaHeader struct {
	Format      int    `json:"pack_format"`
	Description string `json:"description"`
}

// ModelRef points a selection entry at a model document.
type ModelRef struct {
	Type  string `json:"type"`
	Model string `json:"model"`
}

// DispatchEntry is one threshold in a dispatch document. At runtime the
// highest threshold <= the probed identifier wins.
type DispatchEntry struct {
	Threshold int      `json:"threshold"`
	Model     ModelRef `json:"model"`
}

type Dispatch struct {
	Type     string          `json:"type"`
	Property string          `json:"property"`
	Fallback *ModelRef       `json:"fallback,omitempty"`
	Entries  []DispatchEntry `json:"entries"`
}

type ItemDefinition struct {
	Model Dispatch `json:"model"`
}

// Override is one exact-equality predicate in a legacy override list.
// The first matching predicate wins, so list order is load-bearing.
type Override struct {
	Predicate json.RawMessage `json:"predicate"`
	Model     string          `json:"model"`
}

type ModelDoc struct {
	Parent   string             `json:"parent,omitempty"`
	Textures map[string]string  `json:"textures,omitempty"`
	Elements []geometry.Element `json:"elements,omitempty"`
	Groups   []*geometry.Node   `json:"groups,omitempty"`
	Display  json.RawMessage    `json:"display,omitempty"`

	// Overrides only appears on the per-item documents of legacy packs.
	Overrides []Override `json:"overrides,omitempty"`
}

type AnimationBody struct {
	FrameTime   *int  `json:"frametime,omitempty"`
	Interpolate *bool `json:"interpolate,omitempty"`
	Frames      []int `json:"frames,omitempty"`
}

type AnimationMeta struct {
	Animation AnimationBody `json:"animation"`
}

type SoundEvent struct {
	Category string   `json:"category,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	Sounds   []string `json:"sounds"`
}

type FontDoc struct {
	Providers []json.RawMessage `json:"providers"`
}

type ParticleDoc struct {
	Textures []string `json:"textures,omitempty"`
}
