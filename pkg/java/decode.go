package java

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/dcrane/packbridge/pkg/geometry"
	"github.com/dcrane/packbridge/pkg/pack"
)

// ItemEntry is one (model reference, predicate) pair recovered from a
// selection document.
type ItemEntry struct {
	Item     string
	Model    string
	Data     int
	Extended *pack.ExtendedData
}

func DecodeMeta(data []byte) (*Meta, error) {
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("malformed pack metadata: %w", err)
	}
	return &meta, nil
}

// SyntheticData folds a serialized extended predicate into [1, 10000].
// The result is a display and sort convenience only; the verbatim
// extended arrays stay authoritative. Distinct payloads can collide.
func SyntheticData(serialized []byte) int {
	return int(xxhash.Sum64(serialized)%10000) + 1
}

// DecodePredicate reads the selection predicate of one override: a
// plain integer becomes the primary identifier directly, an object with
// the parallel arrays is kept verbatim and reduced to a synthetic one.
func DecodePredicate(raw json.RawMessage) (int, *pack.ExtendedData, error) {
	var predicate map[string]json.RawMessage
	if err := json.Unmarshal(raw, &predicate); err != nil {
		return 0, nil, fmt.Errorf("malformed predicate: %w", err)
	}

	value, ok := predicate["custom_model_data"]
	if !ok {
		return 0, nil, fmt.Errorf("predicate has no custom_model_data")
	}

	var data int
	if err := json.Unmarshal(value, &data); err == nil {
		return data, nil, nil
	}

	var extended pack.ExtendedData
	if err := json.Unmarshal(value, &extended); err != nil {
		return 0, nil, fmt.Errorf("predicate is neither integer nor extended: %w", err)
	}

	return SyntheticData(raw), &extended, nil
}

func DecodeItemDefinition(item string, data []byte) ([]ItemEntry, error) {
	var definition ItemDefinition
	if err := json.Unmarshal(data, &definition); err != nil {
		return nil, fmt.Errorf("malformed item definition for %s: %w", item, err)
	}

	entries := make([]ItemEntry, 0, len(definition.Model.Entries))
	for _, entry := range definition.Model.Entries {
		entries = append(entries, ItemEntry{
			Item:  item,
			Model: entry.Model.Model,
			Data:  entry.Threshold,
		})
	}

	return entries, nil
}

func DecodeOverrides(item string, data []byte) ([]ItemEntry, error) {
	var doc ModelDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed override list for %s: %w", item, err)
	}

	entries := make([]ItemEntry, 0, len(doc.Overrides))
	for _, override := range doc.Overrides {
		value, extended, err := DecodePredicate(override.Predicate)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ItemEntry{
			Item:     item,
			Model:    override.Model,
			Data:     value,
			Extended: extended,
		})
	}

	return entries, nil
}

func DecodeModelDoc(data []byte) (*ModelDoc, error) {
	var doc ModelDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed model document: %w", err)
	}
	return &doc, nil
}

// Mesh assembles the generic mesh carried by a model document, or nil
// when the document has no geometry of its own.
func (doc *ModelDoc) Mesh() *geometry.Mesh {
	if len(doc.Elements) == 0 && len(doc.Groups) == 0 && len(doc.Display) == 0 {
		return nil
	}
	return &geometry.Mesh{
		Elements: doc.Elements,
		Nodes:    doc.Groups,
		Display:  doc.Display,
	}
}

// ModelDocPath maps a model reference like ns:item/ruby onto the
// archive path of its document.
func ModelDocPath(ref string) string {
	namespace := "minecraft"
	path := ref
	if colon := strings.Index(ref, ":"); colon != -1 {
		namespace = ref[:colon]
		path = ref[colon+1:]
	}
	return fmt.Sprintf("assets/%s/models/%s.json", namespace, path)
}

// ModelName strips the namespace and type folder from a model
// reference, leaving the bare model name.
func ModelName(ref string) string {
	if colon := strings.Index(ref, ":"); colon != -1 {
		ref = ref[colon+1:]
	}
	if slash := strings.LastIndex(ref, "/"); slash != -1 {
		ref = ref[slash+1:]
	}
	return ref
}

func DecodeLanguage(data []byte) (map[string]string, error) {
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("malformed language document: %w", err)
	}
	return entries, nil
}

func DecodeAnimation(data []byte) (*pack.Animation, error) {
	var meta AnimationMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("malformed animation sidecar: %w", err)
	}
	return &pack.Animation{
		Enabled:     true,
		FrameTime:   meta.Animation.FrameTime,
		Interpolate: meta.Animation.Interpolate,
		Frames:      meta.Animation.Frames,
	}, nil
}

func DecodeFontDoc(data []byte) ([]pack.Provider, error) {
	var doc FontDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed font document: %w", err)
	}

	providers := make([]pack.Provider, 0, len(doc.Providers))
	for _, raw := range doc.Providers {
		var shape pack.ProviderDoc
		if err := json.Unmarshal(raw, &shape); err != nil {
			return nil, err
		}
		provider, err := pack.DecodeProvider(shape)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}

	return providers, nil
}

func DecodeSounds(data []byte) (map[string]SoundEvent, error) {
	var events map[string]SoundEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("malformed sounds document: %w", err)
	}
	return events, nil
}
