package java

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dcrane/packbridge/pkg/assets"
	"github.com/dcrane/packbridge/pkg/pack"
	"github.com/dcrane/packbridge/pkg/texture"
)

type Exporter struct {
	pack     *pack.Pack
	writer   *assets.ArchiveWriter
	resolver *texture.Resolver

	// Font source files already emitted, so shared sources are never
	// written twice.
	written map[string]struct{}
}

// Export encodes the whole aggregate into a Java-format package. The
// writer is committed or aborted by the caller.
func Export(ctx context.Context, p *pack.Pack, w *assets.ArchiveWriter) error {
	e := &Exporter{
		pack:     p,
		writer:   w,
		resolver: texture.NewResolver(p.TextureIndex()),
		written:  make(map[string]struct{}),
	}

	steps := []func() error{
		e.writeMeta,
		e.writeItems,
		e.writeModels,
		e.writeTextures,
		e.writeFonts,
		e.writeSounds,
		e.writeParticles,
		e.writeLanguages,
		e.writeShaders,
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

func (e *Exporter) writeJSON(name string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return e.writer.Create(name, data)
}

func (e *Exporter) writeMeta() error {
	err := e.writeJSON(PATH_META, Meta{
		Pack: MetaHeader{
			Format:      e.pack.Format,
			Description: e.pack.Description,
		},
	})
	if err != nil {
		return err
	}

	if e.pack.Icon != nil {
		return e.writer.Create(PATH_ICON, e.pack.Icon)
	}
	return nil
}

func (e *Exporter) modelRef(model *pack.Model) string {
	return fmt.Sprintf("%s:item/%s", e.pack.Namespace, model.Name)
}

func baseModelRef(item string) string {
	return fmt.Sprintf("minecraft:item/%s", item)
}

// writeItems emits one selection document per target item: a dispatch
// document for formats >= DISPATCH_FORMAT, a legacy override list
// below. Groups arrive sorted ascending by identifier and must stay
// that way in both shapes.
func (e *Exporter) writeItems() error {
	groups := e.pack.ModelsByItem()

	for _, item := range e.pack.Items() {
		group := groups[item]

		if e.pack.Format >= DISPATCH_FORMAT {
			if err := e.writeDispatch(item, group); err != nil {
				return err
			}
			continue
		}

		if err := e.writeOverrides(item, group); err != nil {
			return err
		}
	}

	return nil
}

func (e *Exporter) writeDispatch(item string, group []*pack.Model) error {
	fallback := ModelRef{
		Type:  "model",
		Model: baseModelRef(item),
	}

	entries := make([]DispatchEntry, 0, len(group))
	for _, model := range group {
		entries = append(entries, DispatchEntry{
			Threshold: model.Data,
			Model: ModelRef{
				Type:  "model",
				Model: e.modelRef(model),
			},
		})
	}

	return e.writeJSON(ItemPath(item), ItemDefinition{
		Model: Dispatch{
			Type:     "range_dispatch",
			Property: "custom_model_data",
			Fallback: &fallback,
			Entries:  entries,
		},
	})
}

func (e *Exporter) writeOverrides(item string, group []*pack.Model) error {
	overrides := make([]Override, 0, len(group))
	for _, model := range group {
		predicate, err := encodePredicate(model)
		if err != nil {
			return err
		}
		overrides = append(overrides, Override{
			Predicate: predicate,
			Model:     e.modelRef(model),
		})
	}

	return e.writeJSON(OverridePath(item), ModelDoc{
		Parent:    baseModelRef(item),
		Overrides: overrides,
	})
}

func encodePredicate(model *pack.Model) (json.RawMessage, error) {
	if model.Extended != nil {
		return json.Marshal(map[string]*pack.ExtendedData{
			"custom_model_data": model.Extended,
		})
	}
	return json.Marshal(map[string]int{
		"custom_model_data": model.Data,
	})
}

func (e *Exporter) writeModels() error {
	for _, model := range e.pack.Models {
		doc := ModelDoc{
			Parent: model.Parent,
		}
		if doc.Parent == "" {
			doc.Parent = "minecraft:item/generated"
		}

		if len(model.Layers) > 0 {
			doc.Textures = make(map[string]string, len(model.Layers))
			for _, layer := range model.Layers {
				resolved, ok := e.resolver.Resolve(layer.Texture)
				if !ok {
					log.Debug().Msgf(
						"model %s layer %s keeps unresolved reference %s",
						model.Name,
						layer.Name,
						resolved,
					)
				}
				doc.Textures[layer.Name] = fmt.Sprintf(
					"%s:%s",
					e.pack.Namespace,
					texture.Clean(resolved),
				)
			}
		}

		if model.Mesh != nil {
			doc.Elements = model.Mesh.Elements
			doc.Groups = model.Mesh.Nodes
			doc.Display = model.Mesh.Display
		}

		err := e.writeJSON(modelPath(e.pack.Namespace, model.Name), doc)
		if err != nil {
			return err
		}
	}

	return nil
}

func (e *Exporter) writeTextures() error {
	for _, tex := range e.pack.Textures {
		target := texturePath(e.pack.Namespace, tex.Path)
		if err := e.writer.Create(target, tex.Data); err != nil {
			return err
		}

		animation := tex.Animation
		if animation == nil || !animation.Enabled {
			continue
		}

		// The sidecar carries only the fields explicitly set, never
		// written defaults.
		err := e.writeJSON(target+".mcmeta", AnimationMeta{
			Animation: AnimationBody{
				FrameTime:   animation.FrameTime,
				Interpolate: animation.Interpolate,
				Frames:      animation.Frames,
			},
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// sourceFile picks the provider's own uploaded data first, then the
// fallback source carried on the parent font.
func sourceFile(provider []byte, font *pack.Font) []byte {
	if len(provider) > 0 {
		return provider
	}
	return font.Source
}

func (e *Exporter) writeSource(target string, data []byte) error {
	if _, ok := e.written[target]; ok {
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	e.written[target] = struct{}{}
	return e.writer.Create(target, data)
}

func (e *Exporter) writeFonts() error {
	namespace := e.pack.Namespace

	for _, font := range e.pack.Fonts {
		providers := make([]json.RawMessage, 0, len(font.Providers))

		for _, provider := range font.Providers {
			doc := pack.EncodeProvider(provider)

			switch p := provider.(type) {
			case pack.BitmapProvider:
				if doc.File == "" {
					doc.File = fmt.Sprintf("%s:font/%s.png", namespace, font.Name)
				}
				target := texturePath(namespace, fmt.Sprintf(
					"font/%s",
					filepath.Base(strings.TrimPrefix(doc.File, namespace+":font/")),
				))
				err := e.writeSource(target, sourceFile(p.Data, font))
				if err != nil {
					return err
				}
			case pack.TTFProvider:
				if doc.File == "" {
					doc.File = fmt.Sprintf("%s:%s", namespace, font.SourceName)
				}
				name := doc.File
				if colon := strings.Index(name, ":"); colon != -1 {
					name = name[colon+1:]
				}
				target := fmt.Sprintf("assets/%s/font/%s", namespace, name)
				err := e.writeSource(target, sourceFile(p.Data, font))
				if err != nil {
					return err
				}
			}

			encoded, err := json.Marshal(doc)
			if err != nil {
				return err
			}
			providers = append(providers, encoded)
		}

		err := e.writeJSON(fontPath(namespace, font.Name), FontDoc{
			Providers: providers,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (e *Exporter) writeSounds() error {
	if len(e.pack.Sounds) == 0 {
		return nil
	}

	namespace := e.pack.Namespace
	events := make(map[string]SoundEvent, len(e.pack.Sounds))

	for _, sound := range e.pack.Sounds {
		logical := strings.TrimSuffix(sound.Path, filepath.Ext(sound.Path))
		events[sound.Name] = SoundEvent{
			Category: sound.Category,
			Subtitle: sound.Subtitle,
			Sounds:   []string{fmt.Sprintf("%s:%s", namespace, logical)},
		}

		err := e.writer.Create(soundPath(namespace, sound.Path), sound.Data)
		if err != nil {
			return err
		}
	}

	return e.writeJSON(fmt.Sprintf("assets/%s/sounds.json", namespace), events)
}

func (e *Exporter) writeParticles() error {
	namespace := e.pack.Namespace

	for _, particle := range e.pack.Particles {
		path := particlePath(namespace, particle.Name)

		if len(particle.Doc) > 0 {
			if err := e.writer.Create(path, particle.Doc); err != nil {
				return err
			}
		} else {
			doc := ParticleDoc{}
			if particle.TexturePath != "" {
				doc.Textures = []string{fmt.Sprintf(
					"%s:%s",
					namespace,
					texture.Clean(particle.TexturePath),
				)}
			}
			if err := e.writeJSON(path, doc); err != nil {
				return err
			}
		}

		if particle.Texture != nil && particle.TexturePath != "" {
			err := e.writer.Create(
				texturePath(namespace, particle.TexturePath),
				particle.Texture,
			)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *Exporter) writeLanguages() error {
	for _, language := range e.pack.Languages {
		err := e.writeJSON(
			langPath(e.pack.Namespace, strings.ToLower(language.Code)),
			language.Entries,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeShaders() error {
	for _, shader := range e.pack.Shaders {
		names := make([]string, 0, len(shader.Files))
		for name := range shader.Files {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			err := e.writer.Create(
				shaderPath(e.pack.Namespace, shader.Kind, name),
				shader.Files[name],
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
