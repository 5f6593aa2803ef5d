package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dcrane/packbridge/pkg/assets"
	"github.com/dcrane/packbridge/pkg/geometry"
	"github.com/dcrane/packbridge/pkg/pack"
	"github.com/dcrane/packbridge/pkg/texture"
)

type Exporter struct {
	pack     *pack.Pack
	writer   *assets.ArchiveWriter
	resolver *texture.Resolver
}

// Export encodes the aggregate into a Bedrock-format package.
func Export(ctx context.Context, p *pack.Pack, w *assets.ArchiveWriter) error {
	e := &Exporter{
		pack:     p,
		writer:   w,
		resolver: texture.NewResolver(p.TextureIndex()),
	}

	steps := []func() error{
		e.writeManifest,
		e.writeModels,
		e.writeTextures,
		e.writeSounds,
		e.writeParticles,
		e.writeLanguages,
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

// packVersion parses "1.2.3" into the manifest's numeric triple.
// Malformed or missing segments default to zero.
func packVersion(version string) [3]int {
	var out [3]int
	for i, segment := range strings.SplitN(version, ".", 3) {
		value, err := strconv.Atoi(strings.TrimSpace(segment))
		if err != nil {
			continue
		}
		out[i] = value
	}
	if out == [3]int{} {
		out = [3]int{1, 0, 0}
	}
	return out
}

func (e *Exporter) writeManifest() error {
	// Stable name-derived identifiers keep repeated exports of the same
	// pack byte-identical.
	headerId := uuid.NewSHA1(uuid.NameSpaceURL, []byte(e.pack.Name))
	moduleId := uuid.NewSHA1(uuid.NameSpaceURL, []byte(e.pack.Name+"/resources"))

	manifest := Manifest{
		FormatVersion: 2,
		Header: Header{
			Name:             e.pack.Name,
			Description:      e.pack.Description,
			UUID:             headerId.String(),
			Version:          packVersion(e.pack.Version),
			MinEngineVersion: [3]int{1, 16, 0},
		},
		Modules: []Module{
			{
				Type:    "resources",
				UUID:    moduleId.String(),
				Version: packVersion(e.pack.Version),
			},
		},
	}

	if err := e.writeJSON(PATH_MANIFEST, manifest); err != nil {
		return err
	}

	if e.pack.Icon != nil {
		return e.writer.Create(PATH_ICON, e.pack.Icon)
	}
	return nil
}

// modelGeometry prefers a verbatim cached geometry document from a
// previous import; otherwise it converts the generic mesh. A nil result
// means the model is skipped on this platform, which is not an error.
func (e *Exporter) modelGeometry(model *pack.Model) []byte {
	if len(model.GeometryDoc) > 0 {
		return model.GeometryDoc
	}

	if model.Mesh == nil {
		return nil
	}

	width, height := e.textureSize(model)
	converted, err := geometry.Convert(model.Name, model.Mesh, width, height)
	if err != nil {
		log.Warn().Err(err).Msgf("skipping geometry for model %s", model.Name)
		return nil
	}

	doc := geometry.Document{
		FormatVersion: geometry.FORMAT_VERSION,
		Geometries:    []geometry.Geometry{*converted},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msgf("skipping geometry for model %s", model.Name)
		return nil
	}
	return data
}

func (e *Exporter) modelTexture(model *pack.Model) string {
	for _, layer := range model.Layers {
		resolved, ok := e.resolver.Resolve(layer.Texture)
		if ok {
			return resolved
		}
	}
	if len(model.Layers) > 0 {
		return model.Layers[0].Texture
	}
	return ""
}

func (e *Exporter) textureSize(model *pack.Model) (int, int) {
	path := e.modelTexture(model)
	if path == "" {
		return 0, 0
	}
	if tex := e.pack.FindTexture(path); tex != nil {
		return tex.Width, tex.Height
	}
	return 0, 0
}

func (e *Exporter) writeModels() error {
	for _, model := range e.pack.Models {
		doc := e.modelGeometry(model)
		if doc == nil {
			continue
		}

		if err := e.writer.Create(geometryPath(model.Name), doc); err != nil {
			return err
		}

		textures := make(map[string]string)
		if path := e.modelTexture(model); path != "" {
			textures["default"] = strings.TrimSuffix(texturePath(path), ".png")
		}

		attachable := Attachable{
			FormatVersion: "1.10.0",
			Attachable: AttachableBody{
				Description: AttachableDescription{
					Identifier: fmt.Sprintf("%s:%s", e.pack.Namespace, model.Name),
					Materials: map[string]string{
						"default":   "entity_alphatest",
						"enchanted": "entity_alphatest_glint",
					},
					Textures: textures,
					Geometry: map[string]string{
						"default": fmt.Sprintf("geometry.%s", model.Name),
					},
					RenderControllers: []string{"controller.render.item_default"},
				},
			},
		}

		err := e.writeJSON(attachablePath(model.Name), attachable)
		if err != nil {
			return err
		}
	}

	return nil
}

func (e *Exporter) writeTextures() error {
	for _, tex := range e.pack.Textures {
		err := e.writer.Create(texturePath(tex.Path), tex.Data)
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

	definitions := make(map[string]SoundDefinition, len(e.pack.Sounds))
	for _, sound := range e.pack.Sounds {
		logical := strings.TrimSuffix(sound.Path, ".ogg")
		definitions[sound.Name] = SoundDefinition{
			Category: sound.Category,
			Sounds:   []string{fmt.Sprintf("sounds/%s", logical)},
		}

		err := e.writer.Create(fmt.Sprintf("sounds/%s", sound.Path), sound.Data)
		if err != nil {
			return err
		}
	}

	return e.writeJSON(PATH_SOUNDS, SoundDefinitions{
		FormatVersion: "1.14.0",
		Definitions:   definitions,
	})
}

func (e *Exporter) writeParticles() error {
	for _, particle := range e.pack.Particles {
		// Docs imported from this platform go back out untouched.
		if len(particle.Doc) > 0 && json.Valid(particle.Doc) {
			var probe ParticleDoc
			if json.Unmarshal(particle.Doc, &probe) == nil &&
				probe.FormatVersion != "" {
				err := e.writer.Create(particlePath(particle.Name), particle.Doc)
				if err != nil {
					return err
				}
				continue
			}
		}

		identifier := fmt.Sprintf("%s:%s", e.pack.Namespace, particle.Name)

		texturePath := ""
		if particle.TexturePath != "" {
			texturePath = strings.TrimSuffix(
				fmt.Sprintf("textures/particle/%s", particle.Name),
				".png",
			)
			err := e.writer.Create(
				fmt.Sprintf("textures/particle/%s.png", particle.Name),
				particle.Texture,
			)
			if err != nil {
				return err
			}
		}

		doc := ParticleDoc{
			FormatVersion: "1.10.0",
			Effect: ParticleEffect{
				Description: ParticleDescription{
					Identifier: identifier,
					BasicRenderParameters: RenderParameters{
						Material: "particles_alpha",
						Texture:  texturePath,
					},
				},
				Components: map[string]json.RawMessage{
					"minecraft:emitter_rate_instant": json.RawMessage(
						`{"num_particles": 1}`,
					),
					"minecraft:particle_lifetime_expression": json.RawMessage(
						`{"max_lifetime": 1}`,
					),
				},
			},
		}

		if err := e.writeJSON(particlePath(particle.Name), doc); err != nil {
			return err
		}
	}

	return nil
}

// EncodeLang writes the key=value text document for one language,
// sorted so output is stable.
func EncodeLang(entries map[string]string) []byte {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(entries[key])
		builder.WriteString("\n")
	}
	return []byte(builder.String())
}

func (e *Exporter) writeLanguages() error {
	for _, language := range e.pack.Languages {
		err := e.writer.Create(langPath(language.Code), EncodeLang(language.Entries))
		if err != nil {
			return err
		}
	}
	return nil
}
