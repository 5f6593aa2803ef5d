package merge

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dcrane/packbridge/pkg/pack"
)

// Analyze inspects a set of source packages and reports every texture
// path contributed by more than one of them. Conflicts default to
// overwrite; callers adjust resolutions before calling Execute.
func Analyze(packs []*pack.Pack) []*pack.MergeConflict {
	order := make([]string, 0)
	entries := make(map[string][]pack.ConflictEntry)

	for _, p := range packs {
		for _, texture := range p.Textures {
			if _, ok := entries[texture.Path]; !ok {
				order = append(order, texture.Path)
			}
			entries[texture.Path] = append(entries[texture.Path], pack.ConflictEntry{
				Pack: p.Name,
				Data: texture.Data,
			})
		}
	}

	conflicts := make([]*pack.MergeConflict, 0)
	for _, path := range order {
		group := entries[path]
		if len(group) < 2 {
			continue
		}
		conflicts = append(conflicts, &pack.MergeConflict{
			Path:       path,
			Entries:    group,
			Resolution: pack.RESOLVE_OVERWRITE,
		})
	}

	return conflicts
}

// renamed derives a distinct path for a conflicting texture by tagging
// it with its source package.
func renamed(path string, packName string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	tag := strings.ReplaceAll(strings.ToLower(packName), " ", "_")
	return fmt.Sprintf("%s_%s%s", base, tag, ext)
}

type merger struct {
	resolutions map[string]string

	textures  map[string]*pack.Texture
	models    map[string]*pack.Model
	fonts     map[string]*pack.Font
	sounds    map[string]*pack.Sound
	particles map[string]*pack.Particle
	shaders   map[string]*pack.Shader
	languages map[string]*pack.Language

	textureOrder  []string
	modelOrder    []string
	fontOrder     []string
	soundOrder    []string
	particleOrder []string
	shaderOrder   []string
	languageOrder []string
}

func newMerger(conflicts []*pack.MergeConflict) *merger {
	resolutions := make(map[string]string, len(conflicts))
	for _, conflict := range conflicts {
		resolutions[conflict.Path] = conflict.Resolution
	}
	return &merger{
		resolutions: resolutions,
		textures:    make(map[string]*pack.Texture),
		models:      make(map[string]*pack.Model),
		fonts:       make(map[string]*pack.Font),
		sounds:      make(map[string]*pack.Sound),
		particles:   make(map[string]*pack.Particle),
		shaders:     make(map[string]*pack.Shader),
		languages:   make(map[string]*pack.Language),
	}
}

func (m *merger) addTexture(
	source *pack.Pack,
	texture *pack.Texture,
	renames map[string]string,
) {
	path := texture.Path

	if _, taken := m.textures[path]; taken {
		switch m.resolutions[path] {
		case pack.RESOLVE_SKIP:
			return
		case pack.RESOLVE_RENAME:
			fresh := *texture
			fresh.Path = renamed(path, source.Name)
			renames[path] = fresh.Path
			m.textureOrder = append(m.textureOrder, fresh.Path)
			m.textures[fresh.Path] = &fresh
			return
		}
		m.textures[path] = texture
		return
	}

	m.textureOrder = append(m.textureOrder, path)
	m.textures[path] = texture
}

// addModel copies the model so rename rewrites never touch the source
// package. Layer references in the contributing package follow its
// renamed textures to their new paths.
func (m *merger) addModel(model *pack.Model, renames map[string]string) {
	copied := *model
	if len(model.Layers) > 0 {
		copied.Layers = make([]pack.Layer, len(model.Layers))
		copy(copied.Layers, model.Layers)
		for i, layer := range copied.Layers {
			if fresh, ok := renames[layer.Texture]; ok {
				copied.Layers[i].Texture = fresh
			}
		}
	}

	key := fmt.Sprintf("%s/%d/%s", model.Item, model.Data, model.Name)
	if _, taken := m.models[key]; !taken {
		m.modelOrder = append(m.modelOrder, key)
	}
	m.models[key] = &copied
}

func (m *merger) addLanguage(language *pack.Language) {
	existing, ok := m.languages[language.Code]
	if !ok {
		merged := &pack.Language{
			Code:    language.Code,
			Entries: make(map[string]string, len(language.Entries)),
		}
		for key, value := range language.Entries {
			merged.Entries[key] = value
		}
		m.languageOrder = append(m.languageOrder, language.Code)
		m.languages[language.Code] = merged
		return
	}
	for key, value := range language.Entries {
		existing.Entries[key] = value
	}
}

func (m *merger) add(p *pack.Pack) {
	// Renames are scoped to one contributing package.
	renames := make(map[string]string)
	for _, texture := range p.Textures {
		m.addTexture(p, texture, renames)
	}
	for _, model := range p.Models {
		m.addModel(model, renames)
	}
	for _, font := range p.Fonts {
		if _, taken := m.fonts[font.Name]; !taken {
			m.fontOrder = append(m.fontOrder, font.Name)
		}
		m.fonts[font.Name] = font
	}
	for _, sound := range p.Sounds {
		if _, taken := m.sounds[sound.Name]; !taken {
			m.soundOrder = append(m.soundOrder, sound.Name)
		}
		m.sounds[sound.Name] = sound
	}
	for _, particle := range p.Particles {
		if _, taken := m.particles[particle.Name]; !taken {
			m.particleOrder = append(m.particleOrder, particle.Name)
		}
		m.particles[particle.Name] = particle
	}
	for _, shader := range p.Shaders {
		key := fmt.Sprintf("%s/%s", shader.Kind, shader.Name)
		if _, taken := m.shaders[key]; !taken {
			m.shaderOrder = append(m.shaderOrder, key)
		}
		m.shaders[key] = shader
	}
	for _, language := range p.Languages {
		m.addLanguage(language)
	}
}

// Execute folds the source packages into one, in order, applying the
// chosen conflict resolutions. Later packages win every collision that
// was not resolved otherwise; this also applies to models and the other
// named entities, which collide silently.
func Execute(
	ctx context.Context,
	packs []*pack.Pack,
	conflicts []*pack.MergeConflict,
) (*pack.Pack, error) {
	if len(packs) == 0 {
		return nil, fmt.Errorf("nothing to merge")
	}

	first := packs[0]
	merged := pack.New(first.Name, first.Namespace, first.Format)
	merged.Description = first.Description
	merged.Version = first.Version
	merged.Icon = first.Icon

	m := newMerger(conflicts)
	for _, p := range packs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.add(p)
	}

	for _, path := range m.textureOrder {
		merged.Textures = append(merged.Textures, m.textures[path])
	}
	for _, key := range m.modelOrder {
		merged.Models = append(merged.Models, m.models[key])
	}
	for _, name := range m.fontOrder {
		merged.Fonts = append(merged.Fonts, m.fonts[name])
	}
	for _, name := range m.soundOrder {
		merged.Sounds = append(merged.Sounds, m.sounds[name])
	}
	for _, name := range m.particleOrder {
		merged.Particles = append(merged.Particles, m.particles[name])
	}
	for _, key := range m.shaderOrder {
		merged.Shaders = append(merged.Shaders, m.shaders[key])
	}
	for _, code := range m.languageOrder {
		merged.Languages = append(merged.Languages, m.languages[code])
	}

	log.Info().Msgf(
		"merged %d packs: %d textures, %d models, %d conflicts",
		len(packs),
		len(merged.Textures),
		len(merged.Models),
		len(conflicts),
	)

	return merged, nil
}
