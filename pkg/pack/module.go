package pack

import (
	"sort"
)

func New(name string, namespace string, format int) *Pack {
	return &Pack{
		Name:      name,
		Namespace: namespace,
		Format:    format,
		Models:    make([]*Model, 0),
		Textures:  make([]*Texture, 0),
		Fonts:     make([]*Font, 0),
		Sounds:    make([]*Sound, 0),
		Particles: make([]*Particle, 0),
		Shaders:   make([]*Shader, 0),
		Languages: make([]*Language, 0),
	}
}

// TextureIndex returns the logical paths of every texture, in pack
// order. This is the search space for reference resolution.
func (p *Pack) TextureIndex() []string {
	paths := make([]string, 0, len(p.Textures))
	for _, texture := range p.Textures {
		paths = append(paths, texture.Path)
	}
	return paths
}

func (p *Pack) FindTexture(path string) *Texture {
	for _, texture := range p.Textures {
		if texture.Path == path {
			return texture
		}
	}
	return nil
}

func (p *Pack) FindModel(name string) *Model {
	for _, model := range p.Models {
		if model.Name == name {
			return model
		}
	}
	return nil
}

// ModelsByItem groups models by their target base item, each group
// sorted ascending by primary identifier. Both platform exporters rely
// on this ordering.
func (p *Pack) ModelsByItem() map[string][]*Model {
	groups := make(map[string][]*Model)
	for _, model := range p.Models {
		groups[model.Item] = append(groups[model.Item], model)
	}

	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Data < group[j].Data
		})
	}

	return groups
}

// Items returns the grouped item names sorted, so document emission
// order is deterministic even though map iteration is not.
func (p *Pack) Items() []string {
	groups := p.ModelsByItem()
	items := make([]string, 0, len(groups))
	for item := range groups {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}
