package porter

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dcrane/packbridge/pkg/assets"
	"github.com/dcrane/packbridge/pkg/java"
	"github.com/dcrane/packbridge/pkg/pack"
	"github.com/dcrane/packbridge/pkg/texture"
)

// detectNamespace picks the first namespace under assets/ that is not
// the platform's own.
func detectNamespace(archive *assets.Archive) string {
	for _, name := range archive.List() {
		if !strings.HasPrefix(name, "assets/") {
			continue
		}
		parts := strings.SplitN(name, "/", 3)
		if len(parts) < 3 {
			continue
		}
		if parts[1] == "minecraft" || parts[1] == "realms" {
			continue
		}
		return parts[1]
	}
	return "pack"
}

// textureIndex derives the logical texture paths from the archive
// listing alone, so the resolver is ready before any sub-scan runs.
func textureIndex(archive *assets.Archive) []string {
	index := make([]string, 0)
	for _, name := range archive.List() {
		logical, ok := logicalTexturePath(name)
		if !ok {
			continue
		}
		index = append(index, logical)
	}
	return index
}

func logicalTexturePath(name string) (string, bool) {
	if !strings.HasSuffix(name, ".png") {
		return "", false
	}
	marker := "/textures/"
	at := strings.Index(name, marker)
	if at == -1 {
		return "", false
	}
	logical := name[at+len(marker):]
	if strings.HasPrefix(logical, "font/") {
		return "", false
	}
	return logical, true
}

func importJava(
	ctx context.Context,
	archive *assets.Archive,
	prober *assets.Prober,
	report *Report,
) (*pack.Pack, error) {
	p := pack.New("imported", detectNamespace(archive), java.DISPATCH_FORMAT)

	if data, err := archive.ReadFile(ctx, java.PATH_META); err == nil {
		meta, err := java.DecodeMeta(data)
		if err != nil {
			report.skip(java.PATH_META, err)
		} else {
			p.Format = meta.Pack.Format
			p.Description = meta.Pack.Description
		}
	}

	if icon, err := archive.ReadFile(ctx, java.PATH_ICON); err == nil {
		p.Icon = icon
	}

	resolver := texture.NewResolver(textureIndex(archive))

	var (
		textures  []*pack.Texture
		models    []*pack.Model
		fonts     []*pack.Font
		sounds    []*pack.Sound
		particles []*pack.Particle
		languages []*pack.Language
		shaders   []*pack.Shader
	)

	// Independent sub-scans start together and join before the import
	// completes. Each scan appends in its own enumeration order; that
	// order is whatever the archive index yields.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		textures, err = scanJavaTextures(ctx, archive, prober, report)
		return err
	})
	g.Go(func() (err error) {
		models, err = scanJavaModels(ctx, archive, resolver, report)
		return err
	})
	g.Go(func() (err error) {
		fonts, err = scanJavaFonts(ctx, archive, report)
		return err
	})
	g.Go(func() (err error) {
		sounds, err = scanJavaSounds(ctx, archive, report)
		return err
	})
	g.Go(func() (err error) {
		particles, err = scanJavaParticles(ctx, archive, report)
		return err
	})
	g.Go(func() (err error) {
		languages, err = scanJavaLanguages(ctx, archive, report)
		return err
	})
	g.Go(func() (err error) {
		shaders, err = scanJavaShaders(ctx, archive)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.Textures = textures
	p.Models = models
	p.Fonts = fonts
	p.Sounds = sounds
	p.Particles = particles
	p.Languages = languages
	p.Shaders = shaders
	report.unresolved(resolver.Unresolved)

	return p, nil
}

func scanJavaTextures(
	ctx context.Context,
	archive *assets.Archive,
	prober *assets.Prober,
	report *Report,
) ([]*pack.Texture, error) {
	textures := make([]*pack.Texture, 0)

	for _, name := range archive.List() {
		logical, ok := logicalTexturePath(name)
		if !ok {
			continue
		}

		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		tex := &pack.Texture{
			Id:   uuid.NewString(),
			Name: strings.TrimSuffix(filepath.Base(logical), ".png"),
			Path: logical,
			Data: data,
			Size: int64(len(data)),
		}

		dimensions, err := prober.Probe(ctx, data)
		if err != nil {
			log.Debug().Err(err).Msgf("could not probe %s", name)
		} else {
			tex.Width = dimensions.Width
			tex.Height = dimensions.Height
		}

		if archive.Exists(name + ".mcmeta") {
			sidecar, err := archive.ReadFile(ctx, name+".mcmeta")
			if err != nil {
				return nil, err
			}
			animation, err := java.DecodeAnimation(sidecar)
			if err != nil {
				report.skip(name+".mcmeta", err)
			} else {
				tex.Animation = animation
			}
		}

		textures = append(textures, tex)
	}

	return textures, nil
}

func scanJavaModels(
	ctx context.Context,
	archive *assets.Archive,
	resolver *texture.Resolver,
	report *Report,
) ([]*pack.Model, error) {
	entries := make([]java.ItemEntry, 0)

	// Dispatch documents live under their own directory.
	for _, name := range archive.Glob("assets/minecraft/items/", ".json") {
		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		item := strings.TrimSuffix(filepath.Base(name), ".json")
		decoded, err := java.DecodeItemDefinition(item, data)
		if err != nil {
			report.skip(name, err)
			continue
		}
		entries = append(entries, decoded...)
	}

	// Legacy override lists are only searched against the fixed catalog
	// of known base items.
	for _, item := range java.KNOWN_ITEMS {
		name := java.OverridePath(item)
		if !archive.Exists(name) {
			continue
		}

		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		decoded, err := java.DecodeOverrides(item, data)
		if err != nil {
			report.skip(name, err)
			continue
		}
		entries = append(entries, decoded...)
	}

	models := make([]*pack.Model, 0, len(entries))
	for _, entry := range entries {
		model := &pack.Model{
			Id:       uuid.NewString(),
			Name:     java.ModelName(entry.Model),
			Item:     entry.Item,
			Data:     entry.Data,
			Extended: entry.Extended,
		}

		docPath := java.ModelDocPath(entry.Model)
		data, err := archive.ReadFile(ctx, docPath)
		if err == assets.Missing {
			report.skip(docPath, err)
			models = append(models, model)
			continue
		}
		if err != nil {
			return nil, err
		}

		doc, err := java.DecodeModelDoc(data)
		if err != nil {
			report.skip(docPath, err)
			continue
		}

		model.Parent = doc.Parent
		model.Mesh = doc.Mesh()

		layerNames := make([]string, 0, len(doc.Textures))
		for layer := range doc.Textures {
			layerNames = append(layerNames, layer)
		}
		sort.Strings(layerNames)

		for _, layer := range layerNames {
			resolved, _ := resolver.Resolve(doc.Textures[layer])
			model.Layers = append(model.Layers, pack.Layer{
				Name:    layer,
				Texture: resolved,
			})
		}

		models = append(models, model)
	}

	return models, nil
}

func scanJavaFonts(
	ctx context.Context,
	archive *assets.Archive,
	report *Report,
) ([]*pack.Font, error) {
	fonts := make([]*pack.Font, 0)

	for _, name := range archive.Glob("assets/", ".json") {
		if !strings.Contains(name, "/font/") {
			continue
		}

		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		providers, err := java.DecodeFontDoc(data)
		if err != nil {
			report.skip(name, err)
			continue
		}

		font := &pack.Font{
			Id:        uuid.NewString(),
			Name:      strings.TrimSuffix(filepath.Base(name), ".json"),
			Providers: providers,
		}

		for i, provider := range font.Providers {
			switch p := provider.(type) {
			case pack.BitmapProvider:
				source, err := readFontSource(ctx, archive, p.File, true)
				if err != nil {
					return nil, err
				}
				p.Data = source
				font.Providers[i] = p
			case pack.TTFProvider:
				source, err := readFontSource(ctx, archive, p.File, false)
				if err != nil {
					return nil, err
				}
				p.Data = source
				font.Providers[i] = p
			}
		}

		fonts = append(fonts, font)
	}

	return fonts, nil
}

// readFontSource loads the file a provider references. Bitmap sources
// live under the texture tree, others under the font tree.
func readFontSource(
	ctx context.Context,
	archive *assets.Archive,
	ref string,
	bitmap bool,
) ([]byte, error) {
	if ref == "" {
		return nil, nil
	}

	namespace := "minecraft"
	path := ref
	if colon := strings.Index(ref, ":"); colon != -1 {
		namespace = ref[:colon]
		path = ref[colon+1:]
	}

	target := "assets/" + namespace + "/font/" + path
	if bitmap {
		target = "assets/" + namespace + "/textures/" + path
	}

	data, err := archive.ReadFile(ctx, target)
	if err == assets.Missing {
		return nil, nil
	}
	return data, err
}

func scanJavaSounds(
	ctx context.Context,
	archive *assets.Archive,
	report *Report,
) ([]*pack.Sound, error) {
	sounds := make([]*pack.Sound, 0)

	for _, name := range archive.Glob("assets/", "sounds.json") {
		if filepath.Base(name) != "sounds.json" {
			continue
		}

		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		events, err := java.DecodeSounds(data)
		if err != nil {
			report.skip(name, err)
			continue
		}

		namespace := strings.SplitN(name, "/", 3)[1]

		names := make([]string, 0, len(events))
		for event := range events {
			names = append(names, event)
		}
		sort.Strings(names)

		for _, event := range names {
			definition := events[event]
			sound := &pack.Sound{
				Id:       uuid.NewString(),
				Name:     event,
				Category: definition.Category,
				Subtitle: definition.Subtitle,
			}

			if len(definition.Sounds) > 0 {
				logical := definition.Sounds[0]
				if colon := strings.Index(logical, ":"); colon != -1 {
					logical = logical[colon+1:]
				}
				sound.Path = logical + ".ogg"

				audio, err := archive.ReadFile(
					ctx,
					"assets/"+namespace+"/sounds/"+sound.Path,
				)
				if err != nil && err != assets.Missing {
					return nil, err
				}
				sound.Data = audio
			}

			sounds = append(sounds, sound)
		}
	}

	return sounds, nil
}

func scanJavaParticles(
	ctx context.Context,
	archive *assets.Archive,
	report *Report,
) ([]*pack.Particle, error) {
	particles := make([]*pack.Particle, 0)

	for _, name := range archive.Glob("assets/", ".json") {
		if !strings.Contains(name, "/particles/") {
			continue
		}

		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		particle := &pack.Particle{
			Id:   uuid.NewString(),
			Name: strings.TrimSuffix(filepath.Base(name), ".json"),
			Doc:  data,
		}

		var doc java.ParticleDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			report.skip(name, err)
			continue
		}
		if len(doc.Textures) > 0 {
			particle.TexturePath = texture.Clean(doc.Textures[0]) + ".png"
		}

		particles = append(particles, particle)
	}

	return particles, nil
}

func scanJavaLanguages(
	ctx context.Context,
	archive *assets.Archive,
	report *Report,
) ([]*pack.Language, error) {
	languages := make([]*pack.Language, 0)

	for _, name := range archive.Glob("assets/", ".json") {
		if !strings.Contains(name, "/lang/") {
			continue
		}

		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		entries, err := java.DecodeLanguage(data)
		if err != nil {
			report.skip(name, err)
			continue
		}

		languages = append(languages, &pack.Language{
			Code:    strings.TrimSuffix(filepath.Base(name), ".json"),
			Entries: entries,
		})
	}

	return languages, nil
}

func scanJavaShaders(
	ctx context.Context,
	archive *assets.Archive,
) ([]*pack.Shader, error) {
	grouped := make(map[string]*pack.Shader)
	order := make([]string, 0)

	for _, name := range archive.List() {
		marker := "/shaders/"
		at := strings.Index(name, marker)
		if at == -1 {
			continue
		}

		rest := strings.SplitN(name[at+len(marker):], "/", 2)
		if len(rest) != 2 {
			continue
		}
		kind, file := rest[0], rest[1]

		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		base := strings.TrimSuffix(file, filepath.Ext(file))
		key := kind + "/" + base
		shader, ok := grouped[key]
		if !ok {
			shader = &pack.Shader{
				Id:    uuid.NewString(),
				Name:  base,
				Kind:  kind,
				Files: make(map[string][]byte),
			}
			grouped[key] = shader
			order = append(order, key)
		}
		shader.Files[file] = data
	}

	shaders := make([]*pack.Shader, 0, len(order))
	for _, key := range order {
		shaders = append(shaders, grouped[key])
	}
	return shaders, nil
}
