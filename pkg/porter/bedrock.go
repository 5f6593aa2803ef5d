package porter

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dcrane/packbridge/pkg/assets"
	"github.com/dcrane/packbridge/pkg/bedrock"
	"github.com/dcrane/packbridge/pkg/java"
	"github.com/dcrane/packbridge/pkg/pack"
)

func importBedrock(
	ctx context.Context,
	archive *assets.Archive,
	prober *assets.Prober,
	report *Report,
) (*pack.Pack, error) {
	p := pack.New("imported", "pack", java.DISPATCH_FORMAT)

	if data, err := archive.ReadFile(ctx, bedrock.PATH_MANIFEST); err == nil {
		manifest, err := bedrock.DecodeManifest(data)
		if err != nil {
			report.skip(bedrock.PATH_MANIFEST, err)
		} else {
			p.Name = manifest.Header.Name
			p.Description = manifest.Header.Description
			version := manifest.Header.Version
			p.Version = fmt.Sprintf("%d.%d.%d", version[0], version[1], version[2])
		}
	}

	if icon, err := archive.ReadFile(ctx, bedrock.PATH_ICON); err == nil {
		p.Icon = icon
	}

	var (
		textures  []*pack.Texture
		models    []*pack.Model
		sounds    []*pack.Sound
		particles []*pack.Particle
		languages []*pack.Language
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		textures, err = scanBedrockTextures(ctx, archive, prober)
		return err
	})
	g.Go(func() (err error) {
		models, err = scanBedrockModels(ctx, archive, report)
		return err
	})
	g.Go(func() (err error) {
		sounds, err = scanBedrockSounds(ctx, archive, report)
		return err
	})
	g.Go(func() (err error) {
		particles, err = scanBedrockParticles(ctx, archive)
		return err
	})
	g.Go(func() (err error) {
		languages, err = scanBedrockLanguages(ctx, archive)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.Textures = textures
	p.Models = models
	p.Sounds = sounds
	p.Particles = particles
	p.Languages = languages

	return p, nil
}

func scanBedrockTextures(
	ctx context.Context,
	archive *assets.Archive,
	prober *assets.Prober,
) ([]*pack.Texture, error) {
	textures := make([]*pack.Texture, 0)

	for _, name := range archive.Glob("textures/", ".png") {
		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		logical := strings.TrimPrefix(name, "textures/")
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

		textures = append(textures, tex)
	}

	return textures, nil
}

// scanBedrockModels rebuilds models from geometry documents, which are
// cached verbatim so a later export round-trips them untouched. The
// matching attachable, when present, contributes the texture binding.
func scanBedrockModels(
	ctx context.Context,
	archive *assets.Archive,
	report *Report,
) ([]*pack.Model, error) {
	models := make([]*pack.Model, 0)

	for _, name := range archive.Glob("models/entity/", ".geo.json") {
		doc, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		modelName := strings.TrimSuffix(filepath.Base(name), ".geo.json")
		model := &pack.Model{
			Id:   uuid.NewString(),
			Name: modelName,
			Item: "paper",
			// Identifiers are not carried by this platform; assign
			// sequentially so re-exports stay selectable.
			Data:        len(models) + 1,
			GeometryDoc: doc,
		}

		attachable := fmt.Sprintf("attachables/%s.json", modelName)
		if archive.Exists(attachable) {
			data, err := archive.ReadFile(ctx, attachable)
			if err != nil {
				return nil, err
			}
			decoded, err := bedrock.DecodeAttachable(data)
			if err != nil {
				report.skip(attachable, err)
			} else if texture, ok := decoded.Attachable.Description.Textures["default"]; ok {
				model.Layers = []pack.Layer{{
					Name:    "layer0",
					Texture: strings.TrimPrefix(texture, "textures/"),
				}}
			}
		}

		models = append(models, model)
	}

	return models, nil
}

func scanBedrockSounds(
	ctx context.Context,
	archive *assets.Archive,
	report *Report,
) ([]*pack.Sound, error) {
	sounds := make([]*pack.Sound, 0)

	data, err := archive.ReadFile(ctx, bedrock.PATH_SOUNDS)
	if err == assets.Missing {
		return sounds, nil
	}
	if err != nil {
		return nil, err
	}

	definitions, err := bedrock.DecodeSoundDefinitions(data)
	if err != nil {
		report.skip(bedrock.PATH_SOUNDS, err)
		return sounds, nil
	}

	// Sorted so re-exports write entries in a stable order.
	names := make([]string, 0, len(definitions.Definitions))
	for name := range definitions.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		definition := definitions.Definitions[name]
		sound := &pack.Sound{
			Id:       uuid.NewString(),
			Name:     name,
			Category: definition.Category,
		}

		if len(definition.Sounds) > 0 {
			logical := strings.TrimPrefix(definition.Sounds[0], "sounds/")
			sound.Path = logical + ".ogg"

			audio, err := archive.ReadFile(ctx, "sounds/"+sound.Path)
			if err != nil && err != assets.Missing {
				return nil, err
			}
			sound.Data = audio
		}

		sounds = append(sounds, sound)
	}

	return sounds, nil
}

func scanBedrockParticles(
	ctx context.Context,
	archive *assets.Archive,
) ([]*pack.Particle, error) {
	particles := make([]*pack.Particle, 0)

	for _, name := range archive.Glob("particles/", ".json") {
		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		particles = append(particles, &pack.Particle{
			Id:   uuid.NewString(),
			Name: strings.TrimSuffix(filepath.Base(name), ".json"),
			Doc:  data,
		})
	}

	return particles, nil
}

func scanBedrockLanguages(
	ctx context.Context,
	archive *assets.Archive,
) ([]*pack.Language, error) {
	languages := make([]*pack.Language, 0)

	for _, name := range archive.Glob("texts/", ".lang") {
		data, err := archive.ReadFile(ctx, name)
		if err != nil {
			return nil, err
		}

		code := strings.TrimSuffix(filepath.Base(name), ".lang")
		languages = append(languages, &pack.Language{
			Code:    strings.ToLower(code),
			Entries: bedrock.DecodeLang(data),
		})
	}

	return languages, nil
}
