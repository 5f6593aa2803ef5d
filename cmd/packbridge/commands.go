package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-redis/redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/dcrane/packbridge/pkg/assets"
	"github.com/dcrane/packbridge/pkg/config"
	"github.com/dcrane/packbridge/pkg/export"
	"github.com/dcrane/packbridge/pkg/merge"
	"github.com/dcrane/packbridge/pkg/pack"
	"github.com/dcrane/packbridge/pkg/porter"
)

type runtime struct {
	config *config.Config
	cache  assets.Store
}

func setup() (*runtime, error) {
	cfg, err := config.Process(CLI.Configs)
	if err != nil {
		return nil, err
	}

	var cache assets.Store
	if cfg.Redis.Enabled {
		cache = assets.NewRedisStore(redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Address,
		}))
	} else {
		if err := os.MkdirAll(cfg.CacheDirectory, 0755); err != nil {
			return nil, err
		}
		cache = assets.FSStore(cfg.CacheDirectory)
	}

	return &runtime{
		config: cfg,
		cache:  cache,
	}, nil
}

func (r *runtime) options(platform string, path string) export.Options {
	options := export.DefaultOptions(platform, path)
	options.Level = r.config.Export.Compression
	options.Mappings = r.config.Export.Mappings
	options.Snapshot = r.config.Export.Snapshot
	return options
}

func (r *runtime) importPack(ctx context.Context, path string) (*pack.Pack, error) {
	imported, report, err := porter.Import(ctx, path, r.cache)
	if err != nil {
		return nil, err
	}

	imported.Namespace = r.config.Namespace
	for _, ref := range report.Unresolved {
		log.Warn().Msgf("unresolved texture reference: %s", ref)
	}

	// Validation problems are advisory; the export proceeds regardless.
	for _, problem := range pack.Validate(imported) {
		log.Warn().Msgf("validation: %s", problem)
	}

	return imported, nil
}

func convertCommand() error {
	r, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()

	imported, err := r.importPack(ctx, CLI.Convert.Input)
	if err != nil {
		return err
	}

	options := r.options(CLI.Convert.Platform, CLI.Convert.Output)
	if CLI.Convert.All {
		return export.Run(ctx, imported, r.config.VersionConfigs(), options)
	}
	return export.One(ctx, imported, options)
}

func inspectCommand() error {
	r, err := setup()
	if err != nil {
		return err
	}

	imported, _, err := porter.Import(context.Background(), CLI.Inspect.Input, r.cache)
	if err != nil {
		return err
	}

	snapshot, err := pack.Snapshot(imported)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(snapshot)
	return err
}

func mergeCommand() error {
	r, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()

	packs := make([]*pack.Pack, 0, len(CLI.Merge.Inputs))
	for _, input := range CLI.Merge.Inputs {
		imported, err := r.importPack(ctx, input)
		if err != nil {
			return err
		}
		// Imports default to the archive name so conflict reports and
		// renames stay distinguishable.
		if imported.Name == "" || imported.Name == "imported" {
			base := filepath.Base(input)
			imported.Name = base[:len(base)-len(filepath.Ext(base))]
		}
		packs = append(packs, imported)
	}

	conflicts := merge.Analyze(packs)
	for _, conflict := range conflicts {
		conflict.Resolution = CLI.Merge.Resolution
		log.Info().Msgf(
			"conflict on %s (%d sources): %s",
			conflict.Path,
			len(conflict.Entries),
			conflict.Resolution,
		)
	}

	merged, err := merge.Execute(ctx, packs, conflicts)
	if err != nil {
		return err
	}

	options := r.options(CLI.Merge.Platform, CLI.Merge.Output)
	return export.One(ctx, merged, options)
}
