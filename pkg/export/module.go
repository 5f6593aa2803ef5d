package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/rs/zerolog/log"

	"github.com/dcrane/packbridge/pkg/assets"
	"github.com/dcrane/packbridge/pkg/bedrock"
	"github.com/dcrane/packbridge/pkg/java"
	"github.com/dcrane/packbridge/pkg/pack"
	"github.com/dcrane/packbridge/pkg/porter"
)

// VERSION_DELAY spaces out successive exports of a multi-version run so
// progress output stays readable.
const VERSION_DELAY = 200 * time.Millisecond

type Options struct {
	Platform string
	Path     string
	Level    int

	// Mappings and Snapshot control the sidecar documents written next
	// to the package on success.
	Mappings bool
	Snapshot bool
}

func DefaultOptions(platform string, path string) Options {
	return Options{
		Platform: platform,
		Path:     path,
		Level:    flate.DefaultCompression,
		Mappings: true,
		Snapshot: true,
	}
}

func sidecarPath(archive string, kind string) string {
	ext := filepath.Ext(archive)
	return fmt.Sprintf("%s.%s.json", strings.TrimSuffix(archive, ext), kind)
}

// One runs a single export: encode the aggregate for the chosen
// platform, then the sidecars. The archive only appears at its final
// path when every entry was written.
func One(ctx context.Context, p *pack.Pack, options Options) error {
	writer, err := assets.NewArchiveWriter(options.Path, options.Level)
	if err != nil {
		return err
	}

	switch options.Platform {
	case porter.PLATFORM_BEDROCK:
		err = bedrock.Export(ctx, p, writer)
	case porter.PLATFORM_JAVA:
		err = java.Export(ctx, p, writer)
	default:
		err = fmt.Errorf("unknown platform %s", options.Platform)
	}
	if err != nil {
		writer.Abort()
		return err
	}

	if err := writer.Commit(); err != nil {
		return err
	}

	if options.Mappings {
		mappings, err := java.Mappings(p)
		if err != nil {
			return err
		}
		err = assets.WriteBytes(mappings, sidecarPath(options.Path, "mappings"))
		if err != nil {
			return err
		}
	}

	if options.Snapshot {
		snapshot, err := pack.Snapshot(p)
		if err != nil {
			return err
		}
		err = assets.WriteBytes(snapshot, sidecarPath(options.Path, "snapshot"))
		if err != nil {
			return err
		}
	}

	log.Info().Msgf("exported %s package to %s", options.Platform, options.Path)
	return nil
}

func versionPath(path string, label string) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%s%s", strings.TrimSuffix(path, ext), label, ext)
}

// Run exports the aggregate once per enabled version. Each pass adjusts
// only the declared format, exports, and puts the aggregate back the
// way it was, so one version's output never leaks into the next.
func Run(
	ctx context.Context,
	p *pack.Pack,
	versions []pack.VersionConfig,
	options Options,
) error {
	if len(versions) == 0 {
		return One(ctx, p, options)
	}

	saved := p.Format
	defer func() {
		p.Format = saved
	}()

	exported := 0
	for _, version := range versions {
		if !version.Enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if exported > 0 {
			time.Sleep(VERSION_DELAY)
		}

		p.Format = version.Format

		passOptions := options
		passOptions.Path = versionPath(options.Path, version.Label)
		if err := One(ctx, p, passOptions); err != nil {
			return fmt.Errorf("version %s: %w", version.Label, err)
		}

		exported++
	}

	if exported == 0 {
		return fmt.Errorf("no versions enabled")
	}

	return nil
}
