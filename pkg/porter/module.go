package porter

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dcrane/packbridge/pkg/assets"
	"github.com/dcrane/packbridge/pkg/bedrock"
	"github.com/dcrane/packbridge/pkg/java"
	"github.com/dcrane/packbridge/pkg/pack"
)

const (
	PLATFORM_JAVA    = "java"
	PLATFORM_BEDROCK = "bedrock"
)

// Report collects the non-fatal diagnostics of one import: entries
// skipped over structural errors and texture references no resolver
// strategy could place. An import only fails outright on archive IO.
type Report struct {
	mu sync.Mutex

	Platform   string
	Skipped    []string
	Unresolved []string
}

func (r *Report) skip(name string, err error) {
	log.Warn().Err(err).Msgf("skipping entry %s", name)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = append(r.Skipped, fmt.Sprintf("%s: %v", name, err))
}

func (r *Report) unresolved(refs []string) {
	if len(refs) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Unresolved = append(r.Unresolved, refs...)
}

// Detect decides which platform produced a package: a manifest marks
// Bedrock, pack metadata marks Java, and Java is the default.
func Detect(archive *assets.Archive) string {
	if archive.Exists(bedrock.PATH_MANIFEST) {
		return PLATFORM_BEDROCK
	}
	if archive.Exists(java.PATH_META) {
		return PLATFORM_JAVA
	}
	return PLATFORM_JAVA
}

// Import reconstructs the in-memory aggregate from a package of either
// platform. A failure to open or read the archive aborts the whole
// operation; everything else degrades to Report diagnostics.
func Import(ctx context.Context, path string, cache assets.Store) (*pack.Pack, *Report, error) {
	archive, err := assets.OpenArchive(path)
	if err != nil {
		return nil, nil, err
	}
	defer archive.Close()

	report := &Report{Platform: Detect(archive)}
	prober := assets.NewProber(cache)

	var imported *pack.Pack
	switch report.Platform {
	case PLATFORM_BEDROCK:
		imported, err = importBedrock(ctx, archive, prober, report)
	default:
		imported, err = importJava(ctx, archive, prober, report)
	}
	if err != nil {
		return nil, nil, err
	}

	log.Info().Msgf(
		"imported %s package %s: %d models, %d textures (%d entries skipped)",
		report.Platform,
		path,
		len(imported.Models),
		len(imported.Textures),
		len(report.Skipped),
	)

	return imported, report, nil
}
