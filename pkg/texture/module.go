package texture

import (
	"strings"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

// The type folders a loose reference may or may not carry.
var TYPE_FOLDERS = []string{
	"item",
	"block",
	"entity",
}

// Clean strips a namespace qualifier and image extension from a
// reference, leaving the bare logical path.
func Clean(ref string) string {
	if colon := strings.Index(ref, ":"); colon != -1 {
		ref = ref[colon+1:]
	}
	ref = strings.TrimPrefix(ref, "textures/")
	ref = strings.TrimSuffix(ref, ".png")
	return ref
}

func stripTypeFolder(path string) string {
	for _, folder := range TYPE_FOLDERS {
		prefix := folder + "/"
		if strings.HasPrefix(path, prefix) {
			return path[len(prefix):]
		}
	}
	return path
}

func lastSegment(path string) string {
	if slash := strings.LastIndex(path, "/"); slash != -1 {
		return path[slash+1:]
	}
	return path
}

// A Strategy is a pure resolver function: reference in, indexed path or
// nothing out. Strategies never have side effects so their order is the
// whole contract.
type Strategy func(ref string, index []string) opt.Option[string]

func exactMatch(ref string, index []string) opt.Option[string] {
	for _, path := range index {
		if Clean(path) == ref {
			return opt.Some(path)
		}
	}
	return opt.None[string]()
}

func typeFolderMatch(ref string, index []string) opt.Option[string] {
	stripped := stripTypeFolder(ref)
	for _, path := range index {
		if stripTypeFolder(Clean(path)) == stripped {
			return opt.Some(path)
		}
	}
	return opt.None[string]()
}

func suffixMatch(ref string, index []string) opt.Option[string] {
	segment := lastSegment(ref)
	for _, path := range index {
		if lastSegment(Clean(path)) == segment {
			return opt.Some(path)
		}
	}
	return opt.None[string]()
}

// First hit wins; order matters.
var STRATEGIES = []Strategy{
	exactMatch,
	typeFolderMatch,
	suffixMatch,
}

// Resolver resolves loose texture references against the known texture
// paths of a pack.
type Resolver struct {
	index []string

	// Unresolved collects the references no strategy could place. They
	// are diagnostics, never fatal.
	Unresolved []string
}

func NewResolver(index []string) *Resolver {
	return &Resolver{
		index:      index,
		Unresolved: make([]string, 0),
	}
}

// Resolve maps a reference to an indexed texture path. A miss still
// yields a usable best-guess cleaned name (never empty) and records the
// reference as unresolved.
func (r *Resolver) Resolve(ref string) (string, bool) {
	cleaned := Clean(ref)

	for _, strategy := range STRATEGIES {
		resolved := strategy(cleaned, r.index)
		if opt.IsSome(resolved) {
			return resolved.Value, true
		}
	}

	log.Warn().Msgf("could not resolve texture reference %s", ref)
	r.Unresolved = append(r.Unresolved, ref)

	if cleaned == "" {
		cleaned = ref
	}
	return cleaned, false
}
