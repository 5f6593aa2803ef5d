package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dcrane/packbridge/pkg/pack"
)

func twoPacks() []*pack.Pack {
	a := pack.New("alpha", "gems", 48)
	a.Textures = []*pack.Texture{
		{Name: "ruby", Path: "item/ruby.png", Data: []byte("alpha")},
		{Name: "amber", Path: "item/amber.png", Data: []byte("alpha")},
	}
	a.Models = []*pack.Model{
		{Name: "ruby", Item: "paper", Data: 1, Layers: []pack.Layer{
			{Name: "layer0", Texture: "item/ruby.png"},
		}},
	}

	b := pack.New("beta", "gems", 48)
	b.Textures = []*pack.Texture{
		{Name: "ruby", Path: "item/ruby.png", Data: []byte("beta")},
		{Name: "topaz", Path: "item/topaz.png", Data: []byte("beta")},
	}
	b.Models = []*pack.Model{
		{Name: "glow", Item: "paper", Data: 2, Layers: []pack.Layer{
			{Name: "layer0", Texture: "item/ruby.png"},
		}},
	}

	return []*pack.Pack{a, b}
}

func TestAnalyze(t *testing.T) {
	conflicts := Analyze(twoPacks())
	require.Len(t, conflicts, 1)

	conflict := conflicts[0]
	require.Equal(t, "item/ruby.png", conflict.Path)
	require.Len(t, conflict.Entries, 2)
	require.Equal(t, "alpha", conflict.Entries[0].Pack)
	require.Equal(t, pack.RESOLVE_OVERWRITE, conflict.Resolution)
}

func TestExecuteOverwrite(t *testing.T) {
	packs := twoPacks()
	conflicts := Analyze(packs)

	merged, err := Execute(context.Background(), packs, conflicts)
	require.NoError(t, err)

	// The later package wins the collision; non-conflicting textures
	// from both survive.
	require.Len(t, merged.Textures, 3)
	require.Equal(t, []byte("beta"), merged.FindTexture("item/ruby.png").Data)
	require.NotNil(t, merged.FindTexture("item/amber.png"))
	require.NotNil(t, merged.FindTexture("item/topaz.png"))
	require.Len(t, merged.Models, 2)
}

func TestExecuteSkip(t *testing.T) {
	packs := twoPacks()
	conflicts := Analyze(packs)
	for _, conflict := range conflicts {
		conflict.Resolution = pack.RESOLVE_SKIP
	}

	merged, err := Execute(context.Background(), packs, conflicts)
	require.NoError(t, err)
	require.Equal(t, []byte("alpha"), merged.FindTexture("item/ruby.png").Data)

	// Skip is idempotent: folding the result back in with the same
	// sources changes nothing.
	sources := append([]*pack.Pack{merged}, packs...)
	conflicts = Analyze(sources)
	for _, conflict := range conflicts {
		conflict.Resolution = pack.RESOLVE_SKIP
	}

	again, err := Execute(context.Background(), sources, conflicts)
	require.NoError(t, err)
	require.Len(t, again.Textures, len(merged.Textures))
	require.Equal(t, []byte("alpha"), again.FindTexture("item/ruby.png").Data)
}

func TestExecuteRename(t *testing.T) {
	packs := twoPacks()
	conflicts := Analyze(packs)
	for _, conflict := range conflicts {
		conflict.Resolution = pack.RESOLVE_RENAME
	}

	merged, err := Execute(context.Background(), packs, conflicts)
	require.NoError(t, err)

	// Both contributions survive under distinct paths.
	require.Len(t, merged.Textures, 4)
	require.Equal(t, []byte("alpha"), merged.FindTexture("item/ruby.png").Data)
	renamed := merged.FindTexture("item/ruby_beta.png")
	require.NotNil(t, renamed)
	require.Equal(t, []byte("beta"), renamed.Data)

	// The renamed contributor's layer references follow the texture.
	var glow *pack.Model
	for _, model := range merged.Models {
		if model.Name == "glow" {
			glow = model
		}
	}
	require.NotNil(t, glow)
	require.Equal(t, "item/ruby_beta.png", glow.Layers[0].Texture)

	// The source packages come through unchanged: the rewrite lands on
	// the merged copy only.
	require.Equal(t, "item/ruby.png", packs[1].Models[0].Layers[0].Texture)
	require.Equal(t, "item/ruby.png", packs[1].Textures[0].Path)
}

func TestExecuteEmpty(t *testing.T) {
	_, err := Execute(context.Background(), nil, nil)
	require.Error(t, err)
}
