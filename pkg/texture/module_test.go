package texture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	require.Equal(t, "item/ruby", Clean("gems:item/ruby"))
	require.Equal(t, "item/ruby", Clean("textures/item/ruby.png"))
	require.Equal(t, "item/ruby", Clean("gems:textures/item/ruby.png"))
	require.Equal(t, "ruby", Clean("ruby"))
}

func TestResolveExact(t *testing.T) {
	r := NewResolver([]string{"item/ruby.png", "block/ruby_ore.png"})

	resolved, ok := r.Resolve("gems:item/ruby")
	require.True(t, ok)
	require.Equal(t, "item/ruby.png", resolved)
	require.Empty(t, r.Unresolved)
}

func TestResolvePrecedence(t *testing.T) {
	// An exact hit must win over a looser strategy that would also
	// match.
	r := NewResolver([]string{"item/ruby.png", "block/item/ruby.png"})

	resolved, ok := r.Resolve("item/ruby")
	require.True(t, ok)
	require.Equal(t, "item/ruby.png", resolved)
}

func TestResolveTypeFolder(t *testing.T) {
	r := NewResolver([]string{"block/ruby.png"})

	resolved, ok := r.Resolve("item/ruby")
	require.True(t, ok)
	require.Equal(t, "block/ruby.png", resolved)
}

func TestResolveSuffix(t *testing.T) {
	r := NewResolver([]string{"custom/deep/path/ruby.png"})

	resolved, ok := r.Resolve("item/ruby")
	require.True(t, ok)
	require.Equal(t, "custom/deep/path/ruby.png", resolved)
}

func TestResolveMiss(t *testing.T) {
	r := NewResolver([]string{"item/ruby.png"})

	resolved, ok := r.Resolve("gems:item/sapphire.png")
	require.False(t, ok)
	// A miss still yields a usable cleaned name.
	require.Equal(t, "item/sapphire", resolved)
	require.Equal(t, []string{"gems:item/sapphire.png"}, r.Unresolved)
}
