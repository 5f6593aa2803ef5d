package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dcrane/packbridge/pkg/assets"
	"github.com/dcrane/packbridge/pkg/pack"
	"github.com/dcrane/packbridge/pkg/porter"
)

func testPack() *pack.Pack {
	p := pack.New("test", "gems", 48)
	p.Models = []*pack.Model{
		{Name: "ruby", Item: "paper", Data: 1},
	}
	return p
}

func TestOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.zip")

	err := One(
		context.Background(),
		testPack(),
		DefaultOptions(porter.PLATFORM_JAVA, path),
	)
	require.NoError(t, err)

	require.True(t, assets.FileExists(path))
	require.False(t, assets.FileExists(path+".partial"))
	require.True(t, assets.FileExists(sidecarPath(path, "mappings")))
	require.True(t, assets.FileExists(sidecarPath(path, "snapshot")))

	archive, err := assets.OpenArchive(path)
	require.NoError(t, err)
	defer archive.Close()
	require.True(t, archive.Exists("pack.mcmeta"))
}

func TestOneNoSidecars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.zip")

	options := DefaultOptions(porter.PLATFORM_BEDROCK, path)
	options.Mappings = false
	options.Snapshot = false

	require.NoError(t, One(context.Background(), testPack(), options))
	require.True(t, assets.FileExists(path))
	require.False(t, assets.FileExists(sidecarPath(path, "mappings")))
	require.False(t, assets.FileExists(sidecarPath(path, "snapshot")))
}

func TestOneUnknownPlatform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.zip")

	err := One(
		context.Background(),
		testPack(),
		DefaultOptions("pocket", path),
	)
	require.Error(t, err)
	// A failed export leaves nothing behind.
	require.False(t, assets.FileExists(path))
	require.False(t, assets.FileExists(path+".partial"))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.zip")

	p := testPack()
	versions := []pack.VersionConfig{
		{Label: "modern", Format: 48, Enabled: true},
		{Label: "legacy", Format: 34, Enabled: true},
		{Label: "ancient", Format: 6, Enabled: false},
	}

	err := Run(
		context.Background(),
		p,
		versions,
		DefaultOptions(porter.PLATFORM_JAVA, path),
	)
	require.NoError(t, err)

	require.True(t, assets.FileExists(filepath.Join(dir, "pack_modern.zip")))
	require.True(t, assets.FileExists(filepath.Join(dir, "pack_legacy.zip")))
	require.False(t, assets.FileExists(filepath.Join(dir, "pack_ancient.zip")))
	require.False(t, assets.FileExists(path))

	// The aggregate comes back unchanged.
	require.Equal(t, 48, p.Format)
}

func TestRunNoneEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.zip")

	err := Run(
		context.Background(),
		testPack(),
		[]pack.VersionConfig{{Label: "off", Format: 48}},
		DefaultOptions(porter.PLATFORM_JAVA, path),
	)
	require.Error(t, err)
}
