package bedrock

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/require"

	"github.com/dcrane/packbridge/pkg/assets"
	"github.com/dcrane/packbridge/pkg/geometry"
	"github.com/dcrane/packbridge/pkg/pack"
)

func TestRegionCode(t *testing.T) {
	require.Equal(t, "en_US", RegionCode("en_us"))
	require.Equal(t, "en_US", RegionCode("EN-US"))
	require.Equal(t, "fr", RegionCode("FR"))
}

func TestDecodeLang(t *testing.T) {
	entries := DecodeLang([]byte(
		"# a comment\r\n" +
			"// another comment\n" +
			"\n" +
			"item.gems:ruby.name=Ruby\n" +
			"broken line without separator\n" +
			"key.with=equals=signs\n",
	))

	require.Len(t, entries, 2)
	require.Equal(t, "Ruby", entries["item.gems:ruby.name"])
	// Only the first separator splits.
	require.Equal(t, "equals=signs", entries["key.with"])
}

func TestEncodeLang(t *testing.T) {
	encoded := EncodeLang(map[string]string{
		"b": "2",
		"a": "1",
	})

	// Sorted output keeps repeated exports identical.
	require.Equal(t, "a=1\nb=2\n", string(encoded))

	decoded := DecodeLang(encoded)
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, decoded)
}

func TestPackVersion(t *testing.T) {
	require.Equal(t, [3]int{1, 2, 3}, packVersion("1.2.3"))
	require.Equal(t, [3]int{2, 0, 0}, packVersion("2"))
	require.Equal(t, [3]int{1, 0, 0}, packVersion(""))
	require.Equal(t, [3]int{1, 0, 0}, packVersion("bogus"))
}

func exportPack(t *testing.T, p *pack.Pack) *assets.Archive {
	path := filepath.Join(t.TempDir(), "pack.mcpack")

	writer, err := assets.NewArchiveWriter(path, flate.DefaultCompression)
	require.NoError(t, err)

	require.NoError(t, Export(context.Background(), p, writer))
	require.NoError(t, writer.Commit())

	archive, err := assets.OpenArchive(path)
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

func TestExportManifest(t *testing.T) {
	p := pack.New("test", "gems", 48)
	p.Version = "1.2.3"

	archive := exportPack(t, p)

	data, err := archive.ReadFile(context.Background(), PATH_MANIFEST)
	require.NoError(t, err)

	manifest, err := DecodeManifest(data)
	require.NoError(t, err)
	require.Equal(t, "test", manifest.Header.Name)
	require.Equal(t, [3]int{1, 2, 3}, manifest.Header.Version)
	require.Len(t, manifest.Modules, 1)
	require.Equal(t, "resources", manifest.Modules[0].Type)
	require.NotEqual(t, manifest.Header.UUID, manifest.Modules[0].UUID)

	// Identifiers are name-derived, so a second export is identical.
	second, err := archive.ReadFile(context.Background(), PATH_MANIFEST)
	require.NoError(t, err)
	require.Equal(t, data, second)
}

func TestExportModels(t *testing.T) {
	p := pack.New("test", "gems", 48)
	p.Models = []*pack.Model{
		{
			Name: "ruby",
			Item: "paper",
			Data: 1,
			Mesh: &geometry.Mesh{
				Elements: []geometry.Element{
					{From: []float64{0, 0, 0}, To: []float64{16, 16, 16}},
				},
			},
			Layers: []pack.Layer{{Name: "layer0", Texture: "item/ruby"}},
		},
		{
			// No mesh and no cached document: skipped, not fatal.
			Name: "flat",
			Item: "paper",
			Data: 2,
		},
	}
	p.Textures = []*pack.Texture{
		{Name: "ruby", Path: "item/ruby.png", Data: []byte{1}, Width: 16, Height: 16},
	}

	archive := exportPack(t, p)
	ctx := context.Background()

	require.False(t, archive.Exists("models/entity/flat.geo.json"))

	data, err := archive.ReadFile(ctx, "models/entity/ruby.geo.json")
	require.NoError(t, err)

	var doc geometry.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Geometries, 1)
	require.Equal(t, "geometry.ruby", doc.Geometries[0].Description.Identifier)
	require.Equal(t, 16, doc.Geometries[0].Description.TextureWidth)

	raw, err := archive.ReadFile(ctx, "attachables/ruby.json")
	require.NoError(t, err)

	attachable, err := DecodeAttachable(raw)
	require.NoError(t, err)
	require.Equal(t, "gems:ruby", attachable.Attachable.Description.Identifier)
	require.Equal(
		t,
		"geometry.ruby",
		attachable.Attachable.Description.Geometry["default"],
	)
	require.Equal(
		t,
		"textures/entity/ruby",
		attachable.Attachable.Description.Textures["default"],
	)
}

func TestExportCachedGeometry(t *testing.T) {
	cached := json.RawMessage(`{"format_version":"1.12.0","minecraft:geometry":[]}`)

	p := pack.New("test", "gems", 48)
	p.Models = []*pack.Model{
		{Name: "ruby", Item: "paper", Data: 1, GeometryDoc: cached},
	}

	archive := exportPack(t, p)

	data, err := archive.ReadFile(context.Background(), "models/entity/ruby.geo.json")
	require.NoError(t, err)
	// Cached documents go out byte for byte.
	require.Equal(t, []byte(cached), data)
}

func TestExportSounds(t *testing.T) {
	p := pack.New("test", "gems", 48)
	p.Sounds = []*pack.Sound{
		{Name: "chime", Path: "custom/chime.ogg", Data: []byte{5}, Category: "player"},
	}

	archive := exportPack(t, p)
	ctx := context.Background()

	data, err := archive.ReadFile(ctx, PATH_SOUNDS)
	require.NoError(t, err)

	definitions, err := DecodeSoundDefinitions(data)
	require.NoError(t, err)
	require.Equal(
		t,
		[]string{"sounds/custom/chime"},
		definitions.Definitions["chime"].Sounds,
	)

	audio, err := archive.ReadFile(ctx, "sounds/custom/chime.ogg")
	require.NoError(t, err)
	require.Equal(t, []byte{5}, audio)
}

func TestExportLanguages(t *testing.T) {
	p := pack.New("test", "gems", 48)
	p.Languages = []*pack.Language{
		{Code: "en_us", Entries: map[string]string{"item.ruby": "Ruby"}},
	}

	archive := exportPack(t, p)

	data, err := archive.ReadFile(context.Background(), "texts/en_US.lang")
	require.NoError(t, err)
	require.Equal(t, "item.ruby=Ruby\n", string(data))
}
