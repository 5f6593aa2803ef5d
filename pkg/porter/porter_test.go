package porter_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/require"

	"github.com/dcrane/packbridge/pkg/assets"
	"github.com/dcrane/packbridge/pkg/bedrock"
	"github.com/dcrane/packbridge/pkg/java"
	"github.com/dcrane/packbridge/pkg/pack"
	"github.com/dcrane/packbridge/pkg/porter"
)

func testPNG(t *testing.T, width int, height int) []byte {
	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)))
	require.NoError(t, err)
	return buf.Bytes()
}

func writePack(
	t *testing.T,
	p *pack.Pack,
	encode func(context.Context, *pack.Pack, *assets.ArchiveWriter) error,
) string {
	path := filepath.Join(t.TempDir(), "pack.zip")

	writer, err := assets.NewArchiveWriter(path, flate.DefaultCompression)
	require.NoError(t, err)
	require.NoError(t, encode(context.Background(), p, writer))
	require.NoError(t, writer.Commit())

	return path
}

func TestDetect(t *testing.T) {
	javaPath := writePack(t, pack.New("test", "gems", 48), java.Export)
	archive, err := assets.OpenArchive(javaPath)
	require.NoError(t, err)
	defer archive.Close()
	require.Equal(t, porter.PLATFORM_JAVA, porter.Detect(archive))

	bedrockPath := writePack(t, pack.New("test", "gems", 48), bedrock.Export)
	archive, err = assets.OpenArchive(bedrockPath)
	require.NoError(t, err)
	defer archive.Close()
	require.Equal(t, porter.PLATFORM_BEDROCK, porter.Detect(archive))
}

func TestJavaRoundTrip(t *testing.T) {
	p := pack.New("test", "gems", java.DISPATCH_FORMAT)
	p.Description = "round trip"
	p.Models = []*pack.Model{
		{Name: "ruby", Item: "paper", Data: 3, Layers: []pack.Layer{
			{Name: "layer0", Texture: "item/ruby"},
		}},
	}
	p.Textures = []*pack.Texture{
		{Name: "ruby", Path: "item/ruby.png", Data: testPNG(t, 16, 16)},
	}
	p.Languages = []*pack.Language{
		{Code: "en_us", Entries: map[string]string{"item.ruby": "Ruby"}},
	}

	path := writePack(t, p, java.Export)

	imported, report, err := porter.Import(context.Background(), path, nil)
	require.NoError(t, err)
	require.Equal(t, porter.PLATFORM_JAVA, report.Platform)
	require.Empty(t, report.Skipped)
	require.Empty(t, report.Unresolved)

	require.Equal(t, java.DISPATCH_FORMAT, imported.Format)
	require.Equal(t, "round trip", imported.Description)
	require.Equal(t, "gems", imported.Namespace)

	require.Len(t, imported.Models, 1)
	model := imported.Models[0]
	require.Equal(t, "ruby", model.Name)
	require.Equal(t, "paper", model.Item)
	require.Equal(t, 3, model.Data)
	require.Equal(t, "item/ruby.png", model.Layers[0].Texture)

	require.Len(t, imported.Textures, 1)
	require.Equal(t, "item/ruby.png", imported.Textures[0].Path)
	require.Equal(t, 16, imported.Textures[0].Width)

	require.Len(t, imported.Languages, 1)
	require.Equal(t, "en_us", imported.Languages[0].Code)
	require.Equal(t, "Ruby", imported.Languages[0].Entries["item.ruby"])
}

func TestJavaLegacyRoundTrip(t *testing.T) {
	p := pack.New("test", "gems", 34)
	p.Models = []*pack.Model{
		{Name: "ruby", Item: "paper", Data: 3},
		{
			Name: "amber",
			Item: "paper",
			Data: 9,
			Extended: &pack.ExtendedData{
				Floats:  []float64{1.5},
				Strings: []string{"amber"},
			},
		},
	}

	path := writePack(t, p, java.Export)

	imported, _, err := porter.Import(context.Background(), path, nil)
	require.NoError(t, err)
	require.Equal(t, 34, imported.Format)
	require.Len(t, imported.Models, 2)

	byName := make(map[string]*pack.Model)
	for _, model := range imported.Models {
		byName[model.Name] = model
	}

	// A plain integer identifier survives exactly.
	require.Equal(t, 3, byName["ruby"].Data)
	require.Nil(t, byName["ruby"].Extended)

	// Extended arrays survive verbatim; the recovered identifier is the
	// synthetic hash, not the original.
	amber := byName["amber"]
	require.NotNil(t, amber.Extended)
	require.Equal(t, []float64{1.5}, amber.Extended.Floats)
	require.Equal(t, []string{"amber"}, amber.Extended.Strings)
	require.GreaterOrEqual(t, amber.Data, 1)
	require.LessOrEqual(t, amber.Data, 10000)
}

func TestBedrockRoundTrip(t *testing.T) {
	cached := []byte(`{"format_version":"1.12.0","minecraft:geometry":[]}`)

	p := pack.New("test", "gems", 48)
	p.Version = "2.1.0"
	p.Models = []*pack.Model{
		{
			Name:        "ruby",
			Item:        "paper",
			Data:        1,
			GeometryDoc: cached,
			Layers:      []pack.Layer{{Name: "layer0", Texture: "item/ruby"}},
		},
	}
	p.Textures = []*pack.Texture{
		{Name: "ruby", Path: "item/ruby.png", Data: testPNG(t, 16, 16)},
	}
	p.Languages = []*pack.Language{
		{Code: "en_us", Entries: map[string]string{"item.ruby": "Ruby"}},
	}
	p.Sounds = []*pack.Sound{
		{Name: "zing", Path: "custom/zing.ogg", Data: []byte{2}},
		{Name: "chime", Path: "custom/chime.ogg", Data: []byte{1}},
	}

	path := writePack(t, p, bedrock.Export)

	imported, report, err := porter.Import(context.Background(), path, nil)
	require.NoError(t, err)
	require.Equal(t, porter.PLATFORM_BEDROCK, report.Platform)

	require.Equal(t, "test", imported.Name)
	require.Equal(t, "2.1.0", imported.Version)

	require.Len(t, imported.Models, 1)
	require.Equal(t, cached, []byte(imported.Models[0].GeometryDoc))
	require.NotEmpty(t, imported.Models[0].Layers)

	require.Len(t, imported.Languages, 1)
	require.Equal(t, "en_us", imported.Languages[0].Code)
	require.Equal(t, "Ruby", imported.Languages[0].Entries["item.ruby"])

	// Sound definitions arrive as a map; imports order them by name so
	// re-exports stay stable.
	require.Len(t, imported.Sounds, 2)
	require.Equal(t, "chime", imported.Sounds[0].Name)
	require.Equal(t, "zing", imported.Sounds[1].Name)
	require.Equal(t, []byte{1}, imported.Sounds[0].Data)
}

func TestImportMissingArchive(t *testing.T) {
	_, _, err := porter.Import(
		context.Background(),
		filepath.Join(t.TempDir(), "nope.zip"),
		nil,
	)
	require.Error(t, err)
}
