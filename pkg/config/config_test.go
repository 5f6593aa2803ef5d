package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcess(t *testing.T) {
	// Default config
	defaults, err := Process([]string{})
	require.NoError(t, err)
	require.Equal(t, "pack", defaults.Namespace)
	require.Equal(t, -1, defaults.Export.Compression)
	require.Len(t, defaults.Versions, 2)

	dir := t.TempDir()

	// yaml config
	{
		yaml := filepath.Join(dir, "config.yaml")
		err = os.WriteFile(yaml, []byte(`
namespace: gems
export:
  compression: 9
`), 0644)
		require.NoError(t, err)
		config, err := Process([]string{yaml})
		require.NoError(t, err)
		require.Equal(t, "gems", config.Namespace)
		require.Equal(t, 9, config.Export.Compression)
	}

	// json config
	{
		json := filepath.Join(dir, "config.json")
		err = os.WriteFile(json, []byte(`{
  "redis": {
    "enabled": true,
    "address": "redis:6379"
  }
}`), 0644)
		require.NoError(t, err)
		config, err := Process([]string{json})
		require.NoError(t, err)
		require.True(t, config.Redis.Enabled)
		require.Equal(t, "redis:6379", config.Redis.Address)
	}

	// multiple yaml
	{
		yaml1 := filepath.Join(dir, "config1.yaml")
		err = os.WriteFile(yaml1, []byte(`
namespace: gems
`), 0644)
		require.NoError(t, err)

		yaml2 := filepath.Join(dir, "config2.yaml")
		err = os.WriteFile(yaml2, []byte(`
versions:
  - label: modern
    format: 48
`), 0644)
		require.NoError(t, err)
		config, err := Process([]string{yaml1, yaml2})
		require.NoError(t, err)
		require.Equal(t, "gems", config.Namespace)
		require.Len(t, config.Versions, 1)
		require.True(t, config.Versions[0].Enabled)
	}

	// invalid namespace casing
	{
		yaml := filepath.Join(dir, "bad.yaml")
		err = os.WriteFile(yaml, []byte(`
namespace: Gems
`), 0644)
		require.NoError(t, err)
		_, err = Process([]string{yaml})
		require.Error(t, err)
	}
}
