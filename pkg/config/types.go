package config

import (
	"github.com/dcrane/packbridge/pkg/pack"
)

type RedisSettings struct {
	Enabled bool
	Address string
}

type ExportSettings struct {
	OutputDirectory string
	// Compression is the deflate level used for package archives, -1
	// for the library default.
	Compression int
	Mappings    bool
	Snapshot    bool
}

type VersionSettings struct {
	Label   string
	Format  int
	Enabled bool
}

type Config struct {
	Namespace      string
	CacheDirectory string
	Redis          RedisSettings
	Export         ExportSettings
	Versions       []VersionSettings
}

func (c *Config) VersionConfigs() []pack.VersionConfig {
	versions := make([]pack.VersionConfig, 0, len(c.Versions))
	for _, version := range c.Versions {
		versions = append(versions, pack.VersionConfig{
			Label:   version.Label,
			Format:  version.Format,
			Enabled: version.Enabled,
		})
	}
	return versions
}
