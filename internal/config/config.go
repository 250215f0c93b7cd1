// Package config handles glbtool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/glbforge/pkg/gltf"
	"github.com/Faultbox/glbforge/pkg/texture"
)

// Config holds all glbtool settings.
type Config struct {
	Export  ExportConfig  `yaml:"export" toml:"export"`
	Texture TextureConfig `yaml:"texture" toml:"texture"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ExportConfig holds settings applied to every written container.
type ExportConfig struct {
	Generator string `yaml:"generator" toml:"generator"`
	Copyright string `yaml:"copyright" toml:"copyright"`
	OutputDir string `yaml:"output_dir" toml:"output_dir"`
	IndexType string `yaml:"index_type" toml:"index_type"` // auto, uint16 or uint32
}

// TextureConfig holds settings for generated demo textures.
type TextureConfig struct {
	Size        int    `yaml:"size" toml:"size"`
	CellSize    int    `yaml:"cell_size" toml:"cell_size"`
	Format      string `yaml:"format" toml:"format"` // png or jpeg
	JPEGQuality int    `yaml:"jpeg_quality" toml:"jpeg_quality"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Generator: gltf.DefaultGenerator,
			OutputDir: "out",
			IndexType: "auto",
		},
		Texture: TextureConfig{
			Size:        64,
			CellSize:    8,
			Format:      "png",
			JPEGQuality: texture.DefaultJPEGQuality,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := gltf.ParseIndexType(c.Export.IndexType); err != nil {
		return fmt.Errorf("export.index_type: %w", err)
	}
	if _, err := texture.ParseFormat(c.Texture.Format); err != nil {
		return fmt.Errorf("texture.format: %w", err)
	}
	if c.Texture.Size <= 0 || c.Texture.CellSize <= 0 {
		return fmt.Errorf("texture: size %d and cell_size %d must be positive", c.Texture.Size, c.Texture.CellSize)
	}
	if c.Texture.JPEGQuality < 1 || c.Texture.JPEGQuality > 100 {
		return fmt.Errorf("texture.jpeg_quality: %d not in 1..100", c.Texture.JPEGQuality)
	}
	return nil
}

// IndexType returns the parsed export index type.
func (c *Config) IndexType() gltf.IndexType {
	t, _ := gltf.ParseIndexType(c.Export.IndexType)
	return t
}

// TextureFormat returns the parsed texture format.
func (c *Config) TextureFormat() texture.Format {
	f, _ := texture.ParseFormat(c.Texture.Format)
	return f
}

// DocumentOptions returns the gltf options implied by the export settings.
func (c *Config) DocumentOptions() []gltf.Option {
	return []gltf.Option{
		gltf.WithGenerator(c.Export.Generator),
		gltf.WithCopyright(c.Export.Copyright),
		gltf.WithIndexType(c.IndexType()),
	}
}
