package config

import "flag"

// Flags holds command-line overrides. Zero values leave the loaded
// configuration untouched.
type Flags struct {
	Config    string
	Debug     bool
	LogFile   string
	OutputDir string
	IndexType string
	Format    string
	Size      int
}

// RegisterFlags defines the shared override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log", "", "Write logs to this file")
	fs.StringVar(&f.OutputDir, "out", "", "Output directory")
	fs.StringVar(&f.IndexType, "index-type", "", "Index component type: auto, uint16 or uint32")
	fs.StringVar(&f.Format, "texture-format", "", "Texture format: png or jpeg")
	fs.IntVar(&f.Size, "texture-size", 0, "Texture width and height in pixels")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.OutputDir != "" {
		cfg.Export.OutputDir = f.OutputDir
	}
	if f.IndexType != "" {
		cfg.Export.IndexType = f.IndexType
	}
	if f.Format != "" {
		cfg.Texture.Format = f.Format
	}
	if f.Size > 0 {
		cfg.Texture.Size = f.Size
	}
}
