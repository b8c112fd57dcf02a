package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/roach88/jsonx/internal/ir"
	"github.com/roach88/jsonx/internal/registry"
	"github.com/roach88/jsonx/internal/seria"
)

// Config represents a jsonx.toml configuration file.
type Config struct {
	Codec CodecConfig `toml:"codec"`
	Store StoreConfig `toml:"store"`

	// Symbols maps registry identifiers to symbol descriptions.
	Symbols map[string]string `toml:"symbols"`
}

// CodecConfig configures tree framing.
type CodecConfig struct {
	Frame string `toml:"frame"`
}

// StoreConfig configures the value store.
type StoreConfig struct {
	Path string `toml:"path"`
}

// Defaults used when the config file leaves a field empty.
const (
	DefaultFrame     = "json"
	DefaultStorePath = "jsonx.db"
)

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Codec: CodecConfig{Frame: DefaultFrame},
		Store: StoreConfig{Path: DefaultStorePath},
	}
}

// LoadConfig parses a TOML config file and fills in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	if cfg.Codec.Frame == "" {
		cfg.Codec.Frame = DefaultFrame
	}
	if _, err := seria.ParseFrame(cfg.Codec.Frame); err != nil {
		return nil, fmt.Errorf("%s: codec.frame: %w", path, err)
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	return cfg, nil
}

// Registries builds registries holding the configured symbols.
func (c *Config) Registries() *registry.Registries {
	reg := registry.New()
	for id, desc := range c.Symbols {
		reg.RegisterSymbol(ir.NewSymbol(desc), id)
	}
	return reg
}

// Frame returns the configured frame.
func (c *Config) Frame() seria.Frame {
	f, err := seria.ParseFrame(c.Codec.Frame)
	if err != nil {
		return seria.FrameJSON
	}
	return f
}
