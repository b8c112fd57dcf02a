package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jsonx/internal/seria"
)

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jsonx.toml", `
[codec]
frame = "cbor"

[store]
path = "values.db"

[symbols]
"app.token" = "token"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, seria.FrameCBOR, cfg.Frame())
	assert.Equal(t, "values.db", cfg.Store.Path)
	assert.Equal(t, map[string]string{"app.token": "token"}, cfg.Symbols)

	reg := cfg.Registries()
	sym, ok := reg.Symbol("app.token")
	require.True(t, ok)
	desc, _ := sym.Description()
	assert.Equal(t, "token", desc)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jsonx.toml", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultFrame, cfg.Codec.Frame)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.Empty(t, cfg.Symbols)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[codec\n", "parse error"},
		{"unknown_key", "[codec]\nframes = \"json\"\n", `unknown key "codec.frames"`},
		{"bad_frame", "[codec]\nframe = \"xml\"\n", "codec.frame"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".toml", tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig("/nonexistent/jsonx.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read")
}
