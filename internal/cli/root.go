package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/jsonx/internal/registry"
	"github.com/roach88/jsonx/internal/seria"
	"github.com/roach88/jsonx/internal/typify"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	config *Config
	reg    *registry.Registries
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the jsonx CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "jsonx",
		Short: "jsonx - lossless value serialization",
		Long: `Convert values between the tagged tree form and the readable text grammar.

Shared and cyclic references, symbols, dates, regular expressions, URLs,
errors, sets, maps, binary buffers and registered classes survive both
forms. Trees may be framed as JSON, YAML or CBOR.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			_, err := opts.Config()
			return err
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a jsonx.toml config file")

	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewStoreCommand(opts))

	return cmd
}

// Config loads the config file named by --config once, or returns the
// defaults when there is none.
func (o *RootOptions) Config() (*Config, error) {
	if o.config != nil {
		return o.config, nil
	}
	if o.ConfigPath == "" {
		o.config = DefaultConfig()
		return o.config, nil
	}
	cfg, err := LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}
	o.config = cfg
	return cfg, nil
}

// Registries returns the registries shared by every codec of one run.
func (o *RootOptions) Registries() (*registry.Registries, error) {
	if o.reg != nil {
		return o.reg, nil
	}
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	o.reg = cfg.Registries()
	return o.reg, nil
}

// Logger returns a text logger on w: Warn and above, Debug when verbose.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// codecs builds the text and tree codecs for a command.
func (o *RootOptions) codecs(cmd *cobra.Command) (*typify.Codec, *seria.Codec, error) {
	reg, err := o.Registries()
	if err != nil {
		return nil, nil, err
	}
	logger := o.Logger(cmd.ErrOrStderr())
	return typify.New(reg, typify.WithLogger(logger)), seria.New(reg, seria.WithLogger(logger)), nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
