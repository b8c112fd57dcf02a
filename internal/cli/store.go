package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/jsonx/internal/seria"
	"github.com/roach88/jsonx/internal/store"
	"github.com/roach88/jsonx/internal/typify"
)

// StoreOptions holds flags shared by the store subcommands.
type StoreOptions struct {
	*RootOptions
	DBPath string
	Frame  string
}

// NewStoreCommand creates the store command and its subcommands.
func NewStoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Keep encoded values in a SQLite store",
		Long: `Put, get, list and remove values kept as framed trees in SQLite.

The database defaults to store.path from the config file (jsonx.db).`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Frame, "frame", "", "tree frame for stored values (json|yaml|cbor)")

	cmd.AddCommand(newStorePutCommand(opts))
	cmd.AddCommand(newStoreGetCommand(opts))
	cmd.AddCommand(newStoreListCommand(opts))
	cmd.AddCommand(newStoreRemoveCommand(opts))

	return cmd
}

// open opens the store along with the codecs used by every subcommand.
func (o *StoreOptions) open(cmd *cobra.Command) (*store.Store, *typify.Codec, *seria.Codec, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, nil, nil, err
	}
	frame, err := o.frameFlag(o.Frame)
	if err != nil {
		return nil, nil, nil, err
	}
	text, tree, err := o.codecs(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	path := o.DBPath
	if path == "" {
		path = cfg.Store.Path
	}
	st, err := store.Open(path, tree,
		store.WithFrame(frame),
		store.WithLogger(o.Logger(cmd.ErrOrStderr())),
	)
	if err != nil {
		return nil, nil, nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}
	o.formatter(cmd).VerboseLog("opened store %s (frame %s)", path, frame)
	return st, text, tree, nil
}

func newStorePutCommand(opts *StoreOptions) *cobra.Command {
	var key, from string

	cmd := &cobra.Command{
		Use:   "put [file]",
		Short: "Decode a value and store it",
		Long: `Decode a value and store it under a key.

Without --key a UUID is generated. Input is read from the file, or stdin
when the file is "-" or omitted. Tree input uses the --frame framing.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validForm("from", from); err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			st, text, tree, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			f := opts.formatter(cmd)
			frame, _ := opts.frameFlag(opts.Frame)
			v, err := decodeValue(text, tree, from, frame, data)
			if err != nil {
				return reportError(f, err)
			}

			stored, err := st.Put(context.Background(), key, v)
			if err != nil {
				return reportError(f, err)
			}
			if f.Format == "json" {
				return f.Success(map[string]string{"key": stored})
			}
			return f.Success(stored)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "key to store under (default: generated UUID)")
	cmd.Flags().StringVar(&from, "from", FormText, "input form (text|tree)")

	return cmd
}

func newStoreGetCommand(opts *StoreOptions) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:           "get <key>",
		Short:         "Print a stored value",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validForm("to", to); err != nil {
				return err
			}
			st, text, tree, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			f := opts.formatter(cmd)
			v, err := st.Get(context.Background(), args[0])
			if err != nil {
				return storeError(f, err)
			}
			frame, _ := opts.frameFlag(opts.Frame)
			return emitValue(f, text, tree, args[0], to, frame, v)
		},
	}

	cmd.Flags().StringVar(&to, "to", FormText, "output form (text|tree)")

	return cmd
}

func newStoreListCommand(opts *StoreOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ls",
		Short:         "List stored keys in insertion order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, _, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			f := opts.formatter(cmd)
			entries, err := st.List(context.Background())
			if err != nil {
				return storeError(f, err)
			}
			if f.Format == "json" {
				return f.Success(entries)
			}

			tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SEQ\tKEY\tFRAME\tSIZE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", e.Seq, e.Key, e.Frame, e.Size)
			}
			return tw.Flush()
		},
	}
}

func newStoreRemoveCommand(opts *StoreOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <key>",
		Short:         "Remove a stored value",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, _, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			f := opts.formatter(cmd)
			if err := st.Delete(context.Background(), args[0]); err != nil {
				return storeError(f, err)
			}
			if f.Format == "json" {
				return f.Success(map[string]string{"removed": args[0]})
			}
			return f.Success("removed " + args[0])
		},
	}
}

// storeError reports a missing key as NOT_FOUND and anything else as a
// codec error.
func storeError(f *OutputFormatter, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		if ferr := f.Error("NOT_FOUND", err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "NOT_FOUND", err)
	}
	return reportError(f, err)
}
