package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/wongpratan/abquery/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	ConfigFile string
	Dialect    string
	DSN        string
	CatalogDir string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the abquery CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "abquery",
		Short: "Compile JSON filter trees to SQL",
		Long: `abquery turns a JSON request (a where tree of AND/OR groups, sort keys,
offset, limit) into a parameterized SELECT for a catalog object.

Settings come from abquery.yaml, .env, ABQUERY_* environment variables and
the flags below, in increasing priority.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging to stderr)")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (default ./abquery.yaml)")
	flags.StringVar(&opts.Dialect, "dialect", "", "SQL dialect (mysql|sqlite|postgres)")
	flags.StringVar(&opts.DSN, "dsn", "", "database DSN")
	flags.StringVar(&opts.CatalogDir, "catalog", "", "catalog directory of CUE files")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// loadConfig resolves the configuration, letting the flags the user set
// override every other source.
func (o *RootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := make(map[string]any)
	flags := cmd.Flags()
	if flags.Changed("dialect") {
		overrides[config.KeyDialect] = o.Dialect
	}
	if flags.Changed("dsn") {
		overrides[config.KeyDSN] = o.DSN
	}
	if flags.Changed("catalog") {
		overrides[config.KeyCatalogDir] = o.CatalogDir
	}
	if o.Verbose {
		overrides[config.KeyLogLevel] = "debug"
	}

	return config.Load(config.Options{File: o.ConfigFile, Overrides: overrides})
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}
