package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wongpratan/abquery/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	Objects   int      `json:"objects"`
	Fields    int      `json:"fields"`
	Relations int      `json:"relations"`
	Errors    []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [catalog-dir]",
		Short: "Validate a catalog",
		Long: `Load the CUE catalog and check it for consistency: unique field ids,
resolvable links, complete join tables, list options.

The catalog directory defaults to the configured catalog_dir.

Exit codes:
  0 - Catalog valid
  1 - Catalog loaded but invalid
  2 - Catalog could not be loaded`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if dir == "" {
		cfg, err := opts.loadConfig(cmd)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
		}
		dir = cfg.CatalogDir
	}

	cat, err := loadCatalog(formatter, dir)
	if err != nil {
		return err
	}

	result := ValidationResult{Objects: len(cat.Objects())}
	for _, obj := range cat.Objects() {
		formatter.VerboseLog("Validating object: %s", obj.Name)
		result.Fields += len(obj.Fields)
		result.Relations += len(obj.ConnectFields())
	}

	for _, e := range catalog.Errors(catalog.Validate(cat)) {
		result.Errors = append(result.Errors, e.Error())
	}
	result.Valid = len(result.Errors) == 0

	if formatter.Format == "json" {
		if result.Valid {
			return formatter.Success(result)
		}
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeCatalogInvalid,
				Message: fmt.Sprintf("catalog has %d error(s)", len(result.Errors)),
			},
		}); err != nil {
			return err
		}
		return &ExitError{Code: ExitFailure, ErrCode: ErrCodeCatalogInvalid,
			Message: fmt.Sprintf("catalog has %d error(s)", len(result.Errors))}
	}

	w := formatter.Writer
	if result.Valid {
		fmt.Fprintf(w, "✓ Catalog valid: %d object(s), %d field(s), %d relation(s)\n",
			result.Objects, result.Fields, result.Relations)
		return nil
	}

	fmt.Fprintln(w, "✗ Catalog invalid")
	fmt.Fprintln(w)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s: %s\n", ErrCodeCatalogInvalid, e)
	}
	return &ExitError{Code: ExitFailure, ErrCode: ErrCodeCatalogInvalid,
		Message: fmt.Sprintf("catalog has %d error(s)", len(result.Errors))}
}
