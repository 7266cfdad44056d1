package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wongpratan/abquery/internal/catalog"
	"github.com/wongpratan/abquery/internal/condition"
	"github.com/wongpratan/abquery/internal/engine"
)

// loadCatalog loads dir, mapping failures to exit errors. A missing
// directory is E002; anything else the loader rejects is E004.
func loadCatalog(f *OutputFormatter, dir string) (*catalog.Catalog, error) {
	f.VerboseLog("Loading catalog from %s", dir)

	if _, err := os.Stat(dir); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("catalog directory not found: %s", dir))
	}

	cat, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeCatalogLoad, err)
	}

	f.VerboseLog("Loaded %d object(s)", len(cat.Objects()))
	return cat, nil
}

// readRequest reads the request document from path, "-" for stdin. An
// empty path is the empty request.
func readRequest(cmd *cobra.Command, path string) ([]byte, error) {
	switch path {
	case "":
		return []byte("{}"), nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading request from stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading request: %w", err)
		}
		return data, nil
	}
}

// parseUser builds the user context from --user (inline JSON, or @file)
// and --language, which wins over the JSON languageCode.
func parseUser(raw, language string) (condition.UserContext, error) {
	var user condition.UserContext

	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "@") {
		data, err := os.ReadFile(raw[1:])
		if err != nil {
			return user, fmt.Errorf("reading user: %w", err)
		}
		raw = string(data)
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return user, fmt.Errorf("parsing user: %w", err)
		}
	}
	if language != "" {
		user.LanguageCode = language
	}
	return user, nil
}

// requestFailure reports an engine error with the matching codes. Problems
// with the request exit 1; problems with the database exit 2.
func requestFailure(f *OutputFormatter, err error) error {
	switch engine.CodeOf(err) {
	case engine.ErrCodeDecode:
		return f.Fail(ExitFailure, ErrCodeRequestDecode, err)
	case engine.ErrCodeCompile:
		return f.Fail(ExitFailure, ErrCodeCompile, err)
	case engine.ErrCodeExecute, engine.ErrCodeNoStore:
		return f.Fail(ExitCommandError, ErrCodeDatabase, err)
	default:
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
}

// requestFlags are shared by compile and query.
type requestFlags struct {
	Request  string
	User     string
	Language string
}

func (r *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&r.Request, "request", "r", "", `request JSON file, "-" for stdin (default {})`)
	cmd.Flags().StringVar(&r.User, "user", "", `user context JSON, or @file ({"username", "guid", "languageCode"})`)
	cmd.Flags().StringVar(&r.Language, "language", "", "language code for multilingual fields")
}

func (r *requestFlags) read(cmd *cobra.Command, f *OutputFormatter) ([]byte, condition.UserContext, error) {
	raw, err := readRequest(cmd, r.Request)
	if err != nil {
		return nil, condition.UserContext{}, f.Fail(ExitCommandError, ErrCodeRequestRead, err)
	}
	user, err := parseUser(r.User, r.Language)
	if err != nil {
		return nil, condition.UserContext{}, f.Fail(ExitCommandError, ErrCodeRequestRead, err)
	}
	return raw, user, nil
}
