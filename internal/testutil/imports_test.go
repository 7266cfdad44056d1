package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Packages linked into the abquery binary must not pull in test tooling.
func TestNoTestingImportsInLinkedPackages(t *testing.T) {
	forbidden := []string{"testing", "github.com/stretchr/testify", "github.com/sebdah/goldie"}

	for _, dir := range []string{".", filepath.Join("..", "harness")} {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)

		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
				continue
			}
			path := filepath.Join(dir, name)
			file, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ImportsOnly)
			require.NoError(t, err, path)

			for _, imp := range file.Imports {
				importPath, err := strconv.Unquote(imp.Path.Value)
				require.NoError(t, err)
				for _, bad := range forbidden {
					assert.False(t, importPath == bad || strings.HasPrefix(importPath, bad+"/"),
						"%s imports %s", path, importPath)
				}
			}
		}
	}
}
