package artifact

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Files {
	return Files{
		"schema.sql":              "CREATE TABLE x ();",
		"docs/endpoints.md":       "# Endpoints",
		"docs/tables/pedidos.md":  "# pedidos",
		"docs/tables/clientes.md": "# clientes",
		"diagrams/sequence.md":    "sequenceDiagram",
	}
}

func TestPaths(t *testing.T) {
	assert.Equal(t, []string{
		"diagrams/sequence.md",
		"docs/endpoints.md",
		"docs/tables/clientes.md",
		"docs/tables/pedidos.md",
		"schema.sql",
	}, sample().Paths())
}

func TestTree(t *testing.T) {
	root := sample().Tree()
	require.Len(t, root.Children, 3)
	assert.Equal(t, "diagrams", root.Children[0].Name)
	assert.Equal(t, "docs", root.Children[1].Name)
	assert.Equal(t, "schema.sql", root.Children[2].Name)
	assert.False(t, root.Children[2].IsDir())

	docs := root.Children[1]
	require.Len(t, docs.Children, 2)
	assert.Equal(t, "tables", docs.Children[0].Name, "directories first")
	assert.Equal(t, "endpoints.md", docs.Children[1].Name)
	assert.Equal(t, "docs/tables/clientes.md", docs.Children[0].Children[0].Path)
}

func TestMerge(t *testing.T) {
	f := Files{"a": "1"}
	f.Merge(Files{"a": "2", "b": "3"})
	assert.Equal(t, Files{"a": "2", "b": "3"}, f)
}

func TestLocalExport(t *testing.T) {
	root := t.TempDir()
	written, err := Export(&LocalExporter{Root: root}, sample())
	require.NoError(t, err)
	require.Len(t, written, 5)

	b, err := os.ReadFile(filepath.Join(root, "docs", "tables", "pedidos.md"))
	require.NoError(t, err)
	assert.Equal(t, "# pedidos", string(b))
	assert.Len(t, written[0].SHA256, 64)
}

func TestLocalExportRejectsEscapes(t *testing.T) {
	_, err := Export(&LocalExporter{Root: t.TempDir()}, Files{"../evil.sql": "x"})
	assert.Error(t, err)
}

type closeFails struct {
	bytes.Buffer
	err error
}

func (c *closeFails) Close() error { return c.err }

func TestCopyCloseReportsCloseError(t *testing.T) {
	diskFull := errors.New("no space left on device")
	_, _, err := copyClose(&closeFails{err: diskFull}, strings.NewReader("CREATE TABLE x ();"))
	assert.ErrorIs(t, err, diskFull)

	w := &closeFails{}
	n, sum, err := copyClose(w, strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)
	assert.Equal(t, "abc", w.String())
}
