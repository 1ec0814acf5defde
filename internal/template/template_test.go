package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelforge/internal/model"
)

func TestLoadCatalogShippedTemplates(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("..", "..", "templates"))
	require.NoError(t, err)

	var names []string
	for _, tpl := range c.List() {
		names = append(names, tpl.Name)
	}
	assert.Equal(t, []string{"blank", "loja", "oficina"}, names)

	doc, ok := c.Instantiate("loja")
	require.True(t, ok)
	require.Len(t, doc.Wizard, 3)
	assert.Equal(t, "Loja", doc.Context.SystemName)
	assert.NotEqual(t, "pedido", doc.Wizard[2].ID)
	require.Len(t, doc.Links, 1)
	assert.Equal(t, doc.Wizard[2].ID, doc.Links[0].FromEntityID)
	assert.Equal(t, doc.Wizard[0].ID, doc.Links[0].ToEntityID)

	doc, ok = c.Instantiate("oficina")
	require.True(t, ok)
	assert.Equal(t, "Oficina", doc.Context.SystemName)
	require.Len(t, doc.Links, 1)
}

func TestInstantiateIsolatesCopies(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("..", "..", "templates"))
	require.NoError(t, err)

	a, _ := c.Instantiate("loja")
	a.Wizard[0].Fields[0].Name = "changed"
	b, _ := c.Instantiate("loja")
	assert.Equal(t, "nome", b.Wizard[0].Fields[0].Name)
	assert.NotEqual(t, a.Wizard[0].ID, b.Wizard[0].ID)
}

func TestMissingDirAndBlank(t *testing.T) {
	c, err := LoadCatalog(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Len(t, c.List(), 1)

	doc, ok := c.Instantiate("")
	require.True(t, ok)
	assert.Equal(t, model.FormatWizard, doc.Format)
	assert.Zero(t, doc.Len())

	_, ok = c.Instantiate("missing")
	assert.False(t, ok)
}

func TestBadTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("document:\n  format: spreadsheet\n"), 0o644))
	_, err := LoadCatalog(dir)
	assert.Error(t, err)
}
