package session

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelforge/internal/dsl"
	"modelforge/internal/model"
)

func pedido() model.Document {
	return model.Document{
		Format:  model.FormatWizard,
		Wizard:  []model.WizardEntity{{ID: "e1", Name: "Pedido", Fields: []model.Field{{ID: "f1", Name: "total", Type: model.FieldNumber}}}},
		Context: model.Context{SystemName: "Loja"},
	}
}

func TestCreateGetList(t *testing.T) {
	s := NewStore()
	a := s.Create("loja", pedido())
	b := s.Create("", model.Document{Format: model.FormatWizard})

	assert.Len(t, a.ID, 26)
	assert.Equal(t, int64(1), a.Version)
	assert.Less(t, a.ID, b.ID)

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pedido", got.Document.Wizard[0].Name)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, "Loja", list[0].SystemName)
	assert.Equal(t, 1, list[0].Entities)

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetReturnsCopies(t *testing.T) {
	s := NewStore()
	a := s.Create("", pedido())

	got, _ := s.Get(a.ID)
	got.Document.Wizard[0].Name = "Changed"

	again, _ := s.Get(a.ID)
	assert.Equal(t, "Pedido", again.Document.Wizard[0].Name)
}

func TestPutChecksVersion(t *testing.T) {
	s := NewStore()
	a := s.Create("", pedido())

	doc := pedido()
	doc.Wizard[0].Name = "Compra"
	upd, err := s.Put(a.ID, doc, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), upd.Version)

	_, err = s.Put(a.ID, doc, 1)
	assert.ErrorIs(t, err, ErrConflict)

	upd, err = s.Put(a.ID, doc, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), upd.Version)

	_, err = s.Put("missing", doc, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportKeepsStateOnFailure(t *testing.T) {
	s := NewStore()
	a := s.Create("", pedido())

	_, err := s.Import(a.ID, []byte(`{"wizard": [`), dsl.SourceJSON, 0)
	require.ErrorIs(t, err, dsl.ErrImport)

	got, _ := s.Get(a.ID)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, "Pedido", got.Document.Wizard[0].Name)

	got, err = s.Import(a.ID, []byte("entity Cliente:\n  nome: string required\n"), "", 0)
	require.NoError(t, err)
	assert.Equal(t, "Cliente", got.Document.Wizard[0].Name)
	assert.Equal(t, "Loja", got.Document.Context.SystemName)
	assert.Equal(t, int64(2), got.Version)

	_, err = s.Import("missing", []byte("entity A:"), "", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := NewStore()
	a := s.Create("", pedido())
	require.NoError(t, s.Delete(a.ID))
	assert.ErrorIs(t, s.Delete(a.ID), ErrNotFound)
	assert.Empty(t, s.List())
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStore()
	a := s.Create("loja", pedido())
	s.Create("", model.Document{Format: model.FormatTable})

	var buf bytes.Buffer
	require.NoError(t, s.Snapshot(&buf))

	r := NewStore()
	require.NoError(t, r.Restore(&buf))
	assert.Equal(t, s.List(), r.List())

	got, err := r.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "loja", got.Template)
	assert.Equal(t, "total", got.Document.Wizard[0].Fields[0].Name)

	require.Error(t, r.Restore(strings.NewReader(`{"sessions":[{"id":"not-a-ulid"}]}`)))
	require.Error(t, r.Restore(strings.NewReader(`{`)))
	assert.Len(t, r.List(), 2)
}

func TestConcurrentCreate(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Create("", pedido())
		}()
	}
	wg.Wait()
	assert.Len(t, s.List(), 50)
}
