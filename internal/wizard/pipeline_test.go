package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelforge/internal/gen"
	"modelforge/internal/lint"
	"modelforge/internal/model"
)

var fixed = gen.WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) })

func loja() model.Document {
	return model.Document{
		Format: model.FormatWizard,
		Wizard: []model.WizardEntity{
			{ID: "c", Name: "Cliente", Fields: []model.Field{{Name: "nome", Type: model.FieldString, Required: true}}},
			{ID: "p", Name: "Pedido", Timestamps: true, Fields: []model.Field{{Name: "total", Type: model.FieldNumber}}},
		},
		Links: []model.Link{
			{ID: "r1", FromEntityID: "p", ToEntityID: "c", Type: "1:N"},
			{ID: "r2", FromEntityID: "p", ToEntityID: "ghost", Type: "1:N"},
		},
		Context: model.Context{SystemName: "Loja"},
	}
}

func TestRun(t *testing.T) {
	var seen []Progress
	res, err := New(WithGenerator(gen.New(fixed))).Run(context.Background(), loja(), func(p Progress) { seen = append(seen, p) })
	require.NoError(t, err)

	require.Len(t, seen, 6)
	assert.Equal(t, "lint", seen[0].Stage)
	assert.Equal(t, 1, seen[0].Step)
	assert.Equal(t, 5, seen[0].Total)
	assert.Equal(t, "done", seen[5].Stage)

	for _, p := range []string{
		"database/schema.sql", "database/auth.sql", "docs/tables/pedidos.md",
		"prisma/schema.prisma", "lib/validation/schemas.ts", "app/api/routes.ts",
	} {
		assert.Contains(t, res.Files, p)
	}
	assert.Equal(t, 2, res.Analysis.Tables)
	assert.NotEmpty(t, res.Statements)

	dangling := 0
	for _, is := range res.Warnings {
		if is.Code == lint.CodeDanglingRelation {
			dangling++
		}
	}
	assert.GreaterOrEqual(t, dangling, 1)
	assert.Len(t, res.Warnings, len(dedupe(res.Warnings)))
}

func TestRunMatchesStandaloneGenerators(t *testing.T) {
	g := gen.New(fixed)
	res, err := New(WithGenerator(g)).Run(context.Background(), loja(), nil)
	require.NoError(t, err)

	prisma, _ := g.Prisma(loja())
	assert.Equal(t, prisma, res.Files["prisma/schema.prisma"])
	sql, _ := g.SQL(loja())
	assert.Equal(t, sql, res.Files["database/schema.sql"])
}

func TestRunCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	res, err := New().Run(ctx, loja(), func(Progress) { calls++ })
	assert.ErrorIs(t, err, ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
	assert.Nil(t, res.Files)
}

func TestRunCanceledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stages []string
	_, err := New(WithPace(time.Hour)).Run(ctx, loja(), func(p Progress) {
		stages = append(stages, p.Stage)
		cancel()
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCanceled))
	assert.Equal(t, []string{"lint"}, stages)
}

func TestRunWithPace(t *testing.T) {
	start := time.Now()
	_, err := New(WithPace(5*time.Millisecond)).Run(context.Background(), loja(), nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDedupe(t *testing.T) {
	a := lint.Issue{Entity: "A", Code: lint.CodeUnknownType, Message: "x"}
	b := lint.Issue{Entity: "B", Code: lint.CodeUnknownType, Message: "x"}
	assert.Equal(t, lint.Issues{a, b}, dedupe(lint.Issues{a, b, a}))
	assert.Equal(t, lint.Issues{}, dedupe(nil))
}
