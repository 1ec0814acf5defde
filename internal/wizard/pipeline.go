// Package wizard runs the generation step of the modelling wizard: every
// generator in turn, with progress reported between stages.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modelforge/internal/artifact"
	"modelforge/internal/gen"
	"modelforge/internal/lint"
	"modelforge/internal/model"
)

// ErrCanceled is returned, wrapping the context error, when the context is
// done before the last stage finished.
var ErrCanceled = errors.New("generation canceled")

// Progress is reported before each stage and once more when done.
type Progress struct {
	Stage   string `json:"stage"`
	Step    int    `json:"step"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

type Result struct {
	Files      artifact.Files  `json:"files"`
	Analysis   gen.Analysis    `json:"analysis"`
	Warnings   lint.Issues     `json:"warnings"`
	Statements []gen.Statement `json:"-"`
}

type Pipeline struct {
	gen  *gen.Generator
	pace time.Duration
}

type Option func(*Pipeline)

func WithGenerator(g *gen.Generator) Option { return func(p *Pipeline) { p.gen = g } }

// WithPace waits d between stages. Zero disables the pause.
func WithPace(d time.Duration) Option { return func(p *Pipeline) { p.pace = d } }

func New(opts ...Option) *Pipeline {
	p := &Pipeline{gen: gen.New()}
	for _, o := range opts {
		o(p)
	}
	return p
}

type stage struct {
	name    string
	message string
	run     func(model.Document, *Result)
}

func (p *Pipeline) stages() []stage {
	g := p.gen
	return []stage{
		{"lint", "Checking entities", func(d model.Document, r *Result) {
			r.Warnings = append(r.Warnings, lint.Lint(d)...)
		}},
		{"database", "Generating database schema", func(d model.Document, r *Result) {
			b := g.Bundle(d)
			r.Files.Merge(b.Files)
			r.Analysis = b.Analysis
			r.Statements = b.Statements
			r.Warnings = append(r.Warnings, b.Warnings...)
		}},
		{"orm", "Generating Prisma schema", func(d model.Document, r *Result) {
			text, issues := g.Prisma(d)
			r.Files["prisma/schema.prisma"] = text
			r.Warnings = append(r.Warnings, issues...)
		}},
		{"validation", "Generating validation schemas", func(d model.Document, r *Result) {
			text, issues := g.Zod(d)
			r.Files["lib/validation/schemas.ts"] = text
			r.Warnings = append(r.Warnings, issues...)
		}},
		{"routes", "Generating API routes", func(d model.Document, r *Result) {
			s, _ := gen.Normalize(d)
			r.Files["app/api/routes.ts"] = g.Routes(gen.CRUDEndpoints(s), s.SystemName)
		}},
	}
}

// Run executes every stage in order. The context is checked between stages;
// a stage itself always runs to completion.
func (p *Pipeline) Run(ctx context.Context, d model.Document, progress func(Progress)) (Result, error) {
	if progress == nil {
		progress = func(Progress) {}
	}
	stages := p.stages()
	res := Result{Files: artifact.Files{}}

	for i, st := range stages {
		if err := p.wait(ctx, i); err != nil {
			return Result{}, err
		}
		progress(Progress{Stage: st.name, Step: i + 1, Total: len(stages), Message: st.message})
		st.run(d, &res)
	}
	res.Warnings = dedupe(res.Warnings)
	progress(Progress{Stage: "done", Step: len(stages), Total: len(stages),
		Message: fmt.Sprintf("Generated %d files", len(res.Files))})
	return res, nil
}

func (p *Pipeline) wait(ctx context.Context, i int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if p.pace <= 0 || i == 0 {
		return nil
	}
	t := time.NewTimer(p.pace)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	case <-t.C:
		return nil
	}
}

// dedupe drops repeated issues; lint and normalisation report some of the
// same problems.
func dedupe(in lint.Issues) lint.Issues {
	seen := make(map[lint.Issue]bool, len(in))
	out := lint.Issues{}
	for _, is := range in {
		if seen[is] {
			continue
		}
		seen[is] = true
		out = append(out, is)
	}
	return out
}
