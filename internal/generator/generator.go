// Package generator turns a loaded ring into its derived artifacts: the
// redirect table and the OPML feed list.
//
// A run is split into Generate, which computes every artifact in memory, and
// Write or Check, which touch the filesystem. Generate either succeeds for all
// artifacts or returns an error, so a failed run never leaves partial output.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/firechicken/internal/domain/ring"
	"github.com/zjrosen/firechicken/internal/log"
	"github.com/zjrosen/firechicken/internal/opml"
	"github.com/zjrosen/firechicken/internal/redirects"
	"github.com/zjrosen/firechicken/internal/tracing"
)

// Config controls where artifacts are written and how they are labelled.
type Config struct {
	OutDir        string
	RedirectsFile string
	FeedsFile     string
	FeedsTitle    string
	// RingFile is only recorded on spans and in logs.
	RingFile string
}

// Option configures the Generator.
type Option func(*Generator)

// WithClock sets the time source used for the OPML dateCreated header.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithTracer sets the tracer used for run spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Generator) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

// WithRunID overrides run ID generation.
func WithRunID(newID func() string) Option {
	return func(g *Generator) {
		g.newRunID = newID
	}
}

// Generator produces and persists ring artifacts.
type Generator struct {
	cfg      Config
	now      func() time.Time
	tracer   trace.Tracer
	newRunID func() string
}

// New creates a Generator.
func New(cfg Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		now:      time.Now,
		tracer:   noop.NewTracerProvider().Tracer(tracing.DefaultServiceName),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Artifact is one generated output file.
type Artifact struct {
	Path string
	Data []byte
}

// Artifacts holds the result of one generation run.
type Artifacts struct {
	RunID        string
	GeneratedAt  time.Time
	Members      int
	ValidMembers int
	Rules        []redirects.Rule
	Outlines     int

	Redirects Artifact
	Feeds     Artifact
}

// All returns the artifacts in write order.
func (a *Artifacts) All() []Artifact {
	return []Artifact{a.Redirects, a.Feeds}
}

// Generate computes all artifacts for r without touching the filesystem.
// It fails with ring.ErrEmptyRing when no member is valid.
func (g *Generator) Generate(ctx context.Context, r *ring.Ring) (*Artifacts, error) {
	runID := g.newRunID()
	_, span := g.tracer.Start(ctx, tracing.SpanGenerate,
		trace.WithAttributes(
			attribute.String(tracing.AttrRunID, runID),
			attribute.String(tracing.AttrRingFile, g.cfg.RingFile),
			attribute.Int(tracing.AttrMembers, r.Len()),
			attribute.Int(tracing.AttrValidMembers, len(r.Valid())),
		),
	)
	defer span.End()

	rules, err := redirects.Build(r)
	if err != nil {
		tracing.RecordError(span, err)
		log.ErrorErr(log.CatBuild, "Redirect table failed", err, "run_id", runID)
		return nil, fmt.Errorf("building redirects: %w", err)
	}

	generatedAt := g.now()
	doc := opml.Build(r, generatedAt, opml.WithTitle(g.cfg.FeedsTitle))
	feeds, err := doc.Render()
	if err != nil {
		tracing.RecordError(span, err)
		log.ErrorErr(log.CatBuild, "Feed list failed", err, "run_id", runID)
		return nil, fmt.Errorf("rendering feeds: %w", err)
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrRedirectRules, len(rules)),
		attribute.Int(tracing.AttrOutlines, len(doc.Body.Outlines)),
	)
	log.Info(log.CatBuild, "Generated artifacts",
		"run_id", runID,
		"rules", len(rules),
		"outlines", len(doc.Body.Outlines))

	return &Artifacts{
		RunID:        runID,
		GeneratedAt:  generatedAt,
		Members:      r.Len(),
		ValidMembers: len(r.Valid()),
		Rules:        rules,
		Outlines:     len(doc.Body.Outlines),
		Redirects: Artifact{
			Path: filepath.Join(g.cfg.OutDir, g.cfg.RedirectsFile),
			Data: []byte(redirects.Render(rules)),
		},
		Feeds: Artifact{
			Path: filepath.Join(g.cfg.OutDir, g.cfg.FeedsFile),
			Data: feeds,
		},
	}, nil
}

// Write persists the artifacts, creating the output directory if needed.
// Each file is replaced atomically.
func (g *Generator) Write(ctx context.Context, a *Artifacts) error {
	_, span := g.tracer.Start(ctx, tracing.SpanWrite,
		trace.WithAttributes(attribute.String(tracing.AttrRunID, a.RunID)),
	)
	defer span.End()

	if err := os.MkdirAll(g.cfg.OutDir, 0o755); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, artifact := range a.All() {
		if err := writeFileAtomic(artifact.Path, artifact.Data); err != nil {
			tracing.RecordError(span, err)
			log.ErrorErr(log.CatBuild, "Write failed", err, "run_id", a.RunID, "path", artifact.Path)
			return err
		}
		span.AddEvent("artifact written", trace.WithAttributes(
			attribute.String(tracing.AttrArtifactPath, artifact.Path),
		))
		log.Debug(log.CatBuild, "Wrote artifact", "run_id", a.RunID, "path", artifact.Path, "bytes", len(artifact.Data))
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
