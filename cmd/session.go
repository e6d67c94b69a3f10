package cmd

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/firechicken/internal/domain/ring"
	"github.com/zjrosen/firechicken/internal/generator"
	"github.com/zjrosen/firechicken/internal/log"
	"github.com/zjrosen/firechicken/internal/ring/loader"
	"github.com/zjrosen/firechicken/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

// session holds the per-invocation tracing provider and generator.
type session struct {
	provider  *tracing.Provider
	generator *generator.Generator
}

func newSession() (*session, error) {
	provider, err := tracing.NewProvider(cfg.TracingProviderConfig())
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	gen := generator.New(generator.Config{
		OutDir:        cfg.OutDir,
		RedirectsFile: cfg.RedirectsFile,
		FeedsFile:     cfg.FeedsFile,
		FeedsTitle:    cfg.Feeds.Title,
		RingFile:      cfg.Ring,
	}, generator.WithTracer(provider.Tracer()))

	return &session{provider: provider, generator: gen}, nil
}

// loadRing reads the configured ring file.
func (s *session) loadRing(ctx context.Context) (*ring.Ring, error) {
	_, span := s.provider.Tracer().Start(ctx, tracing.SpanLoad,
		trace.WithAttributes(attribute.String(tracing.AttrRingFile, cfg.Ring)),
	)
	defer span.End()

	r, err := loader.LoadFile(cfg.Ring)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("loading ring %s: %w", cfg.Ring, err)
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrMembers, r.Len()),
		attribute.Int(tracing.AttrValidMembers, len(r.Valid())),
	)
	return r, nil
}

// close flushes pending spans.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.provider.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
	}
}
