package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/firechicken/internal/log"
	"github.com/zjrosen/firechicken/internal/tracing"
)

// dateCreatedRE matches the OPML timestamp, which differs on every run.
var dateCreatedRE = regexp.MustCompile(`<dateCreated>[^<]*</dateCreated>`)

// Drift describes an artifact on disk that no longer matches the ring.
type Drift struct {
	Path    string
	Missing bool
	// Diff lists removed lines prefixed "-" and added lines prefixed "+".
	Diff string
}

// Check compares a against the files on disk and returns one Drift per stale
// artifact. An empty result means the output directory is current.
func (g *Generator) Check(ctx context.Context, a *Artifacts) ([]Drift, error) {
	_, span := g.tracer.Start(ctx, tracing.SpanCheck,
		trace.WithAttributes(attribute.String(tracing.AttrRunID, a.RunID)),
	)
	defer span.End()

	targets := []struct {
		artifact  Artifact
		normalize func(string) string
	}{
		{a.Redirects, identity},
		{a.Feeds, maskDateCreated},
	}

	var drifts []Drift
	for _, target := range targets {
		want := target.normalize(string(target.artifact.Data))

		existing, err := os.ReadFile(target.artifact.Path)
		if errors.Is(err, fs.ErrNotExist) {
			drifts = append(drifts, Drift{
				Path:    target.artifact.Path,
				Missing: true,
				Diff:    lineDiff("", want),
			})
			continue
		}
		if err != nil {
			tracing.RecordError(span, err)
			return nil, fmt.Errorf("reading %s: %w", target.artifact.Path, err)
		}

		got := target.normalize(string(existing))
		if got == want {
			continue
		}
		drifts = append(drifts, Drift{
			Path: target.artifact.Path,
			Diff: lineDiff(got, want),
		})
	}

	span.SetAttributes(attribute.Int(tracing.AttrDrifted, len(drifts)))
	log.Info(log.CatBuild, "Checked artifacts", "run_id", a.RunID, "drifted", len(drifts))
	return drifts, nil
}

func identity(s string) string { return s }

func maskDateCreated(s string) string {
	return dateCreatedRE.ReplaceAllString(s, "<dateCreated></dateCreated>")
}

// lineDiff renders a line-oriented diff from before to after, listing changed lines only.
func lineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
