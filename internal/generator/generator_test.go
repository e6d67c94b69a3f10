package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/firechicken/internal/domain/ring"
	"github.com/zjrosen/firechicken/internal/opml"
	"github.com/zjrosen/firechicken/internal/testutil"
	"github.com/zjrosen/firechicken/internal/tracing"
)

var fixedTime = time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		OutDir:        filepath.Join(t.TempDir(), "dist"),
		RedirectsFile: "_redirects",
		FeedsFile:     "feeds.opml",
		FeedsTitle:    opml.DefaultTitle,
		RingFile:      "firechicken.toml",
	}
}

func newTestGenerator(t *testing.T, cfg Config, opts ...Option) *Generator {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time { return fixedTime }),
		WithRunID(func() string { return "run-1" }),
	}
	return New(cfg, append(base, opts...)...)
}

func threeMemberRing(t *testing.T) *ring.Ring {
	return testutil.NewBuilder(t).
		WithMember("a", testutil.Feed(testutil.FeedData{XMLURL: "https://a.example.com/rss"})).
		WithMember("b", testutil.Invalid(), testutil.Feed(testutil.FeedData{XMLURL: "https://b.example.com/rss"})).
		WithMember("c").
		Build()
}

// setupTestTracer creates a test tracer with an in-memory exporter.
func setupTestTracer(t *testing.T) (Option, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return WithTracer(provider.Tracer("test-tracer")), exporter
}

func attrValue(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

// === Generate ===

func TestGenerate_Artifacts(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGenerator(t, cfg)

	a, err := g.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)

	require.Equal(t, "run-1", a.RunID)
	require.Equal(t, fixedTime, a.GeneratedAt)
	require.Equal(t, 3, a.Members)
	require.Equal(t, 2, a.ValidMembers)
	require.Len(t, a.Rules, 4)
	require.Equal(t, 1, a.Outlines)

	require.Equal(t, filepath.Join(cfg.OutDir, "_redirects"), a.Redirects.Path)
	require.Equal(t,
		"/a/prev https://c.example.com/ 302\n"+
			"/a/next https://c.example.com/ 302\n"+
			"/c/prev https://a.example.com/ 302\n"+
			"/c/next https://a.example.com/ 302\n",
		string(a.Redirects.Data))

	require.Equal(t, filepath.Join(cfg.OutDir, "feeds.opml"), a.Feeds.Path)
	feeds := string(a.Feeds.Data)
	require.Contains(t, feeds, "<dateCreated>Sat, 09 Mar 2024 18:30:00 +0000</dateCreated>")
	require.Contains(t, feeds, `xmlUrl="https://a.example.com/rss"`)
	require.NotContains(t, feeds, "b.example.com")
}

func TestGenerate_CustomTitle(t *testing.T) {
	cfg := testConfig(t)
	cfg.FeedsTitle = "Ring feeds"

	a, err := newTestGenerator(t, cfg).Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)
	require.Contains(t, string(a.Feeds.Data), "<title>Ring feeds</title>")
}

func TestGenerate_EmptyValidRingFails(t *testing.T) {
	cfg := testConfig(t)
	r := testutil.NewBuilder(t).WithMember("a", testutil.Invalid()).Build()

	a, err := newTestGenerator(t, cfg).Generate(context.Background(), r)

	require.ErrorIs(t, err, ring.ErrEmptyRing)
	require.Nil(t, a)
	require.NoDirExists(t, cfg.OutDir)
}

func TestGenerate_DefaultRunIDIsUUID(t *testing.T) {
	g := New(testConfig(t))

	a, err := g.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)
	require.Len(t, a.RunID, 36)

	b, err := g.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)
	require.NotEqual(t, a.RunID, b.RunID)
}

func TestGenerate_Span(t *testing.T) {
	withTracer, exporter := setupTestTracer(t)
	g := newTestGenerator(t, testConfig(t), withTracer)

	_, err := g.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	require.Equal(t, tracing.SpanGenerate, span.Name)

	runID, ok := attrValue(span, tracing.AttrRunID)
	require.True(t, ok)
	require.Equal(t, "run-1", runID.AsString())

	rules, ok := attrValue(span, tracing.AttrRedirectRules)
	require.True(t, ok)
	require.Equal(t, int64(4), rules.AsInt64())
}

func TestGenerate_SpanRecordsError(t *testing.T) {
	withTracer, exporter := setupTestTracer(t)
	g := newTestGenerator(t, testConfig(t), withTracer)

	empty, err := ring.New()
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), empty)
	require.ErrorIs(t, err, ring.ErrEmptyRing)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status.Code)
}

// === Write ===

func TestWrite_CreatesFiles(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGenerator(t, cfg)

	a, err := g.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)
	require.NoError(t, g.Write(context.Background(), a))

	for _, artifact := range a.All() {
		data, err := os.ReadFile(artifact.Path)
		require.NoError(t, err)
		require.Equal(t, artifact.Data, data)
	}

	entries, err := os.ReadDir(cfg.OutDir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "temp files must not be left behind")
}

func TestWrite_Overwrites(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.OutDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutDir, "_redirects"), []byte("stale\n"), 0o644))

	g := newTestGenerator(t, cfg)
	a, err := g.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)
	require.NoError(t, g.Write(context.Background(), a))

	data, err := os.ReadFile(a.Redirects.Path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "stale")
}

func TestWrite_OutDirIsFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.OutDir, []byte("x"), 0o644))

	g := newTestGenerator(t, cfg)
	a, err := g.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)

	err = g.Write(context.Background(), a)
	require.Error(t, err)
	require.Contains(t, err.Error(), "creating output directory")
}

// === Check ===

func TestCheck_MissingFiles(t *testing.T) {
	g := newTestGenerator(t, testConfig(t))
	a, err := g.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)

	drifts, err := g.Check(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, drifts, 2)
	for _, d := range drifts {
		require.True(t, d.Missing)
		require.NotEmpty(t, d.Diff)
	}
	require.Contains(t, drifts[0].Diff, "+/a/prev https://c.example.com/ 302")
}

func TestCheck_CurrentIgnoresTimestamp(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGenerator(t, cfg)
	a, err := g.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)
	require.NoError(t, g.Write(context.Background(), a))

	later := New(cfg, WithClock(func() time.Time { return fixedTime.Add(48 * time.Hour) }))
	b, err := later.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)
	require.NotEqual(t, a.Feeds.Data, b.Feeds.Data)

	drifts, err := later.Check(context.Background(), b)
	require.NoError(t, err)
	require.Empty(t, drifts)
}

func TestCheck_StaleAfterMemberJoins(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGenerator(t, cfg)
	a, err := g.Generate(context.Background(), threeMemberRing(t))
	require.NoError(t, err)
	require.NoError(t, g.Write(context.Background(), a))

	grown := testutil.NewBuilder(t).
		WithMember("a", testutil.Feed(testutil.FeedData{XMLURL: "https://a.example.com/rss"})).
		WithMember("b", testutil.Invalid(), testutil.Feed(testutil.FeedData{XMLURL: "https://b.example.com/rss"})).
		WithMember("c").
		WithMember("d").
		Build()
	b, err := g.Generate(context.Background(), grown)
	require.NoError(t, err)

	drifts, err := g.Check(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, drifts, 1, "feeds are unchanged because d has no feed")

	d := drifts[0]
	require.Equal(t, a.Redirects.Path, d.Path)
	require.False(t, d.Missing)
	require.Contains(t, d.Diff, "-/a/prev https://c.example.com/ 302")
	require.Contains(t, d.Diff, "+/a/prev https://d.example.com/ 302")
	require.Contains(t, d.Diff, "+/d/next https://a.example.com/ 302")
	for _, line := range strings.Split(strings.TrimSpace(d.Diff), "\n") {
		require.True(t, strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-"), line)
	}
}

func TestLineDiff(t *testing.T) {
	require.Empty(t, lineDiff("a\nb\n", "a\nb\n"))
	require.Equal(t, "-b\n+c\n", lineDiff("a\nb\n", "a\nc\n"))
	require.Equal(t, "+x\n+y\n", lineDiff("", "x\ny\n"))
}
