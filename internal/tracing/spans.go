package tracing

// Span attribute keys for generation runs.
const (
	AttrRunID         = "run.id"
	AttrRingFile      = "ring.file"
	AttrMembers       = "ring.members"
	AttrValidMembers  = "ring.members.valid"
	AttrRedirectRules = "redirects.rules"
	AttrOutlines      = "feeds.outlines"
	AttrArtifactPath  = "artifact.path"
	AttrDrifted       = "check.drifted"
)

// Span names.
const (
	SpanGenerate = "generator.generate"
	SpanWrite    = "generator.write"
	SpanCheck    = "generator.check"
	SpanLoad     = "ring.load"
)
