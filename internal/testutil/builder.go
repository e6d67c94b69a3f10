// Package testutil provides ring fixtures for tests.
package testutil

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/firechicken/internal/domain/ring"
)

// Builder accumulates members and builds a ring in insertion order.
type Builder struct {
	t       *testing.T
	members []ring.Member
}

// NewBuilder creates an empty ring builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithMember adds a member with optional configuration.
func (b *Builder) WithMember(slug string, opts ...MemberOption) *Builder {
	b.t.Helper()
	m := defaultMember(b.t, slug)
	for _, opt := range opts {
		opt(b.t, &m)
	}
	b.members = append(b.members, m)
	return b
}

// Members returns the accumulated members without building a ring.
func (b *Builder) Members() []ring.Member {
	return b.members
}

// Build creates the ring, failing the test on validation errors.
func (b *Builder) Build() *ring.Ring {
	b.t.Helper()
	r, err := ring.New(b.members...)
	require.NoError(b.t, err)
	return r
}

func defaultMember(t *testing.T, slug string) ring.Member {
	t.Helper()
	return ring.Member{
		Slug:   slug,
		URL:    MustURL(t, "https://"+slug+".example.com/"),
		Name:   "Member " + slug,
		Joined: time.Date(2023, 11, 13, 0, 0, 0, 0, time.UTC),
	}
}

// MustURL parses raw or fails the test.
func MustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
