package testutil

import (
	"testing"
	"time"

	"github.com/zjrosen/firechicken/internal/domain/ring"
)

// MemberOption configures a fixture member.
type MemberOption func(t *testing.T, m *ring.Member)

// Invalid marks the member as temporarily broken.
func Invalid() MemberOption {
	return func(_ *testing.T, m *ring.Member) { m.Invalid = true }
}

// Name overrides the display name.
func Name(name string) MemberOption {
	return func(_ *testing.T, m *ring.Member) { m.Name = name }
}

// URL overrides the member URL.
func URL(raw string) MemberOption {
	return func(t *testing.T, m *ring.Member) { m.URL = MustURL(t, raw) }
}

// Joined overrides the join date.
func Joined(year int, month time.Month, day int) MemberOption {
	return func(_ *testing.T, m *ring.Member) {
		m.Joined = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
}

// FeedData describes a fixture feed. Empty Title and HTMLURL exercise the fallbacks.
type FeedData struct {
	XMLURL  string
	Title   string
	HTMLURL string
}

// Feed appends a feed to the member.
func Feed(f FeedData) MemberOption {
	return func(t *testing.T, m *ring.Member) {
		feed := ring.Feed{XMLURL: MustURL(t, f.XMLURL), Title: f.Title}
		if f.HTMLURL != "" {
			feed.HTMLURL = MustURL(t, f.HTMLURL)
		}
		m.Feeds = append(m.Feeds, feed)
	}
}
