package ring

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DateLayout is the calendar date format for Member.Joined.
const DateLayout = "2006-01-02"

// Feed describes one syndication feed published by a member.
type Feed struct {
	// XMLURL is the feed address (required, absolute).
	XMLURL *url.URL
	// Title is the feed's own title. Empty means "use the member's name".
	Title string
	// HTMLURL is the feed's landing page. Nil means "use the member's URL".
	HTMLURL *url.URL
}

// DisplayTitle returns the feed title, falling back to the owning member's name.
func (f Feed) DisplayTitle(m Member) string {
	if f.Title != "" {
		return f.Title
	}
	return m.Name
}

// LandingPage returns the feed's landing page, falling back to the owning member's URL.
func (f Feed) LandingPage(m Member) *url.URL {
	if f.HTMLURL != nil {
		return f.HTMLURL
	}
	return m.URL
}

// Member is one participant in the ring.
type Member struct {
	Slug    string
	URL     *url.URL
	Name    string
	Joined  time.Time
	Invalid bool
	Feeds   []Feed
}

// PrevPath returns the redirect path that leads to this member's predecessor.
func (m Member) PrevPath() string {
	return "/" + m.Slug + "/prev"
}

// NextPath returns the redirect path that leads to this member's successor.
func (m Member) NextPath() string {
	return "/" + m.Slug + "/next"
}

// Host returns the host part of the member URL, or an empty string if unset.
func (m Member) Host() string {
	if m.URL == nil {
		return ""
	}
	return m.URL.Host
}

// Validate checks the member's fields. Errors wrap ErrMalformedInput.
func (m Member) Validate() error {
	if m.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrMalformedInput)
	}
	if strings.ContainsAny(m.Slug, "/ \t\r\n") {
		return fmt.Errorf("%w: slug %q must not contain '/' or whitespace", ErrMalformedInput, m.Slug)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrMalformedInput)
	}
	if err := checkAbsolute("url", m.URL); err != nil {
		return err
	}
	if m.Joined.IsZero() {
		return fmt.Errorf("%w: joined date is required", ErrMalformedInput)
	}
	for i, f := range m.Feeds {
		if err := checkAbsolute(fmt.Sprintf("feeds[%d].xml_url", i), f.XMLURL); err != nil {
			return err
		}
		if f.HTMLURL != nil {
			if err := checkAbsolute(fmt.Sprintf("feeds[%d].html_url", i), f.HTMLURL); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseURL parses an absolute URL. Errors wrap ErrMalformedInput.
func ParseURL(field, raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: %s is required", ErrMalformedInput, field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %v", ErrMalformedInput, field, raw, err)
	}
	if err := checkAbsolute(field, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ParseDate parses a YYYY-MM-DD calendar date. Errors wrap ErrMalformedInput.
func ParseDate(field, raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", ErrMalformedInput, field, raw)
	}
	return d, nil
}

func checkAbsolute(field string, u *url.URL) error {
	if u == nil {
		return fmt.Errorf("%w: %s is required", ErrMalformedInput, field)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %s %q must be an absolute URL", ErrMalformedInput, field, u.String())
	}
	return nil
}
