// Package opml aggregates the feeds of every valid ring member into a single
// OPML 1.0 subscription list that feed readers can import.
package opml

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/zjrosen/firechicken/internal/domain/ring"
	"github.com/zjrosen/firechicken/internal/log"
)

const (
	// DefaultTitle is the head title of the generated document.
	DefaultTitle = "RSS Feeds for all Fire Chicken Webring members"

	// DateFormat is RFC 822 with a numeric zone, e.g. "Mon, 13 Nov 2023 09:30:00 +0000".
	DateFormat = time.RFC1123Z

	// FeedType is the outline type discriminator for every entry.
	FeedType = "rss"

	version = "1.0"
)

// Document is the root <opml> element.
type Document struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

// Head carries the document title and creation timestamp.
type Head struct {
	Title       string `xml:"title"`
	DateCreated string `xml:"dateCreated"`
}

// Body holds the flat outline list.
type Body struct {
	Outlines []Outline `xml:"outline"`
}

// Outline is one feed subscription.
type Outline struct {
	Text    string `xml:"text,attr"`
	Title   string `xml:"title,attr"`
	Type    string `xml:"type,attr"`
	XMLURL  string `xml:"xmlUrl,attr"`
	HTMLURL string `xml:"htmlUrl,attr"`
}

type options struct {
	title string
}

// Option configures Build.
type Option func(*options)

// WithTitle overrides DefaultTitle. An empty title keeps the default.
func WithTitle(title string) Option {
	return func(o *options) {
		if title != "" {
			o.title = title
		}
	}
}

// Build flattens the feeds of all valid members, in ring order and then feed
// order. Invalid members contribute nothing.
func Build(r *ring.Ring, generatedAt time.Time, opts ...Option) Document {
	o := options{title: DefaultTitle}
	for _, opt := range opts {
		opt(&o)
	}

	outlines := make([]Outline, 0)
	for _, m := range r.Valid() {
		for _, f := range m.Feeds {
			title := f.DisplayTitle(m)
			outlines = append(outlines, Outline{
				Text:    title,
				Title:   title,
				Type:    FeedType,
				XMLURL:  f.XMLURL.String(),
				HTMLURL: f.LandingPage(m).String(),
			})
		}
	}

	log.Debug(log.CatFeeds, "Built feed list", "members", len(r.Valid()), "outlines", len(outlines))

	return Document{
		Version: version,
		Head: Head{
			Title:       o.title,
			DateCreated: generatedAt.UTC().Format(DateFormat),
		},
		Body: Body{Outlines: outlines},
	}
}

// Render serializes the document with an XML declaration.
func (d Document) Render() ([]byte, error) {
	out, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal opml: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// Parse decodes a rendered document.
func Parse(data []byte) (Document, error) {
	var d Document
	if err := xml.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal opml: %w", err)
	}
	return d, nil
}
