// Package loader reads a declarative member list into a ring.Ring.
//
// The ring file may be TOML (the canonical firechicken.toml), YAML or JSON
// with comments; the format is picked from the file extension. Decoding is
// strict: unknown keys are rejected so that a typo such as "invlaid = true"
// fails the run instead of silently keeping a broken member in the ring.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	stdpath "path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/firechicken/internal/domain/ring"
	"github.com/zjrosen/firechicken/internal/log"
)

// Format identifies a ring file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for ring files with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown ring file format")

// RingFile is the root structure of a ring file.
type RingFile struct {
	Members []MemberDef `toml:"members" yaml:"members" json:"members"`
}

// MemberDef defines a single member entry.
type MemberDef struct {
	Slug    string    `toml:"slug" yaml:"slug" json:"slug"`
	URL     string    `toml:"url" yaml:"url" json:"url"`
	Name    string    `toml:"name" yaml:"name" json:"name"`
	Joined  any       `toml:"joined" yaml:"joined" json:"joined"` // TOML/YAML dates decode natively, JSON uses a string
	Invalid bool      `toml:"invalid" yaml:"invalid" json:"invalid"`
	Feeds   []FeedDef `toml:"feeds" yaml:"feeds" json:"feeds"`
}

// FeedDef defines a single feed of a member.
type FeedDef struct {
	XMLURL  string `toml:"xml_url" yaml:"xml_url" json:"xml_url"`
	Title   string `toml:"title" yaml:"title" json:"title"`
	HTMLURL string `toml:"html_url" yaml:"html_url" json:"html_url"`
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (want .toml, .yaml, .yml, .json or .jsonc)", ErrUnknownFormat, path)
	}
}

// LoadFile reads and parses the ring file at path on the local filesystem.
func LoadFile(path string) (*ring.Ring, error) {
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	return Load(os.DirFS(dir), name)
}

// Load reads and parses the ring file at name within fsys.
func Load(fsys fs.FS, name string) (*ring.Ring, error) {
	format, err := FormatFromPath(name)
	if err != nil {
		return nil, err
	}

	// Use path.Clean (not filepath.Clean) since fs.FS always uses forward slashes
	content, err := fs.ReadFile(fsys, stdpath.Clean(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	r, err := Parse(content, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	log.Info(log.CatRing, "Loaded ring", "file", name, "format", format,
		"members", r.Len(), "valid", len(r.Valid()))
	return r, nil
}

// Parse decodes a ring document and builds the ring. Every validation
// failure wraps ring.ErrMalformedInput.
func Parse(data []byte, format Format) (*ring.Ring, error) {
	file, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ring.ErrMalformedInput, err)
	}

	members := make([]ring.Member, 0, len(file.Members))
	for i, def := range file.Members {
		m, err := buildMember(def)
		if err != nil {
			return nil, fmt.Errorf("member %d (%s): %w", i, describe(def), err)
		}
		members = append(members, m)
	}

	return ring.New(members...)
}

func decode(data []byte, format Format) (RingFile, error) {
	var file RingFile

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return file, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF; treat it as an empty ring.
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return file, err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return file, err
		}
	default:
		return file, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return file, nil
}

// buildMember converts a MemberDef into a domain member.
func buildMember(def MemberDef) (ring.Member, error) {
	u, err := ring.ParseURL("url", def.URL)
	if err != nil {
		return ring.Member{}, err
	}

	joined, err := parseJoined(def.Joined)
	if err != nil {
		return ring.Member{}, err
	}

	feeds := make([]ring.Feed, 0, len(def.Feeds))
	for i, fd := range def.Feeds {
		feed, err := buildFeed(i, fd)
		if err != nil {
			return ring.Member{}, err
		}
		feeds = append(feeds, feed)
	}

	return ring.Member{
		Slug:    def.Slug,
		URL:     u,
		Name:    def.Name,
		Joined:  joined,
		Invalid: def.Invalid,
		Feeds:   feeds,
	}, nil
}

func buildFeed(i int, def FeedDef) (ring.Feed, error) {
	xmlURL, err := ring.ParseURL(fmt.Sprintf("feeds[%d].xml_url", i), def.XMLURL)
	if err != nil {
		return ring.Feed{}, err
	}

	feed := ring.Feed{XMLURL: xmlURL, Title: def.Title}
	if def.HTMLURL != "" {
		feed.HTMLURL, err = ring.ParseURL(fmt.Sprintf("feeds[%d].html_url", i), def.HTMLURL)
		if err != nil {
			return ring.Feed{}, err
		}
	}
	return feed, nil
}

// parseJoined accepts the native date types of each decoder.
func parseJoined(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("%w: joined date is required", ring.ErrMalformedInput)
	case string:
		return ring.ParseDate("joined", d)
	case toml.LocalDate:
		return ring.ParseDate("joined", d.String())
	case time.Time:
		// YAML timestamps and TOML offset date-times; keep the calendar date only.
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, fmt.Errorf("%w: joined %v is not a YYYY-MM-DD date", ring.ErrMalformedInput, v)
	}
}

func describe(def MemberDef) string {
	if def.Slug == "" {
		return "no slug"
	}
	return fmt.Sprintf("slug %q", def.Slug)
}
