// Package redirects derives the ring's redirect table: for every valid member,
// one rule sending /{slug}/prev to the previous valid member and one sending
// /{slug}/next to the next one. The table is written in the line format
// understood by static hosts such as Netlify (`_redirects`).
package redirects

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/zjrosen/firechicken/internal/domain/ring"
	"github.com/zjrosen/firechicken/internal/log"
)

// StatusCode is used for every rule. Neighbours change whenever a member joins
// or is marked invalid, so the redirects are temporary (302 Found).
const StatusCode = http.StatusFound

// ErrMalformedRule is returned by Parse for lines that are not `<path> <target> <status>`.
var ErrMalformedRule = errors.New("malformed redirect rule")

// Rule is a single redirect.
type Rule struct {
	Path   string
	Target string
	Status int
}

// String formats the rule as one table line without the trailing newline.
func (r Rule) String() string {
	return fmt.Sprintf("%s %s %d", r.Path, r.Target, r.Status)
}

// Build returns two rules per valid member, prev then next, in ring order.
// A ring without valid members is an error rather than an empty table.
func Build(r *ring.Ring) ([]Rule, error) {
	if len(r.Valid()) == 0 {
		log.Error(log.CatRedirects, "No valid members to build redirects from", "members", r.Len())
		return nil, fmt.Errorf("build redirects: %w", ring.ErrEmptyRing)
	}

	rules := make([]Rule, 0, 2*len(r.Valid()))
	for _, m := range r.Members() {
		if m.Invalid {
			log.Debug(log.CatRedirects, "Skipping invalid member", "slug", m.Slug)
			continue
		}

		prev, err := r.Previous(m.Slug)
		if err != nil {
			return nil, fmt.Errorf("build redirects for %q: %w", m.Slug, err)
		}
		next, err := r.Next(m.Slug)
		if err != nil {
			return nil, fmt.Errorf("build redirects for %q: %w", m.Slug, err)
		}

		rules = append(rules,
			Rule{Path: m.PrevPath(), Target: prev.URL.String(), Status: StatusCode},
			Rule{Path: m.NextPath(), Target: next.URL.String(), Status: StatusCode},
		)
	}

	log.Debug(log.CatRedirects, "Built redirect table", "rules", len(rules))
	return rules, nil
}

// Write writes one line per rule.
func Write(w io.Writer, rules []Rule) error {
	bw := bufio.NewWriter(w)
	for _, rule := range rules {
		if _, err := bw.WriteString(rule.String() + "\n"); err != nil {
			return fmt.Errorf("write redirect %s: %w", rule.Path, err)
		}
	}
	return bw.Flush()
}

// Render returns the table as a string.
func Render(rules []Rule) string {
	var sb strings.Builder
	_ = Write(&sb, rules)
	return sb.String()
}

// Parse reads a redirect table. Blank lines and lines starting with '#' are skipped.
func Parse(r io.Reader) ([]Rule, error) {
	var rules []Rule

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: want 3 fields, got %d", ErrMalformedRule, lineNo, len(fields))
		}
		status, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: status %q is not a number", ErrMalformedRule, lineNo, fields[2])
		}

		rules = append(rules, Rule{Path: fields[0], Target: fields[1], Status: status})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read redirects: %w", err)
	}

	return rules, nil
}
