package ring

import (
	"errors"
	"fmt"
)

// Ring errors
var (
	ErrMalformedInput = errors.New("malformed ring input")
	ErrMemberNotFound = errors.New("member not found")
	ErrEmptyRing      = errors.New("ring has no valid members")
)

// Ring holds the ordered member list and its precomputed valid sub-ring.
// A Ring is immutable once built.
type Ring struct {
	members []Member
	bySlug  map[string]int // slug -> index into members
	valid   []int          // indexes into members, registry order
	validAt map[string]int // slug -> index into valid
}

// New creates a ring from members in traversal order.
// Every member is validated and slugs must be unique.
func New(members ...Member) (*Ring, error) {
	r := &Ring{
		members: make([]Member, 0, len(members)),
		bySlug:  make(map[string]int, len(members)),
		valid:   make([]int, 0, len(members)),
		validAt: make(map[string]int, len(members)),
	}

	for i, m := range members {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("member %d (%s): %w", i, describe(m), err)
		}
		if first, ok := r.bySlug[m.Slug]; ok {
			return nil, fmt.Errorf("member %d (%s): %w: duplicate slug, first used by member %d",
				i, describe(m), ErrMalformedInput, first)
		}

		r.bySlug[m.Slug] = len(r.members)
		if !m.Invalid {
			r.validAt[m.Slug] = len(r.valid)
			r.valid = append(r.valid, len(r.members))
		}
		r.members = append(r.members, cloneMember(m))
	}

	return r, nil
}

func describe(m Member) string {
	if m.Slug == "" {
		return "no slug"
	}
	return fmt.Sprintf("slug %q", m.Slug)
}

func cloneMember(m Member) Member {
	if m.Feeds != nil {
		m.Feeds = append([]Feed(nil), m.Feeds...)
	}
	return m
}

// Len returns the number of members, invalid ones included.
func (r *Ring) Len() int {
	return len(r.members)
}

// Members returns all members in ring order, invalid ones included.
// The returned slice is a copy.
func (r *Ring) Members() []Member {
	out := make([]Member, len(r.members))
	for i, m := range r.members {
		out[i] = cloneMember(m)
	}
	return out
}

// Valid returns the valid sub-ring in ring order.
func (r *Ring) Valid() []Member {
	out := make([]Member, len(r.valid))
	for i, idx := range r.valid {
		out[i] = cloneMember(r.members[idx])
	}
	return out
}

// Find returns the member with the given slug, valid or not.
func (r *Ring) Find(slug string) (Member, bool) {
	idx, ok := r.bySlug[slug]
	if !ok {
		return Member{}, false
	}
	return cloneMember(r.members[idx]), true
}

// Previous returns the valid member before slug, wrapping from the first to the last.
func (r *Ring) Previous(slug string) (Member, error) {
	pos, err := r.position(slug)
	if err != nil {
		return Member{}, err
	}
	n := len(r.valid)
	return cloneMember(r.members[r.valid[(pos-1+n)%n]]), nil
}

// Next returns the valid member after slug, wrapping from the last to the first.
func (r *Ring) Next(slug string) (Member, error) {
	pos, err := r.position(slug)
	if err != nil {
		return Member{}, err
	}
	return cloneMember(r.members[r.valid[(pos+1)%len(r.valid)]]), nil
}

// Entry returns the first and last members of the valid sub-ring. Visitors
// entering the ring from outside go "back" from the first and "forward" from the last.
func (r *Ring) Entry() (first, last Member, err error) {
	if len(r.valid) == 0 {
		return Member{}, Member{}, ErrEmptyRing
	}
	first = cloneMember(r.members[r.valid[0]])
	last = cloneMember(r.members[r.valid[len(r.valid)-1]])
	return first, last, nil
}

// position locates slug within the valid sub-ring.
func (r *Ring) position(slug string) (int, error) {
	if len(r.valid) == 0 {
		return 0, ErrEmptyRing
	}
	pos, ok := r.validAt[slug]
	if !ok {
		if idx, known := r.bySlug[slug]; known && r.members[idx].Invalid {
			return 0, fmt.Errorf("%w: %q is marked invalid", ErrMemberNotFound, slug)
		}
		return 0, fmt.Errorf("%w: %q", ErrMemberNotFound, slug)
	}
	return pos, nil
}
