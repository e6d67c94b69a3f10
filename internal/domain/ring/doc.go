// Package ring implements the domain layer for the webring membership model.
//
// This package follows the same layering as the rest of the domain packages:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines the entity types (Ring, Member) and the Feed value object
//   - Implements ring traversal (previous/next with wraparound and invalid-member skipping)
//   - Has no knowledge of infrastructure concerns (file I/O, TOML/YAML parsing, output formats)
//
// # Core Types
//
// Member is one participant in the ring. Members flagged Invalid stay in the ring for
// listings but are never part of traversal.
//
// Ring is the immutable, ordered member collection. The order members are given to New
// is the traversal order; it is never re-sorted. Slugs are unique within a ring.
//
// # Navigation
//
// Previous and Next walk the valid sub-ring, the ordered subsequence of members that are
// not invalid. The sub-ring is computed once in New, so navigation is a map lookup plus
// index arithmetic:
//
//	r, _ := ring.New(a, b, c)  // b is invalid
//	r.Previous("a")           // c (wraps around, b is skipped)
//	r.Next("c")               // a
//
// Navigation fails with ErrEmptyRing when no valid member exists and with
// ErrMemberNotFound when the origin slug is unknown or names an invalid member.
package ring
