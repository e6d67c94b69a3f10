package presentation

import (
	"github.com/zjrosen/firechicken/internal/domain/ring"
)

// MemberDTO represents a ring member for presentation
type MemberDTO struct {
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Host     string    `json:"host"`
	Joined   string    `json:"joined"`
	Invalid  bool      `json:"invalid"`
	PrevPath string    `json:"prev_path,omitempty"` // only set for valid members
	NextPath string    `json:"next_path,omitempty"`
	Feeds    []FeedDTO `json:"feeds"`
}

// FeedDTO represents one member feed with its display fallbacks applied
type FeedDTO struct {
	XMLURL  string `json:"xml_url"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
}

// NavigationDTO is the answer to a prev/next query
type NavigationDTO struct {
	From      string    `json:"from"`
	Direction string    `json:"direction"`
	Member    MemberDTO `json:"member"`
}

// FromDomainMember converts a domain member to a DTO
func FromDomainMember(m ring.Member) MemberDTO {
	feeds := make([]FeedDTO, len(m.Feeds))
	for i, f := range m.Feeds {
		feeds[i] = FeedDTO{
			XMLURL:  f.XMLURL.String(),
			Title:   f.DisplayTitle(m),
			HTMLURL: f.LandingPage(m).String(),
		}
	}

	dto := MemberDTO{
		Slug:    m.Slug,
		Name:    m.Name,
		URL:     m.URL.String(),
		Host:    m.Host(),
		Joined:  m.Joined.Format(ring.DateLayout),
		Invalid: m.Invalid,
		Feeds:   feeds,
	}
	if !m.Invalid {
		dto.PrevPath = m.PrevPath()
		dto.NextPath = m.NextPath()
	}
	return dto
}

// FromDomainMembers converts a slice of domain members to DTOs
func FromDomainMembers(members []ring.Member) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = FromDomainMember(m)
	}
	return dtos
}

// FromNavigation builds the DTO for a resolved neighbour
func FromNavigation(from, direction string, m ring.Member) NavigationDTO {
	return NavigationDTO{
		From:      from,
		Direction: direction,
		Member:    FromDomainMember(m),
	}
}
