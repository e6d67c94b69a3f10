package presentation

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	invalidStyle = cellStyle.Foreground(lipgloss.Color("241")).Strikethrough(true)
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatMembers formats a list of members as JSON
func (f *Formatter) FormatMembers(members []MemberDTO) error {
	return f.encode(members)
}

// FormatNavigation formats a prev/next answer as JSON
func (f *Formatter) FormatNavigation(nav NavigationDTO) error {
	return f.encode(nav)
}

// FormatURL writes only the member URL, for use in shell pipelines
func (f *Formatter) FormatURL(m MemberDTO) error {
	_, err := fmt.Fprintln(f.writer, m.URL)
	return err
}

// FormatMemberTable renders members as a terminal table. Invalid members are
// dimmed and struck through.
func (f *Formatter) FormatMemberTable(members []MemberDTO) error {
	rows := make([][]string, len(members))
	for i, m := range members {
		status := "valid"
		if m.Invalid {
			status = "invalid"
		}
		rows[i] = []string{m.Slug, m.Name, m.Host, m.Joined, status}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SLUG", "NAME", "SITE", "JOINED", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(members) && members[row].Invalid:
				return invalidStyle
			default:
				return cellStyle
			}
		})

	_, err := fmt.Fprintln(f.writer, t.Render())
	return err
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
