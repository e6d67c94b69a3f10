package presentation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/firechicken/internal/testutil"
)

func TestFromDomainMember_Valid(t *testing.T) {
	r := testutil.NewBuilder(t).
		WithMember("alice", testutil.Name("Alice"), testutil.URL("https://alice.dev/"),
			testutil.Feed(testutil.FeedData{XMLURL: "https://alice.dev/rss.xml"}),
			testutil.Feed(testutil.FeedData{XMLURL: "https://alice.dev/notes.xml", Title: "Notes", HTMLURL: "https://alice.dev/notes/"}),
		).
		Build()

	m, ok := r.Find("alice")
	require.True(t, ok)

	dto := FromDomainMember(m)

	require.Equal(t, "alice", dto.Slug)
	require.Equal(t, "Alice", dto.Name)
	require.Equal(t, "https://alice.dev/", dto.URL)
	require.Equal(t, "alice.dev", dto.Host)
	require.Equal(t, "2023-11-13", dto.Joined)
	require.False(t, dto.Invalid)
	require.Equal(t, "/alice/prev", dto.PrevPath)
	require.Equal(t, "/alice/next", dto.NextPath)
	require.Equal(t, []FeedDTO{
		{XMLURL: "https://alice.dev/rss.xml", Title: "Alice", HTMLURL: "https://alice.dev/"},
		{XMLURL: "https://alice.dev/notes.xml", Title: "Notes", HTMLURL: "https://alice.dev/notes/"},
	}, dto.Feeds)
}

func TestFromDomainMember_InvalidHasNoPaths(t *testing.T) {
	r := testutil.NewBuilder(t).WithMember("broken", testutil.Invalid()).Build()
	m, _ := r.Find("broken")

	dto := FromDomainMember(m)

	require.True(t, dto.Invalid)
	require.Empty(t, dto.PrevPath)
	require.Empty(t, dto.NextPath)
	require.NotNil(t, dto.Feeds)
}

func TestFormatMembers_JSON(t *testing.T) {
	r := testutil.NewBuilder(t).
		WithMember("a").
		WithMember("b", testutil.Invalid()).
		Build()

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatMembers(FromDomainMembers(r.Members())))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "a", decoded[0]["slug"])
	require.Equal(t, "/a/next", decoded[0]["next_path"])
	require.Equal(t, true, decoded[1]["invalid"])
	require.NotContains(t, decoded[1], "next_path")
	require.Contains(t, buf.String(), "\n  {")
}

func TestFormatNavigation(t *testing.T) {
	r := testutil.NewBuilder(t).WithMember("a").WithMember("b").Build()
	next, err := r.Next("a")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatNavigation(FromNavigation("a", "next", next)))

	var decoded NavigationDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "a", decoded.From)
	require.Equal(t, "next", decoded.Direction)
	require.Equal(t, "b", decoded.Member.Slug)
}

func TestFormatURL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatURL(MemberDTO{URL: "https://b.example.com/"}))
	require.Equal(t, "https://b.example.com/\n", buf.String())
}

func TestFormatMemberTable(t *testing.T) {
	r := testutil.NewBuilder(t).
		WithMember("alice", testutil.Name("Alice")).
		WithMember("bob", testutil.Invalid()).
		Build()

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatMemberTable(FromDomainMembers(r.Members())))

	out := buf.String()
	for _, want := range []string{"SLUG", "NAME", "SITE", "alice", "Alice", "alice.example.com", "bob", "invalid"} {
		require.Contains(t, out, want)
	}
	require.Less(t, strings.Index(out, "alice"), strings.Index(out, "bob"))
}

func TestFormatMemberTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatMemberTable(nil))
	require.Contains(t, buf.String(), "SLUG")
}
