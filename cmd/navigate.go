package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/firechicken/internal/domain/ring"
	"github.com/zjrosen/firechicken/internal/presentation"
)

var navURLOnly bool

var prevCmd = &cobra.Command{
	Use:   "prev SLUG",
	Short: "Show the member before SLUG in the ring",
	Long: `Show the valid member that /{slug}/prev redirects to, as JSON.

Examples:
  firechicken prev alice
  firechicken prev alice --url`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNavigate(cmd, args[0], "prev", (*ring.Ring).Previous)
	},
}

var nextCmd = &cobra.Command{
	Use:   "next SLUG",
	Short: "Show the member after SLUG in the ring",
	Long: `Show the valid member that /{slug}/next redirects to, as JSON.

Examples:
  firechicken next alice
  firechicken next alice --url`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNavigate(cmd, args[0], "next", (*ring.Ring).Next)
	},
}

func init() {
	for _, c := range []*cobra.Command{prevCmd, nextCmd} {
		c.Flags().BoolVar(&navURLOnly, "url", false, "print only the member URL")
		rootCmd.AddCommand(c)
	}
}

func runNavigate(cmd *cobra.Command, slug, direction string, step func(*ring.Ring, string) (ring.Member, error)) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	r, err := s.loadRing(cmd.Context())
	if err != nil {
		return err
	}

	m, err := step(r, slug)
	if err != nil {
		return err
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	nav := presentation.FromNavigation(slug, direction, m)
	if navURLOnly {
		return formatter.FormatURL(nav.Member)
	}
	return formatter.FormatNavigation(nav)
}
