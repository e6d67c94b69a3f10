package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/firechicken/internal/domain/ring"
	"github.com/zjrosen/firechicken/internal/presentation"
)

var (
	membersTable     bool
	membersValidOnly bool
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List ring members",
	Long: `List ring members in ring order as JSON.

Valid members include the prev_path and next_path their site should link to.

Examples:
  # All members, including invalid ones
  firechicken members

  # Only members currently in the ring, as a table
  firechicken members --valid --table

  # Parse specific fields with jq
  firechicken members | jq '.[].slug'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		r, err := s.loadRing(cmd.Context())
		if err != nil {
			return err
		}

		var members []ring.Member
		if membersValidOnly {
			members = r.Valid()
		} else {
			members = r.Members()
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		dtos := presentation.FromDomainMembers(members)
		if membersTable {
			return formatter.FormatMemberTable(dtos)
		}
		return formatter.FormatMembers(dtos)
	},
}

func init() {
	membersCmd.Flags().BoolVarP(&membersTable, "table", "t", false, "render a table instead of JSON")
	membersCmd.Flags().BoolVar(&membersValidOnly, "valid", false, "only list members currently in the ring")
	rootCmd.AddCommand(membersCmd)
}
