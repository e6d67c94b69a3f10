package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the redirect table and feed list",
	Long: `Load the ring and write the redirect table and the OPML feed list to the
output directory.

Nothing is written unless every artifact could be generated.

Examples:
  # Use the configured ring file and output directory
  firechicken build

  # Override both
  firechicken build --ring ring.yaml --out public`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	r, err := s.loadRing(ctx)
	if err != nil {
		return err
	}

	artifacts, err := s.generator.Generate(ctx, r)
	if err != nil {
		return err
	}
	if err := s.generator.Write(ctx, artifacts); err != nil {
		return err
	}

	// Generate succeeded, so the valid sub-ring is not empty
	first, last, err := r.Entry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Wrote %d redirect rules to %s\n", len(artifacts.Rules), artifacts.Redirects.Path)
	_, _ = fmt.Fprintf(out, "Wrote %d feeds to %s\n", artifacts.Outlines, artifacts.Feeds.Path)
	_, _ = fmt.Fprintf(out, "Ring entry links: %s and %s\n", first.PrevPath(), last.NextPath())
	if skipped := artifacts.Members - artifacts.ValidMembers; skipped > 0 {
		_, _ = fmt.Fprintf(out, "Skipped %d invalid member(s)\n", skipped)
	}
	return nil
}
