package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errStale is returned when generated artifacts differ from the ring.
var errStale = errors.New("generated artifacts are out of date, run `firechicken build`")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the generated artifacts are current",
	Long: `Generate the artifacts in memory and compare them with the files in the
output directory. Prints a line diff for every stale file and exits non-zero.

The feed list's dateCreated header is ignored.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
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
	drifts, err := s.generator.Check(ctx, artifacts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(drifts) == 0 {
		_, _ = fmt.Fprintln(out, "Artifacts are up to date")
		return nil
	}
	for _, d := range drifts {
		if d.Missing {
			_, _ = fmt.Fprintf(out, "%s (missing)\n", d.Path)
		} else {
			_, _ = fmt.Fprintf(out, "%s\n", d.Path)
		}
		_, _ = fmt.Fprint(out, d.Diff)
	}
	return errStale
}
