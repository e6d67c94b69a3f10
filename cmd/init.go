package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/firechicken/internal/config"
	"github.com/zjrosen/firechicken/internal/log"
	"github.com/zjrosen/firechicken/internal/ring/loader"
	"github.com/zjrosen/firechicken/internal/templates"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config and ring file",
	Long: `Write the default config to ` + config.DefaultConfigPath + ` and an example ring
file to the configured ring path. Existing files are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	configPath := config.DefaultConfigPath
	if cfgFile != "" {
		configPath = cfgFile
	}

	if exists(configPath) {
		_, _ = fmt.Fprintf(out, "Skipped %s (already exists)\n", configPath)
	} else {
		if err := config.WriteDefaultConfig(configPath); err != nil {
			return err
		}
		log.Info(log.CatConfig, "Wrote default config", "path", configPath)
		_, _ = fmt.Fprintf(out, "Wrote %s\n", configPath)
	}

	if exists(cfg.Ring) {
		_, _ = fmt.Fprintf(out, "Skipped %s (already exists)\n", cfg.Ring)
		return nil
	}
	if format, err := loader.FormatFromPath(cfg.Ring); err != nil || format != loader.FormatTOML {
		return fmt.Errorf("example ring is TOML, set --ring to a .toml path (got %s)", cfg.Ring)
	}
	if dir := filepath.Dir(cfg.Ring); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating ring directory: %w", err)
		}
	}
	if err := os.WriteFile(cfg.Ring, templates.ExampleRing(), 0o644); err != nil {
		return fmt.Errorf("writing example ring: %w", err)
	}
	log.Info(log.CatConfig, "Wrote example ring", "path", cfg.Ring)
	_, _ = fmt.Fprintf(out, "Wrote %s\n", cfg.Ring)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
