package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/firechicken/internal/config"
	"github.com/zjrosen/firechicken/internal/log"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	configErr error
	logCloser func()
)

var rootCmd = &cobra.Command{
	Use:   "firechicken",
	Short: "Generate the Fire Chicken webring's redirects and feed list",
	Long: `firechicken reads the webring member list and generates the ring's
redirect table (/{slug}/prev and /{slug}/next) and an OPML list of every
member's feeds.

Members marked invalid stay listed but are skipped by the ring.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: "+config.DefaultConfigPath+" or ~/.config/firechicken/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write debug logs (path from FIRECHICKEN_LOG, default debug.log)")
	rootCmd.PersistentFlags().StringP("ring", "r", "",
		"ring file (.toml, .yaml or .json)")
	rootCmd.PersistentFlags().StringP("out", "o", "",
		"output directory for generated artifacts")
}

func initConfig() {
	cfg = config.Config{}
	configErr = nil

	defaults := config.Defaults()
	viper.SetDefault("ring", defaults.Ring)
	viper.SetDefault("out_dir", defaults.OutDir)
	viper.SetDefault("redirects_file", defaults.RedirectsFile)
	viper.SetDefault("feeds_file", defaults.FeedsFile)
	viper.SetDefault("feeds.title", defaults.Feeds.Title)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	// Bind flags to viper
	_ = viper.BindPFlag("ring", rootCmd.PersistentFlags().Lookup("ring"))
	_ = viper.BindPFlag("out_dir", rootCmd.PersistentFlags().Lookup("out"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .firechicken/config.yaml (current directory)
		// 2. ~/.config/firechicken/config.yaml (user config)
		if _, err := os.Stat(config.DefaultConfigPath); err == nil {
			viper.SetConfigFile(config.DefaultConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "firechicken"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file anywhere means defaults plus flags
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading config: %w", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil && configErr == nil {
		configErr = fmt.Errorf("decoding config: %w", err)
	}
}

// setup enables logging and rejects an unusable config before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	// Initialize logging if debug mode enabled (via flag or env var)
	if os.Getenv("FIRECHICKEN_DEBUG") != "" || debugFlag {
		logPath := os.Getenv("FIRECHICKEN_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}

		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCloser = cleanup

		log.Info(log.CatConfig, "firechicken starting", "version", version, "config", viper.ConfigFileUsed())
	}

	if configErr != nil {
		return configErr
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	defer func() {
		if logCloser != nil {
			logCloser()
		}
	}()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
