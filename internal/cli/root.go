package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lazypower/keepsharp/internal/config"
)

var (
	cfgFile string
	dbPath  string

	// cfg is loaded before every command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "keepsharp",
	Short: "Track the skills you don't want to lose",
	Long:  "keepsharp logs practice sessions and tells you which skills are going rusty.",

	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./keepsharp.toml or ~/.keepsharp/keepsharp.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "storage path, overrides storage.path")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.Storage.Path = dbPath
	}
	cfg = c
	return nil
}
