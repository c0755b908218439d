package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rpattn/neoql/internal/config"
	"github.com/rpattn/neoql/internal/ingestion"
	"github.com/rpattn/neoql/internal/repository"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "neoql",
	Short:         "Explore near-Earth objects and their close approaches",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
	rootCmd.AddCommand(inspectCmd, queryCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadDatabase reads the configured data products and links them.
func loadDatabase(ctx context.Context) (*repository.NeoDatabase, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, err
	}

	loader := ingestion.NewService(cfg.Data.NeoCSV, cfg.Data.CadJSON)
	db, _, err := loader.Load(ctx)
	if err != nil {
		return nil, config.Config{}, err
	}
	return db, cfg, nil
}
