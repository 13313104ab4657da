// Package command holds the silverlink CLI. The root command runs the
// HTTP server; sub-commands answer ranking and distance queries against
// the bundled catalog without starting it.
//
//	./silverlink [--seed catalog.yaml]
//	./silverlink activities concerts --sort popular
//	./silverlink distance 37.5665,126.9780 37.5720,126.9793
package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/askwhyharsh/silverlink/internal/catalog"
	"github.com/askwhyharsh/silverlink/internal/config"
)

var seedPath string

var rootCmd = &cobra.Command{
	Use:   "silverlink",
	Short: "Community site for active seniors",
	Long: `Silverlink serves activity listings ranked by recency, popularity
or fill ratio, a member directory ordered by distance, and member
accounts with editable profiles.`,
	SilenceUsage: true,
	RunE:         runServer,
}

// Execute parses the command line and runs the selected command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&seedPath, "seed", "", "catalog seed file (defaults to SEED_FILE or the bundled catalog)",
	)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if seedPath != "" {
		cfg.Catalog.SeedFile = seedPath
	}
	return cfg, nil
}

func loadCatalog(cfg *config.Config) (*catalog.MemoryProvider, error) {
	seed, err := catalog.LoadSeed(cfg.Catalog.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %q: %w", cfg.Catalog.SeedFile, err)
	}
	return catalog.NewMemoryProvider(seed), nil
}
