package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/brokerd/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "brokerd",
	Short: "A brokerage order-admission service",
	Long: `Brokerd accepts cash movements and equity orders against user accounts.

Balances and holdings are never stored: they are recomputed from the
append-only order ledger on every read, and each new order is admitted
synchronously against that derived state.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for local development; missing file is fine.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}
