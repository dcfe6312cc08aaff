package cmd

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/brokerd/account"
	"github.com/rustyeddy/brokerd/instrument"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and a small demo universe",
	Long: `Seed creates the database schema plus a demo account, a peso
currency instrument and a handful of equities with quotes. Intended for
local development only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := sql.Open("sqlite3", cfg.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		catalog, err := instrument.NewSQLite(db)
		if err != nil {
			return err
		}
		accounts, err := account.NewSQLite(db)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		acct, err := accounts.Create(ctx, "demo@example.com")
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		seedInstruments := []struct {
			ticker, name string
			class        instrument.Classification
			close, prev  string
		}{
			{cfg.Account.Currency, cfg.Account.Currency, instrument.Currency, "1", "1"},
			{"DYCA", "Dycasa S.A.", instrument.Equity, "260", "252"},
			{"MOLA", "Molinos Agro S.A.", instrument.Equity, "6580", "6520.25"},
			{"METR", "MetroGAS S.A.", instrument.Equity, "229.5", "231"},
		}
		for _, si := range seedInstruments {
			instID, err := catalog.AddInstrument(ctx, si.ticker, si.name, si.class)
			if err != nil {
				return err
			}
			err = catalog.AddQuote(ctx, instrument.Quote{
				InstrumentID:  instID,
				Close:         decimal.RequireFromString(si.close),
				PreviousClose: decimal.RequireFromString(si.prev),
				Date:          now,
			})
			if err != nil {
				return err
			}
		}

		fmt.Printf("seeded %s: account %d, %d instruments\n",
			cfg.Storage.DBPath, acct.ID, len(seedInstruments))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
