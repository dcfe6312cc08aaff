package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/brokerd/account"
	"github.com/rustyeddy/brokerd/api"
	"github.com/rustyeddy/brokerd/engine"
	"github.com/rustyeddy/brokerd/instrument"
	"github.com/rustyeddy/brokerd/ledger"
	"github.com/rustyeddy/brokerd/portfolio"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log, err := newLogger(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := sql.Open("sqlite3", cfg.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		store, err := ledger.NewSQLite(db)
		if err != nil {
			return err
		}
		catalog, err := instrument.NewSQLite(db)
		if err != nil {
			return err
		}
		accounts, err := account.NewSQLite(db)
		if err != nil {
			return err
		}

		projector := portfolio.NewProjector(store, catalog, cfg.Account.Currency)
		eng := engine.New(catalog, store, projector)

		srv := api.NewServer(eng, projector, catalog, accounts, store, log)
		log.Info("brokerd serving",
			zap.String("listen", cfg.Server.Listen),
			zap.String("db", cfg.Storage.DBPath),
		)
		return srv.Start(cfg.Server.Listen, cfg.Server.CORSOrigins)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err == nil {
		cfg.Level = lvl
	}
	return cfg.Build()
}
