package main

import (
	"github.com/spf13/cobra"

	"job-tracker/infrastructure"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the applications table and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := infrastructure.OpenDatabase(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := infrastructure.Migrate(db); err != nil {
			return err
		}
		log.Info("✅ Schema migrated")
		return nil
	},
}
