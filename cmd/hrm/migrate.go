package main

import (
	"github.com/spf13/cobra"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := a.connect()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := database.Migrate(db.WithContext(cmd.Context())); err != nil {
				return err
			}
			a.logger.Info("database migrated")
			return nil
		},
	}
}
