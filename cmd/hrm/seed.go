package main

import (
	"github.com/spf13/cobra"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
)

func newSeedCmd(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin role, the admin account and default leave types",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := a.connect()
			if err != nil {
				return err
			}
			defer closeDB()

			if migrate {
				if err := database.Migrate(db.WithContext(cmd.Context())); err != nil {
					return err
				}
			}
			if err := database.Seed(cmd.Context(), db, database.SeedOptions{
				Catalog:       permissions.Default(),
				AdminEmail:    a.cfg.AdminEmail,
				AdminPassword: a.cfg.AdminPassword,
			}); err != nil {
				return err
			}
			a.logger.WithField("email", a.cfg.AdminEmail).Info("seeded admin account")
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run migrations first")
	return cmd
}
