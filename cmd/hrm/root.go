package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/config"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
)

type app struct {
	envFiles []string
	cfg      *config.Config
	logger   *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "hrm",
		Short:         "Human resources management server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.envFiles...)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.NewLogger()
			return nil
		},
	}
	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "Env files to load (default .env, .env.local)")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newSeedCmd(a))
	return cmd
}

func (a *app) connect() (*gorm.DB, func(), error) {
	db, err := database.Connect(a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}
