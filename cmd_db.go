package main

import (
	"context"
	"fmt"

	"workcafe/config"
	"workcafe/database"
	"workcafe/model"
	"workcafe/repository"
	"workcafe/utils"

	"github.com/spf13/cobra"
)

// migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the cafe and user tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		utils.ConfigureLogger(cfg.LogLevel, cfg.LogFormat)
		_, err := database.InitDatabase(cfg)
		return err
	},
}

// promote <email>
var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant the administrator role to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		utils.ConfigureLogger(cfg.LogLevel, cfg.LogFormat)
		db, err := database.InitDatabase(cfg)
		if err != nil {
			return err
		}

		users := repository.NewUserRepository(db)
		if err := users.SetRole(context.Background(), args[0], model.Admin); err != nil {
			return fmt.Errorf("promote %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now an administrator\n", args[0])
		return nil
	},
}
