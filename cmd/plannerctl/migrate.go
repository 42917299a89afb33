package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/database"
)

func newMigrateCmd(logger func() *zap.Logger) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the Postgres schema",
		Long: `Apply or roll back the embedded SQL migrations.

The connection string comes from --dsn, then DATABASE_URL, then the DB_*
settings used by the API server.`,
	}
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres connection string")

	resolveDSN := func() (string, error) {
		if dsn != "" {
			return dsn, nil
		}
		if env := os.Getenv("DATABASE_URL"); env != "" {
			return env, nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return "", err
		}
		return cfg.PostgresDSN(), nil
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := resolveDSN()
			if err != nil {
				return err
			}
			db, err := database.OpenPostgres(target)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.MigrateUp(cmd.Context(), db, logger())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := resolveDSN()
			if err != nil {
				return err
			}
			db, err := database.OpenPostgres(target)
			if err != nil {
				return err
			}
			defer db.Close()

			name, err := database.MigrateDown(cmd.Context(), db, logger())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", name)
			return nil
		},
	}

	cmd.AddCommand(up, down)
	return cmd
}
