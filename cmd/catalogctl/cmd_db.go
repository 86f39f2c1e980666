package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalog-service/internal/migrate"
	"catalog-service/internal/seed"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

// catalogctl migrate up
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, pool, err := bootDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrate.Apply(cmd.Context(), pool); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var rollbackSteps int

// catalogctl migrate down --steps N
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, pool, err := bootDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrate.Rollback(cmd.Context(), pool, rollbackSteps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d step(s)\n", rollbackSteps)
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, pool, err := bootDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		version, dirty, err := migrate.Version(cmd.Context(), pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
		return nil
	},
}

// catalogctl seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo products (existing skus are left alone)",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := bootCatalog(cmd.Context(), "seed")
		if err != nil {
			return err
		}
		defer closeFn()

		n, err := seed.Apply(cmd.Context(), svc)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d product(s)\n", n)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "number of migrations to roll back")
}
