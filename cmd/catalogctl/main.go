package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"catalog-service/internal/blobstore"
	"catalog-service/internal/config"
	"catalog-service/internal/db"
	productrepo "catalog-service/internal/repository/product"
	productsvc "catalog-service/internal/service/product"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Administer the catalog database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every statement and row")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd, seedCmd, importCmd)
}

func newLogger(prefix string) *log.Logger {
	if !verbose {
		return nil
	}
	return log.New(os.Stderr, "["+prefix+"] ", log.LstdFlags|log.LUTC)
}

// bootDB loads config and opens the database pool.
func bootDB(ctx context.Context) (config.Config, *pgxpool.Pool, error) {
	cfg := config.FromEnv()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		return cfg, nil, fmt.Errorf("connect db: %w", err)
	}
	return cfg, pool, nil
}

// bootCatalog builds the product service the same way the API does, minus the cache.
func bootCatalog(ctx context.Context, prefix string) (*productsvc.Service, func(), error) {
	cfg, pool, err := bootDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(prefix)

	var images productsvc.ImageStore
	if cfg.Storage.Bucket != "" {
		store, err := blobstore.NewS3(ctx, cfg.Storage, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		images = store
	}

	svc := productsvc.New(productrepo.NewPostgres(pool, logger), images, productsvc.WithLogger(logger))
	return svc, pool.Close, nil
}
