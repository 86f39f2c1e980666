package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"catalog-service/internal/importer"
)

// catalogctl import products.csv
var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Create products from a CSV file",
	Long: `Create one product per CSV row. The header must name the columns
name, price, stockQuantity and sku; description, ean, family, category and
image are optional. An image cell holds a data URI or @path to a local file
relative to the CSV file. Rows whose sku already exists are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open file: %w", err)
		}
		defer f.Close()

		svc, closeFn, err := bootCatalog(cmd.Context(), "import")
		if err != nil {
			return err
		}
		defer closeFn()

		imp := importer.NewCSVImporter(f, svc, newLogger("import"))
		imp.BaseDir = filepath.Dir(args[0])

		start := time.Now()
		res, err := imp.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("import failed after %d product(s): %w", res.Imported, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products (%d skipped) in %s\n",
			res.Imported, res.Skipped, time.Since(start).Truncate(time.Millisecond))
		return nil
	},
}
