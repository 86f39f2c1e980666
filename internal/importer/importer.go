package importer

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"catalog-service/internal/blobstore"
	"catalog-service/internal/domain"
	productsvc "catalog-service/internal/service/product"
)

// ProductWriter is the part of the catalog service the importer drives.
type ProductWriter interface {
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
}

// Result counts what happened to the data rows of one file.
type Result struct {
	Imported int
	Skipped  int
}

// CSVImporter creates products from a CSV file with a header row. Recognised
// columns: name, description, price, stockQuantity, sku, ean, family,
// category, image. The image column holds a data URI or "@path" to a local
// file resolved against BaseDir.
type CSVImporter struct {
	reader  *csv.Reader
	writer  ProductWriter
	logger  *log.Logger
	BaseDir string
}

func NewCSVImporter(r io.Reader, writer ProductWriter, logger *log.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CSVImporter{reader: csvr, writer: writer, logger: logger, BaseDir: "."}
}

// Run creates one product per row. Rows whose sku already exists are skipped;
// any other failure stops the import.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "price", "stockquantity", "sku"} {
		if _, ok := index[required]; !ok {
			return res, fmt.Errorf("missing column %q", required)
		}
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		in, err := i.parseRow(record, index)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}

		p, err := i.writer.Create(ctx, in)
		switch {
		case errors.Is(err, domain.ErrDuplicateSKU):
			i.logger.Printf("importer: row %d sku=%s exists, skipped", line, in.SKU)
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("row %d sku=%s: %w", line, in.SKU, err)
		default:
			i.logger.Printf("importer: row %d created id=%s sku=%s", line, p.ID, p.SKU)
			res.Imported++
		}
	}
	return res, nil
}

func (i *CSVImporter) parseRow(record []string, index map[string]int) (productsvc.CreateInput, error) {
	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil {
		return productsvc.CreateInput{}, fmt.Errorf("%w: price: %v", domain.ErrValidation, err)
	}
	stock, err := strconv.Atoi(pick(record, index, "stockquantity"))
	if err != nil {
		return productsvc.CreateInput{}, fmt.Errorf("%w: stockQuantity: %v", domain.ErrValidation, err)
	}
	desc := pick(record, index, "description")

	in := productsvc.CreateInput{
		Name:          pick(record, index, "name"),
		Description:   &desc,
		Price:         &price,
		StockQuantity: &stock,
		SKU:           pick(record, index, "sku"),
		EAN:           optional(pick(record, index, "ean")),
		Family:        optional(pick(record, index, "family")),
		Category:      optional(pick(record, index, "category")),
	}

	image := pick(record, index, "image")
	if path, ok := strings.CutPrefix(image, "@"); ok {
		image, err = i.loadImage(path)
		if err != nil {
			return productsvc.CreateInput{}, err
		}
	}
	in.Base64Image = optional(image)
	return in, nil
}

// loadImage reads a local image and encodes it as a data URI.
func (i *CSVImporter) loadImage(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(i.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s is %s", domain.ErrMalformedPayload, path, contentType)
	}
	uri := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	// the store only keeps simple subtypes such as png or jpeg, not x-icon
	if _, err := blobstore.ParsePayload(uri); err != nil {
		return "", fmt.Errorf("%s is %s: %w", path, contentType, err)
	}
	return uri, nil
}

// headerIndex maps lower-cased column names to their position.
func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
