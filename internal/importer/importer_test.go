package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalog-service/internal/domain"
	productsvc "catalog-service/internal/service/product"
)

type stubWriter struct {
	items []productsvc.CreateInput
	skus  map[string]bool
	err   error
}

func (s *stubWriter) Create(_ context.Context, in productsvc.CreateInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.skus == nil {
		s.skus = map[string]bool{}
	}
	if s.skus[in.SKU] {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateSKU, in.SKU)
	}
	s.skus[in.SKU] = true
	s.items = append(s.items, in)
	return &domain.Product{ID: fmt.Sprintf("id-%d", len(s.items)), SKU: in.SKU}, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `Name,Description,Price,StockQuantity,SKU,EAN,Family,Category,Image
Desk lamp,Adjustable arm,39.90,4,LAMP-1,8412345678905,lighting,desk,"data:image/png;base64,AAAA"
Kettle,,24.5,0,KET-1,,,kitchen,

Desk lamp again,dup,1,1,LAMP-1,,,,`

	w := &stubWriter{}
	imp := NewCSVImporter(strings.NewReader(csvData), w, nil)

	res, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 1 {
		t.Fatalf("expected 2 imported and 1 skipped, got %+v", res)
	}

	first := w.items[0]
	if first.Name != "Desk lamp" || first.SKU != "LAMP-1" || first.Price.String() != "39.9" || *first.StockQuantity != 4 {
		t.Fatalf("unexpected first product: %+v", first)
	}
	if first.EAN == nil || *first.EAN != "8412345678905" || *first.Family != "lighting" || *first.Category != "desk" {
		t.Fatalf("unexpected optional fields: %+v", first)
	}
	if first.Base64Image == nil || *first.Base64Image != "data:image/png;base64,AAAA" {
		t.Fatalf("expected image payload, got %v", first.Base64Image)
	}

	second := w.items[1]
	if second.EAN != nil || second.Family != nil || second.Base64Image != nil {
		t.Fatalf("expected empty cells to stay unset: %+v", second)
	}
	if second.Description == nil || *second.Description != "" {
		t.Fatalf("expected empty description, got %v", second.Description)
	}
}

func TestCSVImporter_ImageFromFile(t *testing.T) {
	dir := t.TempDir()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if err := os.WriteFile(filepath.Join(dir, "lamp.png"), png, 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}

	csvData := "name,price,stockQuantity,sku,image\nLamp,1,1,L-1,@lamp.png\n"
	w := &stubWriter{}
	imp := NewCSVImporter(strings.NewReader(csvData), w, nil)
	imp.BaseDir = dir

	if _, err := imp.Run(context.Background()); err != nil {
		t.Fatalf("import run: %v", err)
	}
	if got := *w.items[0].Base64Image; !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Fatalf("expected png data uri, got %q", got)
	}
}

func TestCSVImporter_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		err  error
	}{
		{name: "missing column", csv: "name,price,sku\nA,1,S\n"},
		{name: "bad price", csv: "name,price,stockQuantity,sku\nA,ten,1,S\n", err: domain.ErrValidation},
		{name: "bad stock", csv: "name,price,stockQuantity,sku\nA,1,1.5,S\n", err: domain.ErrValidation},
		{name: "missing image file", csv: "name,price,stockQuantity,sku,image\nA,1,1,S,@nope.png\n", err: os.ErrNotExist},
		{name: "not an image", csv: "name,price,stockQuantity,sku,image\nA,1,1,S,@notes.txt\n", err: domain.ErrMalformedPayload},
		{name: "unsupported image subtype", csv: "name,price,stockQuantity,sku,image\nA,1,1,S,@favicon.ico\n", err: domain.ErrMalformedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "notes.txt"), []byte("plain text"))
			// sniffed as image/x-icon
			writeFile(t, filepath.Join(dir, "favicon.ico"), []byte("\x00\x00\x01\x00\x01\x00\x10\x10"))

			w := &stubWriter{}
			imp := NewCSVImporter(strings.NewReader(tt.csv), w, nil)
			imp.BaseDir = dir
			_, err := imp.Run(context.Background())
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if len(w.items) != 0 {
				t.Fatalf("expected nothing written, got %d product(s)", len(w.items))
			}
		})
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCSVImporter_StopsOnWriterFailure(t *testing.T) {
	w := &stubWriter{err: errors.New("db down")}
	imp := NewCSVImporter(strings.NewReader("name,price,stockQuantity,sku\nA,1,1,S\nB,1,1,T\n"), w, nil)

	res, err := imp.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "row 2") {
		t.Fatalf("expected error naming row 2, got %v", err)
	}
	if res.Imported != 0 {
		t.Fatalf("expected nothing imported, got %+v", res)
	}
}
