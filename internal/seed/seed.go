package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"catalog-service/internal/domain"
	productsvc "catalog-service/internal/service/product"
)

// Catalog is the part of the product service the seeder needs.
type Catalog interface {
	GetBySKU(ctx context.Context, sku string) (*domain.Product, bool, error)
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
}

type productSeed struct {
	SKU         string
	Name        string
	Description string
	Price       string
	Stock       int
	Family      string
	Category    string
}

var products = []productSeed{
	{SKU: "SKU-DEMO-TSHIRT", Name: "Demo T-Shirt", Description: "Soft cotton tee for demo purposes", Price: "19.99", Stock: 120, Family: "apparel", Category: "tops"},
	{SKU: "SKU-DEMO-MUG", Name: "Demo Mug", Description: "Ceramic mug with demo logo", Price: "12.99", Stock: 60, Family: "home", Category: "kitchen"},
	{SKU: "SKU-DEMO-CAFE", Name: "Café Grande Beans", Description: "Whole roasted coffee beans, 1kg", Price: "24.50", Stock: 35, Family: "food", Category: "coffee"},
	{SKU: "SKU-DEMO-LAMP", Name: "Lámpara de escritorio", Description: "Adjustable desk lamp", Price: "39.90", Stock: 8, Family: "home", Category: "lighting"},
}

// Apply creates demo products for manual testing. Products whose sku already
// exists are left untouched, so running it twice is harmless.
func Apply(ctx context.Context, catalog Catalog) (int, error) {
	created := 0
	for _, s := range products {
		_, found, err := catalog.GetBySKU(ctx, s.SKU)
		if err != nil {
			return created, fmt.Errorf("lookup %s: %w", s.SKU, err)
		}
		if found {
			continue
		}

		price := decimal.RequireFromString(s.Price)
		desc, stock, family, category := s.Description, s.Stock, s.Family, s.Category
		_, err = catalog.Create(ctx, productsvc.CreateInput{
			Name:          s.Name,
			Description:   &desc,
			Price:         &price,
			StockQuantity: &stock,
			SKU:           s.SKU,
			Family:        &family,
			Category:      &category,
		})
		if err != nil {
			return created, fmt.Errorf("create %s: %w", s.SKU, err)
		}
		created++
	}
	return created, nil
}
