package product

import (
	"context"

	"catalog-service/internal/domain"
)

// ListParams selects one page of products matching Filter.
type ListParams struct {
	Filter domain.Filter
	Limit  int
	Offset int
}

// UpdateResult carries the row after the update and the image URL it replaced.
type UpdateResult struct {
	Product          domain.Product
	PreviousImageURL *string
}

type Repository interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	List(ctx context.Context, params ListParams) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Update(ctx context.Context, id string, changes domain.ProductChanges) (*UpdateResult, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)
}
