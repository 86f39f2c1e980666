package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"catalog-service/internal/domain"
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextRepr   = "22P02"
	skuUniqueConstraint = "products_sku_key"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, price, stock_quantity, sku, ean, family, category, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + productColumns

	out, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name,
		p.Description,
		p.Price,
		p.StockQuantity,
		p.SKU,
		nullIfEmpty(p.EAN),
		nullIfEmpty(p.Family),
		nullIfEmpty(p.Category),
		nullIfEmpty(p.ImageURL),
	))
	if err != nil {
		err = translateError(err)
		r.logger.Printf("product repo: create sku=%s error=%v", p.SKU, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s sku=%s", out.ID, out.SKU)
	return &out, nil
}

func (r *postgresRepo) List(ctx context.Context, params ListParams) ([]domain.Product, int, error) {
	where, args, err := buildWhere(params.Filter, nil)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT count(*) FROM products` + where
	pageArgs := append(append([]any{}, args...), params.Limit, params.Offset)
	pageQuery := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY created_at DESC, id ASC LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)

	var (
		total  int
		result []domain.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.pool.QueryRow(gctx, countQuery, args...).Scan(&total)
	})
	g.Go(func() error {
		rows, err := r.pool.Query(gctx, pageQuery, pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			result = append(result, p)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		r.logger.Printf("product repo: list limit=%d offset=%d error=%v", params.Limit, params.Offset, err)
		return nil, 0, err
	}

	r.logger.Printf("product repo: list limit=%d offset=%d count=%d total=%d", params.Limit, params.Offset, len(result), total)
	return result, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.getOne(ctx, q, "id", id)
}

func (r *postgresRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.getOne(ctx, q, "sku", sku)
}

func (r *postgresRepo) getOne(ctx context.Context, q, key, value string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, q, value))
	if err != nil {
		err = translateError(err)
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: get %s=%s not found", key, value)
			return nil, err
		}
		r.logger.Printf("product repo: get %s=%s error=%v", key, value, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, changes domain.ProductChanges) (*UpdateResult, error) {
	if changes.Empty() {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &UpdateResult{Product: *p, PreviousImageURL: p.ImageURL}, nil
	}

	set, args := buildSet(changes, nil)
	args = append(args, id)
	q := `
UPDATE products p SET ` + set + `
FROM (SELECT id, image_url FROM products WHERE id = ` + placeholder(len(args)) + ` FOR UPDATE) old
WHERE p.id = old.id
RETURNING p.id::text, p.name, p.description, p.price, p.stock_quantity, p.sku, p.ean, p.family, p.category, p.image_url, p.created_at, old.image_url`

	var res UpdateResult
	pr := &res.Product
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&pr.ID, &pr.Name, &pr.Description, &pr.Price, &pr.StockQuantity, &pr.SKU,
		&pr.EAN, &pr.Family, &pr.Category, &pr.ImageURL, &pr.CreatedAt, &res.PreviousImageURL,
	)
	if err != nil {
		err = translateError(err)
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return nil, err
	}
	r.logger.Printf("product repo: updated id=%s", id)
	return &res, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) (*domain.Product, error) {
	const q = `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		err = translateError(err)
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return nil, err
	}
	r.logger.Printf("product repo: deleted id=%s sku=%s", p.ID, p.SKU)
	return &p, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.SKU,
		&p.EAN, &p.Family, &p.Category, &p.ImageURL, &p.CreatedAt)
	return p, err
}

// translateError maps driver errors onto domain sentinels.
func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == skuUniqueConstraint:
			return fmt.Errorf("%w: %s", domain.ErrDuplicateSKU, pgErr.Detail)
		case pgErr.Code == pgInvalidTextRepr:
			// malformed uuid in a lookup
			return domain.ErrNotFound
		}
	}
	return err
}
