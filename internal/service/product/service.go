package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"catalog-service/internal/domain"
	productrepo "catalog-service/internal/repository/product"
)

const (
	imageFolder     = "products"
	defaultPage     = 1
	defaultLimit    = 10
	defaultMaxLimit = 100
	maxPage         = math.MaxInt32
)

var errImagesDisabled = errors.New("image storage is not configured")

// ImageStore uploads inline image payloads and removes stored objects.
type ImageStore interface {
	Ingest(ctx context.Context, payload, folder string) (string, error)
	Remove(ctx context.Context, url string) error
}

// Cache holds products by id. Implementations swallow their own failures.
// Add fills a missing entry only, so a read that raced a write cannot
// replace what Set stored or resurrect an id that Delete marked gone.
type Cache interface {
	Get(ctx context.Context, id string) (*domain.Product, bool)
	Add(ctx context.Context, p domain.Product)
	Set(ctx context.Context, p domain.Product)
	Delete(ctx context.Context, id string)
}

type Service struct {
	repo     productrepo.Repository
	images   ImageStore
	cache    Cache
	logger   *log.Logger
	maxLimit int
	validate *validator.Validate
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxLimit caps the page size of List. Non-positive values keep the default.
func WithMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// New wires the engine. images may be nil, in which case payloads are rejected.
func New(repo productrepo.Repository, images ImageStore, opts ...Option) *Service {
	v := validator.New()
	v.SetTagName("binding")
	s := &Service{
		repo:     repo,
		images:   images,
		cache:    noopCache{},
		logger:   log.New(io.Discard, "", 0),
		maxLimit: defaultMaxLimit,
		validate: v,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput is the body of a create request. Description may be empty but must be present.
type CreateInput struct {
	Name          string           `json:"name" binding:"required"`
	Description   *string          `json:"description" binding:"required"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	StockQuantity *int             `json:"stockQuantity" binding:"required"`
	SKU           string           `json:"sku" binding:"required"`
	EAN           *string          `json:"ean,omitempty"`
	Family        *string          `json:"family,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Base64Image   *string          `json:"base64Image,omitempty"`
}

// UpdateInput carries a partial update. Absent fields are left untouched.
type UpdateInput struct {
	Name          *string          `json:"name,omitempty" binding:"omitempty,min=1"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stockQuantity,omitempty"`
	SKU           *string          `json:"sku,omitempty" binding:"omitempty,min=1"`
	EAN           *string          `json:"ean,omitempty"`
	Family        *string          `json:"family,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Base64Image   *string          `json:"base64Image,omitempty"`
}

// ListQuery holds raw listing parameters; zero values mean "not supplied".
type ListQuery struct {
	Page     int
	Limit    int
	Name     string
	Category string
	Family   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	p := domain.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   *in.Description,
		Price:         *in.Price,
		StockQuantity: *in.StockQuantity,
		SKU:           strings.TrimSpace(in.SKU),
		EAN:           in.EAN,
		Family:        in.Family,
		Category:      in.Category,
	}
	if p.Name == "" || p.SKU == "" {
		return nil, fmt.Errorf("%w: name and sku must not be blank", domain.ErrValidation)
	}

	uploaded, err := s.ingest(ctx, in.Base64Image)
	if err != nil {
		return nil, err
	}
	if uploaded != "" {
		p.ImageURL = &uploaded
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.discardImage(ctx, uploaded)
		return nil, err
	}
	s.logger.Printf("product service: created id=%s sku=%s image=%t", created.ID, created.SKU, uploaded != "")
	return created, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (domain.Page, error) {
	page, limit := s.normalize(q.Page, q.Limit)
	items, total, err := s.repo.List(ctx, productrepo.ListParams{
		Filter: BuildFilter(q),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return domain.Page{}, err
	}
	return domain.NewPage(items, total, page, limit), nil
}

func (s *Service) normalize(page, limit int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return page, limit
}

// BuildFilter turns listing parameters into a conjunctive filter:
// name is an accent and case insensitive substring, category and family
// are comma-separated sets of exact values.
func BuildFilter(q ListQuery) domain.Filter {
	var f domain.Filter
	if name := strings.TrimSpace(q.Name); name != "" {
		f = append(f, domain.SubstringCI{Field: domain.FieldName, Value: name})
	}
	if values := domain.SplitList(q.Category); len(values) > 0 {
		f = append(f, domain.OneOf{Field: domain.FieldCategory, Values: values})
	}
	if values := domain.SplitList(q.Family); len(values) > 0 {
		f = append(f, domain.OneOf{Field: domain.FieldFamily, Values: values})
	}
	return f
}

// GetByID reports found=false for unknown or malformed ids; err is reserved for failures.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, bool, error) {
	if !validID(id) {
		return nil, false, nil
	}
	if p, ok := s.cache.Get(ctx, id); ok {
		return p, true, nil
	}
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	s.cache.Add(ctx, *p)
	return p, true, nil
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (*domain.Product, bool, error) {
	p, err := s.repo.GetBySKU(ctx, sku)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	name, err := trimmedField("name", in.Name)
	if err != nil {
		return nil, err
	}
	sku, err := trimmedField("sku", in.SKU)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrNotFound
	}

	changes := domain.ProductChanges{
		Name:          name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		SKU:           sku,
		EAN:           in.EAN,
		Family:        in.Family,
		Category:      in.Category,
	}

	uploaded, err := s.ingest(ctx, in.Base64Image)
	if err != nil {
		return nil, err
	}
	if uploaded != "" {
		changes.ImageURL = &uploaded
	}

	res, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		s.discardImage(ctx, uploaded)
		return nil, err
	}
	s.cache.Set(ctx, res.Product)

	if uploaded != "" && res.PreviousImageURL != nil && *res.PreviousImageURL != uploaded {
		s.discardImage(ctx, *res.PreviousImageURL)
	}
	s.logger.Printf("product service: updated id=%s image=%t", id, uploaded != "")
	return &res.Product, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	p, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.cache.Delete(ctx, id)
	if p.ImageURL != nil {
		s.discardImage(ctx, *p.ImageURL)
	}
	s.logger.Printf("product service: deleted id=%s sku=%s", p.ID, p.SKU)
	return nil
}

// ingest uploads a payload when one is supplied and returns its URL ("" when absent).
func (s *Service) ingest(ctx context.Context, payload *string) (string, error) {
	if payload == nil || strings.TrimSpace(*payload) == "" {
		return "", nil
	}
	if s.images == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrImageIngest, errImagesDisabled)
	}
	url, err := s.images.Ingest(ctx, *payload, imageFolder)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrImageIngest, err)
	}
	return url, nil
}

// discardImage removes an object that no row references anymore. Failures are only logged.
func (s *Service) discardImage(ctx context.Context, url string) {
	if url == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(context.WithoutCancel(ctx), url); err != nil {
		s.logger.Printf("product service: remove image url=%s error=%v", url, err)
	}
}

// trimmedField trims a supplied value and rejects it when nothing is left.
func trimmedField(field string, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %s must not be blank", domain.ErrValidation, field)
	}
	return &trimmed, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*domain.Product, bool) { return nil, false }
func (noopCache) Add(context.Context, domain.Product)                 {}
func (noopCache) Set(context.Context, domain.Product)                 {}
func (noopCache) Delete(context.Context, string)                      {}
