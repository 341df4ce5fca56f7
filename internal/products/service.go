package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelane/storelane-backend/internal/events"
	"github.com/storelane/storelane-backend/pkg/db/models"
	pkgerrors "github.com/storelane/storelane-backend/pkg/errors"
	"github.com/storelane/storelane-backend/pkg/pagination"
)

// Service exposes catalog management and browsing operations.
type Service interface {
	Create(ctx context.Context, adminID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, input ListProductsInput) (*pagination.Page[ProductDTO], error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      *Repository
	publisher events.Publisher
}

// NewService constructs a product service instance.
func NewService(repo *Repository, publisher events.Publisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	return &service{repo: repo, publisher: publisher}, nil
}

// Create inserts a new catalog entry attributed to the acting admin.
func (s *service) Create(ctx context.Context, adminID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product := &models.Product{
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    strings.TrimSpace(input.Category),
		ImageURL:    input.ImageURL,
		IsActive:    true,
		CreatedBy:   adminID,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	s.publisher.Publish(ctx, events.StreamCatalog,
		events.NewProductCreated(created.ID, created.Name, created.Price, created.Stock))

	return FromModel(created), nil
}

// Get returns a single product. Inactive products stay fetchable by id
// so historical order lines can still resolve their product.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return FromModel(product), nil
}

// List returns the filtered, paged catalog.
func (s *service) List(ctx context.Context, input ListProductsInput) (*pagination.Page[ProductDTO], error) {
	params := pagination.Normalize(input.Page, input.Limit)
	rows, total, err := s.repo.List(ctx, ListFilters{
		Category: input.Category,
		Search:   input.Search,
	}, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	page := pagination.NewPage(fromModels(rows), total, params)
	return &page, nil
}

// Categories returns the distinct active categories.
func (s *service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return categories, nil
}

// Update applies a partial mutation; absent fields keep their values.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return FromModel(updated), nil
}

// AdjustStock applies a relative delta, flooring the result at zero.
func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	newStock := product.Stock + delta
	if newStock < 0 {
		newStock = 0
	}

	if err := s.repo.UpdateStock(ctx, id, newStock); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update stock")
	}
	product.Stock = newStock

	s.publisher.Publish(ctx, events.StreamCatalog, events.NewStockUpdated(id, newStock))

	return FromModel(product), nil
}

// Delete deactivates the product; the row stays for order history.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate product")
	}
	return nil
}
