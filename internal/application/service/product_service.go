package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billify/billify-api/internal/domain/entity"
	"github.com/billify/billify-api/internal/domain/repository"
	"github.com/billify/billify-api/pkg/apperror"
	"github.com/billify/billify-api/pkg/pagination"
	"github.com/billify/billify-api/pkg/utils"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID   uuid.UUID
	Name     string
	Quantity int
	Rate     decimal.Decimal
	Notes    *string
}

// CreateProduct creates a new catalog product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Rate.IsNegative() {
		return nil, apperror.NewBadRequestError("Rate must not be negative")
	}
	if input.Quantity < 0 {
		return nil, apperror.NewBadRequestError("Quantity must not be negative")
	}

	slug, err := s.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		UserID:   input.UserID,
		Name:     input.Name,
		Slug:     slug,
		Quantity: input.Quantity,
		Notes:    input.Notes,
	}
	product.SetRateFromDecimal(input.Rate)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// uniqueSlug derives a slug from the name, appending a short suffix when
// another product already owns the plain slug.
func (s *ProductService) uniqueSlug(ctx context.Context, name string) (string, error) {
	slug := utils.Slugify(name)
	existing, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return slug, nil
	}
	return slug + "-" + utils.ShortRef(), nil
}

// GetProduct retrieves a product owned by the user
func (s *ProductService) GetProduct(ctx context.Context, userID, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.UserID != userID {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input. Nil fields are
// left unchanged.
type UpdateProductInput struct {
	Name     *string
	Quantity *int
	Rate     *decimal.Decimal
	Notes    *string
}

// UpdateProduct updates a product owned by the user
func (s *ProductService) UpdateProduct(ctx context.Context, userID, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != product.Name {
		slug, err := s.uniqueSlug(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		product.Name = *input.Name
		product.Slug = slug
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, apperror.NewBadRequestError("Quantity must not be negative")
		}
		product.Quantity = *input.Quantity
	}
	if input.Rate != nil {
		if input.Rate.IsNegative() {
			return nil, apperror.NewBadRequestError("Rate must not be negative")
		}
		product.SetRateFromDecimal(*input.Rate)
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product owned by the user
func (s *ProductService) DeleteProduct(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, userID, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts returns the user's products with pagination
func (s *ProductService) ListProducts(ctx context.Context, userID uuid.UUID, params *repository.ProductFilterParams) ([]entity.Product, *pagination.Pagination, error) {
	products, total, err := s.productRepo.List(ctx, userID, params)
	if err != nil {
		return nil, nil, err
	}

	meta := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return products, meta, nil
}
