package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/billify/billify-api/internal/domain/entity"
	"github.com/billify/billify-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations.
// Invoices are append-only; there is no update or delete.
type InvoiceRepository interface {
	// Create persists the invoice and assigns it the next sequential number
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Invoice, int64, error)
}
