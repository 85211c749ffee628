package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billify/billify-api/internal/domain/entity"
	"github.com/billify/billify-api/internal/domain/repository"
	"github.com/billify/billify-api/pkg/apperror"
	"github.com/billify/billify-api/pkg/billing"
	"github.com/billify/billify-api/pkg/pagination"
	"github.com/billify/billify-api/pkg/pdf"
)

// ArtifactExporter converts a structured invoice document into a binary
// artifact. Satisfied by pdf.Exporter.
type ArtifactExporter interface {
	Export(ctx context.Context, doc *billing.Document) (*pdf.Artifact, error)
}

// InvoiceServiceOptions holds the fixed presentation settings applied to
// every generated invoice
type InvoiceServiceOptions struct {
	TaxRate        decimal.Decimal
	CurrencySymbol string
	Location       *time.Location
	IssuerName     string
}

// InvoiceService orchestrates invoice generation: it validates items,
// persists the invoice record, computes totals, builds the document and
// exports it. Each step runs strictly after the previous one succeeded.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	userRepo    repository.UserRepository
	exporter    ArtifactExporter
	opts        InvoiceServiceOptions
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
	exporter ArtifactExporter,
	opts InvoiceServiceOptions,
) *InvoiceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		userRepo:    userRepo,
		exporter:    exporter,
		opts:        opts,
	}
}

// GenerateInvoiceOutput carries the persisted invoice and its rendered
// artifact
type GenerateInvoiceOutput struct {
	Invoice  *entity.Invoice
	Artifact *pdf.Artifact
}

// GenerateInvoice runs the full generation pipeline for the given owner.
// The owner is resolved before anything is written; validation runs before
// persistence; persistence runs before rendering. A failure at any step
// aborts the pipeline, so a rendering failure can leave a persisted invoice
// but a validation failure never writes a row.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, ownerID uuid.UUID, rawItems []billing.RawLineItem) (*GenerateInvoiceOutput, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	items, err := billing.ValidateItems(rawItems)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		UserID:   owner.ID,
		IssuedAt: time.Now().UTC(),
	}
	if err := invoice.SetItems(items); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	artifact, err := s.render(ctx, invoice, owner, items)
	if err != nil {
		return nil, err
	}

	return &GenerateInvoiceOutput{Invoice: invoice, Artifact: artifact}, nil
}

// GetInvoice retrieves an invoice owned by the user
func (s *InvoiceService) GetInvoice(ctx context.Context, ownerID, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.UserID != ownerID {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices returns the user's invoices, newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, ownerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Invoice, *pagination.Pagination, error) {
	invoices, total, err := s.invoiceRepo.List(ctx, ownerID, params)
	if err != nil {
		return nil, nil, err
	}

	meta := pagination.NewPagination(params.Page, params.PerPage, total)
	return invoices, meta, nil
}

// RenderInvoicePDF re-renders a stored invoice from its item snapshot. The
// totals are recomputed from the snapshot, so the output matches the
// originally issued document.
func (s *InvoiceService) RenderInvoicePDF(ctx context.Context, ownerID, id uuid.UUID) (*pdf.Artifact, error) {
	invoice, err := s.GetInvoice(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, invoice.UserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	items, err := invoice.GetItems()
	if err != nil {
		return nil, err
	}

	return s.render(ctx, invoice, owner, items)
}

func (s *InvoiceService) render(ctx context.Context, invoice *entity.Invoice, owner *entity.User, items []billing.LineItem) (*pdf.Artifact, error) {
	totals := billing.ComputeTotals(items, s.opts.TaxRate)

	doc := billing.BuildDocument(billing.InvoiceContext{
		Number:     invoice.Number,
		OwnerName:  owner.Name,
		OwnerEmail: owner.Email,
		IssuedAt:   invoice.IssuedAt,
		Items:      items,
	}, totals, billing.RenderConfig{
		TaxRate:        s.opts.TaxRate,
		CurrencySymbol: s.opts.CurrencySymbol,
		Location:       s.opts.Location,
		IssuerName:     s.opts.IssuerName,
	})

	return s.exporter.Export(ctx, doc)
}
