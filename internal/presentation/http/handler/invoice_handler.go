package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/billify/billify-api/internal/application/service"
	"github.com/billify/billify-api/internal/domain/entity"
	"github.com/billify/billify-api/internal/presentation/http/dto/request"
	"github.com/billify/billify-api/internal/presentation/http/dto/response"
	"github.com/billify/billify-api/pkg/pagination"
	"github.com/billify/billify-api/pkg/pdf"
	"github.com/billify/billify-api/pkg/utils"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func sendArtifact(c *gin.Context, artifact *pdf.Artifact) {
	c.Header("Content-Disposition", `attachment; filename=`+artifact.Filename)
	c.Data(200, artifact.MIMEType, artifact.Bytes)
}

// Generate validates the submitted items, persists the invoice and streams
// the rendered PDF back as a download
// @Summary Generate invoice
// @Tags invoices
// @Accept json
// @Produce application/pdf
// @Param request body request.GenerateInvoiceRequest true "Invoice items"
// @Success 200 {file} binary
// @Failure 422 {object} response.APIResponse
// @Router /invoices [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.invoiceService.GenerateInvoice(c.Request.Context(), *userID, req.Items)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendArtifact(c, output.Artifact)
}

// List handles invoice listing with pagination
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	invoices, meta, err := h.invoiceService.ListInvoices(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(invoices, meta)
	response.SuccessWithPagination[entity.Invoice](c, 200, "Invoices retrieved", result)
}

// Get handles fetching a single invoice record
// @Summary Get invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved", gin.H{"invoice": invoice})
}

// DownloadPDF re-renders a stored invoice and streams the PDF
// @Summary Download invoice PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} binary
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	artifact, err := h.invoiceService.RenderInvoicePDF(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendArtifact(c, artifact)
}
