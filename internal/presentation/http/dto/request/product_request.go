package request

// CreateProductRequest represents a create product request
type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=255"`
	Quantity int     `json:"quantity" binding:"gte=0"`
	Rate     float64 `json:"rate" binding:"gte=0"`
	Notes    *string `json:"notes"`
}

// UpdateProductRequest represents an update product request. Omitted fields
// are left unchanged.
type UpdateProductRequest struct {
	Name     *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Quantity *int     `json:"quantity" binding:"omitempty,gte=0"`
	Rate     *float64 `json:"rate" binding:"omitempty,gte=0"`
	Notes    *string  `json:"notes"`
}

// ProductFilterRequest represents product list query parameters
type ProductFilterRequest struct {
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}
