package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item a user can bill for
type Product struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Quantity  int            `gorm:"default:0" json:"quantity"`
	Rate      int64          `gorm:"default:0" json:"rate"` // Stored in cents
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetRateDecimal returns the unit rate as an exact decimal
func (p *Product) GetRateDecimal() decimal.Decimal {
	return decimal.NewFromInt(p.Rate).Div(decimal.NewFromInt(100))
}

// SetRateFromDecimal stores the unit rate from a decimal value
func (p *Product) SetRateFromDecimal(rate decimal.Decimal) {
	p.Rate = rate.Mul(decimal.NewFromInt(100)).IntPart()
}

// ProductJSON is a helper struct for JSON marshaling with a decimal rate
type ProductJSON struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Quantity  int       `json:"quantity"`
	Rate      float64   `json:"rate"` // Decimal value for JSON
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON converts Product to JSON with a decimal rate
func (p Product) MarshalJSON() ([]byte, error) {
	rate, _ := p.GetRateDecimal().Float64()
	return json.Marshal(ProductJSON{
		ID:        p.ID,
		UserID:    p.UserID,
		Name:      p.Name,
		Slug:      p.Slug,
		Quantity:  p.Quantity,
		Rate:      rate,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
}
