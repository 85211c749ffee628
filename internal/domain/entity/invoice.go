package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/billify/billify-api/pkg/billing"
)

// Invoice is the persisted record of a generated invoice. Rows are
// append-only: the item snapshot is written once at generation time and
// never updated, so a stored invoice can always be re-rendered exactly as
// it was issued.
type Invoice struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Number    int       `gorm:"uniqueIndex;not null" json:"number"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	IssuedAt  time.Time `gorm:"not null" json:"issued_at"`
	Items     string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// SetItems stores the validated line items as the invoice's JSON snapshot
func (i *Invoice) SetItems(items []billing.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	i.Items = string(data)
	return nil
}

// GetItems decodes the stored line item snapshot
func (i *Invoice) GetItems() ([]billing.LineItem, error) {
	var items []billing.LineItem
	if err := json.Unmarshal([]byte(i.Items), &items); err != nil {
		return nil, err
	}
	return items, nil
}
