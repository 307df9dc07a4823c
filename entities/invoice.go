package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID  uuid.UUID `gorm:"type:uuid;index" json:"restaurant_id"`
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	UploadID      string    `gorm:"uniqueIndex;size:64" json:"upload_id"`
	ImageURL      string    `json:"image_url"`
	InvoiceNumber *string   `json:"invoice_number,omitempty"`
	State         string    `gorm:"index;size:32" json:"state"` // "pending", "processed"

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
	Timestamp
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
