package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`

	User     *User      `gorm:"foreignKey:UserID"`
	Invoices []*Invoice `gorm:"foreignKey:RestaurantID"`
	Timestamp
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
