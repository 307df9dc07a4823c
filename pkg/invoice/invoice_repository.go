package invoice

import (
	"Invoice-Capture/entities"
	"context"

	"gorm.io/gorm"
)

type (
	InvoiceRepository interface {
		CreateInvoice(ctx context.Context, invoice *entities.Invoice) error
		GetInvoicesByState(ctx context.Context, userID, state string) ([]*entities.Invoice, error)
	}

	invoiceRepository struct {
		db *gorm.DB
	}
)

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) CreateInvoice(ctx context.Context, invoice *entities.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetInvoicesByState(ctx context.Context, userID, state string) ([]*entities.Invoice, error) {
	var invoices []*entities.Invoice
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, state).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, err
}
