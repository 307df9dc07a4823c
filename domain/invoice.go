package domain

import "errors"

const (
	InvoiceStatePending   = "pending"
	InvoiceStateProcessed = "processed"
)

var (
	MessageSuccessCreateInvoice  = "invoice created successfully"
	MessageSuccessSignUpload     = "upload signed successfully"
	MessageFailedCreateInvoice   = "failed to create invoice"
	MessageFailedGetInvoices     = "failed to retrieve invoices"
	MessageFailedSignUpload      = "failed to sign upload"
	MessageFailedUnknownState    = "unknown invoice state"
	MessageFailedMissingFilename = "filename is required"

	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrUnknownUpload      = errors.New("upload id unknown or already used")
	ErrInvalidFilename    = errors.New("invalid filename")
)

type (
	Invoice struct {
		ID            WireID  `json:"id" validate:"required"`
		Restaurant    WireID  `json:"restaurant"`
		InvoiceNumber *string `json:"invoice_number"`
		CreatedDate   string  `json:"created_date" validate:"required"`
	}

	PendingInvoicesResponse struct {
		Results []Invoice `json:"results" validate:"required"`
	}

	SignedUploadTicket struct {
		UploadID   WireID `json:"upload_id" validate:"required"`
		URL        string `json:"url" validate:"required"`
		PutRequest string `json:"put_request" validate:"required"`
	}

	CreateInvoiceRequest struct {
		Restaurant string `json:"restaurant" validate:"required"`
		UploadID   string `json:"upload_id" validate:"required"`
		Image      string `json:"image" validate:"required"`
	}
)
