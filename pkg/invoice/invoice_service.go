package invoice

import (
	"Invoice-Capture/domain"
	"Invoice-Capture/entities"
	"Invoice-Capture/internal/utils/storage"
	"Invoice-Capture/pkg/restaurant"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultTicketTTL = 15 * time.Minute

type (
	InvoiceService interface {
		GetInvoices(ctx context.Context, userID, state string) (domain.PendingInvoicesResponse, error)
		SignUpload(ctx context.Context, userID, filename string) (domain.SignedUploadTicket, error)
		CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest, userID string) (domain.Invoice, error)
	}

	invoiceService struct {
		invoiceRepository    InvoiceRepository
		restaurantRepository restaurant.RestaurantRepository
		s3                   storage.AwsS3
		tickets              storage.TicketCache
		ticketTTL            time.Duration
	}
)

func NewInvoiceService(
	invoiceRepository InvoiceRepository,
	restaurantRepository restaurant.RestaurantRepository,
	s3 storage.AwsS3,
	tickets storage.TicketCache,
	ticketTTL time.Duration,
) InvoiceService {
	if ticketTTL <= 0 {
		ticketTTL = DefaultTicketTTL
	}
	return &invoiceService{
		invoiceRepository:    invoiceRepository,
		restaurantRepository: restaurantRepository,
		s3:                   s3,
		tickets:              tickets,
		ticketTTL:            ticketTTL,
	}
}

func (s *invoiceService) GetInvoices(ctx context.Context, userID, state string) (domain.PendingInvoicesResponse, error) {
	if state != domain.InvoiceStatePending && state != domain.InvoiceStateProcessed {
		return domain.PendingInvoicesResponse{}, errors.New(domain.MessageFailedUnknownState)
	}

	invoices, err := s.invoiceRepository.GetInvoicesByState(ctx, userID, state)
	if err != nil {
		return domain.PendingInvoicesResponse{}, err
	}

	results := make([]domain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		results = append(results, domain.Invoice{
			ID:            domain.WireID(inv.ID.String()),
			Restaurant:    domain.WireID(inv.RestaurantID.String()),
			InvoiceNumber: inv.InvoiceNumber,
			CreatedDate:   inv.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return domain.PendingInvoicesResponse{Results: results}, nil
}

// SignUpload presigns a PUT for one JPEG and remembers the ticket so the
// invoice that follows can prove it was issued here.
func (s *invoiceService) SignUpload(ctx context.Context, userID, filename string) (domain.SignedUploadTicket, error) {
	name := filepath.Base(filename)
	if name != filename || name == "." || name == "/" {
		return domain.SignedUploadTicket{}, domain.ErrInvalidFilename
	}
	if !slices.Contains(storage.AllowImage, strings.ToLower(filepath.Ext(name))) {
		return domain.SignedUploadTicket{}, domain.ErrInvalidFilename
	}

	uploadID := uuid.New().String()
	objectKey := fmt.Sprintf("invoices/%s/%s-%s", userID, uploadID, name)

	putURL, err := s.s3.PresignPut(ctx, objectKey, s.ticketTTL)
	if err != nil {
		return domain.SignedUploadTicket{}, err
	}

	ticket := storage.Ticket{
		UploadID:  uploadID,
		UserID:    userID,
		ObjectKey: objectKey,
		URL:       s.s3.GetPublicLinkKey(objectKey),
	}
	if err := s.tickets.Put(ctx, ticket, s.ticketTTL); err != nil {
		return domain.SignedUploadTicket{}, err
	}

	return domain.SignedUploadTicket{
		UploadID:   domain.WireID(uploadID),
		URL:        ticket.URL,
		PutRequest: putURL,
	}, nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest, userID string) (domain.Invoice, error) {
	if _, err := uuid.Parse(req.Restaurant); err != nil {
		return domain.Invoice{}, domain.ErrRestaurantNotFound
	}
	rest, err := s.restaurantRepository.GetRestaurantForUser(ctx, req.Restaurant, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Invoice{}, domain.ErrRestaurantNotFound
		}
		return domain.Invoice{}, err
	}

	ticket, err := s.tickets.Take(ctx, req.UploadID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if ticket.UserID != userID || ticket.URL != req.Image {
		return domain.Invoice{}, domain.ErrUnknownUpload
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Invoice{}, err
	}
	inv := &entities.Invoice{
		RestaurantID: rest.ID,
		UserID:       userUUID,
		UploadID:     ticket.UploadID,
		ImageURL:     ticket.URL,
		State:        domain.InvoiceStatePending,
	}
	if err := s.invoiceRepository.CreateInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, err
	}

	return domain.Invoice{
		ID:          domain.WireID(inv.ID.String()),
		Restaurant:  domain.WireID(rest.ID.String()),
		CreatedDate: inv.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}
