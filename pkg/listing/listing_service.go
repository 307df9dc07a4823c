package listing

import (
	"Invoice-Capture/domain"
	"context"
	"fmt"
)

// Placeholder is shown in place of a missing invoice number.
const Placeholder = "—"

type (
	Source interface {
		ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
		ListPendingInvoices(ctx context.Context) ([]domain.Invoice, error)
	}

	ListingService interface {
		FetchRestaurants(ctx context.Context) ([]domain.Restaurant, error)
		FetchPendingInvoices(ctx context.Context) ([]domain.Invoice, error)
	}

	listingService struct {
		source Source
	}

	// Row is a display-ready list entry, independent of any renderer.
	Row struct {
		Key      string
		Title    string
		Subtitle string
		Detail   string
	}
)

func NewListingService(source Source) ListingService {
	return &listingService{source: source}
}

// FetchRestaurants returns the whole list or nothing; one bad entry fails
// the fetch.
func (s *listingService) FetchRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	restaurants, err := s.source.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.MessageFailedGetRestaurants, err)
	}
	return restaurants, nil
}

func (s *listingService) FetchPendingInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := s.source.ListPendingInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.MessageFailedGetInvoices, err)
	}
	return invoices, nil
}

func RestaurantRow(r domain.Restaurant) Row {
	return Row{Key: r.ID.String(), Title: r.Name, Subtitle: r.Email}
}

func RestaurantRows(restaurants []domain.Restaurant) []Row {
	rows := make([]Row, 0, len(restaurants))
	for _, r := range restaurants {
		rows = append(rows, RestaurantRow(r))
	}
	return rows
}

// InvoiceRow maps a pending invoice; names maps restaurant ids to names and
// may be nil.
func InvoiceRow(inv domain.Invoice, names map[string]string) Row {
	number := Placeholder
	if inv.InvoiceNumber != nil && *inv.InvoiceNumber != "" {
		number = *inv.InvoiceNumber
	}
	return Row{
		Key:      inv.ID.String(),
		Title:    number,
		Subtitle: inv.CreatedDate,
		Detail:   names[inv.Restaurant.String()],
	}
}

func InvoiceRows(invoices []domain.Invoice, names map[string]string) []Row {
	rows := make([]Row, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, InvoiceRow(inv, names))
	}
	return rows
}

// RestaurantNames indexes restaurant names by id.
func RestaurantNames(restaurants []domain.Restaurant) map[string]string {
	names := make(map[string]string, len(restaurants))
	for _, r := range restaurants {
		names[r.ID.String()] = r.Name
	}
	return names
}

// FindRestaurant matches by id first, then by exact name.
func FindRestaurant(restaurants []domain.Restaurant, key string) (domain.Restaurant, bool) {
	for _, r := range restaurants {
		if r.ID.String() == key {
			return r, true
		}
	}
	for _, r := range restaurants {
		if r.Name == key {
			return r, true
		}
	}
	return domain.Restaurant{}, false
}
