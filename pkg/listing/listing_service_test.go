package listing

import (
	"Invoice-Capture/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	restaurants []domain.Restaurant
	invoices    []domain.Invoice
	err         error
}

func (f fakeSource) ListRestaurants(context.Context) ([]domain.Restaurant, error) {
	return f.restaurants, f.err
}

func (f fakeSource) ListPendingInvoices(context.Context) ([]domain.Invoice, error) {
	return f.invoices, f.err
}

func strPtr(s string) *string { return &s }

func TestFetch_WrapsErrors(t *testing.T) {
	svc := NewListingService(fakeSource{err: domain.ErrNoConnectivity})

	_, err := svc.FetchRestaurants(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoConnectivity)
	assert.Contains(t, err.Error(), domain.MessageFailedGetRestaurants)

	_, err = svc.FetchPendingInvoices(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoConnectivity)
	assert.Contains(t, err.Error(), domain.MessageFailedGetInvoices)
}

func TestFetch_PassesThrough(t *testing.T) {
	src := fakeSource{
		restaurants: []domain.Restaurant{{ID: "1", Name: "Bistro"}},
		invoices:    []domain.Invoice{{ID: "10", CreatedDate: "2024-01-01"}},
	}
	svc := NewListingService(src)

	restaurants, err := svc.FetchRestaurants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, src.restaurants, restaurants)

	invoices, err := svc.FetchPendingInvoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, src.invoices, invoices)
}

func TestRestaurantRows(t *testing.T) {
	rows := RestaurantRows([]domain.Restaurant{
		{ID: "1", Name: "Bistro", Email: "b@example.com"},
		{ID: "2", Name: "Diner"},
	})
	assert.Equal(t, []Row{
		{Key: "1", Title: "Bistro", Subtitle: "b@example.com"},
		{Key: "2", Title: "Diner"},
	}, rows)
	assert.Empty(t, RestaurantRows(nil))
}

func TestInvoiceRows_PlaceholderForMissingNumber(t *testing.T) {
	names := RestaurantNames([]domain.Restaurant{{ID: "7", Name: "Bistro"}})
	rows := InvoiceRows([]domain.Invoice{
		{ID: "1", Restaurant: "7", InvoiceNumber: nil, CreatedDate: "2024-01-01"},
		{ID: "2", Restaurant: "7", InvoiceNumber: strPtr(""), CreatedDate: "2024-01-02"},
		{ID: "3", Restaurant: "8", InvoiceNumber: strPtr("INV-3"), CreatedDate: "2024-01-03"},
	}, names)

	require.Len(t, rows, 3)
	assert.Equal(t, Row{Key: "1", Title: Placeholder, Subtitle: "2024-01-01", Detail: "Bistro"}, rows[0])
	assert.Equal(t, Placeholder, rows[1].Title)
	assert.Equal(t, Row{Key: "3", Title: "INV-3", Subtitle: "2024-01-03"}, rows[2])
}

func TestInvoiceRow_NilNames(t *testing.T) {
	row := InvoiceRow(domain.Invoice{ID: "1", Restaurant: "7", CreatedDate: "d"}, nil)
	assert.Empty(t, row.Detail)
}

func TestFindRestaurant(t *testing.T) {
	list := []domain.Restaurant{{ID: "1", Name: "2"}, {ID: "2", Name: "Diner"}}

	r, ok := FindRestaurant(list, "2")
	require.True(t, ok)
	assert.Equal(t, "Diner", r.Name, "ids win over names")

	r, ok = FindRestaurant(list, "Diner")
	require.True(t, ok)
	assert.Equal(t, domain.WireID("2"), r.ID)

	_, ok = FindRestaurant(list, "Nope")
	assert.False(t, ok)
}
