package config

import (
	migration "Invoice-Capture/cmd/database/migrate"
	"Invoice-Capture/domain"
	"Invoice-Capture/internal/utils"
	"Invoice-Capture/internal/utils/storage"
	"Invoice-Capture/pkg/account"
	"Invoice-Capture/pkg/jwt"
	"Invoice-Capture/pkg/restaurant"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeS3 struct {
	putBase string
}

func (f fakeS3) PresignPut(_ context.Context, key string, _ time.Duration) (string, error) {
	return f.putBase + "/" + key + "?X-Amz-Signature=test", nil
}

func (f fakeS3) GetPublicLinkKey(key string) string { return "https://cdn.test/" + key }

func (f fakeS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://cdn.test/")
}

type devserver struct {
	app         *fiber.App
	db          *gorm.DB
	jwt         jwt.JWTService
	userID      string
	restaurants []domain.Restaurant
}

func newDevserver(t *testing.T, putBase string) *devserver {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	jwtService := jwt.NewJWTServiceWithSecret("test-secret", time.Hour)
	app, err := NewApp(db, fakeS3{putBase: putBase}, storage.NewRedisTicketCache(rdb), AppOptions{
		JWTService: jwtService,
		TicketTTL:  time.Minute,
	})
	require.NoError(t, err)

	ctx := context.Background()
	user, err := account.NewAccountService(account.NewAccountRepository(db), jwtService).Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	restaurantService := restaurant.NewRestaurantService(restaurant.NewRestaurantRepository(db))
	var restaurants []domain.Restaurant
	for _, name := range []string{"Bistro", "Diner"} {
		r, err := restaurantService.AddRestaurant(ctx, domain.CreateRestaurantRequest{Name: name}, user.ID.String())
		require.NoError(t, err)
		restaurants = append(restaurants, r)
	}

	return &devserver{app: app, db: db, jwt: jwtService, userID: user.ID.String(), restaurants: restaurants}
}

func (d *devserver) token(t *testing.T) string {
	t.Helper()
	token, err := d.jwt.GenerateTokenUser(d.userID)
	require.NoError(t, err)
	return token
}

func (d *devserver) do(t *testing.T, method, target, token string, body io.Reader, contentType string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	resp, err := d.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestObtainToken(t *testing.T) {
	d := newDevserver(t, "http://s3.test")

	form := url.Values{"username": {"alice"}, "password": {"s3cret"}}
	status, body := d.do(t, http.MethodPost, "/auth/token/", "", strings.NewReader(form.Encode()), fiber.MIMEApplicationForm)
	require.Equal(t, http.StatusOK, status, string(body))

	var res domain.TokenResponse
	require.NoError(t, json.Unmarshal(body, &res))
	userID, err := d.jwt.GetUserIDByToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, d.userID, userID)

	form.Set("password", "wrong")
	status, body = d.do(t, http.MethodPost, "/auth/token/", "", strings.NewReader(form.Encode()), fiber.MIMEApplicationForm)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"detail":"Unable to log in with provided credentials."}`, string(body))

	status, _ = d.do(t, http.MethodPost, "/auth/token/", "", strings.NewReader("username=alice"), fiber.MIMEApplicationForm)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRoutesRequireToken(t *testing.T) {
	d := newDevserver(t, "http://s3.test")

	for _, target := range []string{"/restaurant/", "/invoice/?state=pending", "/invoice/s3sign/?filename=a.jpg"} {
		status, _ := d.do(t, http.MethodGet, target, "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, status, target)

		status, _ = d.do(t, http.MethodGet, target, "not-a-jwt", nil, "")
		assert.Equal(t, http.StatusUnauthorized, status, target)
	}
}

func TestListRestaurants(t *testing.T) {
	d := newDevserver(t, "http://s3.test")

	status, body := d.do(t, http.MethodGet, "/restaurant/", d.token(t), nil, "")
	require.Equal(t, http.StatusOK, status)

	var got []domain.Restaurant
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, d.restaurants, got)
}

func TestSignAndCreateInvoice(t *testing.T) {
	d := newDevserver(t, "http://s3.test")
	token := d.token(t)

	status, _ := d.do(t, http.MethodGet, "/invoice/s3sign/?filename=../etc/passwd", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = d.do(t, http.MethodGet, "/invoice/s3sign/?filename=notes.txt", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = d.do(t, http.MethodGet, "/invoice/s3sign/", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := d.do(t, http.MethodGet, "/invoice/s3sign/?filename=a.jpg", token, nil, "")
	require.Equal(t, http.StatusOK, status, string(body))
	var ticket domain.SignedUploadTicket
	require.NoError(t, json.Unmarshal(body, &ticket))
	require.NoError(t, utils.Validator().Struct(ticket))
	assert.True(t, strings.HasPrefix(ticket.PutRequest, "http://s3.test/invoices/"+d.userID+"/"))
	assert.True(t, strings.HasSuffix(ticket.URL, "-a.jpg"))

	create := func(restaurantID string) (int, []byte) {
		payload, _ := json.Marshal(domain.CreateInvoiceRequest{
			Restaurant: restaurantID,
			UploadID:   ticket.UploadID.String(),
			Image:      ticket.URL,
		})
		return d.do(t, http.MethodPost, "/invoice/", token, strings.NewReader(string(payload)), fiber.MIMEApplicationJSON)
	}

	status, _ = create(uuid.NewString())
	assert.Equal(t, http.StatusBadRequest, status, "unknown restaurant")
	status, _ = create("not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, status, "malformed restaurant id")

	status, body = create(d.restaurants[0].ID.String())
	require.Equal(t, http.StatusCreated, status, string(body))
	var inv domain.Invoice
	require.NoError(t, json.Unmarshal(body, &inv))
	assert.Equal(t, d.restaurants[0].ID, inv.Restaurant)
	assert.Nil(t, inv.InvoiceNumber)

	status, _ = create(d.restaurants[0].ID.String())
	assert.Equal(t, http.StatusBadRequest, status, "ticket already used")

	status, body = d.do(t, http.MethodGet, "/invoice/?state=pending", token, nil, "")
	require.Equal(t, http.StatusOK, status)
	var pending domain.PendingInvoicesResponse
	require.NoError(t, json.Unmarshal(body, &pending))
	require.Len(t, pending.Results, 1)
	assert.Equal(t, inv.ID, pending.Results[0].ID)
	assert.Contains(t, string(body), `"invoice_number":null`)

	status, body = d.do(t, http.MethodGet, "/invoice/?state=processed", token, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"results":[]}`, string(body))

	status, _ = d.do(t, http.MethodGet, "/invoice/?state=bogus", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateInvoice_RejectsMismatchedImage(t *testing.T) {
	d := newDevserver(t, "http://s3.test")
	token := d.token(t)

	_, body := d.do(t, http.MethodGet, "/invoice/s3sign/?filename=a.jpg", token, nil, "")
	var ticket domain.SignedUploadTicket
	require.NoError(t, json.Unmarshal(body, &ticket))

	payload, _ := json.Marshal(domain.CreateInvoiceRequest{
		Restaurant: d.restaurants[0].ID.String(),
		UploadID:   ticket.UploadID.String(),
		Image:      "https://elsewhere/a.jpg",
	})
	status, _ := d.do(t, http.MethodPost, "/invoice/", token, strings.NewReader(string(payload)), fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, status)
}
