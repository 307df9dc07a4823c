package submission

import (
	"Invoice-Capture/domain"
	"Invoice-Capture/internal/utils"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu sync.Mutex

	ticket    domain.SignedUploadTicket
	signErr   error
	putStatus int
	putErr    error
	createErr error
	created   json.RawMessage

	calls    []string
	uploaded []byte
	requests []domain.CreateInvoiceRequest
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		ticket: domain.SignedUploadTicket{
			UploadID:   "42",
			URL:        "https://cdn.example.com/invoices/42.jpg",
			PutRequest: "https://s3.example.com/invoices/42.jpg?X-Amz-Signature=x",
		},
		putStatus: http.StatusOK,
		created:   json.RawMessage(`{"id":1}`),
	}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) RequestSignedUpload(_ context.Context, filename string) (domain.SignedUploadTicket, error) {
	f.record("sign:" + filename)
	return f.ticket, f.signErr
}

func (f *fakeAPI) UploadImage(_ context.Context, putURL string, image io.Reader, _ int64) (int, error) {
	f.record("upload:" + putURL)
	data, _ := io.ReadAll(image)
	f.mu.Lock()
	f.uploaded = data
	f.mu.Unlock()
	return f.putStatus, f.putErr
}

func (f *fakeAPI) CreateInvoice(_ context.Context, req domain.CreateInvoiceRequest) (json.RawMessage, error) {
	f.record("create")
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func testPhoto(t *testing.T, content string) domain.CapturedPhoto {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return domain.CapturedPhoto{Path: path, Filename: "photo.jpg", Width: 1672, Height: 1254}
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestSubmit_HappyPath(t *testing.T) {
	api := newFakeAPI()
	p := NewPipeline(api, PipelineOptions{Log: utils.DiscardLogger(), Now: fixedClock()})
	photo := testPhoto(t, "jpeg-bytes")

	res := p.Submit(context.Background(), photo, "7")

	require.True(t, res.OK(), "err: %v", res.Err)
	assert.Equal(t, domain.StageDone, res.Stage)
	assert.Empty(t, res.FailedAt)
	assert.Equal(t, []string{
		"sign:photo.jpg",
		"upload:" + api.ticket.PutRequest,
		"create",
	}, api.Calls())
	assert.Equal(t, []byte("jpeg-bytes"), api.uploaded)
	assert.Equal(t, []domain.CreateInvoiceRequest{{
		Restaurant: "7",
		UploadID:   "42",
		Image:      "https://cdn.example.com/invoices/42.jpg",
	}}, api.requests)
	assert.JSONEq(t, `{"id":1}`, string(res.Invoice))
	assert.Equal(t, http.StatusOK, res.UploadStatus)
	require.NotNil(t, res.Ticket)
	assert.Equal(t, api.ticket, *res.Ticket)
}

func TestSubmit_SignFailureStopsEarly(t *testing.T) {
	api := newFakeAPI()
	api.signErr = &domain.HTTPError{Method: http.MethodGet, Status: http.StatusInternalServerError}
	p := NewPipeline(api, PipelineOptions{Log: utils.DiscardLogger()})

	res := p.Submit(context.Background(), testPhoto(t, "x"), "7")

	assert.False(t, res.OK())
	assert.Equal(t, domain.StageFailed, res.Stage)
	assert.Equal(t, domain.StageSigning, res.FailedAt)
	assert.Equal(t, []string{"sign:photo.jpg"}, api.Calls())
	assert.Nil(t, res.Ticket)
}

func TestSubmit_NoRestaurantFailsBeforeSigning(t *testing.T) {
	api := newFakeAPI()
	p := NewPipeline(api, PipelineOptions{Log: utils.DiscardLogger()})

	res := p.Submit(context.Background(), testPhoto(t, "x"), "")

	assert.ErrorIs(t, res.Err, domain.ErrNoRestaurantSelected)
	assert.Empty(t, api.Calls())
}

func TestSubmit_UploadFailureSkipsCreateByDefault(t *testing.T) {
	api := newFakeAPI()
	api.putStatus = http.StatusForbidden
	api.putErr = &domain.HTTPError{Method: http.MethodPut, Status: http.StatusForbidden}
	p := NewPipeline(api, PipelineOptions{Log: utils.DiscardLogger()})

	res := p.Submit(context.Background(), testPhoto(t, "x"), "7")

	assert.Equal(t, domain.StageFailed, res.Stage)
	assert.Equal(t, domain.StageUploading, res.FailedAt)
	assert.Equal(t, http.StatusForbidden, res.UploadStatus)
	assert.Error(t, res.UploadErr)
	assert.NotContains(t, api.Calls(), "create")
}

func TestSubmit_UploadFailureProceedsWhenConfigured(t *testing.T) {
	api := newFakeAPI()
	api.putStatus = http.StatusForbidden
	api.putErr = &domain.HTTPError{Method: http.MethodPut, Status: http.StatusForbidden}
	p := NewPipeline(api, PipelineOptions{CreateOnUploadFailure: true, Log: utils.DiscardLogger()})

	res := p.Submit(context.Background(), testPhoto(t, "x"), "7")

	assert.Equal(t, domain.StageDone, res.Stage)
	assert.NoError(t, res.Err)
	assert.Error(t, res.UploadErr)
	assert.Contains(t, api.Calls(), "create")
	assert.NotEmpty(t, res.Event().UploadError)
}

func TestSubmit_MissingFileFailsAtUpload(t *testing.T) {
	api := newFakeAPI()
	p := NewPipeline(api, PipelineOptions{Log: utils.DiscardLogger()})
	photo := domain.CapturedPhoto{Path: filepath.Join(t.TempDir(), "gone.jpg"), Filename: "gone.jpg"}

	res := p.Submit(context.Background(), photo, "7")

	assert.Equal(t, domain.StageUploading, res.FailedAt)
	var ioErr *domain.IOError
	assert.True(t, errors.As(res.Err, &ioErr))
}

func TestSubmit_CreateFailure(t *testing.T) {
	api := newFakeAPI()
	api.createErr = &domain.HTTPError{Method: http.MethodPost, Status: http.StatusBadRequest}
	p := NewPipeline(api, PipelineOptions{Log: utils.DiscardLogger()})

	res := p.Submit(context.Background(), testPhoto(t, "x"), "7")

	assert.Equal(t, domain.StageFailed, res.Stage)
	assert.Equal(t, domain.StageCreatingRecord, res.FailedAt)
	assert.Nil(t, res.Invoice)
}
