package apiclient

import (
	"Invoice-Capture/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	pathAuthToken   = "/auth/token/"
	pathRestaurants = "/restaurant/"
	pathInvoices    = "/invoice/"
	pathSignUpload  = "/invoice/s3sign/"

	contentTypeJPEG = "image/jpeg"
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"

	DefaultTimeout = 30 * time.Second
)

type (
	// TokenSource yields the current auth token, or "" when logged out.
	TokenSource interface {
		Token() string
	}

	APIClient interface {
		Authenticate(ctx context.Context, username, password string) (domain.TokenResponse, error)
		ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
		ListPendingInvoices(ctx context.Context) ([]domain.Invoice, error)
		RequestSignedUpload(ctx context.Context, filename string) (domain.SignedUploadTicket, error)
		UploadImage(ctx context.Context, putURL string, image io.Reader, size int64) (int, error)
		CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (json.RawMessage, error)
	}

	Options struct {
		BaseURL      string
		Timeout      time.Duration
		HTTPClient   *http.Client
		Tokens       TokenSource
		Connectivity Connectivity
		Validator    *validator.Validate
		Log          *logrus.Logger
	}

	apiClient struct {
		baseURL      string
		httpClient   *http.Client
		tokens       TokenSource
		connectivity Connectivity
		validate     *validator.Validate
		log          *logrus.Logger
	}
)

func NewAPIClient(opts Options) (APIClient, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}
	if opts.Tokens == nil {
		return nil, errors.New("token source is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	connectivity := opts.Connectivity
	if connectivity == nil {
		connectivity = StaticConnectivity(true)
	}
	validate := opts.Validator
	if validate == nil {
		validate = validator.New()
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &apiClient{
		baseURL:      strings.TrimRight(base.String(), "/"),
		httpClient:   httpClient,
		tokens:       opts.Tokens,
		connectivity: connectivity,
		validate:     validate,
		log:          log,
	}, nil
}

type request struct {
	method      string
	url         string
	body        io.Reader
	size        int64
	contentType string
	auth        bool
}

// do runs one request. Auth and connectivity are checked before anything
// touches the network; any non-2xx status becomes *domain.HTTPError.
func (c *apiClient) do(ctx context.Context, r request) (int, []byte, error) {
	var token string
	if r.auth {
		token = c.tokens.Token()
		if token == "" {
			return 0, nil, domain.ErrUnauthenticated
		}
	}
	if !c.connectivity.Online(ctx) {
		return 0, nil, domain.ErrNoConnectivity
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, r.body)
	if err != nil {
		return 0, nil, err
	}
	if r.size > 0 {
		req.ContentLength = r.size
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.contentType != contentTypeJPEG {
		req.Header.Set("Accept", contentTypeJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", r.method, redact(r.url), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s response: %w", redact(r.url), err)
	}

	c.log.WithFields(logrus.Fields{
		"method": r.method,
		"url":    redact(r.url),
		"status": resp.StatusCode,
	}).Debug("api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, data, &domain.HTTPError{
			Method: r.method,
			URL:    redact(r.url),
			Status: resp.StatusCode,
			Body:   string(data),
		}
	}
	return resp.StatusCode, data, nil
}

// decode unmarshals a 2xx body and validates it; both failures are reported
// as *domain.MalformedResponseError carrying the raw body.
func (c *apiClient) decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &domain.MalformedResponseError{Body: string(data), Err: err}
	}
	if err := c.validate.Struct(v); err != nil {
		return &domain.MalformedResponseError{Body: string(data), Err: err}
	}
	return nil
}

func (c *apiClient) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *apiClient) Authenticate(ctx context.Context, username, password string) (domain.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	_, data, err := c.do(ctx, request{
		method:      http.MethodPost,
		url:         c.endpoint(pathAuthToken, nil),
		body:        strings.NewReader(form.Encode()),
		contentType: contentTypeForm,
	})
	if err != nil {
		var httpErr *domain.HTTPError
		switch {
		case errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized:
			return domain.TokenResponse{}, &domain.AuthError{Message: authMessage(data)}
		case errors.Is(err, domain.ErrNoConnectivity):
			return domain.TokenResponse{}, err
		default:
			return domain.TokenResponse{}, fmt.Errorf("%w: %w", domain.ErrServerUnavailable, err)
		}
	}

	var res domain.TokenResponse
	if err := c.decode(data, &res); err != nil {
		return domain.TokenResponse{}, err
	}
	return res, nil
}

func (c *apiClient) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	_, data, err := c.do(ctx, request{
		method: http.MethodGet,
		url:    c.endpoint(pathRestaurants, nil),
		auth:   true,
	})
	if err != nil {
		return nil, err
	}

	var restaurants []domain.Restaurant
	if err := json.Unmarshal(data, &restaurants); err != nil {
		return nil, &domain.MalformedResponseError{Body: string(data), Err: err}
	}
	for i := range restaurants {
		if err := c.validate.Struct(restaurants[i]); err != nil {
			return nil, &domain.MalformedResponseError{
				Body: string(data),
				Err:  fmt.Errorf("restaurant %d: %w", i, err),
			}
		}
	}
	return restaurants, nil
}

func (c *apiClient) ListPendingInvoices(ctx context.Context) ([]domain.Invoice, error) {
	query := url.Values{}
	query.Set("state", domain.InvoiceStatePending)

	_, data, err := c.do(ctx, request{
		method: http.MethodGet,
		url:    c.endpoint(pathInvoices, query),
		auth:   true,
	})
	if err != nil {
		return nil, err
	}

	var res domain.PendingInvoicesResponse
	if err := c.decode(data, &res); err != nil {
		return nil, err
	}
	for i := range res.Results {
		if err := c.validate.Struct(res.Results[i]); err != nil {
			return nil, &domain.MalformedResponseError{
				Body: string(data),
				Err:  fmt.Errorf("invoice %d: %w", i, err),
			}
		}
	}
	return res.Results, nil
}

func (c *apiClient) RequestSignedUpload(ctx context.Context, filename string) (domain.SignedUploadTicket, error) {
	query := url.Values{}
	query.Set("filename", filename)

	_, data, err := c.do(ctx, request{
		method: http.MethodGet,
		url:    c.endpoint(pathSignUpload, query),
		auth:   true,
	})
	if err != nil {
		return domain.SignedUploadTicket{}, err
	}

	var ticket domain.SignedUploadTicket
	if err := c.decode(data, &ticket); err != nil {
		return domain.SignedUploadTicket{}, err
	}
	return ticket, nil
}

// UploadImage PUTs raw JPEG bytes to a pre-signed storage URL. No auth header
// is sent. Only 200 and 201 count as success.
func (c *apiClient) UploadImage(ctx context.Context, putURL string, image io.Reader, size int64) (int, error) {
	status, _, err := c.do(ctx, request{
		method:      http.MethodPut,
		url:         putURL,
		body:        image,
		size:        size,
		contentType: contentTypeJPEG,
	})
	if err != nil {
		return status, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return status, &domain.HTTPError{Method: http.MethodPut, URL: redact(putURL), Status: status}
	}
	return status, nil
}

// CreateInvoice posts the invoice record. The response body is returned as-is.
func (c *apiClient) CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	_, data, err := c.do(ctx, request{
		method:      http.MethodPost,
		url:         c.endpoint(pathInvoices, nil),
		body:        bytes.NewReader(body),
		contentType: contentTypeJSON,
		auth:        true,
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// authMessage extracts a readable message from a 401 body.
func authMessage(body []byte) string {
	var detail domain.ErrorDetail
	if err := json.Unmarshal(body, &detail); err == nil {
		if detail.Detail != "" {
			return detail.Detail
		}
		if len(detail.NonFieldErrors) > 0 {
			return strings.Join(detail.NonFieldErrors, " ")
		}
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.ReplaceAll(string(body), `"`, ""))
}

// redact drops the query string of pre-signed URLs, which carries the signature.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := strings.ToLower(u.RawQuery)
	if strings.Contains(q, "signature") || strings.Contains(q, "sig=") {
		u.RawQuery = ""
	}
	return u.String()
}
