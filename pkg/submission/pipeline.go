package submission

import (
	"Invoice-Capture/domain"
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type (
	// API is the subset of the API client the pipeline drives.
	API interface {
		RequestSignedUpload(ctx context.Context, filename string) (domain.SignedUploadTicket, error)
		UploadImage(ctx context.Context, putURL string, image io.Reader, size int64) (int, error)
		CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (json.RawMessage, error)
	}

	PipelineOptions struct {
		// CreateOnUploadFailure keeps going to the create stage when the
		// storage upload fails, as older clients did.
		CreateOnUploadFailure bool
		Log                   *logrus.Logger
		Now                   func() time.Time
	}

	// Pipeline runs sign -> upload -> create for one photo at a time. Stages
	// never overlap and nothing is retried.
	Pipeline struct {
		api                   API
		createOnUploadFailure bool
		log                   *logrus.Logger
		now                   func() time.Time
	}
)

func NewPipeline(api API, opts PipelineOptions) *Pipeline {
	p := &Pipeline{
		api:                   api,
		createOnUploadFailure: opts.CreateOnUploadFailure,
		log:                   opts.Log,
		now:                   opts.Now,
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Submit runs the pipeline for an already resized photo. The result always
// carries the last stage reached; on failure Stage is StageFailed and
// FailedAt names the stage that failed.
func (p *Pipeline) Submit(ctx context.Context, photo domain.CapturedPhoto, restaurantID string) domain.SubmissionResult {
	res := domain.SubmissionResult{
		Photo:        photo,
		RestaurantID: restaurantID,
		Stage:        domain.StageResized,
		StartedAt:    p.now(),
	}
	log := p.log.WithFields(logrus.Fields{"photo": photo.Filename, "restaurant": restaurantID})

	if restaurantID == "" {
		return p.fail(res, domain.StageSigning, domain.ErrNoRestaurantSelected)
	}

	res.Stage = domain.StageSigning
	ticket, err := p.api.RequestSignedUpload(ctx, photo.Filename)
	if err != nil {
		log.WithError(err).Warn("sign request failed")
		return p.fail(res, domain.StageSigning, err)
	}
	res.Ticket = &ticket
	log = log.WithField("upload_id", ticket.UploadID.String())

	res.Stage = domain.StageUploading
	status, err := p.upload(ctx, photo, ticket)
	res.UploadStatus = status
	if err != nil {
		res.UploadErr = err
		log.WithError(err).WithField("status", status).Warn("upload to storage failed")
		if !p.createOnUploadFailure {
			return p.fail(res, domain.StageUploading, err)
		}
	}

	res.Stage = domain.StageCreatingRecord
	body, err := p.api.CreateInvoice(ctx, domain.CreateInvoiceRequest{
		Restaurant: restaurantID,
		UploadID:   ticket.UploadID.String(),
		Image:      ticket.URL,
	})
	if err != nil {
		log.WithError(err).Warn("create invoice failed")
		return p.fail(res, domain.StageCreatingRecord, err)
	}
	res.Invoice = body

	res.Stage = domain.StageDone
	res.FinishedAt = p.now()
	log.Debug("invoice pipeline done")
	return res
}

func (p *Pipeline) upload(ctx context.Context, photo domain.CapturedPhoto, ticket domain.SignedUploadTicket) (int, error) {
	f, err := os.Open(photo.Path)
	if err != nil {
		return 0, &domain.IOError{Op: "open", Path: photo.Path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, &domain.IOError{Op: "stat", Path: photo.Path, Err: err}
	}
	return p.api.UploadImage(ctx, ticket.PutRequest, f, info.Size())
}

func (p *Pipeline) fail(res domain.SubmissionResult, at domain.Stage, err error) domain.SubmissionResult {
	res.Stage = domain.StageFailed
	res.FailedAt = at
	res.Err = err
	res.FinishedAt = p.now()
	return res
}
