package domain

import (
	"encoding/json"
	"time"
)

// Stage is a step in the per-photo submission state machine:
// Captured -> Resized -> Signing -> Uploading -> CreatingRecord -> Done,
// with Failed reachable from every non-terminal stage.
type Stage string

const (
	StageCaptured       Stage = "captured"
	StageResized        Stage = "resized"
	StageSigning        Stage = "signing"
	StageUploading      Stage = "uploading"
	StageCreatingRecord Stage = "creating_record"
	StageDone           Stage = "done"
	StageFailed         Stage = "failed"
)

// CapturedPhoto is a JPEG written to the private photo directory.
type CapturedPhoto struct {
	Path     string
	Filename string
	Width    int
	Height   int
}

func (p CapturedPhoto) Pixels() int { return p.Width * p.Height }

// SubmissionResult is the observable outcome of one pipeline run.
type SubmissionResult struct {
	Photo        CapturedPhoto
	Original     CapturedPhoto
	RestaurantID string
	Stage        Stage
	FailedAt     Stage
	Ticket       *SignedUploadTicket
	UploadStatus int
	UploadErr    error
	Invoice      json.RawMessage
	Err          error
	StartedAt    time.Time
	FinishedAt   time.Time
}

func (r SubmissionResult) OK() bool { return r.Stage == StageDone && r.Err == nil }

// SubmissionEvent is the published form of a SubmissionResult.
type SubmissionEvent struct {
	Filename     string    `json:"filename"`
	RestaurantID string    `json:"restaurant_id"`
	Stage        Stage     `json:"stage"`
	FailedAt     Stage     `json:"failed_at,omitempty"`
	UploadID     string    `json:"upload_id,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	UploadStatus int       `json:"upload_status,omitempty"`
	UploadError  string    `json:"upload_error,omitempty"`
	Error        string    `json:"error,omitempty"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

func (r SubmissionResult) Event() SubmissionEvent {
	ev := SubmissionEvent{
		Filename:     r.Photo.Filename,
		RestaurantID: r.RestaurantID,
		Stage:        r.Stage,
		FailedAt:     r.FailedAt,
		UploadStatus: r.UploadStatus,
		Width:        r.Photo.Width,
		Height:       r.Photo.Height,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
	}
	if r.Ticket != nil {
		ev.UploadID = r.Ticket.UploadID.String()
		ev.ImageURL = r.Ticket.URL
	}
	if r.UploadErr != nil {
		ev.UploadError = r.UploadErr.Error()
	}
	if r.Err != nil {
		ev.Error = r.Err.Error()
	}
	return ev
}
