package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionRecord is the local history row of one pipeline run.
type SubmissionRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Filename     string    `json:"filename"`
	RestaurantID string    `gorm:"index" json:"restaurant_id"`
	Stage        string    `json:"stage"`
	FailedAt     string    `json:"failed_at,omitempty"`
	UploadID     string    `json:"upload_id,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	UploadStatus int       `json:"upload_status,omitempty"`
	UploadError  string    `gorm:"type:text" json:"upload_error,omitempty"`
	Error        string    `gorm:"type:text" json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `gorm:"index" json:"finished_at"`
	Timestamp
}

func (r *SubmissionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
