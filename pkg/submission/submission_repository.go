package submission

import (
	"Invoice-Capture/domain"
	"Invoice-Capture/entities"
	"context"

	"gorm.io/gorm"
)

type (
	SubmissionRepository interface {
		Record(ctx context.Context, result domain.SubmissionResult) error
		List(ctx context.Context, limit int) ([]*entities.SubmissionRecord, error)
	}

	submissionRepository struct {
		db *gorm.DB
	}
)

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Record(ctx context.Context, result domain.SubmissionResult) error {
	ev := result.Event()
	record := &entities.SubmissionRecord{
		Filename:     ev.Filename,
		RestaurantID: ev.RestaurantID,
		Stage:        string(ev.Stage),
		FailedAt:     string(ev.FailedAt),
		UploadID:     ev.UploadID,
		ImageURL:     ev.ImageURL,
		UploadStatus: ev.UploadStatus,
		UploadError:  ev.UploadError,
		Error:        ev.Error,
		StartedAt:    ev.StartedAt,
		FinishedAt:   ev.FinishedAt,
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *submissionRepository) List(ctx context.Context, limit int) ([]*entities.SubmissionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []*entities.SubmissionRecord
	err := r.db.WithContext(ctx).
		Order("finished_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
