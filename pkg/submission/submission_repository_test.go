package submission

import (
	"Invoice-Capture/domain"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionRepository_ListNewestFirst(t *testing.T) {
	repo := newHistory(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		res := domain.SubmissionResult{
			Photo:        domain.CapturedPhoto{Filename: name},
			RestaurantID: "7",
			Stage:        domain.StageDone,
			FinishedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if name == "b.jpg" {
			res.Stage = domain.StageFailed
			res.FailedAt = domain.StageUploading
			res.Err = errors.New("boom")
			res.Ticket = &domain.SignedUploadTicket{UploadID: "42", URL: "https://cdn/b.jpg"}
		}
		require.NoError(t, repo.Record(ctx, res))
	}

	records, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c.jpg", records[0].Filename)
	assert.Equal(t, "b.jpg", records[1].Filename)
	assert.Equal(t, string(domain.StageUploading), records[1].FailedAt)
	assert.Equal(t, "boom", records[1].Error)
	assert.Equal(t, "42", records[1].UploadID)
}
