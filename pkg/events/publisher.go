package events

import (
	"Invoice-Capture/domain"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Publisher receives one event per finished pipeline run.
type Publisher interface {
	Publish(ctx context.Context, ev domain.SubmissionEvent) error
	Close() error
}

type LogPublisher struct {
	log *logrus.Logger
}

func NewLogPublisher(log *logrus.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, ev domain.SubmissionEvent) error {
	entry := p.log.WithFields(logrus.Fields{
		"photo":      ev.Filename,
		"restaurant": ev.RestaurantID,
		"stage":      ev.Stage,
		"upload_id":  ev.UploadID,
	})
	if ev.Error != "" {
		entry.WithField("failed_at", ev.FailedAt).Error("invoice submission failed: " + ev.Error)
		return nil
	}
	if ev.UploadError != "" {
		entry = entry.WithField("upload_error", ev.UploadError)
	}
	entry.Info("invoice submitted")
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev domain.SubmissionEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
