package submission

import (
	"Invoice-Capture/domain"
	"Invoice-Capture/pkg/capture"
	"Invoice-Capture/pkg/events"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type (
	RestaurantSource interface {
		RestaurantID() string
	}

	PhotoSource interface {
		Capture(ctx context.Context) (domain.CapturedPhoto, error)
	}

	ShooterOptions struct {
		Workers      int
		TargetPixels int
		History      SubmissionRepository
		Publisher    events.Publisher
		Log          *logrus.Logger
	}

	// Shooter decouples capture from submission: Shoot returns as soon as the
	// photo is on disk and the background work (resize, then the pipeline) is
	// scheduled. At most Workers jobs run at once; photos are not ordered
	// relative to each other.
	Shooter struct {
		ctx       context.Context
		photos    PhotoSource
		pipeline  *Pipeline
		session   RestaurantSource
		history   SubmissionRepository
		publisher events.Publisher
		target    int
		log       *logrus.Logger

		sem chan struct{}
		wg  sync.WaitGroup

		mu      sync.Mutex
		results []domain.SubmissionResult
	}
)

// NewShooter binds background jobs to ctx. Cancelling ctx aborts in-flight
// requests; the affected photos finish as failed.
func NewShooter(ctx context.Context, photos PhotoSource, pipeline *Pipeline, session RestaurantSource, opts ShooterOptions) *Shooter {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	target := opts.TargetPixels
	if target <= 0 {
		target = capture.TargetPixels
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Shooter{
		ctx:       ctx,
		photos:    photos,
		pipeline:  pipeline,
		session:   session,
		history:   opts.History,
		publisher: opts.Publisher,
		target:    target,
		log:       log,
		sem:       make(chan struct{}, workers),
	}
}

// Shoot captures one photo for the currently selected restaurant and
// schedules its submission.
func (s *Shooter) Shoot(ctx context.Context) (domain.CapturedPhoto, error) {
	restaurantID := s.session.RestaurantID()
	if restaurantID == "" {
		return domain.CapturedPhoto{}, domain.ErrNoRestaurantSelected
	}

	photo, err := s.photos.Capture(ctx)
	if err != nil {
		return domain.CapturedPhoto{}, err
	}

	s.wg.Add(1)
	go s.process(photo, restaurantID)
	return photo, nil
}

func (s *Shooter) process(photo domain.CapturedPhoto, restaurantID string) {
	defer s.wg.Done()

	if err := s.ctx.Err(); err != nil {
		s.abort(photo, restaurantID, err)
		return
	}
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-s.ctx.Done():
		s.abort(photo, restaurantID, s.ctx.Err())
		return
	}

	resized, err := capture.Resize(photo, s.target)
	if err != nil {
		s.finish(s.pipeline.fail(domain.SubmissionResult{
			Photo:        photo,
			Original:     photo,
			RestaurantID: restaurantID,
			Stage:        domain.StageCaptured,
			StartedAt:    s.pipeline.now(),
		}, domain.StageResized, err))
		return
	}
	if resized.Path != photo.Path {
		s.log.WithFields(logrus.Fields{
			"photo": photo.Filename,
			"from":  []int{photo.Width, photo.Height},
			"to":    []int{resized.Width, resized.Height},
		}).Debug("photo resized")
	}

	res := s.pipeline.Submit(s.ctx, resized, restaurantID)
	res.Original = photo
	// A failed upload leaves the photo on disk even when the invoice was created.
	if res.OK() && res.UploadErr == nil {
		if err := capture.Discard(photo, resized); err != nil {
			s.log.WithError(err).Warn("could not remove submitted photo")
		}
	}
	s.finish(res)
}

func (s *Shooter) abort(photo domain.CapturedPhoto, restaurantID string, err error) {
	s.finish(s.pipeline.fail(domain.SubmissionResult{
		Photo:        photo,
		Original:     photo,
		RestaurantID: restaurantID,
		StartedAt:    s.pipeline.now(),
	}, domain.StageCaptured, err))
}

// finish records and publishes a result. Neither failure affects the
// outcome of the submission itself.
func (s *Shooter) finish(res domain.SubmissionResult) {
	ctx := context.WithoutCancel(s.ctx)
	if s.history != nil {
		if err := s.history.Record(ctx, res); err != nil {
			s.log.WithError(err).Warn("could not record submission history")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, res.Event()); err != nil {
			s.log.WithError(err).Warn("could not publish submission event")
		}
	}

	s.mu.Lock()
	s.results = append(s.results, res)
	s.mu.Unlock()
}

// Wait blocks until every scheduled submission has finished and returns all
// results collected so far, in completion order.
func (s *Shooter) Wait() []domain.SubmissionResult {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SubmissionResult(nil), s.results...)
}
