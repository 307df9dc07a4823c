package config

import (
	migration "Invoice-Capture/cmd/database/migrate"
	"Invoice-Capture/internal/utils"
	"Invoice-Capture/pkg/apiclient"
	"Invoice-Capture/pkg/capture"
	"Invoice-Capture/pkg/events"
	"Invoice-Capture/pkg/listing"
	"Invoice-Capture/pkg/session"
	"Invoice-Capture/pkg/submission"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Client holds every component the CLI needs, wired from configuration.
type Client struct {
	DB        *gorm.DB
	Log       *logrus.Logger
	Session   session.SessionService
	API       apiclient.APIClient
	Listing   listing.ListingService
	History   submission.SubmissionRepository
	Pipeline  *submission.Pipeline
	Publisher events.Publisher
}

func NewClient(log *logrus.Logger) (*Client, error) {
	db, err := ConnectLocalStore()
	if err != nil {
		return nil, err
	}
	if err := migration.MigrateLocal(db); err != nil {
		return nil, err
	}

	baseURL := utils.GetConfig("API_BASE_URL")
	timeout := utils.GetDuration("HTTP_TIMEOUT")
	connectivity, err := apiclient.NewDialConnectivity(baseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL: %w", err)
	}

	sess := session.New()
	api, err := apiclient.NewAPIClient(apiclient.Options{
		BaseURL:      baseURL,
		Timeout:      timeout,
		Tokens:       sess,
		Connectivity: connectivity,
		Validator:    utils.Validator(),
		Log:          log,
	})
	if err != nil {
		return nil, err
	}

	publishers := events.Multi{events.NewLogPublisher(log)}
	if brokers := utils.GetList("KAFKA_BROKERS"); len(brokers) > 0 {
		publishers = append(publishers, events.NewKafkaPublisher(brokers, utils.GetConfig("KAFKA_TOPIC")))
	}

	pipeline := submission.NewPipeline(api, submission.PipelineOptions{
		CreateOnUploadFailure: utils.GetBool("CREATE_ON_UPLOAD_FAILURE"),
		Log:                   log,
	})

	return &Client{
		DB:        db,
		Log:       log,
		Session:   session.NewSessionService(sess, session.NewSessionRepository(db), api, log),
		API:       api,
		Listing:   listing.NewListingService(api),
		History:   submission.NewSubmissionRepository(db),
		Pipeline:  pipeline,
		Publisher: publishers,
	}, nil
}

// NewShooter binds a shooter to ctx, capturing from camera into PHOTO_DIR.
func (c *Client) NewShooter(ctx context.Context, camera capture.Camera) (*submission.Shooter, error) {
	capturer, err := capture.NewCapturer(camera, utils.GetConfig("PHOTO_DIR"), utils.GetConfig("PHOTO_FALLBACK_DIR"), c.Log)
	if err != nil {
		return nil, err
	}
	return submission.NewShooter(ctx, capturer, c.Pipeline, c.Session.Session(), submission.ShooterOptions{
		Workers:   utils.GetInt("WORKERS"),
		History:   c.History,
		Publisher: c.Publisher,
		Log:       c.Log,
	}), nil
}

func (c *Client) Close() error {
	err := c.Publisher.Close()
	if sqlDB, dbErr := c.DB.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	return err
}
