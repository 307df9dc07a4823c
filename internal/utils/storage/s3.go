package storage

import (
	"Invoice-Capture/internal/utils"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const ContentTypeJPEG = "image/jpeg"

var AllowImage = []string{".jpg", ".jpeg"}

type (
	AwsS3 interface {
		PresignPut(ctx context.Context, objectKey string, expires time.Duration) (string, error)
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	S3Options struct {
		Bucket        string
		Region        string
		AccessKey     string
		SecretKey     string
		Endpoint      string
		PublicBaseURL string
	}

	awsS3 struct {
		presigner  *s3.PresignClient
		bucket     string
		publicBase string
	}
)

// NewAwsS3 builds the presigner from the AWS_* configuration keys.
func NewAwsS3(ctx context.Context) (AwsS3, error) {
	return NewAwsS3WithOptions(ctx, S3Options{
		Bucket:        utils.GetConfig("AWS_S3_BUCKET"),
		Region:        utils.GetConfig("AWS_S3_REGION"),
		AccessKey:     utils.GetConfig("AWS_ACCESS_KEY"),
		SecretKey:     utils.GetConfig("AWS_SECRET_KEY"),
		Endpoint:      utils.GetConfig("AWS_S3_ENDPOINT"),
		PublicBaseURL: utils.GetConfig("PUBLIC_BASE_URL"),
	})
}

func NewAwsS3WithOptions(ctx context.Context, opts S3Options) (AwsS3, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is not configured")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := strings.TrimRight(opts.PublicBaseURL, "/")
	if publicBase == "" {
		if opts.Endpoint != "" {
			publicBase = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		} else {
			publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}

	return &awsS3{
		presigner:  s3.NewPresignClient(client),
		bucket:     opts.Bucket,
		publicBase: publicBase,
	}, nil
}

// PresignPut returns a URL that accepts one PUT of a JPEG to objectKey.
func (s *awsS3) PresignPut(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(ContentTypeJPEG),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", objectKey, err)
	}
	return req.URL, nil
}

func (s *awsS3) GetPublicLinkKey(objectKey string) string {
	return s.publicBase + "/" + objectKey
}

func (s *awsS3) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, s.publicBase+"/") {
		return ""
	}
	key := strings.TrimPrefix(link, s.publicBase+"/")
	if unescaped, err := url.PathUnescape(key); err == nil {
		return unescaped
	}
	return key
}
