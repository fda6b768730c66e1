package blob

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Uploader writes export artifacts to an S3 bucket and returns a
// presigned GET URL so the dashboard can download them without credentials.
type S3Uploader struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	urlTTL  time.Duration
}

var _ Uploader = (*S3Uploader)(nil)

// NewS3Uploader resolves AWS configuration from the environment
// (credentials, region) and verifies nothing: the bucket is only touched on
// the first upload.
func NewS3Uploader(ctx context.Context, bucket string, urlTTL time.Duration) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg)
	return &S3Uploader{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		urlTTL:  urlTTL,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, name, contentType string, body []byte) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	signed, err := u.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(name),
	}, s3.WithPresignExpires(u.urlTTL))
	if err != nil {
		return "", err
	}

	return signed.URL, nil
}
