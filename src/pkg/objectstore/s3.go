package objectstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploaderAPI is the part of manager.Uploader the backend needs.
type UploaderAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Options struct {
	// Endpoint overrides the resolved S3 endpoint, e.g. for S3 compatible stores.
	Endpoint     string
	UsePathStyle bool
}

type S3Backend struct {
	uploader UploaderAPI
}

func NewS3Backend(cfg aws.Config, opts S3Options) *S3Backend {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})
	return NewS3BackendWithUploader(manager.NewUploader(client))
}

func NewS3BackendWithUploader(uploader UploaderAPI) *S3Backend {
	return &S3Backend{uploader: uploader}
}

func (b *S3Backend) Store(ctx context.Context, bucket, name string, body io.Reader) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
		Body:   body,
	}

	contentType, detectErr := detectContentType(body)
	if detectErr != nil {
		return fmt.Errorf("failed to upload %q to bucket %q: %w", name, bucket, detectErr)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, uploadErr := b.uploader.Upload(ctx, input)
	if uploadErr != nil {
		slog.Error("Error while trying to upload file", "bucket", bucket, "name", name, "error", uploadErr)
		return fmt.Errorf("failed to upload %q to bucket %q: %w", name, bucket, uploadErr)
	}

	slog.Info("Successfully uploaded file", "bucket", bucket, "name", name, "location", out.Location)
	return nil
}
