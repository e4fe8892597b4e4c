package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of the S3 API used to download documents. *s3.Client implements it.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client creates an S3 client from the default AWS credential chain. A non-empty
// endpoint targets an S3-compatible store such as R2 or MinIO.
func NewS3Client(ctx context.Context, endpoint string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ParseS3URI splits s3://bucket/key into its parts
func ParseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "s3" {
		return "", "", &ExtractionError{Source: uri, Message: "invalid S3 URI", Cause: err}
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", &ExtractionError{Source: uri, Message: "S3 URI needs a bucket and a key"}
	}
	return u.Host, key, nil
}

// Download reads an object fully, up to MaxDocumentBytes
func Download(ctx context.Context, client ObjectGetter, bucket, key string) ([]byte, error) {
	source := "s3://" + bucket + "/" + key
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &ExtractionError{Source: source, Message: "failed to get object", Cause: err}
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(out.Body, MaxDocumentBytes+1))
	if err != nil {
		return nil, &ExtractionError{Source: source, Message: "failed to read object body", Cause: err}
	}
	if len(data) > MaxDocumentBytes {
		return nil, &ExtractionError{Source: source, Message: fmt.Sprintf("object exceeds %d bytes", MaxDocumentBytes)}
	}
	return data, nil
}
