package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"github.com/datacentral/retail-etl/internal/errs"
)

// S3Downloader fetches dataset objects from object storage.
type S3Downloader struct {
	client *s3.Client
	log    *zerolog.Logger
}

// NewS3Downloader creates a downloader using the default AWS
// credential chain and the configured region.
func NewS3Downloader(ctx context.Context, region string, logger *zerolog.Logger) (*S3Downloader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &S3Downloader{
		client: s3.NewFromConfig(cfg),
		log:    logger,
	}, nil
}

// ParseS3Address splits an s3://bucket/key address into its parts.
func ParseS3Address(address string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(address, "s3://")
	if trimmed == address {
		return "", "", fmt.Errorf("address %q does not start with s3://", address)
	}

	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("address %q is missing a bucket or key", address)
	}

	return bucket, key, nil
}

// Download fetches the object at an s3:// address into memory.
// The dataset extracts are small enough that streaming is not worth
// the complexity.
func (d *S3Downloader) Download(ctx context.Context, address string) ([]byte, error) {
	bucket, key, err := ParseS3Address(address)
	if err != nil {
		return nil, err
	}

	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", bucket, key, err)
	}

	d.log.Info().Str("bucket", bucket).Str("key", key).Int("bytes", len(body)).Msg("downloaded object")
	return body, nil
}

// RetrieveProducts downloads and decodes the products CSV.
func (d *S3Downloader) RetrieveProducts(ctx context.Context, address string) ([]ProductRecord, error) {
	body, err := d.Download(ctx, address)
	if err != nil {
		return nil, errs.NewExtractError("products", "", "downloading products CSV", err)
	}

	var records []ProductRecord
	if err := gocsv.UnmarshalBytes(body, &records); err != nil {
		return nil, errs.NewExtractError("products", "CSV_MALFORMED", "decoding products CSV", err)
	}

	d.log.Info().Int("rows", len(records)).Msg("extracted product records")
	return records, nil
}

// RetrieveDateEvents downloads and decodes the date-details JSON,
// an array of sale-time event objects.
func (d *S3Downloader) RetrieveDateEvents(ctx context.Context, address string) ([]DateEventRecord, error) {
	body, err := d.Download(ctx, address)
	if err != nil {
		return nil, errs.NewExtractError("date_events", "", "downloading date events JSON", err)
	}

	var records []DateEventRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, errs.NewExtractError("date_events", "JSON_MALFORMED", "decoding date events JSON", err)
	}

	d.log.Info().Int("rows", len(records)).Msg("extracted date event records")
	return records, nil
}
