package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/collectadmin/internal/common"
	sc "github.com/dmitrijs2005/collectadmin/internal/server/config"
	"github.com/google/uuid"
)

// ExportURLValidity bounds how long a presigned snapshot link works.
const ExportURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	exportNow = time.Now
)

// SnapshotSource produces the current listing of one resource.
type SnapshotSource func(ctx context.Context) (any, error)

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ExportService uploads JSON snapshots of resource listings to an
// S3-compatible bucket and hands out presigned download links.
type ExportService struct {
	config  *sc.Config
	sources map[string]SnapshotSource
}

func NewExportService(cfg *sc.Config, sources map[string]SnapshotSource) *ExportService {
	return &ExportService{config: cfg, sources: sources}
}

// SnapshotKey names the object for a snapshot taken at t.
func SnapshotKey(resource string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%s-%s.json", resource, t.UTC().Format("20060102T150405Z"), uuid.NewString())
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export serializes the listing of resource, stores it and returns the
// object key with a presigned GET URL.
func (s *ExportService) Export(ctx context.Context, resource string) (*ExportResult, error) {
	source, ok := s.sources[resource]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !s.config.ExportEnabled() {
		return nil, common.ErrorExportDisabled
	}

	data, err := source(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 config: %w", common.ErrorUnavailable, err)
	}

	bucket := s.config.S3Bucket
	key := SnapshotKey(resource, exportNow())

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("%w: upload snapshot: %w", common.ErrorUnavailable, err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportURLValidity))
	if err != nil {
		return nil, fmt.Errorf("%w: presign snapshot: %w", common.ErrorUnavailable, err)
	}

	return &ExportResult{Key: key, URL: req.URL}, nil
}
