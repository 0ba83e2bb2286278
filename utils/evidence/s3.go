package evidence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// maxEvidenceSize caps a single screenshot read into memory before upload.
const maxEvidenceSize = 25 << 20

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads evidence to an S3 compatible bucket (AWS, R2, MinIO).
type S3Store struct {
	client     ObjectPutter
	bucket     string
	publicBase string
	http       *http.Client
	now        func() time.Time
}

// NewS3Client builds an S3 client from static credentials. A custom
// endpoint switches to path-style addressing.
func NewS3Client(ctx context.Context, cfg model.S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewS3Store(client ObjectPutter, bucket, publicBaseURL string, httpClient *http.Client) *S3Store {
	if httpClient == nil {
		httpClient = utils.GlobalHTTPClient
	}
	return &S3Store{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBaseURL, "/"),
		http:       httpClient,
		now:        time.Now,
	}
}

// Save downloads req.URL and uploads it. It returns the public URL when a
// base URL is configured, the object key otherwise.
func (s *S3Store) Save(ctx context.Context, req Request) (string, error) {
	body, contentType, err := utils.OpenURL(ctx, s.http, req.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %s evidence: %v", model.ErrEvidenceUpload, req.Kind, err)
	}
	defer body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, io.LimitReader(body, maxEvidenceSize+1)); err != nil {
		return "", fmt.Errorf("%w: failed to read %s evidence: %v", model.ErrEvidenceUpload, req.Kind, err)
	}
	if buf.Len() > maxEvidenceSize {
		return "", fmt.Errorf("%w: %s evidence exceeds %d bytes", model.ErrEvidenceUpload, req.Kind, maxEvidenceSize)
	}

	if req.ContentType == "" {
		req.ContentType = contentType
	}
	key := path.Join(Dir(req), ObjectName(req, s.now(), uuid.New()))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(baseMediaType(req.ContentType)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload %s: %v", model.ErrEvidenceUpload, key, err)
	}

	if s.publicBase != "" {
		return s.publicBase + "/" + key, nil
	}
	return key, nil
}
