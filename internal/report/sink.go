package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/booking-cleanup/internal/config"
)

// Sink stores a finished report and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, body []byte) (string, error)
}

// ======================================================
// Local directory
// ======================================================

type FileSink struct {
	Dir string
}

func (s FileSink) Put(_ context.Context, name string, body []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	p := filepath.Join(s.Dir, name)
	if err := os.WriteFile(p, body, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return p, nil
}

// ======================================================
// S3
// ======================================================

type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Sink(client PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// NewS3SinkFromConfig builds the client from static credentials in config.
func NewS3SinkFromConfig(cfg config.ReportConfig) (*S3Sink, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("report.s3_bucket is set but AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY are missing")
	}
	client := s3.New(s3.Options{
		Region: cfg.S3Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		),
	})
	return NewS3Sink(client, cfg.S3Bucket, cfg.S3Prefix), nil
}

func (s *S3Sink) Put(ctx context.Context, name string, body []byte) (string, error) {
	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload report to s3: %w", err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

// Archive writes the report JSON to every sink, stopping at the first error.
func Archive(ctx context.Context, rep *Report, sinks ...Sink) ([]string, error) {
	body, err := rep.JSON()
	if err != nil {
		return nil, err
	}
	var locations []string
	for _, s := range sinks {
		loc, err := s.Put(ctx, rep.FileName(), body)
		if err != nil {
			return locations, err
		}
		locations = append(locations, loc)
	}
	return locations, nil
}
