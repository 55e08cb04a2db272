package upload

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/config"
)

// s3Host stores images in an S3 (or S3-compatible) bucket. It takes over the
// primary slot of the host chain when configured.
type s3Host struct {
	client *s3.Client
	opts   config.S3Options
}

func newS3Host(opts config.S3Options) *s3Host {
	clientOpts := s3.Options{
		Region:       opts.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		UsePathStyle: opts.PathStyleAccess,
	}
	if opts.Endpoint != "" {
		clientOpts.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return &s3Host{client: s3.New(clientOpts), opts: opts}
}

func (h *s3Host) Name() string { return "s3" }

func (h *s3Host) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	key := "uploads/" + filename
	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return h.publicURL(key), nil
}

func (h *s3Host) publicURL(key string) string {
	if h.opts.CustomDomain != "" {
		return strings.TrimSuffix(h.opts.CustomDomain, "/") + "/" + key
	}
	if h.opts.Endpoint != "" {
		return strings.TrimSuffix(h.opts.Endpoint, "/") + "/" + h.opts.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.opts.Bucket, h.opts.Region, key)
}
