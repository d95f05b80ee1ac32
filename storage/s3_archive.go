// Package storage archives rendered invoices outside the database.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"hotel-frontdesk/config"
)

// InvoiceArchive stores a printable copy of each invoice.
type InvoiceArchive interface {
	PutInvoice(ctx context.Context, invoiceNumber string, html []byte) (string, error)
}

// objectPutter is the slice of the S3 client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Archive struct {
	client objectPutter
	bucket string
	prefix string
}

// NewS3Archive loads AWS config. Static keys are used when present, else the default chain.
func NewS3Archive(ctx context.Context, cfg config.S3Config) (InvoiceArchive, error) {
	opts := []func(*aws_config.LoadOptions) error{aws_config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, aws_config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := aws_config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newS3Archive(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

func newS3Archive(client objectPutter, bucket, prefix string) *s3Archive {
	return &s3Archive{client: client, bucket: bucket, prefix: prefix}
}

func (a *s3Archive) key(invoiceNumber string) string {
	return path.Join(a.prefix, invoiceNumber+".html")
}

func (a *s3Archive) PutInvoice(ctx context.Context, invoiceNumber string, html []byte) (string, error) {
	key := a.key(invoiceNumber)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(html),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload invoice %s: %w", key, err)
	}
	return key, nil
}

// NopArchive is used when no bucket is configured.
type NopArchive struct{}

func (NopArchive) PutInvoice(context.Context, string, []byte) (string, error) { return "", nil }
