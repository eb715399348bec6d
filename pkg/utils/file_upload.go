package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"routeaura/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func s3ClientFromConfig(ctx context.Context, cfg config.IConfig) (*s3.Client, string, string, error) {
	var (
		awsRegion          = cfg.GetString("aws_region")
		awsBucket          = cfg.GetString("aws_s3_bucket")
		awsAccessKeyID     = cfg.GetString("aws_access_key_id")
		awsSecretAccessKey = cfg.GetString("aws_secret_access_key")
	)

	if awsRegion == "" || awsBucket == "" || awsAccessKeyID == "" || awsSecretAccessKey == "" {
		return nil, "", "", fmt.Errorf("missing AWS configuration values")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(awsRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKeyID, awsSecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg), awsBucket, awsRegion, nil
}

// UploadFromURL pulls a remote image into the gallery bucket and returns
// its public URL. Used when seeding gallery content from external sources.
func UploadFromURL(ctx context.Context, cfg config.IConfig, fileURL, folder string) (string, error) {
	if fileURL == "" {
		return "", fmt.Errorf("empty file url")
	}

	client, bucket, region, err := s3ClientFromConfig(ctx, cfg)
	if err != nil {
		return "", err
	}

	resp, err := http.Get(fileURL)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d downloading file", resp.StatusCode)
	}

	key := fmt.Sprintf("%s/%d.jpg", folder, time.Now().UnixNano())

	uploader := manager.NewUploader(client)
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   io.Reader(resp.Body),
	}); err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key), nil
}

// PresignObjectURL returns a temporary GET URL for a gallery object.
func PresignObjectURL(ctx context.Context, cfg config.IConfig, key string, expires time.Duration) (string, error) {
	client, bucket, _, err := s3ClientFromConfig(ctx, cfg)
	if err != nil {
		return "", err
	}

	presigner := s3.NewPresignClient(client)
	out, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign object: %w", err)
	}

	return out.URL, nil
}
