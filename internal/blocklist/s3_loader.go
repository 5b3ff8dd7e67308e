package blocklist

import (
	"compress/gzip"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for reading gzipped blocklist files merchants
// upload to S3.
type s3Loader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based blocklist loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-blocklist-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 blocklist loader initialised")

	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Load reads a gzipped blocklist file from S3 and returns a Set.
// The key parameter should be the full S3 key (including any prefix).
func (l *s3Loader) Load(ctx context.Context, key string) (Set, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading blocklist file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	gzipReader, err := gzip.NewReader(result.Body)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for S3 object %s: %w", key, err)
	}
	defer gzipReader.Close()

	set, err := readSet(ctx, gzipReader)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("error reading blocklist file from S3")
		return nil, fmt.Errorf("error reading blocklist file from S3 %s: %w", key, err)
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Int("entries_loaded", set.Size()).
		Msg("blocklist file loaded from S3")

	return set, nil
}

// LoadAll loads every configured blocklist source concurrently with the
// given loader. A source that fails to load is skipped with a warning; a
// missing bulk list must not prevent startup.
func LoadAll(ctx context.Context, loader Loader, paths []string, logger zerolog.Logger) *Checker {
	type loadResult struct {
		set Set
		err error
	}

	results := make([]loadResult, len(paths))
	done := make(chan int, len(paths))

	for i, path := range paths {
		go func(index int, p string) {
			set, err := loader.Load(ctx, p)
			results[index] = loadResult{set: set, err: err}
			done <- index
		}(i, path)
	}

	var sets []Set
	for range paths {
		<-done
	}
	for i, result := range results {
		if result.err != nil {
			logger.Warn().
				Err(result.err).
				Str("path", paths[i]).
				Msg("skipping blocklist source")
			continue
		}
		sets = append(sets, result.set)
	}

	return NewChecker(sets)
}
