package blocklist

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped blocklist files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based blocklist loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "blocklist-loader").Logger(),
	}
}

// Load reads a gzipped blocklist file and returns a Set.
// The file is expected to contain one phone number or email per line.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Set, error) {
	l.logger.Info().Str("file", filePath).Msg("loading blocklist file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open blocklist file")
		return nil, fmt.Errorf("failed to open blocklist file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	set, err := readSet(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading blocklist file")
		return nil, fmt.Errorf("error reading blocklist file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("entries_loaded", set.Size()).
		Msg("blocklist file loaded")

	return set, nil
}

// readSet scans entries line by line into a canonical set. Shared by the
// file and S3 loaders.
func readSet(ctx context.Context, src interface{ Read([]byte) (int, error) }) (Set, error) {
	set := NewMapSet(4096).(*mapSet)

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineCount := 0
	for scanner.Scan() {
		// Check context cancellation periodically
		if lineCount%100_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		if entry := Canonicalize(scanner.Text()); entry != "" {
			set.Add(entry)
			lineCount++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return set, nil
}
