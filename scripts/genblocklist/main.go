package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Generates sample gzipped blocklist files for local development. Point
// BLOCKLIST_KEYS at the generated files to exercise the bulk blocklist
// without an S3 bucket.
func main() {
	dataDir := "data/blocklist"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	// One phone number or email per line, in the mixed formats merchants
	// actually upload.
	files := map[string][]string{
		"blocklist1.gz": {
			"+8801712345678",
			"01898765432",
			"+88 0171-111-2222",
			"chargeback@example.com",
		},
		"blocklist2.gz": {
			"8801712345678",
			"01511223344",
			"Refused.Delivery@Example.com",
		},
	}

	for name, entries := range files {
		path := filepath.Join(dataDir, name)
		if err := writeGzipFile(path, entries); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		fmt.Printf("wrote %s (%d entries)\n", path, len(entries))
	}

	fmt.Printf("\nRun the API with:\n  BLOCKLIST_KEYS=%s/blocklist1.gz,%s/blocklist2.gz\n", dataDir, dataDir)
}

func writeGzipFile(path string, entries []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	for _, entry := range entries {
		if _, err := fmt.Fprintln(zw, entry); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}
