package main

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"hope-store/internal/catalog"

	"github.com/rs/zerolog"
)

// gzip_catalog validates the shipped catalogue files and writes a .gz copy
// of each next to it, ready for upload under S3_PREFIX.
func main() {
	paths := os.Args[1:]
	if len(paths) == 0 {
		paths = catalog.DefaultPaths()
	}

	loader := catalog.NewFileLoader(zerolog.Nop())

	for _, path := range paths {
		c, err := loader.Load(context.Background(), path)
		if err != nil {
			log.Fatalf("Invalid catalogue %s: %v", path, err)
		}

		if err := gzipFile(path, path+".gz"); err != nil {
			log.Fatalf("Failed to compress %s: %v", path, err)
		}

		fmt.Printf("Created %s.gz with %d products\n", path, c.Len())
	}
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	gzipWriter := gzip.NewWriter(out)
	if _, err := io.Copy(gzipWriter, in); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return gzipWriter.Close()
}
