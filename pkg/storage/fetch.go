package storage

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FetchToFile downloads the object at key into a local file at path.
func FetchToFile(ctx context.Context, sys System, key, path string) error {
	result, err := sys.Download(ctx, key)
	if err != nil {
		return fmt.Errorf("download object %s: %w", key, err)
	}
	defer result.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file %s: %w", path, err)
	}

	if _, err := io.Copy(f, result.Body); err != nil {
		f.Close()
		return fmt.Errorf("write file %s: %w", path, err)
	}

	return f.Close()
}
