package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalUploader stores images on disk for STORAGE_DRIVER=memory runs and
// serves them under BaseURL.
type LocalUploader struct {
	Dir     string
	BaseURL string
}

func (u *LocalUploader) UploadImage(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	dir := filepath.Join(u.Dir, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, filepath.Base(filename)))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return u.BaseURL + "/" + folder + "/" + filepath.Base(filename), nil
}
