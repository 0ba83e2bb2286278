package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// OpenURL starts a GET request and returns the body and its content type.
// The caller closes the body.
func OpenURL(ctx context.Context, client *http.Client, url string) (io.ReadCloser, string, error) {
	if client == nil {
		client = GlobalHTTPClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("bad status: %s", resp.Status)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// DownloadFile writes the body of url to filePath, creating parent
// directories. A partially written file is removed on failure.
func DownloadFile(ctx context.Context, client *http.Client, url, filePath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	body, contentType, err := OpenURL(ctx, client, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return contentType, nil
}
