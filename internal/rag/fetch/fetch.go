package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"context"

	"github.com/akolanti/HackRxAPI/internal/customHttpClient"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
	"github.com/cespare/xxhash/v2"
)

var logger = logger_i.NewLogger("Fetch")

// Download pulls the document behind rawURL into a temp file and returns its
// path. The caller owns the file and removes it when the request is done.
func Download(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("invalid document url: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := customHttpClient.GetPooledClient().Do(req)
	if err != nil {
		logger.Error("Download failed", "url", rawURL, "error", err)
		return "", fmt.Errorf("error downloading document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error downloading document: status %d", resp.StatusCode)
	}

	// Blob URLs usually carry the extension in the path; assume PDF when
	// they don't, matching how callers use this service.
	ext := strings.ToLower(path.Ext(parsed.Path))
	if ext == "" {
		ext = ".pdf"
	}

	tmp, err := os.CreateTemp("", "hackrx-doc-*"+ext)
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err = io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("error saving document: %w", err)
	}

	logger.Debug("Downloaded document", "url", rawURL, "path", tmp.Name())
	return tmp.Name(), nil
}

// HashFile returns the content hash used as the document registry key, plus
// the file size. Identical bytes hash identically no matter the source URL
// or upload name, which is exactly what the re-ingest shortcut needs.
func HashFile(filePath string) (string, int64, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := xxhash.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%016x", h.Sum64()), size, nil
}
