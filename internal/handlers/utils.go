package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/HackRxAPI/internal/adapter"
	"github.com/akolanti/HackRxAPI/internal/adapter/utils"
	"github.com/akolanti/HackRxAPI/internal/config"
)

func writeJsonResponse(w http.ResponseWriter, httpCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logRH.Error("Couldn't encode the response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	retry := httpCode >= http.StatusInternalServerError || httpCode == http.StatusTooManyRequests
	writeJsonResponse(w, httpCode, adapter.ToErrorResponse(httpCode, message, retry))
}

func validateContext(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}

func validQuestions(questions []string) bool {
	if len(questions) == 0 {
		return false
	}
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			return false
		}
	}
	return true
}

// downloadContext bounds the document fetch without shortening the
// lifetime of the rest of the request.
func downloadContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), config.DownloadTimeout)
}

// saveUpload copies a multipart part to a temp file, keeping the original
// extension so the extractors can pick the right parser.
func saveUpload(src io.Reader, originalName string) (string, error) {
	ext := filepath.Ext(originalName)
	dst, err := os.CreateTemp("", "hackrx-upload-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err = dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func newDocId() string {
	return utils.GetNewUUID()
}
