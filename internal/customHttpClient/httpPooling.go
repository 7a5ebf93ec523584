package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/HackRxAPI/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

// GetPooledClient returns the shared client used for document downloads.
// Connection reuse matters here: re-running the same blob URL is the common
// case during the hackathon evaluation loop.
func GetPooledClient() *http.Client {
	once.Do(func() {
		client = &http.Client{
			Timeout: config.DownloadTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		}
	})
	return client
}
