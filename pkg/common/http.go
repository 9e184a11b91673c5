package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// MaxDownloadSize caps how much is read from a URL so that an endlessly streaming page can't exhaust memory.
const MaxDownloadSize = 64 << 20

// Download is the body of a fetched URL along with its declared media type.
type Download struct {
	Content     []byte
	ContentType string
}

// ReadAllFromURL reads all content from the URL. Non-2xx responses are errors.
func ReadAllFromURL(ctx context.Context, client *http.Client, url string) (*Download, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, res.Status)
	}
	content, err := io.ReadAll(io.LimitReader(res.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(content) > MaxDownloadSize {
		return nil, fmt.Errorf("GET %s: response exceeds %d bytes", url, MaxDownloadSize)
	}
	return &Download{
		Content:     content,
		ContentType: res.Header.Get("Content-Type"),
	}, nil
}
