package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAllFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/image.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("not really a png"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	download, err := ReadAllFromURL(context.Background(), server.Client(), server.URL+"/image.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", download.ContentType)
	assert.Equal(t, "not really a png", string(download.Content))

	_, err = ReadAllFromURL(context.Background(), nil, server.URL+"/missing.png")
	assert.ErrorContains(t, err, "404")
}

func TestReadAllFromURL_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadAllFromURL(ctx, server.Client(), server.URL)
	assert.Error(t, err)
}
