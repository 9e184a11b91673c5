package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/llavabias/pkg/common"
	"kgeyst.com/llavabias/pkg/llavabias/domain"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/filesystem"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/web"
)

// encodePNG makes a half-transparent red picture.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestLoader(t *testing.T, values map[string]any) (domain.ImageLoader, string) {
	t.Helper()
	tempDir := t.TempDir()
	if values == nil {
		values = make(map[string]any)
	}
	values[filesystem.ConfigKeyTempDir] = tempDir
	config := common.NewConfig(values)
	return NewLoader(http.DefaultClient, web.NewImagePageResolver(), filesystem.NewTempFilePathProvider(config), config, common.NewNopLogger()), tempDir
}

func decodeJPEG(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := jpeg.Decode(file)
	require.NoError(t, err)
	return img
}

func TestLoader_LocalFile(t *testing.T) {
	loader, tempDir := newTestLoader(t, nil)
	source := filepath.Join(t.TempDir(), "PROMPT_3.png")
	require.NoError(t, os.WriteFile(source, encodePNG(t, 8, 4), 0644))

	img, err := loader.Load(context.Background(), source)

	require.NoError(t, err)
	assert.Equal(t, source, img.Source)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, 4, img.Height)
	assert.Equal(t, filepath.Join(tempDir, "image_"+common.Hash(source)+".jpg"), img.FilePath)

	prepared := decodeJPEG(t, img.FilePath)
	assert.Equal(t, image.Rect(0, 0, 8, 4), prepared.Bounds())
	r, g, b, a := prepared.At(3, 2).RGBA()
	assert.Greater(t, r>>8, uint32(230))
	assert.Less(t, g>>8, uint32(25))
	assert.Less(t, b>>8, uint32(25))
	assert.Equal(t, uint32(0xffff), a)
}

func TestLoader_Downscale(t *testing.T) {
	loader, _ := newTestLoader(t, map[string]any{ConfigKeyImageMaxSide: 4})
	source := filepath.Join(t.TempDir(), "wide.png")
	require.NoError(t, os.WriteFile(source, encodePNG(t, 16, 8), 0644))

	img, err := loader.Load(context.Background(), source)

	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, image.Rect(0, 0, 4, 2), decodeJPEG(t, img.FilePath).Bounds())
}

func TestLoader_Remote(t *testing.T) {
	pngData := encodePNG(t, 6, 6)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photo.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngData)
		case "/photo-page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><head><meta property="og:image" content="/photo.png"></head></html>`))
		case "/loop-page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><head><meta property="og:image" content="/loop-page"></head></html>`))
		case "/empty-page":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>nothing</body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()
	loader, _ := newTestLoader(t, nil)

	t.Run("direct", func(t *testing.T) {
		img, err := loader.Load(context.Background(), server.URL+"/photo.png")
		require.NoError(t, err)
		assert.Equal(t, 6, img.Width)
	})

	t.Run("page", func(t *testing.T) {
		img, err := loader.Load(context.Background(), server.URL+"/photo-page")
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/photo-page", img.Source)
		assert.Equal(t, "png", img.Format)
	})

	t.Run("page pointing to a page", func(t *testing.T) {
		_, err := loader.Load(context.Background(), server.URL+"/loop-page")
		assert.ErrorIs(t, err, errTooManyRedirects)
	})

	t.Run("page without image", func(t *testing.T) {
		_, err := loader.Load(context.Background(), server.URL+"/empty-page")
		assert.ErrorContains(t, err, "no image found")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := loader.Load(context.Background(), server.URL+"/missing.jpg")
		assert.ErrorContains(t, err, "404")
	})
}

func TestLoader_Errors(t *testing.T) {
	loader, _ := newTestLoader(t, nil)

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(t.TempDir(), "garbage.jpg")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not an image"), 0644))
	_, err = loader.Load(context.Background(), garbage)
	assert.ErrorContains(t, err, "decode image")
}
