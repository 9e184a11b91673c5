package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"kgeyst.com/llavabias/pkg/common"
	"kgeyst.com/llavabias/pkg/llavabias/domain"
)

// ConfigKeyImageMaxSide if positive, images are downscaled so that their longest side fits
const ConfigKeyImageMaxSide = "imageMaxSide"

const jpegQuality = 95

var errTooManyRedirects = errors.New("the image page points to another page")

type TempFilePathProvider interface {
	GetTempFilePath(fileName string) string
}

// PageResolver finds the image an HTML page shows.
type PageResolver interface {
	FindImageURL(page []byte, pageURL string) (string, error)
}

type loader struct {
	client               *http.Client
	pageResolver         PageResolver
	tempFilePathProvider TempFilePathProvider
	maxSide              int
	logger               common.Logger
}

func NewLoader(
	client *http.Client,
	pageResolver PageResolver,
	tempFilePathProvider TempFilePathProvider,
	config *common.Config,
	logger common.Logger,
) domain.ImageLoader {
	return &loader{
		client:               client,
		pageResolver:         pageResolver,
		tempFilePathProvider: tempFilePathProvider,
		maxSide:              config.GetIntOrDefault(ConfigKeyImageMaxSide, 0),
		logger:               logger,
	}
}

func (l *loader) Load(ctx context.Context, source string) (*domain.Image, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	rgb := l.downscale(toRGB(decoded))
	filePath := l.tempFilePathProvider.GetTempFilePath("image_" + common.Hash(source) + ".jpg")
	if err := writeJPEG(filePath, rgb); err != nil {
		return nil, err
	}
	bounds := rgb.Bounds()
	l.logger.Debug("image prepared", "source", source, "format", format, "bytes", len(data), "width", bounds.Dx(), "height", bounds.Dy())
	return &domain.Image{
		Source:   source,
		FilePath: filePath,
		Format:   format,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

func (l *loader) read(ctx context.Context, source string) ([]byte, error) {
	if !common.IsRemote(source) {
		return os.ReadFile(source)
	}
	download, err := common.ReadAllFromURL(ctx, l.client, source)
	if err != nil {
		return nil, err
	}
	if !isHTML(download) {
		return download.Content, nil
	}
	imageURL, err := l.pageResolver.FindImageURL(download.Content, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	l.logger.Debug("image source is a web page", "page", source, "image", imageURL)
	download, err = common.ReadAllFromURL(ctx, l.client, imageURL)
	if err != nil {
		return nil, err
	}
	// one hop only
	if isHTML(download) {
		return nil, fmt.Errorf("%s: %w", imageURL, errTooManyRedirects)
	}
	return download.Content, nil
}

func isHTML(download *common.Download) bool {
	contentType := download.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(download.Content)
	}
	return strings.HasPrefix(contentType, "text/html")
}

// toRGB drops the alpha channel, keeping the straight (non-premultiplied) color values.
func toRGB(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}

func (l *loader) downscale(src *image.RGBA) *image.RGBA {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	longest := max(width, height)
	if l.maxSide <= 0 || longest <= l.maxSide {
		return src
	}
	newWidth := max(1, width*l.maxSide/longest)
	newHeight := max(1, height*l.maxSide/longest)
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func writeJPEG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = jpeg.Encode(file, img, &jpeg.Options{Quality: jpegQuality})
	closeErr := file.Close()
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return closeErr
}
