package web

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var errNoImageOnPage = errors.New("no image found on the page")

// ImagePageResolver finds the picture a web page is about, for image sources which point to an HTML page
// (a photo page on a stock site, a news article) rather than to the image itself.
type ImagePageResolver struct{}

func NewImagePageResolver() *ImagePageResolver {
	return &ImagePageResolver{}
}

// FindImageURL returns an absolute URL: the page's og:image or twitter:image if present, otherwise the first <img>.
func (i *ImagePageResolver) FindImageURL(page []byte, pageURL string) (string, error) {
	document, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", err
	}
	candidates := []string{
		attr(document, `meta[property="og:image"]`, "content"),
		attr(document, `meta[name="twitter:image"]`, "content"),
		attr(document, "img[src]", "src"),
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		return resolveReference(pageURL, candidate)
	}
	return "", errNoImageOnPage
}

func attr(document *goquery.Document, selector, name string) string {
	value, _ := document.Find(selector).First().Attr(name)
	return strings.TrimSpace(value)
}

func resolveReference(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
