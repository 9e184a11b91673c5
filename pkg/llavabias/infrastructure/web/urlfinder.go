package web

import (
	"strings"

	"github.com/mvdan/xurls"

	"kgeyst.com/llavabias/pkg/common"
)

// ImageMention is an image URL as it was typed, along with the URL to download it from.
type ImageMention struct {
	Text string
	URL  string
}

type URLFinder struct{}

func NewURLFinder() *URLFinder {
	return &URLFinder{}
}

// FindImageURLs returns the URLs in `str` which point to images. Schemeless URLs ("example.com/a.jpg") get https.
func (u *URLFinder) FindImageURLs(str string) []ImageMention {
	var mentions []ImageMention
	for _, url := range xurls.Relaxed.FindAllString(str, -1) {
		if !common.IsImageFormat(url) {
			continue
		}
		fullURL := url
		if !strings.Contains(url, "://") {
			fullURL = "https://" + url
		}
		mentions = append(mentions, ImageMention{Text: url, URL: fullURL})
	}
	return mentions
}
