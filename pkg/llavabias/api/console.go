package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"kgeyst.com/llavabias/pkg/common"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/web"
)

var errNoImage = errors.New("no image yet: mention an image path or URL first")

type URLFinder interface {
	FindImageURLs(str string) []web.ImageMention
}

// ConsoleSession keeps track of the image being discussed, so that follow-up questions don't have to repeat it.
type ConsoleSession struct {
	api          API
	urlFinder    URLFinder
	currentImage string
}

func NewConsoleSession(api API, urlFinder URLFinder) *ConsoleSession {
	return &ConsoleSession{
		api:       api,
		urlFinder: urlFinder,
	}
}

// CurrentImage is empty until the first line mentioning an image.
func (c *ConsoleSession) CurrentImage() string {
	return c.currentImage
}

// Handle processes one line of input. A line mentioning an image (a local path or a URL) switches to that image;
// whatever text remains is asked about the current image.
func (c *ConsoleSession) Handle(ctx context.Context, line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	question := line
	if mention, source := c.findImage(line); source != "" {
		c.currentImage = source
		question = strings.TrimSpace(strings.ReplaceAll(line, mention, ""))
		if question == "" {
			return fmt.Sprintf("Image set to %s", source), nil
		}
	}
	if c.currentImage == "" {
		return "", errNoImage
	}
	return c.api.Caption(ctx, c.currentImage, question)
}

// findImage returns the image mention as it appears in the line and the source to load it from.
func (c *ConsoleSession) findImage(line string) (string, string) {
	for _, field := range strings.Fields(line) {
		if !common.IsImageFormat(field) || common.IsRemote(field) {
			continue
		}
		if _, err := os.Stat(field); err == nil {
			return field, field
		}
	}
	if mentions := c.urlFinder.FindImageURLs(line); len(mentions) > 0 {
		return mentions[0].Text, mentions[0].URL
	}
	return "", ""
}
