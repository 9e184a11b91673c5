package domain

import "context"

// Image is an image prepared for a vision model.
type Image struct {
	// Source is where the image came from: a path on disk or a URL.
	Source   string
	FilePath string
	// Format is the decoded format name ("jpeg", "png", ...).
	Format string
	Width  int
	Height int
}

// ImageLoader fetches an image from a path or URL, converts it to RGB and stores it where a VisionModel can read it.
type ImageLoader interface {
	Load(ctx context.Context, source string) (*Image, error)
}
