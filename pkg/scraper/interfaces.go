package scraper

import (
	"context"
	"encoding/json"

	"galleryscraper/internal/downloader"
)

// GalleryClient defines the gallery operations a run needs
type GalleryClient interface {
	downloader.ImageSource
	FetchPage(ctx context.Context, page int) ([]json.RawMessage, error)
}
