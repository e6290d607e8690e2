// Package trailer picks a playable trailer for a movie from its catalog videos.
package trailer

import (
	"context"
	"log/slog"

	"github.com/marco/moviedb/internal/catalog"
)

const (
	trailerType  = "Trailer"
	trailerSite  = "YouTube"
	watchURLBase = "https://www.youtube.com/watch?v="
)

// VideoLister is the catalog operation the resolver depends on.
type VideoLister interface {
	MovieVideos(ctx context.Context, movieID int) ([]catalog.Video, error)
}

// Selection is the outcome of a resolution. Found is false when the movie has
// no YouTube trailer, which is a normal outcome rather than an error.
type Selection struct {
	Found bool
	URL   string
	Video catalog.Video
}

// NotFound is the empty selection.
var NotFound = Selection{}

// Select returns the first YouTube trailer in catalog order.
func Select(videos []catalog.Video) (catalog.Video, bool) {
	for _, v := range videos {
		if v.Type == trailerType && v.Site == trailerSite {
			return v, true
		}
	}
	return catalog.Video{}, false
}

// WatchURL builds the playable URL for a YouTube video key.
func WatchURL(key string) string {
	return watchURLBase + key
}

// Resolver resolves movie ids to trailer URLs.
type Resolver struct {
	videos VideoLister
	logger *slog.Logger
}

// NewResolver creates a resolver backed by the given catalog.
func NewResolver(videos VideoLister, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{videos: videos, logger: logger.With("component", "trailer")}
}

// Resolve fetches the videos of a movie and selects its trailer. Catalog
// failures are returned unchanged so the caller decides how to surface them.
func (r *Resolver) Resolve(ctx context.Context, movieID int) (Selection, error) {
	videos, err := r.videos.MovieVideos(ctx, movieID)
	if err != nil {
		return NotFound, err
	}

	video, ok := Select(videos)
	if !ok {
		r.logger.Debug("no trailer available", "movie_id", movieID, "videos", len(videos))
		return NotFound, nil
	}

	return Selection{Found: true, URL: WatchURL(video.Key), Video: video}, nil
}
