// Package views holds the screen-level state of moviedb: what the home,
// search and watchlist screens show and how they react to input. Rendering
// is left to the caller.
package views

import (
	"context"

	"github.com/marco/moviedb/internal/catalog"
)

// User-facing messages.
const (
	MsgBannerFailed   = "Failed to load banner"
	MsgMoviesFailed   = "Failed to load movies"
	MsgSearchFailed   = "Failed to search movies. Please try again."
	MsgNoMovies       = "No movies found"
	MsgEmptyWatchlist = "Your watchlist is empty"
)

const (
	bannerSize  = 5
	listingSize = 10
	rowSize     = 5
)

// Catalog is the subset of the catalog client the views read from.
type Catalog interface {
	NowPlaying(ctx context.Context) ([]catalog.Movie, error)
	Popular(ctx context.Context) ([]catalog.Movie, error)
	TopRated(ctx context.Context) ([]catalog.Movie, error)
	Search(ctx context.Context, query string) ([]catalog.Movie, error)
}

// Membership answers whether a movie is saved.
type Membership interface {
	Contains(movieID int) bool
}

// Rows splits movies into consecutive rows of at most size entries.
func Rows(movies []catalog.Movie, size int) [][]catalog.Movie {
	if size <= 0 || len(movies) == 0 {
		return nil
	}
	rows := make([][]catalog.Movie, 0, (len(movies)+size-1)/size)
	for start := 0; start < len(movies); start += size {
		end := min(start+size, len(movies))
		rows = append(rows, movies[start:end])
	}
	return rows
}

func firstN(movies []catalog.Movie, n int) []catalog.Movie {
	if len(movies) <= n {
		return movies
	}
	return movies[:n]
}
