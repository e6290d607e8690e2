package views

import (
	"context"
	"log/slog"
	"sync"

	"github.com/marco/moviedb/internal/catalog"
	"github.com/marco/moviedb/internal/fetch"
)

// Listing is the content of the home screen below the banner.
type Listing struct {
	Popular  []catalog.Movie
	TopRated []catalog.Movie
}

// PopularRows returns the popular movies in rows of five.
func (l Listing) PopularRows() [][]catalog.Movie { return Rows(l.Popular, rowSize) }

// TopRatedRows returns the top rated movies in rows of five.
func (l Listing) TopRatedRows() [][]catalog.Movie { return Rows(l.TopRated, rowSize) }

// HomeView owns the two independent loads of the home screen. A failing
// banner does not affect the listing and vice versa.
type HomeView struct {
	catalog Catalog
	Banner  *fetch.Controller[[]catalog.Movie]
	Listing *fetch.Controller[Listing]

	mu    sync.Mutex
	slide int
}

// NewHomeView wires the home controllers. onChange, when non-nil, is called
// after any transition of either controller.
func NewHomeView(cat Catalog, logger *slog.Logger, onChange func()) *HomeView {
	if logger == nil {
		logger = slog.Default()
	}
	h := &HomeView{catalog: cat}

	bannerOpts := []fetch.Option[[]catalog.Movie]{fetch.WithLogger[[]catalog.Movie](logger)}
	listingOpts := []fetch.Option[Listing]{fetch.WithLogger[Listing](logger)}
	if onChange != nil {
		bannerOpts = append(bannerOpts, fetch.OnChange(func(fetch.State[[]catalog.Movie]) { onChange() }))
		listingOpts = append(listingOpts, fetch.OnChange(func(fetch.State[Listing]) { onChange() }))
	}

	h.Banner = fetch.New[[]catalog.Movie]("banner", MsgBannerFailed, bannerOpts...)
	h.Listing = fetch.New[Listing]("listing", MsgMoviesFailed, listingOpts...)
	return h
}

// Load starts both home requests.
func (h *HomeView) Load(ctx context.Context) {
	h.mu.Lock()
	h.slide = 0
	h.mu.Unlock()

	h.Banner.Trigger(ctx, h.loadBanner)
	h.Listing.Trigger(ctx, h.loadListing)
}

// Wait blocks until both loads have settled.
func (h *HomeView) Wait() {
	h.Banner.Wait()
	h.Listing.Wait()
}

// Close detaches the view; late responses are discarded.
func (h *HomeView) Close() {
	h.Banner.Close()
	h.Listing.Close()
}

// Slide returns the banner movie currently shown.
func (h *HomeView) Slide() (catalog.Movie, bool) {
	state := h.Banner.State()
	if state.Status != fetch.StatusSuccess || len(state.Data) == 0 {
		return catalog.Movie{}, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return state.Data[h.slide%len(state.Data)], true
}

// NextSlide advances the banner and returns the new slide.
func (h *HomeView) NextSlide() (catalog.Movie, bool) {
	h.mu.Lock()
	h.slide++
	h.mu.Unlock()
	return h.Slide()
}

func (h *HomeView) loadBanner(ctx context.Context) ([]catalog.Movie, error) {
	movies, err := h.catalog.NowPlaying(ctx)
	if err != nil {
		return nil, err
	}
	return firstN(movies, bannerSize), nil
}

func (h *HomeView) loadListing(ctx context.Context) (Listing, error) {
	pair, err := fetch.Join2(ctx, h.catalog.Popular, h.catalog.TopRated)
	if err != nil {
		return Listing{}, err
	}
	return Listing{
		Popular:  firstN(pair.First, listingSize),
		TopRated: firstN(pair.Second, listingSize),
	}, nil
}
