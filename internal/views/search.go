package views

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/marco/moviedb/internal/catalog"
	"github.com/marco/moviedb/internal/debounce"
	"github.com/marco/moviedb/internal/fetch"
)

// Route is where a search box input leads.
type Route int

const (
	RouteHome Route = iota
	RouteSearch
)

// Navigate applies the search box rule: blank input goes home, anything else
// searches for the trimmed text.
func Navigate(input string) (Route, string) {
	query := strings.TrimSpace(input)
	if query == "" {
		return RouteHome, ""
	}
	return RouteSearch, query
}

// SearchView tracks the results for the most recent query.
type SearchView struct {
	catalog  Catalog
	Results  *fetch.Controller[[]catalog.Movie]
	debounce *debounce.Debouncer

	mu         sync.Mutex
	query      string
	pending    string
	hasPending bool
}

// SearchOption configures a SearchView.
type SearchOption func(*searchOptions)

type searchOptions struct {
	logger   *slog.Logger
	delay    time.Duration
	onChange func(fetch.State[[]catalog.Movie])
}

// WithSearchLogger sets the logger.
func WithSearchLogger(logger *slog.Logger) SearchOption {
	return func(o *searchOptions) { o.logger = logger }
}

// WithDebounce sets the typing delay used by Type.
func WithDebounce(delay time.Duration) SearchOption {
	return func(o *searchOptions) { o.delay = delay }
}

// OnResults registers a callback for every results transition.
func OnResults(fn func(fetch.State[[]catalog.Movie])) SearchOption {
	return func(o *searchOptions) { o.onChange = fn }
}

// NewSearchView creates an idle search view.
func NewSearchView(cat Catalog, opts ...SearchOption) *SearchView {
	o := searchOptions{logger: slog.Default(), delay: debounce.DefaultDelay}
	for _, opt := range opts {
		opt(&o)
	}

	ctrlOpts := []fetch.Option[[]catalog.Movie]{fetch.WithLogger[[]catalog.Movie](o.logger)}
	if o.onChange != nil {
		ctrlOpts = append(ctrlOpts, fetch.OnChange(o.onChange))
	}

	return &SearchView{
		catalog:  cat,
		Results:  fetch.New[[]catalog.Movie]("search", MsgSearchFailed, ctrlOpts...),
		debounce: debounce.New(o.delay),
	}
}

// Submit searches immediately. A blank query clears the results without
// contacting the catalog.
func (v *SearchView) Submit(ctx context.Context, input string) {
	v.debounce.Cancel()
	v.mu.Lock()
	v.hasPending = false
	v.mu.Unlock()

	route, query := Navigate(input)
	if route == RouteHome {
		v.Results.Reset()
	} else {
		v.Results.Trigger(ctx, func(ctx context.Context) ([]catalog.Movie, error) {
			return v.catalog.Search(ctx, query)
		})
	}

	// Recorded after the trigger so a caller seeing the new query can Wait
	// on its request.
	v.mu.Lock()
	v.query = query
	v.mu.Unlock()
}

// Type records keystroke input and submits it once typing pauses.
func (v *SearchView) Type(ctx context.Context, input string) {
	v.mu.Lock()
	v.pending = input
	v.hasPending = true
	v.mu.Unlock()
	v.debounce.Schedule(func() { v.Submit(ctx, input) })
}

// Flush submits input still waiting for the typing pause, if any, and then
// waits for the resulting search to settle.
func (v *SearchView) Flush(ctx context.Context) {
	v.debounce.Cancel()
	v.mu.Lock()
	input, ok := v.pending, v.hasPending
	v.mu.Unlock()
	if ok {
		v.Submit(ctx, input)
	}
	v.Wait()
}

// Query returns the last submitted query.
func (v *SearchView) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// Wait blocks until in-flight searches have settled.
func (v *SearchView) Wait() {
	v.Results.Wait()
}

// Close stops pending input and detaches the view.
func (v *SearchView) Close() {
	v.debounce.Stop()
	v.Results.Close()
}
