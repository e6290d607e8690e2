package views

import (
	"github.com/marco/moviedb/internal/catalog"
)

// Watchlist is the store surface used by the watchlist screen.
type Watchlist interface {
	Membership
	List() []catalog.Movie
	Toggle(movie catalog.Movie) bool
}

// WatchlistView renders the saved movies. It reads straight from the store,
// so it always reflects the latest mutation.
type WatchlistView struct {
	store Watchlist
}

// NewWatchlistView creates a view over store.
func NewWatchlistView(store Watchlist) *WatchlistView {
	return &WatchlistView{store: store}
}

// Cards returns one tile per saved movie, in insertion order.
func (v *WatchlistView) Cards() []Card {
	return Cards(v.store.List(), v.store)
}

// Empty reports whether the watchlist has no entries. This is a normal state,
// shown with MsgEmptyWatchlist rather than as an error.
func (v *WatchlistView) Empty() bool {
	return len(v.store.List()) == 0
}

// Toggle flips the saved state of movie and returns the updated card.
func (v *WatchlistView) Toggle(movie catalog.Movie) Card {
	v.store.Toggle(movie)
	return NewCard(movie, v.store)
}
