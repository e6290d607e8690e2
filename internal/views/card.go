package views

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/marco/moviedb/internal/catalog"
)

// Card is one movie tile.
type Card struct {
	Movie       catalog.Movie
	InWatchlist bool
	PosterURL   string
	Year        string
	Rating      string
}

// NewCard builds the tile for movie.
func NewCard(movie catalog.Movie, saved Membership) Card {
	return Card{
		Movie:       movie,
		InWatchlist: saved != nil && saved.Contains(movie.ID),
		PosterURL:   catalog.PosterURL(movie.PosterPath),
		Year:        movie.Year(),
		Rating:      fmt.Sprintf("%.1f", movie.VoteAverage),
	}
}

// Cards builds tiles for movies in order.
func Cards(movies []catalog.Movie, saved Membership) []Card {
	cards := make([]Card, 0, len(movies))
	for _, m := range movies {
		cards = append(cards, NewCard(m, saved))
	}
	return cards
}

// BookmarkLabel is the action offered by the card's bookmark button.
func (c Card) BookmarkLabel() string {
	if c.InWatchlist {
		return "Remove from watchlist"
	}
	return "Add to watchlist"
}

// Details is the expanded view of a single movie.
type Details struct {
	Card
	Title         string
	Overview      string
	ReleaseDate   string
	Runtime       string
	Language      string
	LanguageName  string
	VoteCount     string
	Popularity    string
	OriginalTitle string
	Adult         string
	BackdropURL   string
}

// NewDetails formats movie for the details screen.
func NewDetails(movie catalog.Movie, saved Membership) Details {
	d := Details{
		Card:          NewCard(movie, saved),
		Title:         movie.Title,
		Overview:      movie.Overview,
		ReleaseDate:   movie.ReleaseDate,
		Runtime:       "N/A",
		Language:      strings.ToUpper(movie.OriginalLanguage),
		LanguageName:  languageName(movie.OriginalLanguage),
		VoteCount:     humanize.Comma(int64(movie.VoteCount)),
		Popularity:    fmt.Sprintf("%.1f", movie.Popularity),
		OriginalTitle: movie.OriginalTitle,
		Adult:         "No",
		BackdropURL:   catalog.BackdropURL(movie.BackdropPath),
	}
	d.Rating = fmt.Sprintf("%.1f/10", movie.VoteAverage)
	if movie.Runtime > 0 {
		d.Runtime = fmt.Sprintf("%d min", movie.Runtime)
	}
	if movie.Adult {
		d.Adult = "Yes"
	}
	return d
}

// languageName returns the English name of an ISO 639-1 code, or "" when the
// code is not recognized.
func languageName(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}
