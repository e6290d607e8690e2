package main

import (
	"strings"
	"testing"

	"github.com/marco/moviedb/internal/catalog"
	"github.com/marco/moviedb/internal/views"
)

func TestRenderCardsPlain(t *testing.T) {
	cards := []views.Card{
		{Movie: catalog.Movie{ID: 348, Title: "Alien"}, Year: "1979", Rating: "8.1/10", InWatchlist: true},
		{Movie: catalog.Movie{ID: 7, Title: "Short"}, Year: "2001", Rating: "6.0/10"},
	}

	out := renderCards(cards, false)
	if strings.ContainsAny(out, "╭│─") {
		t.Errorf("plain output should have no borders:\n%s", out)
	}
	for _, want := range []string{"Alien", "1979", "8.1/10", "yes", "no"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	var short string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Short") {
			short = line
		}
	}
	// The id column is three wide, so a right aligned 7 sits behind extra
	// padding.
	if !strings.Contains(short, "   7 ") {
		t.Errorf("expected id column right aligned, got %q", short)
	}
}

func TestRenderDetailsTrailerRow(t *testing.T) {
	d := views.Details{Title: "Alien", Overview: "In space."}
	d.Year = "1979"

	out := renderDetails(d, "", false)
	if !strings.Contains(out, "== Alien (1979) ==") || !strings.Contains(out, "== Overview ==") {
		t.Errorf("unexpected headings:\n%s", out)
	}
	if strings.Contains(out, "Trailer") {
		t.Errorf("trailer row should be omitted without a url:\n%s", out)
	}

	out = renderDetails(d, "https://www.youtube.com/watch?v=abc", false)
	if !strings.Contains(out, "https://www.youtube.com/watch?v=abc") {
		t.Errorf("expected trailer url:\n%s", out)
	}
}
