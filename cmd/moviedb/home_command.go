package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/marco/moviedb/internal/catalog"
	"github.com/marco/moviedb/internal/fetch"
	"github.com/marco/moviedb/internal/trailer"
	"github.com/marco/moviedb/internal/views"
)

const bannerInterval = 5 * time.Second

func newHomeCommand(ctx *commandContext) *cobra.Command {
	var rotate bool

	cmd := &cobra.Command{
		Use:   "home",
		Short: "Show now playing, popular and top rated movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.catalogClient()
			if err != nil {
				return err
			}
			store, err := ctx.watchlistStore()
			if err != nil {
				return err
			}
			resolver, err := ctx.trailerResolver()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			home := views.NewHomeView(client, ctx.logger, nil)
			defer home.Close()
			home.Load(cmd.Context())
			home.Wait()

			printBanner(cmd.Context(), out, home, resolver, colorize)
			printListing(out, home.Listing.State(), store, colorize)

			if rotate {
				return rotateBanner(cmd.Context(), out, home, resolver, ctx.logger, colorize)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rotate, "rotate", false, "Keep cycling the banner every 5 seconds")
	return cmd
}

func printBanner(ctx context.Context, out io.Writer, home *views.HomeView, resolver *trailer.Resolver, colorize bool) {
	state := home.Banner.State()
	if state.Status == fetch.StatusError {
		fmt.Fprintln(out, state.Message)
		return
	}
	movie, ok := home.Slide()
	if !ok {
		fmt.Fprintln(out, views.MsgNoMovies)
		return
	}

	title := movie.Title
	if year := movie.Year(); year != "" {
		title = fmt.Sprintf("%s (%s)", movie.Title, year)
	}
	fmt.Fprintln(out, heading("Now Playing: "+title, colorize))
	if movie.Overview != "" {
		fmt.Fprintln(out, movie.Overview)
	}
	if backdrop := catalog.BackdropURL(movie.BackdropPath); backdrop != "" {
		fmt.Fprintf(out, "Backdrop: %s\n", backdrop)
	}

	// A missing or failed trailer lookup only hides the line.
	if sel, err := resolver.Resolve(ctx, movie.ID); err == nil && sel.Found {
		fmt.Fprintf(out, "Trailer: %s\n", sel.URL)
	}
	fmt.Fprintln(out)
}

func printListing(out io.Writer, state fetch.State[views.Listing], saved views.Membership, colorize bool) {
	if state.Status == fetch.StatusError {
		fmt.Fprintln(out, state.Message)
		return
	}

	sections := []struct {
		title string
		rows  [][]catalog.Movie
	}{
		{"Popular Movies", state.Data.PopularRows()},
		{"Top Rated Movies", state.Data.TopRatedRows()},
	}
	for _, section := range sections {
		fmt.Fprintln(out, heading(section.title, colorize))
		if len(section.rows) == 0 {
			fmt.Fprintln(out, views.MsgNoMovies)
		}
		for _, row := range section.rows {
			fmt.Fprintln(out, renderCards(views.Cards(row, saved), colorize))
		}
		fmt.Fprintln(out)
	}
}

// rotateBanner advances the banner on a fixed interval until ctx ends.
func rotateBanner(ctx context.Context, out io.Writer, home *views.HomeView, resolver *trailer.Resolver, logger *slog.Logger, colorize bool) error {
	if home.Banner.State().Status != fetch.StatusSuccess {
		return nil
	}

	logger.Info("banner rotation started", "interval_sec", bannerInterval.Seconds())
	ticker := time.NewTicker(bannerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			home.NextSlide()
			printBanner(ctx, out, home, resolver, colorize)
		case <-ctx.Done():
			logger.Info("banner rotation stopped")
			return nil
		}
	}
}
