package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marco/moviedb/internal/catalog"
	"github.com/marco/moviedb/internal/views"
)

var errMovieNotFound = errors.New("movie not found")

func newDetailsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "details <movie-id>",
		Short: "Show the details of a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
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

			movie, err := fetchMovie(cmd, client, id)
			if err != nil {
				return err
			}

			var trailerURL string
			if sel, err := resolver.Resolve(cmd.Context(), id); err != nil {
				ctx.logger.Warn("trailer lookup failed", "movie_id", id, "error", err)
			} else if sel.Found {
				trailerURL = sel.URL
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderDetails(views.NewDetails(*movie, store), trailerURL, shouldColorize(out)))
			return nil
		},
	}
}

func newTrailerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "trailer <movie-id>",
		Short: "Print the YouTube trailer URL of a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			resolver, err := ctx.trailerResolver()
			if err != nil {
				return err
			}

			sel, err := resolver.Resolve(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("resolve trailer: %w", err)
			}
			if !sel.Found {
				fmt.Fprintln(cmd.OutOrStdout(), "No trailer available")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), sel.URL)
			return nil
		},
	}
}

// fetchMovie loads a single movie, treating a 404 or an unreadable body as
// not found.
func fetchMovie(cmd *cobra.Command, client *catalog.Client, id int) (*catalog.Movie, error) {
	movie, err := client.MovieDetails(cmd.Context(), id)
	if err != nil {
		if catalog.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", errMovieNotFound, id)
		}
		return nil, fmt.Errorf("load movie %d: %w", id, err)
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: %d", errMovieNotFound, id)
	}
	return movie, nil
}

func parseMovieID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", raw)
	}
	return id, nil
}
