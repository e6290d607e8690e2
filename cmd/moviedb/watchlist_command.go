package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/marco/moviedb/internal/catalog"
	"github.com/marco/moviedb/internal/export"
	"github.com/marco/moviedb/internal/storage"
	"github.com/marco/moviedb/internal/views"
	"github.com/marco/moviedb/internal/watchlist"
)

const followDelay = 200 * time.Millisecond

func newWatchlistCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Manage saved movies",
	}

	cmd.AddCommand(
		newWatchlistListCommand(ctx),
		newWatchlistAddCommand(ctx),
		newWatchlistRemoveCommand(ctx),
		newWatchlistToggleCommand(ctx),
		newWatchlistFollowCommand(ctx),
		newWatchlistExportCommand(ctx),
	)
	return cmd
}

func newWatchlistListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.watchlistStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printWatchlist(out, views.NewWatchlistView(store), shouldColorize(out))
			return nil
		},
	}
}

func newWatchlistAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <movie-id>",
		Short: "Save a movie to the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFetchedMovie(cmd, ctx, args[0], func(store *watchlist.Store, movie catalog.Movie) {
				if store.Add(movie) {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s to your watchlist\n", movie.Title)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already in your watchlist\n", movie.Title)
				}
			})
		},
	}
}

func newWatchlistRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <movie-id>",
		Short: "Remove a movie from the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.watchlistStore()
			if err != nil {
				return err
			}
			if store.Remove(id) {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d from your watchlist\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d is not in your watchlist\n", id)
			}
			return nil
		},
	}
}

func newWatchlistToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <movie-id>",
		Short: "Add the movie if missing, otherwise remove it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.watchlistStore()
			if err != nil {
				return err
			}
			// Removal needs no catalog round trip.
			if store.Remove(id) {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d from your watchlist\n", id)
				return nil
			}
			return withFetchedMovie(cmd, ctx, args[0], func(store *watchlist.Store, movie catalog.Movie) {
				card := views.NewWatchlistView(store).Toggle(movie)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", movie.Title, savedMark(card.InWatchlist))
			})
		},
	}
}

func newWatchlistFollowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "follow",
		Short: "Print the watchlist whenever another process changes it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.watchlistStore()
			if err != nil {
				return err
			}
			fs, err := ctx.fileStorage()
			if err != nil {
				return err
			}
			defer fs.Close()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printWatchlist(out, views.NewWatchlistView(store), colorize)

			watcher, err := storage.NewWatcher(fs, cfg.Storage.Slot, followDelay, func(data []byte) {
				movies, err := watchlist.Decode(data)
				if err != nil {
					ctx.logger.Warn("ignoring unreadable watchlist update", "error", err)
					return
				}
				fmt.Fprintf(out, "Watchlist changed: %s\n", english.Plural(len(movies), "movie", ""))
				printMovies(out, movies, colorize)
			}, ctx.logger)
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			<-cmd.Context().Done()
			return nil
		},
	}
}

func newWatchlistExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the watchlist as Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.watchlistStore()
			if err != nil {
				return err
			}
			movies := store.List()
			if outputPath == "" {
				content, err := export.Markdown(movies, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}
			if err := export.WriteFile(afero.NewOsFs(), outputPath, movies, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", english.Plural(len(movies), "movie", ""), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

// withFetchedMovie loads the movie snapshot saved in the watchlist.
func withFetchedMovie(cmd *cobra.Command, ctx *commandContext, rawID string, fn func(*watchlist.Store, catalog.Movie)) error {
	id, err := parseMovieID(rawID)
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
	movie, err := fetchMovie(cmd, client, id)
	if err != nil {
		return err
	}
	fn(store, *movie)
	return nil
}

func printWatchlist(out io.Writer, view *views.WatchlistView, colorize bool) {
	if view.Empty() {
		fmt.Fprintln(out, views.MsgEmptyWatchlist)
		return
	}
	fmt.Fprintln(out, renderCards(view.Cards(), colorize))
}

func printMovies(out io.Writer, movies []catalog.Movie, colorize bool) {
	if len(movies) == 0 {
		fmt.Fprintln(out, views.MsgEmptyWatchlist)
		return
	}
	saved := make(savedSet, len(movies))
	for _, m := range movies {
		saved[m.ID] = struct{}{}
	}
	fmt.Fprintln(out, renderCards(views.Cards(movies, saved), colorize))
}

type savedSet map[int]struct{}

func (s savedSet) Contains(movieID int) bool {
	_, ok := s[movieID]
	return ok
}
