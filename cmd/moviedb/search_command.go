package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/marco/moviedb/internal/catalog"
	"github.com/marco/moviedb/internal/fetch"
	"github.com/marco/moviedb/internal/views"
	"github.com/marco/moviedb/internal/watchlist"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search movies by title",
		Long: "Search movies by title. With --interactive, every line read from stdin\n" +
			"updates the query after a short pause; \":add N\" saves the Nth result\n" +
			"and \":q\" quits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.catalogClient()
			if err != nil {
				return err
			}
			store, err := ctx.watchlistStore()
			if err != nil {
				return err
			}

			if interactive {
				return runInteractiveSearch(cmd, ctx, client, store)
			}

			out := cmd.OutOrStdout()
			view := views.NewSearchView(client, views.WithSearchLogger(ctx.logger))
			defer view.Close()

			view.Submit(cmd.Context(), strings.Join(args, " "))
			view.Wait()
			return printSearchResults(out, view.Results.State(), store, shouldColorize(out))
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read queries from stdin as they are typed")
	return cmd
}

func printSearchResults(out io.Writer, state fetch.State[[]catalog.Movie], saved views.Membership, colorize bool) error {
	switch state.Status {
	case fetch.StatusIdle:
		fmt.Fprintln(out, "Type a title to search")
	case fetch.StatusError:
		return errors.New(state.Message)
	case fetch.StatusSuccess:
		if len(state.Data) == 0 {
			fmt.Fprintln(out, views.MsgNoMovies)
			return nil
		}
		fmt.Fprintln(out, renderCards(views.Cards(state.Data, saved), colorize))
	}
	return nil
}

func runInteractiveSearch(cmd *cobra.Command, ctx *commandContext, client views.Catalog, store *watchlist.Store) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	// Renders arrive from request goroutines while the reader loop writes
	// prompts, so output is serialized.
	var outMu sync.Mutex
	printf := func(format string, a ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(out, format, a...)
	}

	view := views.NewSearchView(client,
		views.WithSearchLogger(ctx.logger),
		views.WithDebounce(ctx.debounceDelay()),
		views.OnResults(func(state fetch.State[[]catalog.Movie]) {
			switch state.Status {
			case fetch.StatusLoading:
				return
			case fetch.StatusError:
				printf("%s\n", state.Message)
				return
			}
			outMu.Lock()
			defer outMu.Unlock()
			_ = printSearchResults(out, state, store, colorize)
		}),
	)
	defer view.Close()

	searchCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.TrimSpace(line) == ":q":
			return nil
		case strings.HasPrefix(strings.TrimSpace(line), ":add "):
			view.Flush(searchCtx)
			addSearchResult(view, store, strings.TrimSpace(line), printf)
			continue
		}
		view.Type(searchCtx, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read search input: %w", err)
	}

	// End of input submits whatever was typed last without waiting out the
	// pause.
	view.Flush(searchCtx)
	return nil
}

func addSearchResult(view *views.SearchView, store *watchlist.Store, line string, printf func(string, ...any)) {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, ":add")))
	state := view.Results.State()
	if err != nil || state.Status != fetch.StatusSuccess || n < 1 || n > len(state.Data) {
		printf("No result %q to add\n", strings.TrimSpace(strings.TrimPrefix(line, ":add")))
		return
	}
	movie := state.Data[n-1]
	if store.Add(movie) {
		printf("Added %s to your watchlist\n", movie.Title)
	} else {
		printf("%s is already in your watchlist\n", movie.Title)
	}
}
