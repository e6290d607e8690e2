package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/marco/moviedb/internal/views"
)

// renderTable lays out rows under header. Columns listed in rightAligned
// (1-based) hold numbers and are right aligned.
func renderTable(header table.Row, rows []table.Row, colorize bool, rightAligned ...int) string {
	tw := table.NewWriter()
	if colorize {
		tw.SetStyle(table.StyleRounded)
		tw.Style().Color.Header = text.Colors{text.Bold, text.FgYellow}
	} else {
		tw.Style().Options = table.OptionsNoBordersAndSeparators
	}

	tw.AppendHeader(header)
	tw.AppendRows(rows)

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, number := range rightAligned {
		configs = append(configs, table.ColumnConfig{Number: number, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func renderCards(cards []views.Card, colorize bool) string {
	rows := make([]table.Row, 0, len(cards))
	for i, c := range cards {
		rows = append(rows, table.Row{i + 1, c.Movie.ID, c.Movie.Title, c.Year, c.Rating, savedMark(c.InWatchlist)})
	}
	return renderTable(table.Row{"#", "ID", "Title", "Year", "Rating", "Saved"}, rows, colorize, 1, 2, 5)
}

func renderDetails(d views.Details, trailerURL string, colorize bool) string {
	title := d.Title
	if d.Year != "" {
		title = fmt.Sprintf("%s (%s)", d.Title, d.Year)
	}

	language := d.Language
	if d.LanguageName != "" {
		language = fmt.Sprintf("%s (%s)", d.Language, d.LanguageName)
	}

	rows := []table.Row{
		{"Rating", d.Rating},
		{"Released", d.ReleaseDate},
		{"Runtime", d.Runtime},
		{"Language", language},
		{"Vote Count", d.VoteCount},
		{"Popularity", d.Popularity},
		{"Original Title", d.OriginalTitle},
		{"Adult Content", d.Adult},
		{"Poster", d.PosterURL},
		{"Watchlist", savedMark(d.InWatchlist)},
	}
	if trailerURL != "" {
		rows = append(rows, table.Row{"Trailer", trailerURL})
	}

	var sb strings.Builder
	sb.WriteString(heading(title, colorize))
	sb.WriteString("\n")
	sb.WriteString(renderTable(table.Row{"Field", "Value"}, rows, colorize))
	sb.WriteString("\n")
	if d.Overview != "" {
		sb.WriteString("\n")
		sb.WriteString(heading("Overview", colorize))
		sb.WriteString("\n")
		sb.WriteString(d.Overview)
		sb.WriteString("\n")
	}
	return sb.String()
}

func heading(title string, colorize bool) string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		return text.Colors{text.Bold}.Sprint(line)
	}
	return line
}

func savedMark(saved bool) string {
	if saved {
		return "yes"
	}
	return "no"
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
