// Package export renders the watchlist as a Markdown document with YAML
// frontmatter.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/marco/moviedb/internal/catalog"
)

// Entry is the frontmatter record of one saved movie.
type Entry struct {
	ID          int     `yaml:"tmdbId"`
	Title       string  `yaml:"title"`
	ReleaseDate string  `yaml:"releaseDate,omitempty"`
	Rating      float64 `yaml:"rating"`
	Poster      string  `yaml:"poster,omitempty"`
}

// Document is the frontmatter of an exported watchlist.
type Document struct {
	Title      string    `yaml:"title"`
	ExportedAt time.Time `yaml:"exportedAt"`
	Count      int       `yaml:"count"`
	Movies     []Entry   `yaml:"movies"`
}

// Markdown renders movies, in order, as a Markdown document.
func Markdown(movies []catalog.Movie, exportedAt time.Time) (string, error) {
	doc := Document{
		Title:      "Watchlist",
		ExportedAt: exportedAt.UTC(),
		Count:      len(movies),
		Movies:     make([]Entry, 0, len(movies)),
	}
	for _, m := range movies {
		doc.Movies = append(doc.Movies, Entry{
			ID:          m.ID,
			Title:       m.Title,
			ReleaseDate: m.ReleaseDate,
			Rating:      m.VoteAverage,
			Poster:      catalog.PosterURL(m.PosterPath),
		})
	}

	var sb strings.Builder
	sb.WriteString("---\n")

	// Titles such as "Alien: Covenant" must stay quoted or YAML readers see
	// a nested mapping.
	var node yaml.Node
	if err := node.Encode(&doc); err != nil {
		return "", fmt.Errorf("failed to marshal watchlist to YAML: %w", err)
	}
	forceQuoted(&node, "title")
	frontmatter, err := yaml.Marshal(&node)
	if err != nil {
		return "", fmt.Errorf("failed to marshal watchlist to YAML: %w", err)
	}
	sb.Write(frontmatter)
	sb.WriteString("---\n\n")

	sb.WriteString("# Watchlist\n\n")
	if len(movies) == 0 {
		sb.WriteString("Your watchlist is empty.\n")
		return sb.String(), nil
	}

	for _, m := range movies {
		sb.WriteString(fmt.Sprintf("## %s", m.Title))
		if year := m.Year(); year != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", year))
		}
		sb.WriteString("\n\n")

		if m.Overview != "" {
			sb.WriteString(m.Overview)
			sb.WriteString("\n\n")
		}
		if m.VoteAverage > 0 {
			sb.WriteString(fmt.Sprintf("- **Rating**: %.1f/10\n", m.VoteAverage))
		}
		if m.Runtime > 0 {
			sb.WriteString(fmt.Sprintf("- **Runtime**: %d minutes\n", m.Runtime))
		}
		sb.WriteString(fmt.Sprintf("- [View on TMDB](https://www.themoviedb.org/movie/%d)\n\n", m.ID))
	}

	return sb.String(), nil
}

// WriteFile renders movies and writes the document to path on fsys.
func WriteFile(fsys afero.Fs, path string, movies []catalog.Movie, exportedAt time.Time) error {
	content, err := Markdown(movies, exportedAt)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// forceQuoted sets double-quoted style on every scalar value stored under one
// of keys, at any depth.
func forceQuoted(node *yaml.Node, keys ...string) {
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	var walk func(n *yaml.Node)
	walk = func(n *yaml.Node) {
		if n.Kind == yaml.MappingNode {
			for i := 0; i+1 < len(n.Content); i += 2 {
				value := n.Content[i+1]
				if keySet[n.Content[i].Value] && value.Kind == yaml.ScalarNode {
					value.Style = yaml.DoubleQuotedStyle
				}
			}
		}
		for _, child := range n.Content {
			walk(child)
		}
	}
	walk(node)
}
