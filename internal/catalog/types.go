package catalog

import "strings"

// ListResponse represents a paginated list response from the TMDB API
type ListResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Movie represents a movie from the TMDB API. Runtime is only populated by
// detail lookups.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	OriginalLanguage string  `json:"original_language"`
	Runtime          int     `json:"runtime,omitempty"`
	Adult            bool    `json:"adult"`
}

// Year returns the year segment of the release date, or "" when unknown.
func (m Movie) Year() string {
	year, _, _ := strings.Cut(m.ReleaseDate, "-")
	return year
}

// VideosResponse represents the response of the movie videos endpoint
type VideosResponse struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// Video represents a single video attached to a movie
type Video struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}
