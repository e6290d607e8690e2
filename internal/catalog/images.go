package catalog

const (
	imageBaseURL = "https://image.tmdb.org/t/p"
	posterSize   = "w500"
	backdropSize = "original"
)

// PosterURL builds the poster image URL for a catalog path
func PosterURL(path string) string {
	return imageURL(posterSize, path)
}

// BackdropURL builds the full-size backdrop image URL for a catalog path
func BackdropURL(path string) string {
	return imageURL(backdropSize, path)
}

func imageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + "/" + size + path
}
