package models

import "time"

// Content types known to the catalog. Anything else collapses to drama.
const (
	TypeDrama  = "drama"
	TypeMovie  = "movie"
	TypeSeries = "series"
	TypeAnime  = "anime"
)

// ContentTypes lists the valid content types in display order.
func ContentTypes() []string {
	return []string{TypeDrama, TypeMovie, TypeSeries, TypeAnime}
}

// Genres lists the known genre slugs. Imported genre tokens outside this
// set are dropped, not rejected.
func Genres() []string {
	return []string{
		"romance", "comedy", "action", "thriller", "horror", "fantasy",
		"drama", "mystery", "slice_of_life", "historical", "crime", "adventure",
	}
}

// PlaceholderPoster is a 1x1 transparent PNG used when an entry arrives
// without artwork, so poster_url is never empty.
const PlaceholderPoster = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// Person is one cast or crew credit. Role holds the character name for
// cast and the job (director, writer, ...) for crew.
type Person struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// Content is one catalog entry. Every field except the optional ones is
// stored with a default rather than left null so the UI always has
// something to render.
type Content struct {
	ID                 string    `json:"id"`
	Slug               string    `json:"slug"`
	Title              string    `json:"title"`
	OriginalTitle      string    `json:"original_title,omitempty"`
	PosterURL          string    `json:"poster_url"`
	BannerURL          string    `json:"banner_url,omitempty"`
	Synopsis           string    `json:"synopsis"`
	Year               *int      `json:"year,omitempty"`
	Country            string    `json:"country"`
	ContentType        string    `json:"content_type"`
	Genres             []string  `json:"genres"`
	Rating             float64   `json:"rating"`
	Episodes           *int      `json:"episodes,omitempty"`
	Duration           *int      `json:"duration,omitempty"`
	Cast               []Person  `json:"cast"`
	Crew               []Person  `json:"crew"`
	StreamingPlatforms []string  `json:"streaming_platforms"`
	Tags               []string  `json:"tags"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
