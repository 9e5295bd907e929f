package dto

import (
	"time"

	domaincampground "trailblaze/internal/domain/campground"
)

// Photo is the public shape of one stored image.
type Photo struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Campground is the public campground payload without its reviews.
type Campground struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner_id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Geometry    Geometry  `json:"geometry"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Photos      []Photo   `json:"photos"`
	ReviewCount int       `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CampgroundDetail adds the resolved reviews (authors included).
type CampgroundDetail struct {
	Campground
	Reviews []Review `json:"reviews"`
}

type CampgroundCollection struct {
	Items []Campground `json:"items"`
	Total int          `json:"total"`
}

func MapCampground(cg *domaincampground.Campground) Campground {
	if cg == nil {
		return Campground{}
	}
	photos := make([]Photo, 0, len(cg.Photos))
	for _, photo := range cg.Photos {
		photos = append(photos, Photo{Filename: photo.Filename, URL: photo.URL})
	}
	return Campground{
		ID:       string(cg.ID),
		Owner:    string(cg.Owner),
		Title:    cg.Title,
		Location: cg.Location,
		Geometry: Geometry{
			Type:        cg.Geometry.Type,
			Coordinates: cg.Geometry.Coordinates,
		},
		Price:       cg.Price,
		Description: cg.Description,
		Photos:      photos,
		ReviewCount: len(cg.Reviews),
		CreatedAt:   cg.CreatedAt,
		UpdatedAt:   cg.UpdatedAt,
	}
}
