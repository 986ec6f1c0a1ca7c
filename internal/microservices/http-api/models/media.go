package models

import "time"

type MediaType string

const (
	MediaTypeMovie  MediaType = "MOVIE"
	MediaTypeTVShow MediaType = "TV_SHOW"
)

// Media is a catalog item. AverageRating is stored as-is, it is not derived
// from per-user rating rows.
type Media struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title" gorm:"not null"`
	ReleaseDate   time.Time `json:"releaseDate" gorm:"type:date;not null"`
	AverageRating float64   `json:"averageRating" gorm:"not null"`
	Type          MediaType `json:"type" gorm:"size:16;not null"`
}

func (Media) TableName() string {
	return "media"
}
