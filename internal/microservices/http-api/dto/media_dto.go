package dto

import (
	"time"

	"mediahub/internal/microservices/http-api/models"
)

// MediaRequest is the body of POST /media and PUT /media/:id.
// A client-supplied id is ignored.
type MediaRequest struct {
	Title         string  `json:"title" binding:"required"`
	ReleaseDate   string  `json:"releaseDate" binding:"required,isodate"`
	AverageRating float64 `json:"averageRating"`
	Type          string  `json:"type" binding:"required,oneof=MOVIE TV_SHOW"`
}

type MediaResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	ReleaseDate   string  `json:"releaseDate"`
	AverageRating float64 `json:"averageRating"`
	Type          string  `json:"type"`
}

// MediaDetailResponse adds the subscriber ids returned by GET /media/:id.
type MediaDetailResponse struct {
	MediaResponse
	UserIDs []int64 `json:"userIds"`
}

// Converters
func (d MediaRequest) ToModel() (models.Media, error) {
	date, err := time.Parse(DateLayout, d.ReleaseDate)
	if err != nil {
		return models.Media{}, err
	}
	return models.Media{
		Title:         d.Title,
		ReleaseDate:   date,
		AverageRating: d.AverageRating,
		Type:          models.MediaType(d.Type),
	}, nil
}

func FromMediaModel(m models.Media) MediaResponse {
	return MediaResponse{
		ID:            m.ID,
		Title:         m.Title,
		ReleaseDate:   m.ReleaseDate.Format(DateLayout),
		AverageRating: m.AverageRating,
		Type:          string(m.Type),
	}
}

func FromMediaModels(list []models.Media) []MediaResponse {
	resp := make([]MediaResponse, 0, len(list))
	for _, m := range list {
		resp = append(resp, FromMediaModel(m))
	}
	return resp
}

func FromMediaDetail(m models.Media, userIDs []int64) MediaDetailResponse {
	if userIDs == nil {
		userIDs = []int64{}
	}
	return MediaDetailResponse{MediaResponse: FromMediaModel(m), UserIDs: userIDs}
}
