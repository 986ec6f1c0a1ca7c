package dto

import "mediahub/internal/microservices/http-api/models"

// SubscriptionRequest links a user to a media item. It binds from the JSON
// body or from the userId/mediaId query parameters.
type SubscriptionRequest struct {
	UserID  int64 `json:"userId" form:"userId" binding:"required,gt=0"`
	MediaID int64 `json:"mediaId" form:"mediaId" binding:"required,gt=0"`
}

type SubscriptionResponse struct {
	ID      int64 `json:"id"`
	UserID  int64 `json:"userId"`
	MediaID int64 `json:"mediaId"`
}

func FromUserMediaModel(l models.UserMedia) SubscriptionResponse {
	return SubscriptionResponse{ID: l.ID, UserID: l.UserID, MediaID: l.MediaID}
}

func FromUserMediaModels(links []models.UserMedia) []SubscriptionResponse {
	resp := make([]SubscriptionResponse, 0, len(links))
	for _, l := range links {
		resp = append(resp, FromUserMediaModel(l))
	}
	return resp
}
