package dto

import "mediahub/internal/microservices/http-api/models"

// UserRequest is the body of POST /user and PUT /user/:id.
type UserRequest struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"gte=0"`
	Gender string `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
}

type UserResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

func (d UserRequest) ToModel() models.User {
	return models.User{
		Name:   d.Name,
		Age:    d.Age,
		Gender: models.Gender(d.Gender),
	}
}

func FromUserModel(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Age: u.Age, Gender: string(u.Gender)}
}

func FromUserModels(users []models.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, FromUserModel(u))
	}
	return resp
}
