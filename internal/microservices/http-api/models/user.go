package models

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type User struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name   string `json:"name" gorm:"not null"`
	Age    int    `json:"age" gorm:"not null"`
	Gender Gender `json:"gender" gorm:"size:16;not null"`
}

func (User) TableName() string {
	return "users"
}
