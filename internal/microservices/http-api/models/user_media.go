package models

// UserMedia links a user to a media item they are subscribed to.
// (user_id, media_id) is unique.
type UserMedia struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  int64 `gorm:"not null;index" json:"userId"`
	MediaID int64 `gorm:"not null;index" json:"mediaId"`
}

func (UserMedia) TableName() string {
	return "user_media"
}
