package models

import "time"

// LibraryImage mirrors an uploaded blob so editors can pick it again.
type LibraryImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ImageURL  string    `gorm:"type:text;uniqueIndex;not null" json:"image_url"`
	CreatedAt time.Time `json:"uploaded_at"`
}

func (LibraryImage) TableName() string {
	return "image_library"
}
