package models

import "time"

type Blog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	ImageURL  string    `gorm:"type:text" json:"image_url"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
