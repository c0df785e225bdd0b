package models

import "time"

type ContentType string

const (
	ContentImageDetails ContentType = "image_details"
	ContentVideoURL     ContentType = "video_url"
	ContentText         ContentType = "text"
)

// PageContent is one editable slot of the public site, addressed by a
// stable section id such as "homepage_main_image".
type PageContent struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	SectionID    string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"section_id"`
	ContentType  ContentType `gorm:"type:varchar(50);not null" json:"content_type"`
	ContentValue string      `gorm:"type:text" json:"content_value"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (PageContent) TableName() string {
	return "page_content"
}
