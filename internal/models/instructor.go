package models

// Instructor stores the bio as HTML produced by the markup transpiler.
// Image holds either a bare URL or an encoded placement descriptor.
type Instructor struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Bio        string `gorm:"type:text;not null" json:"bio"`
	Image      string `gorm:"type:text" json:"image"`
	OriginalID string `gorm:"type:varchar(50)" json:"original_id,omitempty"`
}
