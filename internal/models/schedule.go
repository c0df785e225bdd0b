package models

// ScheduleEntry is one recurring class on the weekly timetable.
type ScheduleEntry struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Day         string `gorm:"type:varchar(50);not null;index" json:"day"`
	TimeRange   string `gorm:"type:varchar(50);not null" json:"time_range"` // free text, e.g. "10:00 AM - 11:00 AM"
	ClassName   string `gorm:"type:varchar(255);not null" json:"class_name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:varchar(50)" json:"category"` // kids, adults, wrestling, private
}

func (ScheduleEntry) TableName() string {
	return "schedules"
}
