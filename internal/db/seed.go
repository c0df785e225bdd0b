package database

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"academy-cms/internal/markup"
	"academy-cms/internal/models"
	"academy-cms/internal/timetable"
)

//go:embed seeddata/schedule.yaml
var defaultSchedule []byte

type seedSession struct {
	Time     string `yaml:"time"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
}

// ParseSchedule reads a day -> sessions YAML document into rows, in
// weekday order. Unknown day names are an error.
func ParseSchedule(data []byte) ([]models.ScheduleEntry, error) {
	var byDay map[string][]seedSession
	if err := yaml.Unmarshal(data, &byDay); err != nil {
		return nil, fmt.Errorf("seed: schedule yaml: %w", err)
	}

	canonical := make(map[string][]seedSession, len(byDay))
	for day, sessions := range byDay {
		name, ok := timetable.CanonicalDay(day)
		if !ok {
			return nil, fmt.Errorf("seed: unknown day %q", day)
		}
		canonical[name] = append(canonical[name], sessions...)
	}

	var rows []models.ScheduleEntry
	for _, day := range timetable.Weekdays {
		for _, s := range canonical[day] {
			rows = append(rows, models.ScheduleEntry{
				Day:       day,
				TimeRange: s.Time,
				ClassName: s.Title,
				Category:  s.Category,
			})
		}
	}
	return rows, nil
}

// SeedSchedules fills an empty schedules table. Existing rows are never
// touched so admin edits survive restarts. It reports how many rows it
// inserted.
func SeedSchedules(db *gorm.DB, data []byte) (int, error) {
	if data == nil {
		data = defaultSchedule
	}

	var count int64
	if err := db.Model(&models.ScheduleEntry{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	rows, err := ParseSchedule(data)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := db.Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SeedAdminUser creates the first account when the users table is empty.
func SeedAdminUser(db *gorm.DB, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	var count int64
	if err := db.Model(&models.Users{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	user := models.Users{Username: username, PasswordHash: string(hash), Role: "admin"}
	if err := db.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}

type legacyInstructor struct {
	ID    json.RawMessage `json:"id"`
	Name  string          `json:"name"`
	Bio   json.RawMessage `json:"bio"`
	Image string          `json:"image"`
}

// MigrateInstructors loads instructors from a JSON export into an empty
// table, converting each bio to HTML once on the way in.
func MigrateInstructors(db *gorm.DB, path string) (int, error) {
	var count int64
	if err := db.Model(&models.Instructor{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var legacy []legacyInstructor
	if err := json.Unmarshal(data, &legacy); err != nil {
		return 0, fmt.Errorf("seed: instructors json: %w", err)
	}

	rows := make([]models.Instructor, 0, len(legacy))
	for _, li := range legacy {
		rows = append(rows, models.Instructor{
			Name:       li.Name,
			Bio:        markup.TranspileRaw(li.Bio),
			Image:      li.Image,
			OriginalID: legacyID(li.ID),
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := db.Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

func legacyID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// RebuildBios re-runs the transpiler over every stored bio. Already
// converted HTML passes through, so running it twice changes nothing.
func RebuildBios(db *gorm.DB) (int, error) {
	var instructors []models.Instructor
	if err := db.Order("id asc").Find(&instructors).Error; err != nil {
		return 0, err
	}

	changed := 0
	for _, in := range instructors {
		html := markup.Transpile([]string{in.Bio})
		if html == in.Bio {
			continue
		}
		if err := db.Model(&models.Instructor{}).Where("id = ?", in.ID).Update("bio", html).Error; err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
