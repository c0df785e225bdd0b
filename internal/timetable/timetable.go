// Package timetable groups flat schedule rows into the weekly view.
package timetable

import (
	"fmt"
	"io"
	"strings"

	"academy-cms/internal/models"
)

// Weekdays is the display order. Storage uses the same English names.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var tagLabels = map[string]string{
	"kids":      "Kids",
	"adults":    "Adults",
	"private":   "Private Training",
	"wrestling": "Wrestling",
}

type Session struct {
	ID          uint     `json:"id"`
	Time        string   `json:"time"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Labels      []string `json:"labels"`
}

type DaySchedule struct {
	Day      string    `json:"day"`
	Sessions []Session `json:"sessions"`
}

// CanonicalDay matches a weekday name regardless of case.
func CanonicalDay(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, d := range Weekdays {
		if strings.EqualFold(d, s) {
			return d, true
		}
	}
	return "", false
}

// Label resolves a category tag for display. Unknown tags show as-is.
func Label(tag string) string {
	if l, ok := tagLabels[strings.ToLower(tag)]; ok {
		return l
	}
	if tag == "" {
		return "Class"
	}
	return tag
}

// GroupByWeek always returns all seven days, Monday first. Entries keep
// their relative order within a day; rows whose day is not a weekday
// name are left out.
func GroupByWeek(entries []models.ScheduleEntry) []DaySchedule {
	week := make([]DaySchedule, len(Weekdays))
	index := make(map[string]int, len(Weekdays))
	for i, d := range Weekdays {
		week[i] = DaySchedule{Day: d, Sessions: []Session{}}
		index[d] = i
	}

	for _, e := range entries {
		day, ok := CanonicalDay(e.Day)
		if !ok {
			continue
		}
		i := index[day]
		week[i].Sessions = append(week[i].Sessions, Session{
			ID:          e.ID,
			Time:        e.TimeRange,
			Title:       e.ClassName,
			Description: e.Description,
			Tags:        []string{e.Category},
			Labels:      []string{Label(e.Category)},
		})
	}
	return week
}

// Format writes a plain-text listing of the week.
func Format(w io.Writer, week []DaySchedule) error {
	for _, day := range week {
		if _, err := fmt.Fprintln(w, day.Day); err != nil {
			return err
		}
		if len(day.Sessions) == 0 {
			if _, err := fmt.Fprintln(w, "  (no classes)"); err != nil {
				return err
			}
			continue
		}
		for _, s := range day.Sessions {
			if _, err := fmt.Fprintf(w, "  %-22s %s [%s]\n", s.Time, s.Title, strings.Join(s.Labels, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}
