package scheduler

import (
	"context"
	"time"

	"gorm.io/gorm"

	"academy-cms/internal/models"
	"academy-cms/internal/timetable"
)

// Today is the timetable for the current weekday.
type Today struct {
	Day       string              `json:"day"`
	Now       time.Time           `json:"now"`
	Sessions  []timetable.Session `json:"sessions"`
	InSession []timetable.Session `json:"in_session"`
}

type Manager struct {
	db    *gorm.DB
	clock Clock
	loc   *time.Location
}

// NewManager evaluates the schedule in loc. A nil clock uses the system
// time; a nil loc uses the server's local zone.
func NewManager(db *gorm.DB, clock Clock, loc *time.Location) *Manager {
	if clock == nil {
		clock = RealClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Manager{db: db, clock: clock, loc: loc}
}

// Today returns today's classes and the ones running right now. Rows
// whose time range cannot be parsed are listed but never in session.
func (m *Manager) Today(ctx context.Context) (Today, error) {
	now := m.clock.Now().In(m.loc)

	var rows []models.ScheduleEntry
	if err := m.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return Today{}, err
	}

	week := timetable.GroupByWeek(rows)
	// Weekdays starts on Monday; time.Weekday starts on Sunday.
	day := week[(int(now.Weekday())+6)%7]

	current := now.Hour()*60 + now.Minute()
	out := Today{Day: day.Day, Now: now, Sessions: day.Sessions, InSession: []timetable.Session{}}
	for _, s := range day.Sessions {
		start, end, ok := ParseTimeRange(s.Time)
		if ok && IsTimeMatch(start, end, current) {
			out.InSession = append(out.InSession, s)
		}
	}
	return out, nil
}
