package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"academy-cms/internal/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewInMemory()
	require.NoError(t, err)
	return c
}

func TestSeedSchedulesOnlyWhenEmpty(t *testing.T) {
	c := newTestClient(t)

	n, err := SeedSchedules(c.DB, nil)
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	var first models.ScheduleEntry
	require.NoError(t, c.DB.Order("id asc").First(&first).Error)
	assert.Equal(t, "Monday", first.Day)
	assert.Equal(t, "Homeschool Kids", first.ClassName)

	again, err := SeedSchedules(c.DB, nil)
	require.NoError(t, err)
	assert.Zero(t, again)

	var count int64
	require.NoError(t, c.DB.Model(&models.ScheduleEntry{}).Count(&count).Error)
	assert.EqualValues(t, n, count)
}

func TestParseScheduleOrdersByWeekday(t *testing.T) {
	rows, err := ParseSchedule([]byte(`
friday:
  - { time: "7:00 PM", title: "Open Mat", category: adults }
MONDAY:
  - { time: "5:00 PM", title: "Kids", category: kids }
`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Monday", rows[0].Day)
	assert.Equal(t, "Friday", rows[1].Day)

	_, err = ParseSchedule([]byte("funday:\n  - { time: x, title: y }\n"))
	assert.Error(t, err)
}

func TestSeedAdminUser(t *testing.T) {
	c := newTestClient(t)

	created, err := SeedAdminUser(c.DB, "coach", "hunter2")
	require.NoError(t, err)
	assert.True(t, created)

	var user models.Users
	require.NoError(t, c.DB.Where("username = ?", "coach").First(&user).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2")))

	created, err = SeedAdminUser(c.DB, "other", "pw")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = SeedAdminUser(newTestClient(t).DB, "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestMigrateInstructors(t *testing.T) {
	c := newTestClient(t)
	path := filepath.Join(t.TempDir(), "instructors.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": 1, "name": "Ana", "bio": ["# Black Belt", "*Head Coach*", "Teaches kids."], "image": "https://x/ana.png"},
		{"id": "b2", "name": "Ben", "bio": "Wrestling coach", "image": ""},
		{"id": 3, "name": "Cy", "bio": null}
	]`), 0o644))

	n, err := MigrateInstructors(c.DB, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var rows []models.Instructor
	require.NoError(t, c.DB.Order("id asc").Find(&rows).Error)
	require.Len(t, rows, 3)
	assert.Equal(t, "<h3>Black Belt</h3><p><strong>Head Coach</strong></p><p>Teaches kids.</p>", rows[0].Bio)
	assert.Equal(t, "1", rows[0].OriginalID)
	assert.Equal(t, "<p>Wrestling coach</p>", rows[1].Bio)
	assert.Equal(t, "b2", rows[1].OriginalID)
	assert.Equal(t, "<p></p>", rows[2].Bio)

	n, err = MigrateInstructors(c.DB, path)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMigrateInstructorsMissingFile(t *testing.T) {
	c := newTestClient(t)
	n, err := MigrateInstructors(c.DB, filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRebuildBiosIsIdempotent(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.DB.Create(&[]models.Instructor{
		{Name: "Ana", Bio: "<p>Already html</p>"},
		{Name: "Ben", Bio: "Plain legacy text"},
	}).Error)

	changed, err := RebuildBios(c.DB)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	var ben models.Instructor
	require.NoError(t, c.DB.Where("name = ?", "Ben").First(&ben).Error)
	assert.Equal(t, "<p>Plain legacy text</p>", ben.Bio)

	changed, err = RebuildBios(c.DB)
	require.NoError(t, err)
	assert.Zero(t, changed)
}
