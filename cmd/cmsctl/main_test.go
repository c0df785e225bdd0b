package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-cms/internal/config"
	database "academy-cms/internal/db"
	"academy-cms/internal/models"
)

func useInMemory(t *testing.T) *database.Client {
	t.Helper()
	db, err := database.NewInMemory()
	require.NoError(t, err)

	c := &config.Config{}
	c.Auth.AdminUsername = "coach"
	c.Auth.AdminPassword = "hunter2"

	prev := openDB
	openDB = func() (*config.Config, *database.Client, error) { return c, db, nil }
	t.Cleanup(func() {
		openDB = prev
		client, cfg = nil, nil
	})
	return db
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSeedScheduleAndPrint(t *testing.T) {
	useInMemory(t)

	out := run(t, "seed", "schedule")
	assert.Regexp(t, `^seeded \d+ schedule rows\n$`, out)
	assert.Equal(t, "seeded 0 schedule rows\n", run(t, "seed", "schedule"))

	out = run(t, "schedule")
	assert.Contains(t, out, "Monday\n  10:00 AM - 11:00 AM    Homeschool Kids [Kids]\n")
	assert.Contains(t, out, "Sunday\n  (no classes)\n")

	out = run(t, "schedule", "--json")
	assert.Contains(t, out, `"day": "Sunday"`)
}

func TestSeedScheduleFromFile(t *testing.T) {
	db := useInMemory(t)
	path := filepath.Join(t.TempDir(), "week.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tuesday:\n  - { time: \"6:00 PM\", title: \"Open Mat\", category: adults }\n"), 0o644))

	assert.Equal(t, "seeded 1 schedule rows\n", run(t, "seed", "schedule", "--file", path))

	var row models.ScheduleEntry
	require.NoError(t, db.DB.First(&row).Error)
	assert.Equal(t, "Tuesday", row.Day)
}

func TestSeedInstructorsAndRebuild(t *testing.T) {
	db := useInMemory(t)
	path := filepath.Join(t.TempDir(), "instructors.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"Ana","bio":["# Ana","Coach"],"image":""}]`), 0o644))

	assert.Equal(t, "imported 1 instructors\n", run(t, "seed", "instructors", "--file", path))
	require.NoError(t, db.DB.Create(&models.Instructor{Name: "Ben", Bio: "Legacy text"}).Error)

	assert.Equal(t, "updated 1 bios\n", run(t, "rebuild-bios"))
	assert.Equal(t, "updated 0 bios\n", run(t, "rebuild-bios"))
}

func TestSeedAdminAndMigrate(t *testing.T) {
	useInMemory(t)

	assert.Equal(t, "migrations applied\n", run(t, "migrate"))
	assert.Equal(t, "created admin \"coach\"\n", run(t, "seed", "admin"))
	assert.Contains(t, run(t, "seed", "admin"), "not created")
}
