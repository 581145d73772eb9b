package main

import (
	"testing"

	"careerhub/database/dbtest"
	"careerhub/models"
	courseModels "careerhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestEnsureAdminCreatesAndPromotes(t *testing.T) {
	db := dbtest.Open(t)

	admin, err := ensureAdmin(db, "Root", "Admin@Example.com", "supersecret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	learner := models.User{Name: "Learner", Email: "learner@example.com", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&learner).Error)

	promoted, err := ensureAdmin(db, "", "learner@example.com", "", bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, learner.ID, promoted.ID)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, learner.ID).Error)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)

	_, err = ensureAdmin(db, "", "", "supersecret", bcrypt.MinCost)
	assert.Error(t, err)
	_, err = ensureAdmin(db, "", "new@example.com", "short", bcrypt.MinCost)
	assert.Error(t, err)
}

func TestImportRows(t *testing.T) {
	db := dbtest.Open(t)

	records := [][]string{
		{"courseTitle", "courseDescription", "category", "level", "lessonTitle", "lessonOrder", "lessonType", "lessonDuration", "lessonStatus"},
		{"Go Basics", "Learn Go", "technology", "beginner", "Hello", "1", "text", "10", "published"},
		{"Go Basics", "Learn Go", "technology", "beginner", "Types", "2", "video", "15", "draft"},
		{"Go Basics", "", "", "", "", "3", "", "", ""},
	}

	stats, err := importRows(db, records, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.coursesCreated)
	assert.Equal(t, 2, stats.lessonsCreated)
	assert.Equal(t, 1, stats.skipped)

	// re-import updates by (course, order)
	records[1][4] = "Hello, Go"
	stats, err = importRows(db, records, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.coursesCreated)
	assert.Equal(t, 2, stats.lessonsUpdated)

	var lessons []courseModels.Lesson
	require.NoError(t, db.Order(`"order" ASC`).Find(&lessons).Error)
	require.Len(t, lessons, 2)
	assert.Equal(t, "Hello, Go", lessons[0].Title)
	assert.Equal(t, courseModels.LessonStatusPublished, lessons[0].Status)
	assert.Equal(t, courseModels.LessonStatusDraft, lessons[1].Status)
}
