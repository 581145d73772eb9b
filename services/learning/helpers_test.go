package learning

import (
	"context"
	"sync"
	"testing"
	"time"

	"careerhub/database/dbtest"
	"careerhub/models"
	courseModels "careerhub/models/course"
	"careerhub/notifier"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifier.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n notifier.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) templates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, n.Template)
	}
	return out
}

func (r *recordingNotifier) last() notifier.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

func (r *recordingNotifier) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *recordingNotifier) {
	t.Helper()
	db := dbtest.Open(t)
	rec := &recordingNotifier{}
	svc := NewService(db, rec, nil, Options{
		CertificatePrefix: "CRH",
		FrontendURL:       "https://learn.example.com/",
		Now:               func() time.Time { return testNow },
	})
	return svc, db, rec
}

func seedUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "hashed", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, instructorID uint, title, status string) courseModels.Course {
	t.Helper()
	course := courseModels.Course{
		Title:        title,
		Description:  title + " description",
		Category:     "technology",
		Level:        "beginner",
		InstructorID: instructorID,
		Status:       status,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func seedLesson(t *testing.T, db *gorm.DB, courseID uint, order int, status string) courseModels.Lesson {
	t.Helper()
	lesson := courseModels.Lesson{
		CourseID: courseID,
		Title:    "Lesson " + string(rune('A'+order-1)),
		Order:    order,
		Type:     "text",
		Status:   status,
	}
	require.NoError(t, db.Create(&lesson).Error)
	return lesson
}

// fixture is an admin-authored published course with two published lessons
// and one enrolled learner.
type fixture struct {
	admin   models.User
	learner models.User
	course  courseModels.Course
	lessons []courseModels.Lesson
}

func seedFixture(t *testing.T, svc *Service, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{
		admin:   seedUser(t, db, "Grace Admin", "admin@example.com", models.RoleAdmin),
		learner: seedUser(t, db, "Ada Learner", "ada@example.com", models.RoleUser),
	}
	f.course = seedCourse(t, db, f.admin.ID, "Intro to Go", courseModels.CourseStatusPublished)
	f.lessons = []courseModels.Lesson{
		seedLesson(t, db, f.course.ID, 1, courseModels.LessonStatusPublished),
		seedLesson(t, db, f.course.ID, 2, courseModels.LessonStatusPublished),
	}
	_, _, err := svc.Enroll(context.Background(), f.learner.ID, f.course.ID)
	require.NoError(t, err)
	return f
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func stringPtr(v string) *string { return &v }
