package learning

import (
	"context"
	"testing"
	"time"

	courseModels "careerhub/models/course"
	"careerhub/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		completed, published int64
		want                 int
	}{
		{0, 0, 0},
		{1, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{2, 2, 100},
		{3, 2, 100},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, progressPercentage(tc.completed, tc.published), "%d/%d", tc.completed, tc.published)
	}
}

func TestCompleteLessonWalksCourseToCompletion(t *testing.T) {
	svc, db, rec := newTestService(t)
	ctx := context.Background()
	f := seedFixture(t, svc, db)
	rec.reset()

	first, err := svc.CompleteLesson(ctx, f.learner.ID, f.lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, first.Progress)
	assert.Equal(t, int64(1), first.CompletedLessons)
	assert.Nil(t, first.CompletedAt)
	assert.False(t, first.CertificateIssued)
	assert.False(t, first.AlreadyCompleted)
	assert.Equal(t, []string{notifier.TemplateLessonCompletion}, rec.templates())
	assert.Equal(t, "50", rec.last().Vars["progress"])

	second, err := svc.CompleteLesson(ctx, f.learner.ID, f.lessons[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, second.Progress)
	assert.Equal(t, int64(2), second.CompletedLessons)
	require.NotNil(t, second.CompletedAt)
	assert.True(t, second.CompletedAt.Equal(testNow))
	assert.True(t, second.CertificateIssued)
	require.NotNil(t, second.Certificate)
	assert.Regexp(t, `^CRH-\d+-[0-9A-Z]{9}$`, second.Certificate.CertificateID)
	assert.Equal(t, "https://learn.example.com/verify/"+second.Certificate.CertificateID, second.Certificate.VerificationURL)
	assert.Nil(t, second.Certificate.Score)

	assert.Equal(t, notifier.TemplateCourseCompletion, rec.last().Template)
	assert.Equal(t, second.Certificate.CertificateID, rec.last().Vars["certificateId"])

	var certs int64
	require.NoError(t, db.Model(&courseModels.Certificate{}).Count(&certs).Error)
	assert.Equal(t, int64(1), certs)
}

func TestCompleteLessonIsIdempotent(t *testing.T) {
	svc, db, rec := newTestService(t)
	ctx := context.Background()
	f := seedFixture(t, svc, db)

	_, err := svc.CompleteLesson(ctx, f.learner.ID, f.lessons[0].ID)
	require.NoError(t, err)
	rec.reset()

	again, err := svc.CompleteLesson(ctx, f.learner.ID, f.lessons[0].ID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyCompleted)
	assert.Equal(t, 50, again.Progress)
	assert.Equal(t, int64(1), again.CompletedLessons)
	assert.Empty(t, rec.templates())

	var rows int64
	require.NoError(t, db.Model(&courseModels.CompletedLesson{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestCompletedAtIsSetOnce(t *testing.T) {
	svc, db, rec := newTestService(t)
	ctx := context.Background()
	f := seedFixture(t, svc, db)

	for _, l := range f.lessons {
		_, err := svc.CompleteLesson(ctx, f.learner.ID, l.ID)
		require.NoError(t, err)
	}

	// a lesson added later keeps the original completion date and issues no
	// second certificate
	extra := seedLesson(t, db, f.course.ID, 3, courseModels.LessonStatusPublished)
	svc.opts.Now = func() time.Time { return testNow.Add(48 * time.Hour) }
	rec.reset()

	res, err := svc.CompleteLesson(ctx, f.learner.ID, extra.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress)
	require.NotNil(t, res.CompletedAt)
	assert.True(t, res.CompletedAt.Equal(testNow))
	assert.True(t, res.CertificateIssued)
	assert.Nil(t, res.Certificate)
	assert.Equal(t, []string{notifier.TemplateLessonCompletion}, rec.templates())

	var certs int64
	require.NoError(t, db.Model(&courseModels.Certificate{}).Count(&certs).Error)
	assert.Equal(t, int64(1), certs)
}

func TestCompleteLessonCountsOnlyPublishedLessons(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	f := seedFixture(t, svc, db)
	draft := seedLesson(t, db, f.course.ID, 3, courseModels.LessonStatusDraft)

	res, err := svc.CompleteLesson(ctx, f.learner.ID, f.lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Progress)

	// completing a draft lesson counts towards the numerator only
	res, err = svc.CompleteLesson(ctx, f.learner.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress)
	assert.NotNil(t, res.CompletedAt)
}

func TestCompleteLessonRequiresEnrollment(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	f := seedFixture(t, svc, db)
	stranger := seedUser(t, db, "Stranger", "stranger@example.com", "USER")

	_, err := svc.CompleteLesson(ctx, stranger.ID, f.lessons[0].ID)
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
	assert.EqualError(t, err, "Course progress not found. Please enroll first.")

	_, err = svc.CompleteLesson(ctx, f.learner.ID, 12345)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
