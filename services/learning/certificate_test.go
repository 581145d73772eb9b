package learning

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"careerhub/models"
	courseModels "careerhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCertificateID(t *testing.T) {
	at := time.UnixMilli(1767225600123)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := NewCertificateID("CRH", at)
		require.NoError(t, err)
		assert.Regexp(t, `^CRH-1767225600123-[0-9A-Z]{9}$`, id)
		assert.True(t, ValidCertificateID(id))
		seen[id] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestValidCertificateID(t *testing.T) {
	assert.True(t, ValidCertificateID("CRH-1767225600123-ABCDEFGHI"))
	assert.True(t, ValidCertificateID("legacy-id"))
	assert.False(t, ValidCertificateID(""))
	assert.False(t, ValidCertificateID("CRH 1"))
	assert.False(t, ValidCertificateID("CRH-1;DROP"))
	assert.False(t, ValidCertificateID(strings.Repeat("A", 65)))
}

func completeCourse(t *testing.T, svc *Service, f fixture, userID uint) *LessonCompletion {
	t.Helper()
	var last *LessonCompletion
	for _, l := range f.lessons {
		res, err := svc.CompleteLesson(context.Background(), userID, l.ID)
		require.NoError(t, err)
		last = res
	}
	return last
}

func TestIssueCertificateIsIdempotent(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	f := seedFixture(t, svc, db)
	done := completeCourse(t, svc, f, f.learner.ID)

	cert, created, err := svc.IssueCertificate(ctx, f.learner.ID, f.course.ID, testNow)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, done.Certificate.CertificateID, cert.CertificateID)

	again, created, err := svc.GenerateCertificate(ctx, f.learner.ID, f.course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, cert.ID, again.ID)
}

func TestIssueCertificateConcurrently(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	f := seedFixture(t, svc, db)

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[string]bool{}
		created int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cert, isNew, err := svc.IssueCertificate(ctx, f.learner.ID, f.course.ID, testNow)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[cert.CertificateID] = true
			if isNew {
				created++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)

	var count int64
	require.NoError(t, db.Model(&courseModels.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCertificateScoreIsMeanOfBestQuizScores(t *testing.T) {
	svc, db, _ := newTestService(t)
	f := seedFixture(t, svc, db)

	progress, err := svc.findProgress(db, f.learner.ID, f.course.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&[]courseModels.QuizResult{
		{ProgressID: progress.ID, QuizID: 1, Attempts: 1, BestScore: 80, Passed: true},
		{ProgressID: progress.ID, QuizID: 2, Attempts: 2, BestScore: 91, Passed: true},
	}).Error)

	done := completeCourse(t, svc, f, f.learner.ID)
	require.NotNil(t, done.Certificate)
	require.NotNil(t, done.Certificate.Score)
	assert.Equal(t, 86, *done.Certificate.Score)
}

func TestGenerateCertificateRequiresCompletion(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	f := seedFixture(t, svc, db)

	_, _, err := svc.GenerateCertificate(ctx, f.learner.ID, f.course.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "Course not completed yet. Complete all lessons to earn certificate.")

	stranger := seedUser(t, db, "Stranger", "stranger@example.com", models.RoleUser)
	_, _, err = svc.GenerateCertificate(ctx, stranger.ID, f.course.ID)
	assert.True(t, IsPrecondition(err))

	_, _, err = svc.GenerateCertificate(ctx, f.learner.ID, 999)
	assert.True(t, IsNotFound(err))
}

func TestVerifyCertificate(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	f := seedFixture(t, svc, db)
	done := completeCourse(t, svc, f, f.learner.ID)

	verified, err := svc.VerifyCertificate(ctx, done.Certificate.CertificateID)
	require.NoError(t, err)
	assert.Equal(t, done.Certificate.CertificateID, verified.CertificateID)
	assert.Equal(t, "Ada Learner", verified.UserName)
	assert.Equal(t, "Intro to Go", verified.CourseName)
	assert.True(t, verified.CompletionDate.Equal(testNow))

	// still verifiable after the course is removed from the catalog
	require.NoError(t, db.Delete(&courseModels.Course{}, f.course.ID).Error)
	_, err = svc.VerifyCertificate(ctx, done.Certificate.CertificateID)
	require.NoError(t, err)

	_, err = svc.VerifyCertificate(ctx, "not valid!")
	assert.True(t, IsPrecondition(err))

	_, err = svc.VerifyCertificate(ctx, "CRH-1-NOTISSUED")
	assert.True(t, IsNotFound(err))
}

func TestGetCertificateChecksOwnership(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	f := seedFixture(t, svc, db)
	done := completeCourse(t, svc, f, f.learner.ID)
	stranger := seedUser(t, db, "Stranger", "stranger@example.com", models.RoleUser)

	own, err := svc.GetCertificate(ctx, f.learner, done.Certificate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Go", own.CourseTitle)
	assert.Equal(t, "Ada Learner", own.UserName)
	assert.Equal(t, "technology", own.Category)

	_, err = svc.GetCertificate(ctx, stranger, done.Certificate.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetCertificate(ctx, f.admin, done.Certificate.ID)
	assert.NoError(t, err)

	_, err = svc.GetCertificate(ctx, f.learner, 999)
	assert.True(t, IsNotFound(err))

	list, err := svc.ListCertificates(ctx, f.learner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, done.Certificate.CertificateID, list[0].CertificateID)

	none, err := svc.ListCertificates(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
