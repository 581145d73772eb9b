package learning

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	courseModels "careerhub/models/course"
	"careerhub/notifier"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LessonCompletion is the progress snapshot returned by CompleteLesson.
type LessonCompletion struct {
	Progress          int                       `json:"progress"`
	CompletedLessons  int64                     `json:"completed_lessons"`
	CompletedAt       *time.Time                `json:"completed_at"`
	CertificateIssued bool                      `json:"certificate_issued"`
	Certificate       *courseModels.Certificate `json:"certificate,omitempty"`
	AlreadyCompleted  bool                      `json:"already_completed"`
}

// progressPercentage is round(100 * completed / published), clamped to
// [0,100]. A course without published lessons reports 0.
func progressPercentage(completed, published int64) int {
	if published <= 0 || completed <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) * 100 / float64(published)))
	if pct > 100 {
		return 100
	}
	return pct
}

func (s *Service) findProgress(tx *gorm.DB, userID, courseID uint) (*courseModels.CourseProgress, error) {
	var progress courseModels.CourseProgress
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// CompleteLesson marks the lesson finished for the user and recomputes the
// course progress. Repeated calls return the current snapshot and change
// nothing.
func (s *Service) CompleteLesson(ctx context.Context, userID, lessonID uint) (*LessonCompletion, error) {
	db := s.db.WithContext(ctx)

	var lesson courseModels.Lesson
	if err := db.First(&lesson, lessonID).Error; err != nil {
		return nil, lookupErr(err, "Lesson")
	}

	progress, err := s.findProgress(db, userID, lesson.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, precondition("Course progress not found. Please enroll first.")
		}
		return nil, lookupErr(err, "Course progress")
	}

	result := &LessonCompletion{}
	transitioned := false

	err = db.Transaction(func(tx *gorm.DB) error {
		entry := courseModels.CompletedLesson{
			ProgressID:  progress.ID,
			LessonID:    lesson.ID,
			CompletedAt: s.now(),
		}
		insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
		if insert.Error != nil {
			return insert.Error
		}
		if insert.RowsAffected == 0 {
			result.AlreadyCompleted = true
			return nil
		}

		var completed, published int64
		if err := tx.Model(&courseModels.CompletedLesson{}).
			Where("progress_id = ?", progress.ID).
			Count(&completed).Error; err != nil {
			return err
		}
		if err := tx.Model(&courseModels.Lesson{}).
			Where("course_id = ? AND status = ?", lesson.CourseID, courseModels.LessonStatusPublished).
			Count(&published).Error; err != nil {
			return err
		}

		now := s.now()
		pct := progressPercentage(completed, published)
		if err := tx.Model(&courseModels.CourseProgress{}).
			Where("id = ?", progress.ID).
			Updates(map[string]interface{}{
				"progress_percentage": pct,
				"last_accessed_at":    now,
			}).Error; err != nil {
			return err
		}

		if pct == 100 {
			res := tx.Model(&courseModels.CourseProgress{}).
				Where("id = ? AND completed_at IS NULL", progress.ID).
				Update("completed_at", now)
			if res.Error != nil {
				return res.Error
			}
			transitioned = res.RowsAffected == 1
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	progress, err = s.findProgress(db, userID, lesson.CourseID)
	if err != nil {
		return nil, lookupErr(err, "Course progress")
	}
	if err := db.Model(&courseModels.CompletedLesson{}).
		Where("progress_id = ?", progress.ID).
		Count(&result.CompletedLessons).Error; err != nil {
		return nil, err
	}
	result.Progress = progress.ProgressPercentage
	result.CompletedAt = progress.CompletedAt
	result.CertificateIssued = progress.CertificateIssued

	if result.AlreadyCompleted {
		return result, nil
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var course courseModels.Course
	if err := db.First(&course, lesson.CourseID).Error; err != nil {
		return nil, lookupErr(err, "Course")
	}

	if transitioned {
		cert, _, err := s.IssueCertificate(ctx, userID, course.ID, *progress.CompletedAt)
		if err != nil {
			// progress stays at 100%; the reconciler issues it later
			s.log.Error("issue certificate on completion", "user_id", userID, "course_id", course.ID, "error", err)
			return result, nil
		}
		result.Certificate = cert
		result.CertificateIssued = true

		s.notify(ctx, notifier.TemplateCourseCompletion, user, map[string]string{
			"courseTitle":     course.Title,
			"certificateId":   cert.CertificateID,
			"verificationUrl": cert.VerificationURL,
		})
		s.log.Info("course completed", "user_id", userID, "course_id", course.ID, "certificate_id", cert.CertificateID)
		return result, nil
	}

	s.notify(ctx, notifier.TemplateLessonCompletion, user, map[string]string{
		"lessonTitle": lesson.Title,
		"courseTitle": course.Title,
		"progress":    strconv.Itoa(result.Progress),
		"courseUrl":   s.courseURL(course.ID),
	})
	return result, nil
}
