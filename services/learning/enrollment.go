package learning

import (
	"context"
	"errors"
	"strconv"

	courseModels "careerhub/models/course"
	"careerhub/notifier"

	"gorm.io/gorm"
)

var errAlreadyEnrolled = &PreconditionError{Reason: "Already enrolled in this course"}

// Enroll adds the user to the course's enrolled list, bumps the enrollment
// counter and creates the progress record in one transaction.
func (s *Service) Enroll(ctx context.Context, userID, courseID uint) (*courseModels.Course, *courseModels.CourseProgress, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var course courseModels.Course
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		return nil, nil, lookupErr(err, "Course")
	}

	now := s.now()
	progress := courseModels.CourseProgress{
		UserID:         userID,
		CourseID:       courseID,
		EnrolledAt:     now,
		LastAccessedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollment := courseModels.CourseEnrollment{CourseID: courseID, UserID: userID}
		if err := tx.Create(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyEnrolled
			}
			return err
		}

		if err := tx.Model(&courseModels.Course{}).
			Where("id = ?", courseID).
			UpdateColumn("total_enrollments", gorm.Expr("total_enrollments + ?", 1)).Error; err != nil {
			return err
		}

		if err := tx.Create(&progress).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyEnrolled
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	course.TotalEnrollments++

	vars := map[string]string{
		"courseTitle": course.Title,
		"courseUrl":   s.courseURL(course.ID),
		"courseId":    strconv.FormatUint(uint64(course.ID), 10),
	}
	if instructor, err := s.loadUser(ctx, course.InstructorID); err == nil {
		vars["instructorName"] = instructor.Name
	}
	s.notify(ctx, notifier.TemplateEnrollmentConfirmation, user, vars)

	s.log.Info("user enrolled", "user_id", userID, "course_id", courseID)
	return &course, &progress, nil
}

// IsEnrolled reports whether the user appears in the course's enrolled list.
func (s *Service) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&courseModels.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}
