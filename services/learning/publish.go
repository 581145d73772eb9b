package learning

import (
	"context"

	"careerhub/models"
	courseModels "careerhub/models/course"
	"careerhub/notifier"

	"gorm.io/gorm"
)

const publishBatchSize = 200

// PublishCourse moves a course to published and announces it to every
// active learner subscribed to new courses. Publishing an already published
// course changes nothing and sends nothing.
func (s *Service) PublishCourse(ctx context.Context, courseID uint) (*courseModels.Course, bool, error) {
	db := s.db.WithContext(ctx)

	var course courseModels.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return nil, false, lookupErr(err, "Course")
	}

	res := db.Model(&courseModels.Course{}).
		Where("id = ? AND status <> ?", courseID, courseModels.CourseStatusPublished).
		Update("status", courseModels.CourseStatusPublished)
	if res.Error != nil {
		return nil, false, res.Error
	}
	course.Status = courseModels.CourseStatusPublished
	if res.RowsAffected == 0 {
		return &course, false, nil
	}

	vars := map[string]string{
		"courseTitle":       course.Title,
		"courseDescription": course.Description,
		"courseUrl":         s.courseURL(course.ID),
	}

	sent := 0
	var batch []models.User
	err := db.Model(&models.User{}).
		Where("role = ? AND is_active = ? AND notify_new_courses = ?", models.RoleUser, true, true).
		FindInBatches(&batch, publishBatchSize, func(tx *gorm.DB, _ int) error {
			for _, user := range batch {
				v := make(map[string]string, len(vars)+1)
				for k, val := range vars {
					v[k] = val
				}
				s.notify(ctx, notifier.TemplateCoursePublished, user, v)
				sent++
			}
			return nil
		}).Error
	if err != nil {
		// the course is published; only the announcement is incomplete
		s.log.Error("announce published course", "course_id", courseID, "sent", sent, "error", err)
	}

	s.log.Info("course published", "course_id", courseID, "announced", sent)
	return &course, true, nil
}
