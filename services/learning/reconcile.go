package learning

import (
	"context"
	"time"

	courseModels "careerhub/models/course"
)

// ReconcileCertificates repairs completed progress records whose
// certificateIssued flag and Certificate row disagree. Only records
// completed at or after since are scanned. It returns the number repaired.
func (s *Service) ReconcileCertificates(ctx context.Context, since time.Time) (int, error) {
	var pending []courseModels.CourseProgress
	err := s.db.WithContext(ctx).
		Model(&courseModels.CourseProgress{}).
		Select("course_progresses.*").
		Joins("LEFT JOIN certificates ON certificates.user_id = course_progresses.user_id AND certificates.course_id = course_progresses.course_id").
		Where("course_progresses.completed_at IS NOT NULL AND course_progresses.completed_at >= ?", since.UTC()).
		Where("course_progresses.certificate_issued = ? OR certificates.id IS NULL", false).
		Find(&pending).Error
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return repaired, err
		}
		cert, _, err := s.IssueCertificate(ctx, p.UserID, p.CourseID, *p.CompletedAt)
		if err != nil {
			s.log.Error("reconcile certificate", "progress_id", p.ID, "user_id", p.UserID, "course_id", p.CourseID, "error", err)
			continue
		}
		repaired++
		s.log.Info("certificate reconciled", "progress_id", p.ID, "certificate_id", cert.CertificateID)
	}
	return repaired, nil
}
