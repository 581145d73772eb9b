package learning

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"
	"time"

	"careerhub/models"
	courseModels "careerhub/models/course"

	"gorm.io/gorm"
)

const (
	certificateSuffixLen = 9
	certificateIDRetries = 5
	base36               = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var certificateIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// ValidCertificateID reports whether id is a well-formed public certificate
// identifier.
func ValidCertificateID(id string) bool {
	return certificateIDPattern.MatchString(id)
}

// NewCertificateID returns PREFIX-<unix millis>-<9 uppercase base-36 chars>.
func NewCertificateID(prefix string, at time.Time) (string, error) {
	var b strings.Builder
	b.Grow(certificateSuffixLen)
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < certificateSuffixLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("certificate suffix: %w", err)
		}
		b.WriteByte(base36[n.Int64()])
	}
	return fmt.Sprintf("%s-%d-%s", prefix, at.UnixMilli(), b.String()), nil
}

// IssueCertificate creates the certificate for (user, course) unless one
// exists, and flags the progress record, in one transaction. The bool is
// true when a new certificate was created.
func (s *Service) IssueCertificate(ctx context.Context, userID, courseID uint, completionDate time.Time) (*courseModels.Certificate, bool, error) {
	var (
		cert    *courseModels.Certificate
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		score, err := overallScore(tx, userID, courseID)
		if err != nil {
			return err
		}
		cert, created, err = s.issue(tx, userID, courseID, completionDate, score)
		if err != nil {
			return err
		}
		return tx.Model(&courseModels.CourseProgress{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Update("certificate_issued", true).Error
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.Info("certificate issued", "user_id", userID, "course_id", courseID, "certificate_id", cert.CertificateID)
	}
	return cert, created, nil
}

func (s *Service) issue(tx *gorm.DB, userID, courseID uint, completionDate time.Time, score *int) (*courseModels.Certificate, bool, error) {
	if existing, err := findCertificate(tx, userID, courseID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	for try := 0; try < certificateIDRetries; try++ {
		issuedAt := s.now()
		id, err := NewCertificateID(s.opts.CertificatePrefix, issuedAt)
		if err != nil {
			return nil, false, err
		}
		cert := courseModels.Certificate{
			UserID:          userID,
			CourseID:        courseID,
			CertificateID:   id,
			IssuedAt:        issuedAt,
			CompletionDate:  completionDate.UTC(),
			Score:           score,
			VerificationURL: s.verificationURL(id),
		}

		// savepoint, so a unique violation leaves the outer transaction usable
		err = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(&cert).Error
		})
		if err == nil {
			return &cert, true, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}

		// either a concurrent issuance won the (user, course) pair or the
		// identifier collided
		if existing, ferr := findCertificate(tx, userID, courseID); ferr == nil {
			return existing, false, nil
		}
		s.log.Warn("certificate id collision, regenerating", "certificate_id", id)
	}
	return nil, false, fmt.Errorf("issue certificate: no unique identifier after %d attempts", certificateIDRetries)
}

func findCertificate(tx *gorm.DB, userID, courseID uint) (*courseModels.Certificate, error) {
	var cert courseModels.Certificate
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// overallScore is the rounded mean of the user's best quiz scores in the
// course, or nil without quiz results.
func overallScore(tx *gorm.DB, userID, courseID uint) (*int, error) {
	var scores []float64
	err := tx.Model(&courseModels.QuizResult{}).
		Joins("JOIN course_progresses ON course_progresses.id = quiz_results.progress_id").
		Where("course_progresses.user_id = ? AND course_progresses.course_id = ?", userID, courseID).
		Pluck("quiz_results.best_score", &scores).Error
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}
	var sum float64
	for _, v := range scores {
		sum += v
	}
	score := int(math.Round(sum / float64(len(scores))))
	return &score, nil
}

// GenerateCertificate issues the caller's certificate for a finished course.
func (s *Service) GenerateCertificate(ctx context.Context, userID, courseID uint) (*courseModels.Certificate, bool, error) {
	db := s.db.WithContext(ctx)

	var course courseModels.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return nil, false, lookupErr(err, "Course")
	}

	progress, err := s.findProgress(db, userID, courseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if progress == nil || progress.ProgressPercentage < 100 {
		return nil, false, precondition("Course not completed yet. Complete all lessons to earn certificate.")
	}

	completionDate := s.now()
	if progress.CompletedAt != nil {
		completionDate = *progress.CompletedAt
	}
	return s.IssueCertificate(ctx, userID, courseID, completionDate)
}

// VerifiedCertificate is the public projection of a certificate.
type VerifiedCertificate struct {
	CertificateID  string    `json:"certificate_id"`
	UserName       string    `json:"user_name"`
	CourseName     string    `json:"course_name"`
	IssuedAt       time.Time `json:"issued_at"`
	CompletionDate time.Time `json:"completion_date"`
}

// VerifyCertificate looks a certificate up by its public identifier.
func (s *Service) VerifyCertificate(ctx context.Context, certificateID string) (*VerifiedCertificate, error) {
	if !ValidCertificateID(certificateID) {
		return nil, precondition("Invalid certificate ID")
	}

	db := s.db.WithContext(ctx)
	var cert courseModels.Certificate
	if err := db.Where("certificate_id = ?", certificateID).First(&cert).Error; err != nil {
		return nil, lookupErr(err, "Certificate")
	}

	var user models.User
	if err := db.Unscoped().Select("name").First(&user, cert.UserID).Error; err != nil {
		return nil, lookupErr(err, "User")
	}
	var course courseModels.Course
	if err := db.Unscoped().Select("title").First(&course, cert.CourseID).Error; err != nil {
		return nil, lookupErr(err, "Course")
	}

	return &VerifiedCertificate{
		CertificateID:  cert.CertificateID,
		UserName:       user.Name,
		CourseName:     course.Title,
		IssuedAt:       cert.IssuedAt,
		CompletionDate: cert.CompletionDate,
	}, nil
}

// CertificateDetail is a certificate with its holder and course.
type CertificateDetail struct {
	courseModels.Certificate
	UserName    string `json:"user_name"`
	CourseTitle string `json:"course_title"`
	Category    string `json:"category"`
}

// ListCertificates returns the user's certificates, newest first.
func (s *Service) ListCertificates(ctx context.Context, userID uint) ([]CertificateDetail, error) {
	var out []CertificateDetail
	err := s.db.WithContext(ctx).
		Model(&courseModels.Certificate{}).
		Select("certificates.*, users.name AS user_name, courses.title AS course_title, courses.category AS category").
		Joins("JOIN users ON users.id = certificates.user_id").
		Joins("JOIN courses ON courses.id = certificates.course_id").
		Where("certificates.user_id = ?", userID).
		Order("certificates.issued_at DESC").
		Scan(&out).Error
	return out, err
}

// GetCertificate loads one certificate by row id. Only the holder or an
// admin may read it.
func (s *Service) GetCertificate(ctx context.Context, viewer models.User, id uint) (*CertificateDetail, error) {
	var detail CertificateDetail
	res := s.db.WithContext(ctx).
		Model(&courseModels.Certificate{}).
		Select("certificates.*, users.name AS user_name, courses.title AS course_title, courses.category AS category").
		Joins("JOIN users ON users.id = certificates.user_id").
		Joins("JOIN courses ON courses.id = certificates.course_id").
		Where("certificates.id = ?", id).
		Limit(1).
		Scan(&detail)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound("Certificate")
	}
	if detail.UserID != viewer.ID && !viewer.IsAdmin() {
		return nil, ErrForbidden
	}
	return &detail, nil
}
