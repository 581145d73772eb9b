package learning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"careerhub/logger"
	"careerhub/models"
	"careerhub/notifier"

	"gorm.io/gorm"
)

type Options struct {
	CertificatePrefix string
	FrontendURL       string
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Service runs the enrollment, lesson completion, quiz grading and
// certificate workflow.
type Service struct {
	db       *gorm.DB
	notifier notifier.Notifier
	log      *logger.Logger
	opts     Options
}

func NewService(db *gorm.DB, n notifier.Notifier, log *logger.Logger, opts Options) *Service {
	if n == nil {
		n = notifier.Discard{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.CertificatePrefix == "" {
		opts.CertificatePrefix = "CRH"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.FrontendURL = strings.TrimRight(opts.FrontendURL, "/")
	return &Service{
		db:       db,
		notifier: n,
		log:      log.With("service", "learning"),
		opts:     opts,
	}
}

func (s *Service) now() time.Time {
	return s.opts.Now().UTC()
}

func (s *Service) courseURL(courseID uint) string {
	return fmt.Sprintf("%s/courses/%d", s.opts.FrontendURL, courseID)
}

func (s *Service) verificationURL(certificateID string) string {
	return s.opts.FrontendURL + "/verify/" + certificateID
}

func (s *Service) loadUser(ctx context.Context, userID uint) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return user, lookupErr(err, "User")
	}
	return user, nil
}

// notify enqueues a notification. Enqueue failures are logged and never
// reach the caller.
func (s *Service) notify(ctx context.Context, template string, user models.User, vars map[string]string) {
	if user.Email == "" {
		return
	}
	if vars == nil {
		vars = map[string]string{}
	}
	vars["userName"] = user.Name
	n := notifier.New(template, notifier.Recipient{Name: user.Name, Email: user.Email}, vars)
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Error("enqueue notification", "template", template, "user_id", user.ID, "error", err)
	}
}
