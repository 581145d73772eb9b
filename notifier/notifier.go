package notifier

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Template names understood by the renderer.
const (
	TemplateEnrollmentConfirmation = "enrollment-confirmation"
	TemplateLessonCompletion       = "lesson-completion"
	TemplateCourseCompletion       = "course-completion"
	TemplateQuizResult             = "quiz-result"
	TemplateCoursePublished        = "course-published"
)

var (
	ErrQueueFull    = errors.New("notification queue is full")
	ErrQueueStopped = errors.New("notification queue is stopped")
)

type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Notification is a request to deliver one templated message.
type Notification struct {
	ID       string            `json:"id"`
	Template string            `json:"template"`
	To       Recipient         `json:"to"`
	Vars     map[string]string `json:"vars"`
}

// Message is a rendered notification ready for a Sender.
type Message struct {
	NotificationID string
	Template       string
	To             Recipient
	Subject        string
	HTML           string
	Text           string
	Vars           map[string]string
}

// Notifier hands notifications off for asynchronous delivery. Notify must not
// block on delivery.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New builds a notification with a fresh ID.
func New(template string, to Recipient, vars map[string]string) Notification {
	if vars == nil {
		vars = map[string]string{}
	}
	return Notification{
		ID:       uuid.NewString(),
		Template: template,
		To:       to,
		Vars:     vars,
	}
}

// Discard is a Notifier that drops everything.
type Discard struct{}

func (Discard) Notify(context.Context, Notification) error { return nil }
