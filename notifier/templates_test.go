package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEveryTemplate(t *testing.T) {
	vars := map[string]string{
		"userName":          "Ada",
		"courseTitle":       "Intro to Go",
		"courseUrl":         "https://learn.example.com/courses/1",
		"instructorName":    "Grace",
		"lessonTitle":       "Goroutines",
		"progress":          "50",
		"certificateId":     "CRH-1-ABCDEFGHI",
		"verificationUrl":   "https://learn.example.com/verify/CRH-1-ABCDEFGHI",
		"quizTitle":         "Basics",
		"percentage":        "80.0",
		"passed":            "true",
		"attemptNumber":     "1",
		"maxAttempts":       "3",
		"courseDescription": "Learn Go",
	}

	for _, name := range []string{
		TemplateEnrollmentConfirmation,
		TemplateLessonCompletion,
		TemplateCourseCompletion,
		TemplateQuizResult,
		TemplateCoursePublished,
	} {
		t.Run(name, func(t *testing.T) {
			msg, err := Render(New(name, Recipient{Name: "Ada", Email: "ada@example.com"}, vars))
			require.NoError(t, err)
			assert.NotEmpty(t, msg.Subject)
			assert.Contains(t, msg.HTML, "CAREER REACH HUB")
			assert.Contains(t, msg.Text, "Ada")
			assert.NotContains(t, msg.Text, "<")
			assert.Equal(t, name, msg.Template)
		})
	}
}

func TestRenderEscapesVariables(t *testing.T) {
	msg, err := Render(New(TemplateCoursePublished, Recipient{Email: "ada@example.com"}, map[string]string{
		"userName":    "Ada",
		"courseTitle": `<script>alert(1)</script>`,
	}))
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Equal(t, "New course: <script>alert(1)</script>", msg.Subject)
}

func TestRenderQuizResultBranches(t *testing.T) {
	vars := map[string]string{"userName": "Ada", "quizTitle": "Basics", "passed": "false"}
	msg, err := Render(New(TemplateQuizResult, Recipient{Email: "ada@example.com"}, vars))
	require.NoError(t, err)
	assert.Equal(t, "Quiz result: Basics", msg.Subject)
	assert.Contains(t, msg.Text, "did not reach the passing score")

	vars["passed"] = "true"
	msg, err = Render(New(TemplateQuizResult, Recipient{Email: "ada@example.com"}, vars))
	require.NoError(t, err)
	assert.Equal(t, "Quiz passed: Basics", msg.Subject)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render(New("missing", Recipient{}, nil))
	assert.Error(t, err)
}

func TestNewAssignsUniqueIDs(t *testing.T) {
	a := New(TemplateQuizResult, Recipient{}, nil)
	b := New(TemplateQuizResult, Recipient{}, nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotNil(t, a.Vars)
}
