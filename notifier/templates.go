package notifier

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	"regexp"
	"strings"
	texttmpl "text/template"
)

type emailTemplate struct {
	title   string
	subject *texttmpl.Template
	body    *htmltmpl.Template
}

var (
	templates = map[string]emailTemplate{}
	layout    = htmltmpl.Must(htmltmpl.New("layout").Parse(layoutHTML))
	tagRe     = regexp.MustCompile(`<[^>]*>`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

func register(name, title, subject, body string) {
	templates[name] = emailTemplate{
		title:   title,
		subject: texttmpl.Must(texttmpl.New(name + ".subject").Option("missingkey=zero").Parse(subject)),
		body:    htmltmpl.Must(htmltmpl.New(name).Option("missingkey=zero").Parse(body)),
	}
}

func init() {
	register(TemplateEnrollmentConfirmation, "Enrollment Successful!",
		`You're enrolled: {{.courseTitle}}`, `
		<p>Hi {{.userName}},</p>
		<p>You have successfully enrolled in <strong>{{.courseTitle}}</strong>{{if .instructorName}}, taught by {{.instructorName}}{{end}}.</p>
		<p>Complete every lesson to earn your certificate.</p>
		<a href="{{.courseUrl}}" class="btn">Start Learning</a>
	`)
	register(TemplateLessonCompletion, "Lesson Completed",
		`Lesson completed: {{.lessonTitle}}`, `
		<p>Hi {{.userName}},</p>
		<p>You completed <strong>{{.lessonTitle}}</strong> in {{.courseTitle}}.</p>
		<div class="info-box">Course progress: <strong>{{.progress}}%</strong></div>
		<a href="{{.courseUrl}}" class="btn">Continue Course</a>
	`)
	register(TemplateCourseCompletion, "Certificate of Completion",
		`Congratulations! You completed {{.courseTitle}}`, `
		<p>Hi {{.userName}},</p>
		<p>Congratulations on completing <strong>{{.courseTitle}}</strong>.</p>
		{{if .certificateId}}<div class="info-box">
			<p>Your certificate ID:</p>
			<h3>{{.certificateId}}</h3>
		</div>
		<a href="{{.verificationUrl}}" class="btn">Verify Certificate</a>{{end}}
	`)
	register(TemplateQuizResult, "Quiz Result",
		`{{if eq .passed "true"}}Quiz passed{{else}}Quiz result{{end}}: {{.quizTitle}}`, `
		<p>Hi {{.userName}},</p>
		<p>You scored <strong>{{.percentage}}%</strong> on <strong>{{.quizTitle}}</strong> ({{.lessonTitle}}, {{.courseTitle}}).</p>
		{{if eq .passed "true"}}<p>You passed. Well done!</p>{{else}}<p>You did not reach the passing score this time. Review the lesson and try again.</p>{{end}}
		<p>Attempt {{.attemptNumber}} of {{.maxAttempts}}.</p>
	`)
	register(TemplateCoursePublished, "New Course Available",
		`New course: {{.courseTitle}}`, `
		<p>Hi {{.userName}},</p>
		<p>A new course has been published: <strong>{{.courseTitle}}</strong></p>
		<p>{{.courseDescription}}</p>
		<a href="{{.courseUrl}}" class="btn">View Course</a>
	`)
}

// Render turns a notification into a deliverable message.
func Render(n Notification) (Message, error) {
	tmpl, ok := templates[n.Template]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification template %q", n.Template)
	}

	var subject bytes.Buffer
	if err := tmpl.subject.Execute(&subject, n.Vars); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", n.Template, err)
	}

	var body bytes.Buffer
	if err := tmpl.body.Execute(&body, n.Vars); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", n.Template, err)
	}

	var page bytes.Buffer
	err := layout.Execute(&page, struct {
		Title string
		Body  htmltmpl.HTML
	}{tmpl.title, htmltmpl.HTML(body.String())})
	if err != nil {
		return Message{}, fmt.Errorf("render %s layout: %w", n.Template, err)
	}

	return Message{
		NotificationID: n.ID,
		Template:       n.Template,
		To:             n.To,
		Subject:        subject.String(),
		HTML:           page.String(),
		Text:           strings.TrimSpace(spaceRe.ReplaceAllString(tagRe.ReplaceAllString(body.String(), " "), " ")),
		Vars:           n.Vars,
	}, nil
}

const layoutHTML = `<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
		.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
		.header { background-color: #1E3A8A; padding: 30px; text-align: center; }
		.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
		.content { padding: 40px 30px; color: #1F2937; line-height: 1.6; }
		.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		.btn { display: inline-block; padding: 12px 24px; background-color: #3B82F6; color: #FFFFFF; text-decoration: none; border-radius: 4px; }
		.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3B82F6; margin: 20px 0; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>CAREER REACH HUB</h1></div>
		<div class="content">
			<h2>{{.Title}}</h2>
			{{.Body}}
		</div>
		<div class="footer">&copy; Career Reach Hub. You receive this email because you have an account with us.</div>
	</div>
</body>
</html>`
