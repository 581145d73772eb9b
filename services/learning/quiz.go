package learning

import (
	"context"
	"errors"
	"strconv"
	"time"

	courseModels "careerhub/models/course"
	"careerhub/notifier"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// submitRetries bounds how often a submission is retried after losing the
// attempt-number race to a concurrent submission.
const submitRetries = 3

type SubmitQuizInput struct {
	Answers   []AnswerValue `json:"answers"`
	TimeSpent int           `json:"time_spent"` // seconds
}

type AttemptSummary struct {
	Score         int    `json:"score"`
	TotalPoints   int    `json:"total_points"`
	Percentage    string `json:"percentage"`
	Passed        bool   `json:"passed"`
	AttemptNumber int    `json:"attempt_number"`
	MaxAttempts   int    `json:"max_attempts"`
}

type QuizSubmission struct {
	Attempt   AttemptSummary              `json:"attempt"`
	Answers   []courseModels.GradedAnswer `json:"answers"`
	CanRetake bool                        `json:"can_retake"`
}

// LoadQuiz fetches a quiz with its questions and options in display order.
func (s *Service) LoadQuiz(ctx context.Context, quizID uint) (*courseModels.Quiz, error) {
	return loadQuiz(s.db.WithContext(ctx).Where("id = ?", quizID))
}

// LoadQuizForLesson fetches the quiz attached to a lesson.
func (s *Service) LoadQuizForLesson(ctx context.Context, lessonID uint) (*courseModels.Quiz, error) {
	return loadQuiz(s.db.WithContext(ctx).Where("lesson_id = ?", lessonID))
}

func loadQuiz(scope *gorm.DB) (*courseModels.Quiz, error) {
	var quiz courseModels.Quiz
	err := scope.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&quiz).Error
	if err != nil {
		return nil, lookupErr(err, "Quiz")
	}
	return &quiz, nil
}

// SubmitQuiz grades a submission, stores it as the user's next attempt and
// folds the result into the course progress.
func (s *Service) SubmitQuiz(ctx context.Context, userID, quizID uint, input SubmitQuizInput) (*QuizSubmission, error) {
	quiz, err := s.LoadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	graded, err := Grade(quiz, input.Answers)
	if err != nil {
		return nil, err
	}

	timeSpent := input.TimeSpent
	if timeSpent < 0 {
		timeSpent = 0
	}

	var attempt courseModels.QuizAttempt
	for try := 0; ; try++ {
		attempt, err = s.recordAttempt(ctx, userID, quiz, graded, timeSpent)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && try < submitRetries {
			s.log.Warn("attempt number taken, retrying", "user_id", userID, "quiz_id", quiz.ID)
			continue
		}
		return nil, err
	}

	submission := &QuizSubmission{
		Attempt: AttemptSummary{
			Score:         attempt.Score,
			TotalPoints:   attempt.TotalPoints,
			Percentage:    strconv.FormatFloat(attempt.Percentage, 'f', 1, 64),
			Passed:        attempt.Passed,
			AttemptNumber: attempt.AttemptNumber,
			MaxAttempts:   quiz.Attempts,
		},
		Answers:   graded.Answers,
		CanRetake: attempt.AttemptNumber < quiz.Attempts,
	}

	s.notifyQuizResult(ctx, userID, quiz, submission)
	return submission, nil
}

func (s *Service) recordAttempt(ctx context.Context, userID uint, quiz *courseModels.Quiz, graded GradeResult, timeSpent int) (courseModels.QuizAttempt, error) {
	var attempt courseModels.QuizAttempt

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior int64
		if err := tx.Model(&courseModels.QuizAttempt{}).
			Where("quiz_id = ? AND user_id = ?", quiz.ID, userID).
			Count(&prior).Error; err != nil {
			return err
		}
		if int(prior) >= quiz.Attempts {
			return precondition("Maximum attempts (%d) reached for this quiz", quiz.Attempts)
		}

		completedAt := s.now()
		attempt = courseModels.QuizAttempt{
			QuizID:        quiz.ID,
			UserID:        userID,
			AttemptNumber: int(prior) + 1,
			CourseID:      quiz.CourseID,
			LessonID:      quiz.LessonID,
			Answers:       graded.Answers,
			Score:         graded.Score,
			TotalPoints:   graded.Total,
			Percentage:    graded.Percentage,
			Passed:        graded.Passed,
			StartedAt:     completedAt.Add(-time.Duration(timeSpent) * time.Second),
			CompletedAt:   completedAt,
			TimeSpent:     timeSpent,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		return s.recordQuizResult(tx, userID, &attempt)
	})
	return attempt, err
}

// recordQuizResult upserts the progress summary for the attempt's quiz. The
// best score only ever moves up.
func (s *Service) recordQuizResult(tx *gorm.DB, userID uint, attempt *courseModels.QuizAttempt) error {
	progress, err := s.findProgress(tx, userID, attempt.CourseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	summary := courseModels.QuizResult{
		ProgressID: progress.ID,
		QuizID:     attempt.QuizID,
		Attempts:   attempt.AttemptNumber,
		BestScore:  attempt.Percentage,
		Passed:     attempt.Passed,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&summary)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	scope := tx.Model(&courseModels.QuizResult{}).Where("progress_id = ? AND quiz_id = ?", progress.ID, attempt.QuizID)
	if err := scope.Session(&gorm.Session{}).
		Where("attempts < ?", attempt.AttemptNumber).
		Update("attempts", attempt.AttemptNumber).Error; err != nil {
		return err
	}
	return scope.Session(&gorm.Session{}).
		Where("best_score < ?", attempt.Percentage).
		Updates(map[string]interface{}{
			"best_score": attempt.Percentage,
			"passed":     attempt.Passed,
		}).Error
}

func (s *Service) notifyQuizResult(ctx context.Context, userID uint, quiz *courseModels.Quiz, submission *QuizSubmission) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		s.log.Error("load user for quiz result", "user_id", userID, "error", err)
		return
	}

	vars := map[string]string{
		"quizTitle":     quiz.Title,
		"percentage":    submission.Attempt.Percentage,
		"passed":        strconv.FormatBool(submission.Attempt.Passed),
		"attemptNumber": strconv.Itoa(submission.Attempt.AttemptNumber),
		"maxAttempts":   strconv.Itoa(submission.Attempt.MaxAttempts),
	}
	var lesson courseModels.Lesson
	if err := s.db.WithContext(ctx).Unscoped().Select("title").First(&lesson, quiz.LessonID).Error; err == nil {
		vars["lessonTitle"] = lesson.Title
	}
	var course courseModels.Course
	if err := s.db.WithContext(ctx).Unscoped().Select("title").First(&course, quiz.CourseID).Error; err == nil {
		vars["courseTitle"] = course.Title
	}
	s.notify(ctx, notifier.TemplateQuizResult, user, vars)
}

// QuizOverview is a quiz as shown to a learner: correctness stripped, plus
// their attempt history.
type QuizOverview struct {
	Quiz        *courseModels.Quiz `json:"quiz"`
	Attempts    int                `json:"attempts"`
	MaxAttempts int                `json:"max_attempts"`
	CanRetake   bool               `json:"can_retake"`
	BestScore   *float64           `json:"best_score"`
}

// QuizForLearner returns the lesson's quiz without answers.
func (s *Service) QuizForLearner(ctx context.Context, userID, lessonID uint) (*QuizOverview, error) {
	var lesson courseModels.Lesson
	if err := s.db.WithContext(ctx).First(&lesson, lessonID).Error; err != nil {
		return nil, lookupErr(err, "Lesson")
	}
	quiz, err := s.LoadQuizForLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	var percentages []float64
	if err := s.db.WithContext(ctx).Model(&courseModels.QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ?", quiz.ID, userID).
		Pluck("percentage", &percentages).Error; err != nil {
		return nil, err
	}

	overview := &QuizOverview{
		Quiz:        stripAnswers(quiz),
		Attempts:    len(percentages),
		MaxAttempts: quiz.Attempts,
		CanRetake:   len(percentages) < quiz.Attempts,
	}
	for i, p := range percentages {
		if i == 0 || p > *overview.BestScore {
			best := p
			overview.BestScore = &best
		}
	}
	return overview, nil
}

func stripAnswers(quiz *courseModels.Quiz) *courseModels.Quiz {
	out := *quiz
	out.Questions = make([]courseModels.QuizQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		q.CorrectAnswer = ""
		q.Explanation = ""
		opts := make([]courseModels.QuizOption, len(q.Options))
		for j, opt := range q.Options {
			opt.IsCorrect = false
			opts[j] = opt
		}
		q.Options = opts
		out.Questions[i] = q
	}
	return &out
}

// ListAttempts returns the user's attempts at a quiz, newest first.
func (s *Service) ListAttempts(ctx context.Context, userID, quizID uint) ([]courseModels.QuizAttempt, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&courseModels.Quiz{}).Where("id = ?", quizID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, notFound("Quiz")
	}

	var attempts []courseModels.QuizAttempt
	err := s.db.WithContext(ctx).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("attempt_number DESC").
		Find(&attempts).Error
	return attempts, err
}
