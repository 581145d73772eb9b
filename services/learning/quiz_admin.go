package learning

import (
	"context"
	"errors"

	courseModels "careerhub/models/course"

	"gorm.io/gorm"
)

type OptionInput struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	Question      string        `json:"question" validate:"required"`
	Type          string        `json:"type" validate:"omitempty,oneof=multiple-choice true-false short-answer"`
	Options       []OptionInput `json:"options" validate:"dive"`
	CorrectAnswer string        `json:"correct_answer"`
	Points        *int          `json:"points" validate:"omitempty,min=0"`
	Explanation   string        `json:"explanation"`
}

// QuizInput is the authoring payload for creating or updating a quiz. Nil
// fields are left unchanged on update.
type QuizInput struct {
	Title        *string         `json:"title" validate:"omitempty,min=1"`
	Description  *string         `json:"description"`
	PassingScore *float64        `json:"passing_score" validate:"omitempty,min=0,max=100"`
	TimeLimit    *int            `json:"time_limit" validate:"omitempty,min=1"`
	Attempts     *int            `json:"attempts" validate:"omitempty,min=1"`
	Questions    []QuestionInput `json:"questions" validate:"omitempty,dive"`
}

func buildQuestions(in []QuestionInput) []courseModels.QuizQuestion {
	questions := make([]courseModels.QuizQuestion, 0, len(in))
	for i, q := range in {
		question := courseModels.QuizQuestion{
			Position:      i + 1,
			Prompt:        q.Question,
			Type:          q.Type,
			CorrectAnswer: q.CorrectAnswer,
			Points:        1,
			Explanation:   q.Explanation,
		}
		if question.Type == "" {
			question.Type = courseModels.QuestionMultipleChoice
		}
		if q.Points != nil {
			question.Points = *q.Points
		}
		for j, opt := range q.Options {
			question.Options = append(question.Options, courseModels.QuizOption{
				Position:  j + 1,
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
			})
		}
		questions = append(questions, question)
	}
	return questions
}

func (in QuizInput) apply(quiz *courseModels.Quiz) {
	if in.Title != nil {
		quiz.Title = *in.Title
	}
	if in.Description != nil {
		quiz.Description = *in.Description
	}
	if in.PassingScore != nil {
		quiz.PassingScore = *in.PassingScore
	}
	if in.TimeLimit != nil {
		quiz.TimeLimit = in.TimeLimit
	}
	if in.Attempts != nil {
		quiz.Attempts = *in.Attempts
	}
	if in.Questions != nil {
		quiz.Questions = buildQuestions(in.Questions)
	}
}

var errQuizExists = &PreconditionError{Reason: "Quiz already exists for this lesson"}

// CreateQuiz attaches a new quiz to a lesson. A lesson has at most one quiz.
func (s *Service) CreateQuiz(ctx context.Context, lessonID uint, in QuizInput) (*courseModels.Quiz, error) {
	db := s.db.WithContext(ctx)

	var lesson courseModels.Lesson
	if err := db.First(&lesson, lessonID).Error; err != nil {
		return nil, lookupErr(err, "Lesson")
	}

	quiz := courseModels.Quiz{
		LessonID:     lesson.ID,
		CourseID:     lesson.CourseID,
		PassingScore: 70,
		Attempts:     3,
	}
	in.apply(&quiz)
	if quiz.Title == "" {
		return nil, precondition("Quiz title is required")
	}
	if err := ValidateQuiz(&quiz); err != nil {
		return nil, err
	}

	if err := db.Create(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errQuizExists
		}
		return nil, err
	}
	s.log.Info("quiz created", "quiz_id", quiz.ID, "lesson_id", lesson.ID)
	return &quiz, nil
}

// UpdateQuiz changes quiz settings and, when questions are given, replaces
// the whole question set. Stored attempts keep their graded answers.
func (s *Service) UpdateQuiz(ctx context.Context, quizID uint, in QuizInput) (*courseModels.Quiz, error) {
	quiz, err := s.LoadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	oldQuestions := quiz.Questions
	in.apply(quiz)
	if err := ValidateQuiz(quiz); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Questions != nil && len(oldQuestions) > 0 {
			if err := deleteQuestions(tx, quiz.ID); err != nil {
				return err
			}
		}
		if err := tx.Omit("Questions").Save(quiz).Error; err != nil {
			return err
		}
		if in.Questions != nil && len(quiz.Questions) > 0 {
			for i := range quiz.Questions {
				quiz.Questions[i].QuizID = quiz.ID
			}
			return tx.Create(&quiz.Questions).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.LoadQuiz(ctx, quizID)
}

// DeleteQuiz removes a quiz and its questions. Attempts are kept.
func (s *Service) DeleteQuiz(ctx context.Context, quizID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quiz courseModels.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			return lookupErr(err, "Quiz")
		}
		if err := deleteQuestions(tx, quiz.ID); err != nil {
			return err
		}
		// hard delete frees the lesson's unique quiz slot
		return tx.Unscoped().Delete(&quiz).Error
	})
}

func deleteQuestions(tx *gorm.DB, quizID uint) error {
	questionIDs := tx.Model(&courseModels.QuizQuestion{}).Select("id").Where("quiz_id = ?", quizID)
	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&courseModels.QuizOption{}).Error; err != nil {
		return err
	}
	return tx.Where("quiz_id = ?", quizID).Delete(&courseModels.QuizQuestion{}).Error
}
