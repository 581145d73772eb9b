package learning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	courseModels "careerhub/models/course"
)

// AnswerValue is one submitted answer. Clients send option identifiers as
// strings or numbers, short answers as strings, and null for a skipped
// question.
type AnswerValue struct {
	Value string
	Set   bool
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = AnswerValue{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AnswerValue{Value: s, Set: true}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*a = AnswerValue{Value: strconv.FormatBool(b), Set: true}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer must be a string, number, boolean or null")
		}
		*a = AnswerValue{Value: n.String(), Set: true}
	}
	return nil
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if !a.Set {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// GradeResult is the outcome of grading one submission.
type GradeResult struct {
	Answers    []courseModels.GradedAnswer
	Score      int
	Total      int
	Percentage float64
	Passed     bool
}

// Grade scores answers against the quiz questions in order: answer i is for
// question i. Missing answers grade as wrong.
func Grade(quiz *courseModels.Quiz, answers []AnswerValue) (GradeResult, error) {
	result := GradeResult{Answers: make([]courseModels.GradedAnswer, 0, len(quiz.Questions))}

	for i, question := range quiz.Questions {
		result.Total += question.Points

		var answer AnswerValue
		if i < len(answers) {
			answer = answers[i]
		}

		graded := courseModels.GradedAnswer{
			QuestionID:  question.ID,
			Answer:      answer.Value,
			Explanation: question.Explanation,
		}

		switch question.Type {
		case courseModels.QuestionMultipleChoice, courseModels.QuestionTrueFalse:
			if correct, ok := correctOption(question); ok {
				graded.CorrectAnswer = correct.Text
				graded.IsCorrect = answer.Set &&
					strings.TrimSpace(answer.Value) == strconv.FormatUint(uint64(correct.ID), 10)
			}
		case courseModels.QuestionShortAnswer:
			graded.CorrectAnswer = question.CorrectAnswer
			graded.IsCorrect = answer.Set &&
				strings.EqualFold(strings.TrimSpace(answer.Value), strings.TrimSpace(question.CorrectAnswer))
		}

		if graded.IsCorrect {
			graded.PointsEarned = question.Points
			result.Score += question.Points
		}
		result.Answers = append(result.Answers, graded)
	}

	if result.Total <= 0 {
		return GradeResult{}, precondition("Quiz has no gradable questions")
	}

	result.Percentage = float64(result.Score) * 100 / float64(result.Total)
	result.Passed = result.Percentage >= quiz.PassingScore
	return result, nil
}

func correctOption(q courseModels.QuizQuestion) (courseModels.QuizOption, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt, true
		}
	}
	return courseModels.QuizOption{}, false
}

// ValidateQuiz checks a quiz definition before it is stored.
func ValidateQuiz(quiz *courseModels.Quiz) error {
	if quiz.PassingScore < 0 || quiz.PassingScore > 100 {
		return precondition("Passing score must be between 0 and 100")
	}
	if quiz.Attempts < 1 {
		return precondition("Attempts must be at least 1")
	}

	total := 0
	for i, q := range quiz.Questions {
		n := i + 1
		if strings.TrimSpace(q.Prompt) == "" {
			return precondition("Question %d has no text", n)
		}
		if q.Points < 0 {
			return precondition("Question %d has negative points", n)
		}
		total += q.Points

		switch q.Type {
		case courseModels.QuestionMultipleChoice, courseModels.QuestionTrueFalse:
			if len(q.Options) < 2 {
				return precondition("Question %d needs at least two options", n)
			}
			correct := 0
			for _, opt := range q.Options {
				if opt.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				return precondition("Question %d must have exactly one correct option", n)
			}
		case courseModels.QuestionShortAnswer:
			if strings.TrimSpace(q.CorrectAnswer) == "" {
				return precondition("Question %d needs a correct answer", n)
			}
		default:
			return precondition("Question %d has unknown type %q", n, q.Type)
		}
	}

	if total <= 0 {
		return precondition("Quiz needs at least one question worth points")
	}
	return nil
}
