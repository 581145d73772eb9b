package learning

import (
	"encoding/json"
	"testing"

	courseModels "careerhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradingQuiz() *courseModels.Quiz {
	return &courseModels.Quiz{
		Title:        "Basics",
		PassingScore: 70,
		Attempts:     3,
		Questions: []courseModels.QuizQuestion{
			{
				ID: 1, Prompt: "Pick B", Type: courseModels.QuestionMultipleChoice, Points: 2,
				Options: []courseModels.QuizOption{
					{ID: 10, Text: "A"},
					{ID: 11, Text: "B", IsCorrect: true},
				},
			},
			{
				ID: 2, Prompt: "Go has goroutines", Type: courseModels.QuestionTrueFalse, Points: 1,
				Options: []courseModels.QuizOption{
					{ID: 20, Text: "True", IsCorrect: true},
					{ID: 21, Text: "False"},
				},
			},
			{
				ID: 3, Prompt: "Lightweight thread?", Type: courseModels.QuestionShortAnswer, Points: 1,
				CorrectAnswer: "Goroutine",
			},
		},
	}
}

func answers(t *testing.T, raw string) []AnswerValue {
	t.Helper()
	var out []AnswerValue
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestAnswerValueDecoding(t *testing.T) {
	got := answers(t, `["11", 20, true, null, " x "]`)
	require.Len(t, got, 5)

	assert.Equal(t, AnswerValue{Value: "11", Set: true}, got[0])
	assert.Equal(t, AnswerValue{Value: "20", Set: true}, got[1])
	assert.Equal(t, AnswerValue{Value: "true", Set: true}, got[2])
	assert.Equal(t, AnswerValue{}, got[3])
	assert.Equal(t, AnswerValue{Value: " x ", Set: true}, got[4])

	var bad []AnswerValue
	assert.Error(t, json.Unmarshal([]byte(`[{"a":1}]`), &bad))

	encoded, err := json.Marshal(got[:4])
	require.NoError(t, err)
	assert.JSONEq(t, `["11","20","true",null]`, string(encoded))
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name       string
		answers    string
		score      int
		percentage float64
		passed     bool
	}{
		{"all correct", `["11", 20, "  goroutine "]`, 4, 100, true},
		{"numeric option ids", `[11, "20", "GOROUTINE"]`, 4, 100, true},
		{"all wrong", `["10", "21", "thread"]`, 0, 0, false},
		{"partial", `["11", "21", null]`, 2, 50, false},
		{"missing answers grade as wrong", `["11"]`, 2, 50, false},
		{"no answers", `[]`, 0, 0, false},
		{"extra answers ignored", `["11", "20", "goroutine", "surplus"]`, 4, 100, true},
		{"option text is not an id", `["B", "True", "goroutine"]`, 1, 25, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Grade(gradingQuiz(), answers(t, tc.answers))
			require.NoError(t, err)

			assert.Equal(t, 4, res.Total)
			assert.Equal(t, tc.score, res.Score)
			assert.InDelta(t, tc.percentage, res.Percentage, 0.001)
			assert.Equal(t, tc.passed, res.Passed)
			require.Len(t, res.Answers, 3)
		})
	}
}

func TestGradeReportsPerQuestionDetail(t *testing.T) {
	res, err := Grade(gradingQuiz(), answers(t, `["10", "20", "goroutine"]`))
	require.NoError(t, err)

	first := res.Answers[0]
	assert.Equal(t, uint(1), first.QuestionID)
	assert.Equal(t, "10", first.Answer)
	assert.False(t, first.IsCorrect)
	assert.Equal(t, 0, first.PointsEarned)
	assert.Equal(t, "B", first.CorrectAnswer)

	assert.True(t, res.Answers[1].IsCorrect)
	assert.Equal(t, 1, res.Answers[1].PointsEarned)
	assert.Equal(t, "Goroutine", res.Answers[2].CorrectAnswer)
}

func TestGradePassingThresholdIsInclusive(t *testing.T) {
	quiz := gradingQuiz()
	quiz.PassingScore = 50

	res, err := Grade(quiz, answers(t, `["11"]`))
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestGradeRejectsQuizWithoutPoints(t *testing.T) {
	quiz := &courseModels.Quiz{PassingScore: 70}
	_, err := Grade(quiz, nil)
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
}

func TestValidateQuiz(t *testing.T) {
	assert.NoError(t, ValidateQuiz(gradingQuiz()))

	tests := []struct {
		name   string
		mutate func(q *courseModels.Quiz)
		msg    string
	}{
		{"passing score above 100", func(q *courseModels.Quiz) { q.PassingScore = 101 }, "Passing score must be between 0 and 100"},
		{"no attempts", func(q *courseModels.Quiz) { q.Attempts = 0 }, "Attempts must be at least 1"},
		{"blank prompt", func(q *courseModels.Quiz) { q.Questions[0].Prompt = "  " }, "Question 1 has no text"},
		{"negative points", func(q *courseModels.Quiz) { q.Questions[1].Points = -1 }, "Question 2 has negative points"},
		{"single option", func(q *courseModels.Quiz) { q.Questions[0].Options = q.Questions[0].Options[:1] }, "Question 1 needs at least two options"},
		{"two correct options", func(q *courseModels.Quiz) { q.Questions[1].Options[1].IsCorrect = true }, "Question 2 must have exactly one correct option"},
		{"no correct option", func(q *courseModels.Quiz) { q.Questions[0].Options[1].IsCorrect = false }, "Question 1 must have exactly one correct option"},
		{"short answer without answer", func(q *courseModels.Quiz) { q.Questions[2].CorrectAnswer = "" }, "Question 3 needs a correct answer"},
		{"unknown type", func(q *courseModels.Quiz) { q.Questions[2].Type = "essay" }, `Question 3 has unknown type "essay"`},
		{"no questions", func(q *courseModels.Quiz) { q.Questions = nil }, "Quiz needs at least one question worth points"},
		{"all zero points", func(q *courseModels.Quiz) {
			for i := range q.Questions {
				q.Questions[i].Points = 0
			}
		}, "Quiz needs at least one question worth points"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			quiz := gradingQuiz()
			tc.mutate(quiz)
			err := ValidateQuiz(quiz)
			require.Error(t, err)
			assert.True(t, IsPrecondition(err))
			assert.EqualError(t, err, tc.msg)
		})
	}
}
