package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritest/veritest-backend/internal/model"
)

func TestScoreMCQ(t *testing.T) {
	q := model.Question{
		Type:          model.QuestionTypeMCQ,
		Marks:         2,
		CorrectAnswer: "Paris",
	}

	tests := []struct {
		name        string
		answer      string
		wantMarks   int
		wantCorrect bool
	}{
		{"exact match", "Paris", 2, true},
		{"surrounding whitespace", "  Paris ", 2, true},
		{"wrong answer", "London", 0, false},
		{"case differs", "paris", 0, false},
		{"empty answer", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marks, correct := scoreMCQ(q, tt.answer)
			assert.Equal(t, tt.wantMarks, marks)
			assert.Equal(t, tt.wantCorrect, correct)
		})
	}
}

func gradingFixture() ([]model.Question, map[uuid.UUID]string) {
	mcq := model.Question{
		ID:            uuid.New(),
		Type:          model.QuestionTypeMCQ,
		Body:          "Capital of France?",
		Marks:         1,
		Options:       []string{"Paris", "London", "Rome", "Berlin"},
		CorrectAnswer: "Paris",
		OrderNum:      0,
	}
	subj1 := model.Question{
		ID:       uuid.New(),
		Type:     model.QuestionTypeSubjective,
		Body:     "Explain normalization.",
		Marks:    5,
		OrderNum: 1,
	}
	subj2 := model.Question{
		ID:       uuid.New(),
		Type:     model.QuestionTypeSubjective,
		Body:     "Describe ACID.",
		Marks:    5,
		OrderNum: 2,
	}

	answers := map[uuid.UUID]string{
		mcq.ID:   "Paris",
		subj1.ID: "Normalization reduces redundancy.",
		// subj2 deliberately unanswered
	}
	return []model.Question{mcq, subj1, subj2}, answers
}

func TestBuildSubjectivePairs(t *testing.T) {
	questions, answers := gradingFixture()

	pairs := buildSubjectivePairs(questions, answers)
	require.Len(t, pairs, 2)
	assert.Equal(t, "q1", pairs[0].Tag)
	assert.Equal(t, "q2", pairs[1].Tag)
	assert.Equal(t, "Explain normalization.", pairs[0].Question)
	assert.Equal(t, "", pairs[1].Answer)
	assert.Equal(t, 5, pairs[0].MaxMarks)
}

func TestParseSubjectiveScores(t *testing.T) {
	questions, answers := gradingFixture()
	pairs := buildSubjectivePairs(questions, answers)

	t.Run("tagged object", func(t *testing.T) {
		scores := parseSubjectiveScores(`{"q1": 4, "q2": 2}`, pairs)
		assert.Equal(t, 4, scores[pairs[0].QuestionID])
		assert.Equal(t, 2, scores[pairs[1].QuestionID])
	})

	t.Run("fenced tagged object", func(t *testing.T) {
		scores := parseSubjectiveScores("```json\n{\"q1\": 3, \"q2\": 1}\n```", pairs)
		assert.Equal(t, 3, scores[pairs[0].QuestionID])
		assert.Equal(t, 1, scores[pairs[1].QuestionID])
	})

	t.Run("positional fallback", func(t *testing.T) {
		scores := parseSubjectiveScores(`[5, 3]`, pairs)
		assert.Equal(t, 5, scores[pairs[0].QuestionID])
		assert.Equal(t, 3, scores[pairs[1].QuestionID])
	})

	t.Run("scores clamped to max marks", func(t *testing.T) {
		scores := parseSubjectiveScores(`{"q1": 99, "q2": -3}`, pairs)
		assert.Equal(t, 5, scores[pairs[0].QuestionID])
		assert.Equal(t, 0, scores[pairs[1].QuestionID])
	})

	t.Run("unusable output scores zero", func(t *testing.T) {
		scores := parseSubjectiveScores(`the candidate did well overall`, pairs)
		assert.Equal(t, 0, scores[pairs[0].QuestionID])
		assert.Equal(t, 0, scores[pairs[1].QuestionID])
	})

	t.Run("missing tag scores zero", func(t *testing.T) {
		scores := parseSubjectiveScores(`{"q1": 4}`, pairs)
		assert.Equal(t, 4, scores[pairs[0].QuestionID])
		assert.Equal(t, 0, scores[pairs[1].QuestionID])
	})
}

func TestBuildEvaluation(t *testing.T) {
	questions, answers := gradingFixture()
	bookingID := uuid.New()
	pairs := buildSubjectivePairs(questions, answers)
	scores := map[uuid.UUID]int{
		pairs[0].QuestionID: 4,
		pairs[1].QuestionID: 0,
	}

	evaluation, answerRows, total := buildEvaluation(bookingID, questions, answers, scores)
	require.Len(t, evaluation, 3)
	require.Len(t, answerRows, 3)

	// 1 mark MCQ correct + 4 subjective marks.
	assert.Equal(t, 5, total)

	mcqItem := evaluation[0]
	require.NotNil(t, mcqItem.CorrectAnswer)
	require.NotNil(t, mcqItem.IsCorrect)
	assert.Equal(t, "Paris", *mcqItem.CorrectAnswer)
	assert.True(t, *mcqItem.IsCorrect)
	assert.Equal(t, 1, mcqItem.MarksAwarded)

	subjItem := evaluation[1]
	assert.Nil(t, subjItem.CorrectAnswer)
	assert.Nil(t, subjItem.IsCorrect)
	assert.Equal(t, 4, subjItem.MarksAwarded)

	// The unanswered question is graded as an empty answer with zero marks.
	unanswered := evaluation[2]
	assert.Equal(t, "", unanswered.UserAnswer)
	assert.Equal(t, 0, unanswered.MarksAwarded)

	for i, row := range answerRows {
		assert.Equal(t, bookingID, row.BookingID)
		assert.Equal(t, questions[i].ID, row.QuestionID)
		assert.NotEqual(t, uuid.Nil, row.ID)
	}
	assert.Equal(t, 1, answerRows[0].MarksObtained)
	assert.Equal(t, 4, answerRows[1].MarksObtained)
}

func TestBuildGradingPrompt(t *testing.T) {
	questions, answers := gradingFixture()
	pairs := buildSubjectivePairs(questions, answers)

	prompt := buildGradingPrompt(pairs)
	assert.Contains(t, prompt, "[q1]")
	assert.Contains(t, prompt, "[q2]")
	assert.Contains(t, prompt, "maximum 5 marks")
	assert.Contains(t, prompt, "(no answer given)")
	assert.Contains(t, prompt, "JSON object")
}

func TestBuildEmotionPrompt(t *testing.T) {
	emotions := map[string][]model.EmotionSample{
		"1": {
			{Time: 1000, Expressions: map[string]float64{"neutral": 0.9, "happy": 0.1}},
			{Time: 2000, Expressions: map[string]float64{"neutral": 0.7, "surprised": 0.3}},
		},
	}

	prompt := buildEmotionPrompt(emotions)
	assert.Contains(t, prompt, "Question 1: 2 samples")
	assert.Contains(t, prompt, "neutral")
}

func TestDominantExpressionsEmpty(t *testing.T) {
	assert.Equal(t, "none recorded", dominantExpressions([]model.EmotionSample{{Time: 1, Expressions: nil}}))
}

func TestResolveTotalMarks(t *testing.T) {
	questions, _ := gradingFixture()

	t.Run("stored total wins", func(t *testing.T) {
		assert.Equal(t, 40, resolveTotalMarks(40, questions))
	})

	t.Run("missing total falls back to question sum", func(t *testing.T) {
		assert.Equal(t, sumMarks(questions), resolveTotalMarks(0, questions))
	})
}
