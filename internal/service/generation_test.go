package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritest/veritest-backend/internal/model"
)

func makeGeneratedPaper(t *testing.T) string {
	t.Helper()

	paper := make([]map[string]any, 0, 20)
	subjective := func(body string) map[string]any {
		return map[string]any{"question": body, "type": "subjective"}
	}
	mcq := func(body string) map[string]any {
		return map[string]any{
			"question": body,
			"type":     "mcq",
			"options":  []string{"a", "b", "c", "d"},
			"answer":   "b",
		}
	}

	paper = append(paper, subjective("Describe your experience with the topic."))
	for i := 0; i < 2; i++ {
		paper = append(paper, subjective("Explain a core concept."))
	}
	for i := 0; i < 12; i++ {
		paper = append(paper, mcq("Pick the right option."))
	}
	for i := 0; i < 5; i++ {
		paper = append(paper, subjective("Discuss an advanced aspect."))
	}

	raw, err := json.Marshal(paper)
	require.NoError(t, err)
	return string(raw)
}

func TestParseGeneratedQuestions(t *testing.T) {
	questions, err := parseGeneratedQuestions(makeGeneratedPaper(t))
	require.NoError(t, err)
	require.Len(t, questions, 20)

	mcq, subjective := countByType(questions)
	assert.Equal(t, 12, mcq)
	assert.Equal(t, 8, subjective)

	// Default marks: 1 per MCQ, 5 per subjective.
	assert.Equal(t, 12*model.DefaultMCQMarks+8*model.DefaultSubjectiveMarks, sumMarks(questions))

	// Paper order is preserved through order numbers.
	for i, q := range questions {
		assert.Equal(t, i, q.OrderNum)
	}
	assert.Equal(t, model.QuestionTypeSubjective, questions[0].Type)
	assert.Equal(t, model.QuestionTypeMCQ, questions[3].Type)
}

func TestParseGeneratedQuestionsRejectsShortPaper(t *testing.T) {
	raw := `[{"question":"only one","type":"subjective"}]`
	_, err := parseGeneratedQuestions(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need at least 20")
}

func TestParseGeneratedQuestionsRejectsMalformedJSON(t *testing.T) {
	_, err := parseGeneratedQuestions(`this is not json`)
	require.Error(t, err)
}

func TestParseGeneratedQuestionsRejectsBadMCQ(t *testing.T) {
	paper := makeGeneratedPaper(t)

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(paper), &items))

	t.Run("wrong option count", func(t *testing.T) {
		items[5]["options"] = []string{"a", "b"}
		raw, err := json.Marshal(items)
		require.NoError(t, err)
		_, err = parseGeneratedQuestions(string(raw))
		require.Error(t, err)
		items[5]["options"] = []string{"a", "b", "c", "d"}
	})

	t.Run("missing answer", func(t *testing.T) {
		items[5]["answer"] = ""
		raw, err := json.Marshal(items)
		require.NoError(t, err)
		_, err = parseGeneratedQuestions(string(raw))
		require.Error(t, err)
	})
}

func TestParseGeneratedQuestionsRejectsUnknownType(t *testing.T) {
	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(makeGeneratedPaper(t)), &items))
	items[0]["type"] = "essay"

	raw, err := json.Marshal(items)
	require.NoError(t, err)
	_, err = parseGeneratedQuestions(string(raw))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestBuildGenerationPrompt(t *testing.T) {
	prompt := buildGenerationPrompt("Distributed Systems", model.DifficultyHard)
	assert.Contains(t, prompt, "Distributed Systems")
	assert.Contains(t, prompt, "Hard-difficulty")
	assert.Contains(t, prompt, "20 questions")
	assert.True(t, strings.Contains(prompt, "JSON array"))
}
