package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/veritest/veritest-backend/internal/model"
)

// Structure of a generated question paper. The counts here are what the
// prompt demands; parseGeneratedQuestions enforces the minimum total.
const (
	generatedIntroCount     = 1
	generatedReasoningCount = 2
	generatedMCQCount       = 12
	generatedClosingCount   = 5
	minGeneratedQuestions   = generatedIntroCount + generatedReasoningCount + generatedMCQCount + generatedClosingCount

	defaultTestDurationMin = 60
)

// generatedQuestion is the JSON shape the model is instructed to produce.
type generatedQuestion struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Marks    int      `json:"marks,omitempty"`
}

// buildGenerationPrompt asks for a structured paper: an introductory
// subjective question, reasoning questions, an MCQ block, and closing
// subjective questions, as a single JSON array.
func buildGenerationPrompt(topic string, difficulty model.Difficulty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an examiner creating a %s-difficulty test on the topic %q.\n\n", difficulty, topic)
	fmt.Fprintf(&b, "Produce exactly %d questions in this order:\n", minGeneratedQuestions)
	fmt.Fprintf(&b, "1. %d introductory subjective question asking the candidate to describe their background with the topic.\n", generatedIntroCount)
	fmt.Fprintf(&b, "2. %d subjective reasoning questions that require explained answers.\n", generatedReasoningCount)
	fmt.Fprintf(&b, "3. %d multiple-choice questions, each with exactly 4 options and one correct option.\n", generatedMCQCount)
	fmt.Fprintf(&b, "4. %d closing subjective questions covering advanced aspects of the topic.\n\n", generatedClosingCount)
	b.WriteString("Respond with ONLY a JSON array, no prose. Each element must be an object:\n")
	b.WriteString(`{"question": "...", "type": "mcq" or "subjective", "options": ["...","...","...","..."], "answer": "exact text of correct option"}` + "\n")
	b.WriteString("Omit options and answer for subjective questions.\n")
	return b.String()
}

// parseGeneratedQuestions decodes the model output into questions. It fails
// if the payload is not valid JSON, contains fewer than the minimum number
// of questions, or contains an MCQ without options or a correct answer.
func parseGeneratedQuestions(raw string) ([]model.Question, error) {
	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		return nil, fmt.Errorf("decode generated questions: %w", err)
	}
	if len(generated) < minGeneratedQuestions {
		return nil, fmt.Errorf("generator returned %d questions, need at least %d", len(generated), minGeneratedQuestions)
	}

	questions := make([]model.Question, 0, len(generated))
	for i, g := range generated {
		body := strings.TrimSpace(g.Question)
		if body == "" {
			return nil, fmt.Errorf("question %d has an empty body", i+1)
		}

		q := model.Question{
			Body:     body,
			Marks:    g.Marks,
			OrderNum: i,
		}
		switch strings.ToLower(strings.TrimSpace(g.Type)) {
		case "mcq":
			if len(g.Options) != 4 {
				return nil, fmt.Errorf("mcq question %d has %d options, want 4", i+1, len(g.Options))
			}
			answer := strings.TrimSpace(g.Answer)
			if answer == "" {
				return nil, fmt.Errorf("mcq question %d has no correct answer", i+1)
			}
			q.Type = model.QuestionTypeMCQ
			q.Options = g.Options
			q.CorrectAnswer = answer
			if q.Marks <= 0 {
				q.Marks = model.DefaultMCQMarks
			}
		case "subjective":
			q.Type = model.QuestionTypeSubjective
			if q.Marks <= 0 {
				q.Marks = model.DefaultSubjectiveMarks
			}
		default:
			return nil, fmt.Errorf("question %d has unknown type %q", i+1, g.Type)
		}

		questions = append(questions, q)
	}
	return questions, nil
}

// countByType tallies MCQ and subjective questions.
func countByType(questions []model.Question) (mcq, subjective int) {
	for _, q := range questions {
		if q.Type == model.QuestionTypeMCQ {
			mcq++
		} else {
			subjective++
		}
	}
	return mcq, subjective
}

// sumMarks totals the marks of a question set.
func sumMarks(questions []model.Question) int {
	total := 0
	for _, q := range questions {
		total += q.Marks
	}
	return total
}
