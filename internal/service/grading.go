package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/veritest/veritest-backend/internal/genai"
	"github.com/veritest/veritest-backend/internal/model"
)

// scoreMCQ awards full marks for an exact match against the stored correct
// option, zero otherwise. Comparison is on trimmed text.
func scoreMCQ(q model.Question, answer string) (marks int, correct bool) {
	if strings.TrimSpace(answer) == strings.TrimSpace(q.CorrectAnswer) && strings.TrimSpace(answer) != "" {
		return q.Marks, true
	}
	return 0, false
}

// subjectivePair is one subjective question and its submitted answer, keyed
// by a short tag the grader must echo back.
type subjectivePair struct {
	Tag        string
	QuestionID uuid.UUID
	Question   string
	Answer     string
	MaxMarks   int
}

// buildSubjectivePairs collects subjective questions in paper order and tags
// them q1, q2, ... for the grading prompt.
func buildSubjectivePairs(questions []model.Question, answerByQID map[uuid.UUID]string) []subjectivePair {
	pairs := make([]subjectivePair, 0)
	for _, q := range questions {
		if q.Type != model.QuestionTypeSubjective {
			continue
		}
		pairs = append(pairs, subjectivePair{
			Tag:        fmt.Sprintf("q%d", len(pairs)+1),
			QuestionID: q.ID,
			Question:   q.Body,
			Answer:     answerByQID[q.ID],
			MaxMarks:   q.Marks,
		})
	}
	return pairs
}

// buildGradingPrompt asks the model to score each tagged answer and reply
// with a JSON object keyed by tag.
func buildGradingPrompt(pairs []subjectivePair) string {
	var b strings.Builder
	b.WriteString("You are grading subjective test answers. Score each answer for correctness and depth.\n\n")
	for _, p := range pairs {
		answer := p.Answer
		if strings.TrimSpace(answer) == "" {
			answer = "(no answer given)"
		}
		fmt.Fprintf(&b, "[%s] (maximum %d marks)\nQuestion: %s\nAnswer: %s\n\n", p.Tag, p.MaxMarks, p.Question, answer)
	}
	b.WriteString("Respond with ONLY a JSON object mapping each tag to an integer score, for example ")
	b.WriteString(`{"q1": 3, "q2": 5}. No prose.` + "\n")
	return b.String()
}

// parseSubjectiveScores extracts per-tag scores from grader output. It
// accepts a tag-keyed object, or falls back to a positional array. Scores
// are clamped to [0, max marks]. If the output is unusable, every answer
// scores zero so the admin review pass can correct it; grading never fails
// the submission.
func parseSubjectiveScores(raw string, pairs []subjectivePair) map[uuid.UUID]int {
	scores := make(map[uuid.UUID]int, len(pairs))
	for _, p := range pairs {
		scores[p.QuestionID] = 0
	}

	cleaned := genai.ExtractJSON(raw)

	var tagged map[string]json.Number
	if err := json.Unmarshal([]byte(cleaned), &tagged); err == nil {
		for _, p := range pairs {
			if n, ok := tagged[p.Tag]; ok {
				scores[p.QuestionID] = clampScore(n, p.MaxMarks)
			}
		}
		return scores
	}

	var positional []json.Number
	if err := json.Unmarshal([]byte(cleaned), &positional); err == nil {
		for i, p := range pairs {
			if i < len(positional) {
				scores[p.QuestionID] = clampScore(positional[i], p.MaxMarks)
			}
		}
	}
	return scores
}

func clampScore(n json.Number, maxMarks int) int {
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	score := int(f)
	if score < 0 {
		return 0
	}
	if score > maxMarks {
		return maxMarks
	}
	return score
}

// resolveTotalMarks prefers the test's stored total and falls back to the
// per-question sum when the stored value is absent.
func resolveTotalMarks(stored int, questions []model.Question) int {
	if stored > 0 {
		return stored
	}
	return sumMarks(questions)
}

// buildEvaluation grades every question in paper order: MCQ by exact match,
// subjective from the supplied score map. A question without a submitted
// answer is graded as an empty answer. Returns the per-question entries,
// the graded answer rows, and the total marks obtained.
func buildEvaluation(
	bookingID uuid.UUID,
	questions []model.Question,
	answerByQID map[uuid.UUID]string,
	subjectiveScores map[uuid.UUID]int,
) ([]model.EvaluationItem, []model.Answer, int) {
	evaluation := make([]model.EvaluationItem, 0, len(questions))
	answers := make([]model.Answer, 0, len(questions))
	total := 0

	for _, q := range questions {
		userAnswer := answerByQID[q.ID]

		item := model.EvaluationItem{
			Question:   q.Body,
			UserAnswer: userAnswer,
		}
		var marks int
		if q.Type == model.QuestionTypeMCQ {
			var correct bool
			marks, correct = scoreMCQ(q, userAnswer)
			correctAnswer := q.CorrectAnswer
			item.CorrectAnswer = &correctAnswer
			item.IsCorrect = &correct
		} else {
			marks = subjectiveScores[q.ID]
		}
		item.MarksAwarded = marks
		total += marks

		evaluation = append(evaluation, item)
		answers = append(answers, model.Answer{
			ID:            uuid.New(),
			BookingID:     bookingID,
			QuestionID:    q.ID,
			Answer:        userAnswer,
			MarksObtained: marks,
		})
	}
	return evaluation, answers, total
}

// buildEmotionPrompt summarizes the per-question expression timeline for the
// report generator. Question keys are sorted for a stable prompt.
func buildEmotionPrompt(emotions map[string][]model.EmotionSample) string {
	keys := make([]string, 0, len(emotions))
	for k := range emotions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Below is webcam expression data captured per question during an online test. ")
	b.WriteString("Each sample maps expression names to confidence values between 0 and 1.\n\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "Question %s: %d samples, dominant expressions: %s\n", k, len(emotions[k]), dominantExpressions(emotions[k]))
	}
	b.WriteString("\nWrite a short plain-text report (under 150 words) on the candidate's emotional state ")
	b.WriteString("and engagement during the test. Do not speculate about cheating.\n")
	return b.String()
}

// dominantExpressions averages the confidences in a timeline and names the
// top expressions.
func dominantExpressions(samples []model.EmotionSample) string {
	sums := make(map[string]float64)
	for _, s := range samples {
		for name, v := range s.Expressions {
			sums[name] += v
		}
	}
	if len(sums) == 0 {
		return "none recorded"
	}

	type avg struct {
		name  string
		value float64
	}
	avgs := make([]avg, 0, len(sums))
	for name, sum := range sums {
		avgs = append(avgs, avg{name, sum / float64(len(samples))})
	}
	sort.Slice(avgs, func(i, j int) bool {
		if avgs[i].value != avgs[j].value {
			return avgs[i].value > avgs[j].value
		}
		return avgs[i].name < avgs[j].name
	})

	top := avgs
	if len(top) > 3 {
		top = top[:3]
	}
	parts := make([]string, 0, len(top))
	for _, a := range top {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", a.name, a.value))
	}
	return strings.Join(parts, ", ")
}
