package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"medical-interview-agent/internal/interview"
)

const diagnosesSystem = `You are a clinical reasoning assistant. Given a patient profile and the
interview so far, return the current differential as a JSON array. Each
element: {"name": string, "confidence": number 0-100, "urgency": one of
"emergency"|"urgent"|"routine"|"self_care", "supporting_evidence": [string],
"reasoning": string}. Confidences need not sum to 100. Return [] if no
candidate is supportable yet. JSON only.`

const questionSystem = `You are a clinical interview assistant. Ask the single next question that
best serves the given strategy. Return JSON:
{"done": bool, "question": {"text": string, "type": one of
"scale"|"multiple_choice"|"yes_no"|"text"|"location"|"duration",
"options": [string], "scale_min": int, "scale_max": int,
"target_symptom": string}}. Set "done" true only when no further question
would help. The question text must ask exactly one thing. JSON only.`

const guidanceSystem = `You are a clinical guidance assistant. Given the final differential and the
patient profile, return JSON: {"next_steps": [string],
"self_care_recommendations": [string], "when_to_seek_care": [string],
"emergency_indicators": [string]}. JSON only.`

type diagnosisPayload struct {
	Name               string   `json:"name"`
	Confidence         float64  `json:"confidence"`
	Urgency            string   `json:"urgency"`
	SupportingEvidence []string `json:"supporting_evidence"`
	Reasoning          string   `json:"reasoning"`
}

// GenerateDiagnoses asks for a full replacement differential. The returned
// list is unranked; the session owns sorting and bucket derivation.
func (c *Client) GenerateDiagnoses(ctx context.Context, profile interview.Profile, answers []interview.Answer) ([]interview.CandidateDiagnosis, error) {
	prompt, err := buildDiagnosisPrompt(profile, answers)
	if err != nil {
		return nil, err
	}

	raw, err := c.completeJSON(ctx, diagnosesSystem, prompt)
	if err != nil {
		return nil, err
	}

	payloads, err := decodeArray[diagnosisPayload](raw)
	if err != nil {
		c.logger.Warn("malformed diagnosis payload", zap.ByteString("content", raw), zap.Error(err))
		return nil, fmt.Errorf("malformed diagnosis response: %w", err)
	}

	candidates := make([]interview.CandidateDiagnosis, 0, len(payloads))
	for _, p := range payloads {
		if p.Name == "" {
			continue
		}
		candidates = append(candidates, interview.CandidateDiagnosis{
			Name:               p.Name,
			Confidence:         clampConfidence(p.Confidence),
			Urgency:            interview.MapUrgency(p.Urgency),
			SupportingEvidence: p.SupportingEvidence,
			Reasoning:          p.Reasoning,
		})
	}
	return candidates, nil
}

type questionPayload struct {
	Done     bool `json:"done"`
	Question *struct {
		Text          string   `json:"text"`
		Type          string   `json:"type"`
		Options       []string `json:"options"`
		ScaleMin      int      `json:"scale_min"`
		ScaleMax      int      `json:"scale_max"`
		TargetSymptom string   `json:"target_symptom"`
	} `json:"question"`
}

// GenerateNextQuestion returns the oracle's next question, or nil when it
// votes to stop.
func (c *Client) GenerateNextQuestion(ctx context.Context, profile interview.Profile, asked []interview.Question, strategy interview.Strategy) (*interview.Question, error) {
	prompt, err := buildQuestionPrompt(profile, asked, strategy)
	if err != nil {
		return nil, err
	}

	raw, err := c.completeJSON(ctx, questionSystem, prompt)
	if err != nil {
		return nil, err
	}

	var p questionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("malformed question response: %w", err)
	}
	if p.Done || p.Question == nil || strings.TrimSpace(p.Question.Text) == "" {
		return nil, nil
	}

	return &interview.Question{
		Text:          p.Question.Text,
		Type:          questionType(p.Question.Type),
		Options:       p.Question.Options,
		ScaleMin:      p.Question.ScaleMin,
		ScaleMax:      p.Question.ScaleMax,
		Purpose:       questionPurpose(strategy),
		TargetSymptom: p.Question.TargetSymptom,
	}, nil
}

// GenerateGuidance produces the final hand-off payload.
func (c *Client) GenerateGuidance(ctx context.Context, candidates []interview.CandidateDiagnosis, profile interview.Profile) (*interview.Guidance, error) {
	prompt, err := buildGuidancePrompt(candidates, profile)
	if err != nil {
		return nil, err
	}

	raw, err := c.completeJSON(ctx, guidanceSystem, prompt)
	if err != nil {
		return nil, err
	}

	var g interview.Guidance
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("malformed guidance response: %w", err)
	}
	return &g, nil
}

func buildDiagnosisPrompt(profile interview.Profile, answers []interview.Answer) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"profile": profile,
		"answers": answers,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal diagnosis prompt: %w", err)
	}
	return "Patient data:\n" + string(payload), nil
}

func buildQuestionPrompt(profile interview.Profile, asked []interview.Question, strategy interview.Strategy) (string, error) {
	askedTexts := make([]string, len(asked))
	for i, q := range asked {
		askedTexts[i] = q.Text
	}
	payload, err := json.Marshal(map[string]any{
		"profile":           profile,
		"already_asked":     askedTexts,
		"question_strategy": strategy,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal question prompt: %w", err)
	}
	return "Interview state:\n" + string(payload), nil
}

func buildGuidancePrompt(candidates []interview.CandidateDiagnosis, profile interview.Profile) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"profile":    profile,
		"candidates": candidates,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal guidance prompt: %w", err)
	}
	return "Final interview state:\n" + string(payload), nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func questionType(s string) interview.QuestionType {
	switch interview.QuestionType(s) {
	case interview.QuestionScale, interview.QuestionMultipleChoice, interview.QuestionYesNo,
		interview.QuestionText, interview.QuestionLocation, interview.QuestionDuration:
		return interview.QuestionType(s)
	default:
		return interview.QuestionText
	}
}

func questionPurpose(s interview.Strategy) interview.QuestionPurpose {
	switch s {
	case interview.StrategyDiscriminative:
		return interview.PurposeDiscriminative
	case interview.StrategyConfirmation:
		return interview.PurposeConfirmation
	case interview.StrategyRedFlagCheck:
		return interview.PurposeRedFlag
	default:
		return interview.PurposeCompleteness
	}
}
