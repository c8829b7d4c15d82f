package interview

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Onset string

const (
	OnsetSudden       Onset = "sudden"
	OnsetGradual      Onset = "gradual"
	OnsetIntermittent Onset = "intermittent"
)

// Evidence is one structured fact extracted from a single answer. Records
// are appended, never mutated in place; the list may hold several records
// for the same symptom name.
type Evidence struct {
	Name               string   `json:"name"`
	Severity           int      `json:"severity"` // 1-10, 0 = unknown
	Duration           string   `json:"duration,omitempty"`
	Onset              Onset    `json:"onset,omitempty"`
	Location           string   `json:"location,omitempty"`
	Frequency          string   `json:"frequency,omitempty"`
	Pattern            string   `json:"pattern,omitempty"`
	Timing             string   `json:"timing,omitempty"`
	Triggers           []string `json:"triggers,omitempty"`
	AssociatedSymptoms []string `json:"associated_symptoms,omitempty"`
	BodySystems        []string `json:"body_systems,omitempty"`
}

// Profile describes the interview subject. It is owned by exactly one
// session for its lifetime; only the session appends evidence.
type Profile struct {
	Age              int        `json:"age"`
	Gender           string     `json:"gender"`
	PrimaryComplaint string     `json:"primary_complaint"`
	MedicalHistory   []string   `json:"medical_history,omitempty"`
	Medications      []string   `json:"medications,omitempty"`
	Allergies        []string   `json:"allergies,omitempty"`
	Evidence         []Evidence `json:"evidence"`
}

type Likelihood string

const (
	LikelihoodVeryLow  Likelihood = "very_low"
	LikelihoodLow      Likelihood = "low"
	LikelihoodModerate Likelihood = "moderate"
	LikelihoodHigh     Likelihood = "high"
	LikelihoodVeryHigh Likelihood = "very_high"
)

// LikelihoodBucket maps a 0-100 confidence to its coarse bucket.
func LikelihoodBucket(confidence float64) Likelihood {
	switch {
	case confidence < 20:
		return LikelihoodVeryLow
	case confidence < 40:
		return LikelihoodLow
	case confidence < 60:
		return LikelihoodModerate
	case confidence < 80:
		return LikelihoodHigh
	default:
		return LikelihoodVeryHigh
	}
}

type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyModerate  Urgency = "moderate"
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"
)

// MapUrgency translates the oracle's triage vocabulary into the internal
// urgency scale. Total: unknown values map to moderate.
func MapUrgency(s string) Urgency {
	switch s {
	case "emergency":
		return UrgencyEmergency
	case "urgent":
		return UrgencyHigh
	case "routine":
		return UrgencyModerate
	case "self_care":
		return UrgencyLow
	default:
		return UrgencyModerate
	}
}

// CandidateDiagnosis is one possible explanation with its confidence score.
type CandidateDiagnosis struct {
	Name               string     `json:"name"`
	Confidence         float64    `json:"confidence"` // 0-100
	Likelihood         Likelihood `json:"likelihood"`
	Urgency            Urgency    `json:"urgency"`
	SupportingEvidence []string   `json:"supporting_evidence,omitempty"`
	Reasoning          string     `json:"reasoning,omitempty"`
}

// ExcludedCandidate is reserved for future rule-out logic. Nothing in the
// engine populates it today; it is carried so persisted sessions keep a slot
// for it.
type ExcludedCandidate struct {
	Name                string   `json:"name"`
	Reason              string   `json:"reason"`
	Evidence            []string `json:"evidence,omitempty"`
	ExclusionConfidence float64  `json:"exclusion_confidence"`
}

// RankCandidates sorts a candidate list in place, descending by confidence,
// and refreshes each likelihood bucket. The sort is stable so the oracle's
// relative order survives ties.
func RankCandidates(candidates []CandidateDiagnosis) {
	for i := range candidates {
		candidates[i].Likelihood = LikelihoodBucket(candidates[i].Confidence)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
}

type Strategy string

const (
	StrategyDiscriminative Strategy = "discriminative"
	StrategyConfirmation   Strategy = "confirmation"
	StrategyRedFlagCheck   Strategy = "red_flag_check"
	StrategyCompleteness   Strategy = "completeness"
)

const (
	DefaultMaxQuestions     = 20
	DefaultTargetConfidence = 70.0
	MaxTargetConfidence     = 85.0
)

// Progress tracks how far one interview has come. Created at session start,
// updated after every turn, discarded with the session.
type Progress struct {
	TotalQuestionsAsked int      `json:"total_questions_asked"`
	MaxQuestions        int      `json:"max_questions"`
	CurrentConfidence   float64  `json:"current_confidence"`
	TargetConfidence    float64  `json:"target_confidence"`
	Strategy            Strategy `json:"strategy"`
	InformationGain     float64  `json:"information_gain"` // advisory only
	CompletenessScore   int      `json:"completeness_score"`
}

// NewProgress clamps the target into the allowed range and applies defaults.
func NewProgress(maxQuestions int, targetConfidence float64) Progress {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}
	if targetConfidence <= 0 {
		targetConfidence = DefaultTargetConfidence
	}
	if targetConfidence > MaxTargetConfidence {
		targetConfidence = MaxTargetConfidence
	}
	return Progress{
		MaxQuestions:     maxQuestions,
		TargetConfidence: targetConfidence,
		Strategy:         StrategyCompleteness,
	}
}

type QuestionType string

const (
	QuestionScale          QuestionType = "scale"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionYesNo          QuestionType = "yes_no"
	QuestionText           QuestionType = "text"
	QuestionLocation       QuestionType = "location"
	QuestionDuration       QuestionType = "duration"
)

type QuestionPurpose string

const (
	PurposeDiscriminative QuestionPurpose = "discriminative"
	PurposeConfirmation   QuestionPurpose = "confirmation"
	PurposeRedFlag        QuestionPurpose = "red_flag"
	PurposeCompleteness   QuestionPurpose = "completeness"
)

// Question is what the subject sees next. Produced by the oracle, cleaned
// by the sanitizer before display.
type Question struct {
	ID            string          `json:"id"`
	Text          string          `json:"text"`
	Type          QuestionType    `json:"type"`
	Options       []string        `json:"options,omitempty"`
	ScaleMin      int             `json:"scale_min,omitempty"`
	ScaleMax      int             `json:"scale_max,omitempty"`
	Purpose       QuestionPurpose `json:"purpose"`
	TargetSymptom string          `json:"target_symptom,omitempty"`
}

// Answer pairs a raw subject reply with the question that prompted it.
type Answer struct {
	QuestionID string    `json:"question_id"`
	Question   string    `json:"question"`
	Text       string    `json:"text"`
	AnsweredAt time.Time `json:"answered_at"`
}

// Guidance is the oracle's final hand-off payload once the interview stops.
type Guidance struct {
	NextSteps               []string `json:"next_steps"`
	SelfCareRecommendations []string `json:"self_care_recommendations"`
	WhenToSeekCare          []string `json:"when_to_seek_care"`
	EmergencyIndicators     []string `json:"emergency_indicators"`
}

type State string

const (
	StateCollecting     State = "collecting"
	StateAwaitingOracle State = "awaiting-oracle"
	StateStopped        State = "stopped"
)

// Session is the complete, plain-data state of one interview. It is what
// gets persisted and what a session is rebuilt from after a restart; no
// engine object is ever serialized alongside it.
type Session struct {
	ID        uuid.UUID `json:"id"`
	State     State     `json:"state"`
	Language  string    `json:"language"`
	Profile   Profile   `json:"profile"`
	Progress  Progress  `json:"progress"`

	Candidates []CandidateDiagnosis `json:"candidates"`
	Excluded   []ExcludedCandidate  `json:"excluded,omitempty"`

	AskedQuestions  []Question `json:"asked_questions"`
	Answers         []Answer   `json:"answers"`
	CurrentQuestion *Question  `json:"current_question,omitempty"`

	Critical []string `json:"critical,omitempty"`
	RedFlags []string `json:"red_flags,omitempty"`

	StopReason string    `json:"stop_reason,omitempty"`
	Guidance   *Guidance `json:"guidance,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TopConfidence returns the leading candidate's confidence, 0 when the list
// is empty.
func (s *Session) TopConfidence() float64 {
	if len(s.Candidates) == 0 {
		return 0
	}
	return s.Candidates[0].Confidence
}

// LastQuestion returns the most recently asked question, if any.
func (s *Session) LastQuestion() (Question, bool) {
	if len(s.AskedQuestions) == 0 {
		return Question{}, false
	}
	return s.AskedQuestions[len(s.AskedQuestions)-1], true
}
