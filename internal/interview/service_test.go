package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedOracle returns canned responses and records how it was called.
type scriptedOracle struct {
	diagnoses []CandidateDiagnosis
	diagErr   error
	question  *Question
	questErr  error
	guidance  *Guidance
	guidErr   error

	diagnosisCalls int
	questionCalls  int
	guidanceCalls  int
	lastStrategy   Strategy
}

func (o *scriptedOracle) GenerateDiagnoses(_ context.Context, _ Profile, _ []Answer) ([]CandidateDiagnosis, error) {
	o.diagnosisCalls++
	if o.diagErr != nil {
		return nil, o.diagErr
	}
	out := make([]CandidateDiagnosis, len(o.diagnoses))
	copy(out, o.diagnoses)
	return out, nil
}

func (o *scriptedOracle) GenerateNextQuestion(_ context.Context, _ Profile, _ []Question, strategy Strategy) (*Question, error) {
	o.questionCalls++
	o.lastStrategy = strategy
	if o.questErr != nil {
		return nil, o.questErr
	}
	if o.question == nil {
		return nil, nil
	}
	q := *o.question
	return &q, nil
}

func (o *scriptedOracle) GenerateGuidance(_ context.Context, _ []CandidateDiagnosis, _ Profile) (*Guidance, error) {
	o.guidanceCalls++
	if o.guidErr != nil {
		return nil, o.guidErr
	}
	if o.guidance != nil {
		g := *o.guidance
		return &g, nil
	}
	return &Guidance{NextSteps: []string{"see a doctor"}}, nil
}

type recordingReports struct {
	sent []Session
}

func (r *recordingReports) SendClinicianReport(_ context.Context, s Session) error {
	r.sent = append(r.sent, s)
	return nil
}

func newTestService(o Oracle, reports ReportService) *Service {
	return NewService(NewMemoryRepository(), o, reports, Options{
		MaxQuestions:     20,
		TargetConfidence: 70,
	}, zap.NewNop())
}

func testProfile() Profile {
	return Profile{Age: 34, Gender: "female", PrimaryComplaint: "headache"}
}

func TestStartInterview_AsksFirstQuestion(t *testing.T) {
	o := &scriptedOracle{
		question: &Question{Text: "How long have you had the headache?", Type: QuestionDuration},
	}
	svc := newTestService(o, nil)

	session, err := svc.StartInterview(context.Background(), testProfile(), "")
	require.NoError(t, err)

	assert.Equal(t, StateCollecting, session.State)
	assert.Equal(t, "en", session.Language)
	require.NotNil(t, session.CurrentQuestion)
	assert.NotEmpty(t, session.CurrentQuestion.ID)
	assert.Len(t, session.AskedQuestions, 1)
	assert.Equal(t, StrategyCompleteness, session.Progress.Strategy)
	assert.Zero(t, session.Progress.TotalQuestionsAsked)
}

func TestStartInterview_RequiresComplaint(t *testing.T) {
	svc := newTestService(&scriptedOracle{}, nil)
	_, err := svc.StartInterview(context.Background(), Profile{Age: 30}, "en")
	assert.Error(t, err)
}

func TestSubmitAnswer_FullTurn(t *testing.T) {
	o := &scriptedOracle{
		diagnoses: []CandidateDiagnosis{
			{Name: "tension_headache", Confidence: 45, Urgency: UrgencyLow},
			{Name: "migraine", Confidence: 55, Urgency: UrgencyModerate},
		},
		question: &Question{Text: "Where is the pain located?", Type: QuestionLocation},
	}
	svc := newTestService(o, nil)

	session, err := svc.StartInterview(context.Background(), testProfile(), "en")
	require.NoError(t, err)

	session, err = svc.SubmitAnswer(context.Background(), session.ID, "about three days")
	require.NoError(t, err)

	// Evidence extracted and counted.
	require.Len(t, session.Profile.Evidence, 1)
	assert.Equal(t, 1, session.Progress.TotalQuestionsAsked)
	require.Len(t, session.Answers, 1)

	// Candidate list replaced and re-sorted descending.
	require.Len(t, session.Candidates, 2)
	assert.Equal(t, "migraine", session.Candidates[0].Name)
	assert.Equal(t, 55.0, session.Progress.CurrentConfidence)

	// Close race between the top two: discriminative questioning.
	assert.Equal(t, StrategyDiscriminative, session.Progress.Strategy)
	assert.Equal(t, StrategyDiscriminative, o.lastStrategy)

	assert.Equal(t, StateCollecting, session.State)
	require.NotNil(t, session.CurrentQuestion)
}

func TestSubmitAnswer_StopsAtTargetConfidence(t *testing.T) {
	reports := &recordingReports{}
	o := &scriptedOracle{
		diagnoses: []CandidateDiagnosis{
			{Name: "migraine", Confidence: 78, Urgency: UrgencyModerate},
			{Name: "tension_headache", Confidence: 30},
		},
		question: &Question{Text: "Next?"},
		guidance: &Guidance{
			NextSteps:      []string{"book a GP appointment"},
			WhenToSeekCare: []string{"if vision changes occur"},
		},
	}
	svc := newTestService(o, reports)

	session, err := svc.StartInterview(context.Background(), testProfile(), "en")
	require.NoError(t, err)

	session, err = svc.SubmitAnswer(context.Background(), session.ID, "two days now")
	require.NoError(t, err)

	assert.Equal(t, StateStopped, session.State)
	assert.Contains(t, session.StopReason, "Target confidence reached")
	assert.Nil(t, session.CurrentQuestion)
	require.NotNil(t, session.Guidance)
	assert.Equal(t, []string{"book a GP appointment"}, session.Guidance.NextSteps)
	assert.Equal(t, 1, o.guidanceCalls)
	require.Len(t, reports.sent, 1)
	assert.Equal(t, session.ID, reports.sent[0].ID)

	// A further answer is rejected.
	_, err = svc.SubmitAnswer(context.Background(), session.ID, "anything")
	assert.ErrorIs(t, err, ErrSessionStopped)
}

func TestSubmitAnswer_DegradesOnTransientOracleFailure(t *testing.T) {
	o := &scriptedOracle{
		diagErr:  fmt.Errorf("upstream timeout after retries"),
		question: &Question{Text: "Can you describe the pain?"},
	}
	svc := newTestService(o, nil)

	session, err := svc.StartInterview(context.Background(), testProfile(), "en")
	require.NoError(t, err)

	session, err = svc.SubmitAnswer(context.Background(), session.ID, "it throbs")
	require.NoError(t, err, "transient oracle failure must not fail the turn")

	assert.Empty(t, session.Candidates)
	assert.Zero(t, session.Progress.CurrentConfidence)
	assert.Equal(t, StateCollecting, session.State)
	require.NotNil(t, session.CurrentQuestion, "degraded turn still yields a question")
}

func TestSubmitAnswer_FallbackQuestionOnOracleFailure(t *testing.T) {
	o := &scriptedOracle{
		diagnoses: []CandidateDiagnosis{{Name: "migraine", Confidence: 40}, {Name: "flu", Confidence: 35}},
		questErr:  fmt.Errorf("oracle unavailable"),
	}
	svc := newTestService(o, nil)

	session, err := svc.StartInterview(context.Background(), testProfile(), "en")
	require.NoError(t, err)
	require.NotNil(t, session.CurrentQuestion)
	assert.Equal(t, "Can you tell me more about your symptoms?", session.CurrentQuestion.Text)
	assert.Equal(t, StateCollecting, session.State)
}

func TestSubmitAnswer_AuthErrorSurfaces(t *testing.T) {
	o := &scriptedOracle{question: &Question{Text: "How severe?"}}
	svc := newTestService(o, nil)

	session, err := svc.StartInterview(context.Background(), testProfile(), "en")
	require.NoError(t, err)

	o.diagErr = fmt.Errorf("status 401: %w", ErrOracleAuth)
	_, err = svc.SubmitAnswer(context.Background(), session.ID, "8")
	assert.ErrorIs(t, err, ErrOracleAuth)
}

func TestSubmitAnswer_OracleStopVote(t *testing.T) {
	o := &scriptedOracle{
		diagnoses: []CandidateDiagnosis{
			{Name: "migraine", Confidence: 50},
			{Name: "tension_headache", Confidence: 45},
		},
		question: &Question{Text: "How long has it lasted?"},
	}
	svc := newTestService(o, nil)

	session, err := svc.StartInterview(context.Background(), testProfile(), "en")
	require.NoError(t, err)

	// Oracle now declines to ask anything further.
	o.question = nil
	session, err = svc.SubmitAnswer(context.Background(), session.ID, "a week")
	require.NoError(t, err)

	assert.Equal(t, StateStopped, session.State)
	assert.Contains(t, session.StopReason, "no further questions")
	assert.NotNil(t, session.Guidance)
}

func TestSubmitAnswer_CompoundQuestionSanitized(t *testing.T) {
	o := &scriptedOracle{
		diagnoses: []CandidateDiagnosis{{Name: "flu", Confidence: 30}, {Name: "cold", Confidence: 25}},
		question:  &Question{Text: "Do you have fever and do you have chills?"},
	}
	svc := newTestService(o, nil)

	session, err := svc.StartInterview(context.Background(), testProfile(), "en")
	require.NoError(t, err)
	assert.Equal(t, "Do you have fever?", session.CurrentQuestion.Text)
}

func TestSubmitAnswer_QuestionBudget(t *testing.T) {
	o := &scriptedOracle{
		diagnoses: []CandidateDiagnosis{
			{Name: "migraine", Confidence: 30},
			{Name: "tension_headache", Confidence: 25},
		},
		question: &Question{Text: "On a scale of 1-10, how severe is it?"},
	}
	svc := NewService(NewMemoryRepository(), o, nil, Options{
		MaxQuestions:     3,
		TargetConfidence: 70,
	}, zap.NewNop())

	session, err := svc.StartInterview(context.Background(), testProfile(), "en")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		session, err = svc.SubmitAnswer(context.Background(), session.ID, "6")
		require.NoError(t, err)
	}

	assert.Equal(t, StateStopped, session.State)
	assert.Contains(t, session.StopReason, "3/3")
	// Duplicate records for the same name are preserved, one per answer.
	assert.Len(t, session.Profile.Evidence, 3)
	assert.Positive(t, session.Progress.CompletenessScore)
}

func TestSession_SnapshotResume(t *testing.T) {
	repo := NewMemoryRepository()
	o := &scriptedOracle{
		diagnoses: []CandidateDiagnosis{
			{Name: "migraine", Confidence: 50},
			{Name: "tension_headache", Confidence: 45},
		},
		question: &Question{Text: "How long has it lasted?"},
	}
	svc := NewService(repo, o, nil, Options{MaxQuestions: 20, TargetConfidence: 70}, zap.NewNop())

	session, err := svc.StartInterview(context.Background(), testProfile(), "en")
	require.NoError(t, err)
	session, err = svc.SubmitAnswer(context.Background(), session.ID, "since monday")
	require.NoError(t, err)

	// Snapshot must be plain data: a JSON round-trip loses nothing the
	// engine needs.
	raw, err := json.Marshal(session)
	require.NoError(t, err)
	var restored Session
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, session.Progress, restored.Progress)
	assert.Equal(t, session.Profile.Evidence, restored.Profile.Evidence)

	// A fresh service over the same store resumes the session and finishes
	// the interview without any carried-over engine state.
	svc2 := NewService(repo, o, nil, Options{MaxQuestions: 20, TargetConfidence: 70}, zap.NewNop())
	o.diagnoses = []CandidateDiagnosis{{Name: "migraine", Confidence: 82}}
	resumed, err := svc2.SubmitAnswer(context.Background(), session.ID, "the pain throbs")
	require.NoError(t, err)
	assert.Equal(t, StateStopped, resumed.State)
	assert.Equal(t, 2, resumed.Progress.TotalQuestionsAsked)
}

func TestSubmitAnswer_UnknownSession(t *testing.T) {
	svc := newTestService(&scriptedOracle{}, nil)
	_, err := svc.SubmitAnswer(context.Background(), uuid.MustParse("00000000-0000-0000-0000-000000000001"), "hello")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}
