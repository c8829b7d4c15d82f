package interview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medical-interview-agent/internal/lang"
)

// ErrOracleAuth marks a fatal authentication failure from the oracle. The
// session surfaces it to the caller instead of degrading the turn; retrying
// with the same credentials is pointless.
var ErrOracleAuth = errors.New("oracle authentication failed")

// ErrSessionStopped is returned when an answer arrives for an interview
// that has already ended.
var ErrSessionStopped = errors.New("interview already stopped")

// Oracle is the external reasoning service supplying questions, candidate
// rankings and final guidance. We define the interface here to decouple
// from the concrete client implementation.
type Oracle interface {
	// GenerateDiagnoses returns a fresh ranked differential. An empty slice
	// is a valid response meaning "no confident candidates yet".
	GenerateDiagnoses(ctx context.Context, profile Profile, answers []Answer) ([]CandidateDiagnosis, error)
	// GenerateNextQuestion returns the next single question, or nil when the
	// oracle itself believes no more questions are needed.
	GenerateNextQuestion(ctx context.Context, profile Profile, asked []Question, strategy Strategy) (*Question, error)
	GenerateGuidance(ctx context.Context, candidates []CandidateDiagnosis, profile Profile) (*Guidance, error)
}

// ReportService delivers a clinician-facing summary of a finished interview.
type ReportService interface {
	SendClinicianReport(ctx context.Context, s Session) error
}

// Options configures new sessions.
type Options struct {
	MaxQuestions     int
	TargetConfidence float64
	DefaultLanguage  string
}

type Service struct {
	repo    Repository
	oracle  Oracle
	reports ReportService // may be nil
	opts    Options
	logger  *zap.Logger
}

func NewService(repo Repository, oracle Oracle, reports ReportService, opts Options, logger *zap.Logger) *Service {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	return &Service{
		repo:    repo,
		oracle:  oracle,
		reports: reports,
		opts:    opts,
		logger:  logger,
	}
}

// StartInterview creates a session for the given profile and asks the first
// question. The opening strategy is always completeness: nothing is known
// beyond the primary complaint yet.
func (s *Service) StartInterview(ctx context.Context, profile Profile, language string) (*Session, error) {
	if profile.PrimaryComplaint == "" {
		return nil, fmt.Errorf("profile has no primary complaint")
	}
	if language == "" {
		language = s.opts.DefaultLanguage
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.New(),
		State:     StateCollecting,
		Language:  language,
		Profile:   profile,
		Progress:  NewProgress(s.opts.MaxQuestions, s.opts.TargetConfidence),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.askNext(ctx, session); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitAnswer runs one full turn: extract evidence, refresh the
// differential, pick a strategy, check the stop conditions, then either
// finish the interview or ask the next question. Turns are strictly
// sequential per session; the updated session is persisted before return.
func (s *Service) SubmitAnswer(ctx context.Context, id uuid.UUID, answer string) (*Session, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State == StateStopped {
		return nil, ErrSessionStopped
	}

	session.State = StateAwaitingOracle
	if err := s.applyTurn(ctx, session, answer); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns the persisted state of one interview.
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) applyTurn(ctx context.Context, session *Session, answer string) error {
	pack := lang.Get(session.Language)

	if last, ok := session.LastQuestion(); ok {
		session.Answers = append(session.Answers, Answer{
			QuestionID: last.ID,
			Question:   last.Text,
			Text:       answer,
			AnsweredAt: time.Now(),
		})
	}

	if ev, ok := ExtractEvidence(answer, session.AskedQuestions, session.Profile.PrimaryComplaint, pack); ok {
		session.Profile.Evidence = append(session.Profile.Evidence, ev)
		session.Progress.TotalQuestionsAsked++
	}

	previous := session.Progress.CurrentConfidence

	candidates, err := s.oracle.GenerateDiagnoses(ctx, session.Profile, session.Answers)
	switch {
	case errors.Is(err, ErrOracleAuth):
		session.State = StateCollecting
		return fmt.Errorf("refreshing diagnoses: %w", err)
	case err != nil:
		// Degraded turn: empty differential, confidence 0, session stays usable.
		s.logger.Warn("oracle diagnosis call failed, degrading turn",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		session.Candidates = nil
	default:
		RankCandidates(candidates)
		session.Candidates = candidates
	}
	session.Progress.CurrentConfidence = session.TopConfidence()
	session.Progress.InformationGain = session.Progress.CurrentConfidence - previous

	session.Progress.Strategy = SelectStrategy(session.Candidates, session.Profile.Evidence)
	session.Progress.CompletenessScore = CompletenessScore(session.Profile.Evidence, session.Profile.PrimaryComplaint)
	session.Critical, session.RedFlags = DetectAlarms(session.Profile.Evidence)

	if stop, reason := ShouldStop(session.Progress, session.Candidates); stop {
		return s.finish(ctx, session, reason)
	}
	return s.askNext(ctx, session)
}

// askNext requests, sanitizes and records the next question. Oracle
// failures fall back to a canned question so the turn still yields
// something askable; a nil question is the oracle's own stop vote.
func (s *Service) askNext(ctx context.Context, session *Session) error {
	q, err := s.oracle.GenerateNextQuestion(ctx, session.Profile, session.AskedQuestions, session.Progress.Strategy)
	switch {
	case errors.Is(err, ErrOracleAuth):
		session.State = StateCollecting
		return fmt.Errorf("requesting next question: %w", err)
	case err != nil:
		s.logger.Warn("oracle question call failed, using fallback question",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		q = s.fallbackQuestion(session)
	case q == nil:
		return s.finish(ctx, session, "Assistant indicated no further questions are needed")
	}

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if cleaned, corrected := CleanQuestion(q.Text, session.Language); corrected {
		s.logger.Info("compound question corrected",
			zap.String("session_id", session.ID.String()),
			zap.String("original", q.Text),
			zap.String("cleaned", cleaned))
		q.Text = cleaned
	}

	session.AskedQuestions = append(session.AskedQuestions, *q)
	session.CurrentQuestion = q
	session.State = StateCollecting
	return nil
}

// finish transitions the session to stopped and requests final guidance.
// Guidance failures degrade to a minimal payload; the interview result is
// never lost to an oracle error at the last step.
func (s *Service) finish(ctx context.Context, session *Session, reason string) error {
	session.State = StateStopped
	session.StopReason = reason
	session.CurrentQuestion = nil

	s.logger.Info("interview stopped",
		zap.String("session_id", session.ID.String()),
		zap.String("reason", reason),
		zap.Int("questions_asked", session.Progress.TotalQuestionsAsked),
		zap.Float64("confidence", session.Progress.CurrentConfidence))

	guidance, err := s.oracle.GenerateGuidance(ctx, session.Candidates, session.Profile)
	if err != nil {
		s.logger.Warn("oracle guidance call failed, using fallback guidance",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		guidance = fallbackGuidance(session)
	}
	session.Guidance = guidance

	if s.reports != nil {
		if err := s.reports.SendClinicianReport(ctx, *session); err != nil {
			s.logger.Error("failed to send clinician report",
				zap.String("session_id", session.ID.String()),
				zap.Error(err))
		}
	}
	return nil
}

func (s *Service) fallbackQuestion(session *Session) *Question {
	pack := lang.Get(session.Language)
	return &Question{
		ID:            uuid.NewString(),
		Text:          pack.FallbackQuestion,
		Type:          QuestionText,
		Purpose:       PurposeCompleteness,
		TargetSymptom: session.Profile.PrimaryComplaint,
	}
}

func fallbackGuidance(session *Session) *Guidance {
	g := &Guidance{
		NextSteps: []string{
			"Review the collected findings with a healthcare professional",
		},
		WhenToSeekCare: []string{
			"If symptoms worsen or new symptoms appear, seek medical care promptly",
		},
	}
	g.EmergencyIndicators = append(g.EmergencyIndicators, session.RedFlags...)
	return g
}
