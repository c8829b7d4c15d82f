package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikelihoodBucket_Boundaries(t *testing.T) {
	tests := []struct {
		confidence float64
		want       Likelihood
	}{
		{0, LikelihoodVeryLow},
		{19, LikelihoodVeryLow},
		{20, LikelihoodLow},
		{39, LikelihoodLow},
		{40, LikelihoodModerate},
		{59, LikelihoodModerate},
		{60, LikelihoodHigh},
		{79, LikelihoodHigh},
		{80, LikelihoodVeryHigh},
		{100, LikelihoodVeryHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LikelihoodBucket(tt.confidence), "confidence %.0f", tt.confidence)
	}
}

func TestMapUrgency(t *testing.T) {
	tests := []struct {
		in   string
		want Urgency
	}{
		{"emergency", UrgencyEmergency},
		{"urgent", UrgencyHigh},
		{"routine", UrgencyModerate},
		{"self_care", UrgencyLow},
		{"", UrgencyModerate},
		{"whatever", UrgencyModerate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapUrgency(tt.in), "input %q", tt.in)
	}
}

func TestRankCandidates(t *testing.T) {
	orderings := [][]CandidateDiagnosis{
		{{Name: "a", Confidence: 10}, {Name: "b", Confidence: 85}, {Name: "c", Confidence: 42}},
		{{Name: "b", Confidence: 85}, {Name: "c", Confidence: 42}, {Name: "a", Confidence: 10}},
		{{Name: "c", Confidence: 42}, {Name: "a", Confidence: 10}, {Name: "b", Confidence: 85}},
	}

	for _, candidates := range orderings {
		RankCandidates(candidates)
		assert.Equal(t, "b", candidates[0].Name)
		assert.Equal(t, "c", candidates[1].Name)
		assert.Equal(t, "a", candidates[2].Name)
		for i := 1; i < len(candidates); i++ {
			assert.GreaterOrEqual(t, candidates[i-1].Confidence, candidates[i].Confidence)
		}
	}
}

func TestRankCandidates_StableOnTies(t *testing.T) {
	candidates := []CandidateDiagnosis{
		{Name: "first", Confidence: 50},
		{Name: "second", Confidence: 50},
	}
	RankCandidates(candidates)
	assert.Equal(t, "first", candidates[0].Name)
	assert.Equal(t, "second", candidates[1].Name)
}

func TestRankCandidates_RefreshesLikelihood(t *testing.T) {
	candidates := []CandidateDiagnosis{
		{Name: "a", Confidence: 85, Likelihood: LikelihoodVeryLow},
		{Name: "b", Confidence: 5},
	}
	RankCandidates(candidates)
	assert.Equal(t, LikelihoodVeryHigh, candidates[0].Likelihood)
	assert.Equal(t, LikelihoodVeryLow, candidates[1].Likelihood)
}

func TestNewProgress_Defaults(t *testing.T) {
	p := NewProgress(0, 0)
	assert.Equal(t, DefaultMaxQuestions, p.MaxQuestions)
	assert.Equal(t, DefaultTargetConfidence, p.TargetConfidence)
	assert.Equal(t, StrategyCompleteness, p.Strategy)
	assert.Zero(t, p.TotalQuestionsAsked)
}

func TestNewProgress_ClampsTarget(t *testing.T) {
	p := NewProgress(10, 95)
	assert.Equal(t, MaxTargetConfidence, p.TargetConfidence)
}

func TestSessionTopConfidence(t *testing.T) {
	var s Session
	assert.Zero(t, s.TopConfidence())

	s.Candidates = []CandidateDiagnosis{{Name: "flu", Confidence: 63}}
	assert.Equal(t, 63.0, s.TopConfidence())
}
