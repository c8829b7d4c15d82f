package interview

import "fmt"

// ShouldStop decides whether the interview ends. Branches are evaluated
// top-down, first true wins; reasons embed the triggering numbers for audit.
func ShouldStop(p Progress, candidates []CandidateDiagnosis) (bool, string) {
	if p.CurrentConfidence >= p.TargetConfidence {
		return true, fmt.Sprintf("Target confidence reached (%.0f%% >= %.0f%%)",
			p.CurrentConfidence, p.TargetConfidence)
	}
	if p.TotalQuestionsAsked >= p.MaxQuestions {
		return true, fmt.Sprintf("Question limit reached (%d/%d)",
			p.TotalQuestionsAsked, p.MaxQuestions)
	}
	if len(candidates) == 1 && candidates[0].Confidence >= 75 {
		return true, fmt.Sprintf("Single remaining candidate %q at %.0f%% confidence",
			candidates[0].Name, candidates[0].Confidence)
	}
	return false, ""
}
