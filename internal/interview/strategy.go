package interview

// SelectStrategy picks the next questioning strategy. Rules are evaluated
// strictly top-down and the first match wins; in the 15-20 gap band both the
// confirmation and discriminative conditions can hold numerically, so the
// ordering here is the tie-break and must not be rederived from the numbers.
func SelectStrategy(candidates []CandidateDiagnosis, evidence []Evidence) Strategy {
	if len(candidates) == 0 {
		return StrategyCompleteness
	}

	top := candidates[0].Confidence
	if top > 70 {
		if len(candidates) < 2 || top-candidates[1].Confidence > 20 {
			return StrategyConfirmation
		}
	}

	if len(candidates) >= 2 && top-candidates[1].Confidence < 15 {
		return StrategyDiscriminative
	}

	for _, c := range candidates {
		if c.Urgency == UrgencyEmergency {
			return StrategyRedFlagCheck
		}
	}
	for _, ev := range evidence {
		if ev.Severity >= 8 {
			return StrategyRedFlagCheck
		}
	}

	return StrategyCompleteness
}
