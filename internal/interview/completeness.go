package interview

import "strings"

// Complaints whose evidence is incomplete without a location.
var locationRequired = []string{
	"pain", "headache", "chest_pain", "abdominal_pain", "rash", "swelling",
}

// CompletenessScore rates how fully the primary complaint has been
// characterized, 0-100. Scored over the first evidence record matching the
// primary complaint name; no matching record scores 0.
func CompletenessScore(evidence []Evidence, primaryComplaint string) int {
	var primary *Evidence
	for i := range evidence {
		if evidence[i].Name == primaryComplaint {
			primary = &evidence[i]
			break
		}
	}
	if primary == nil {
		return 0
	}

	score := 0
	if primary.Severity > 0 {
		score += 10
	}
	if primary.Duration != "" {
		score += 10
	}
	if primary.Location != "" || !needsLocation(primaryComplaint) {
		score += 10
	}
	if primary.Frequency != "" {
		score += 10
	}
	if len(primary.Triggers) > 0 {
		score += 10
	}
	if len(primary.AssociatedSymptoms) > 0 {
		score += 10
	}
	if primary.Onset != "" {
		score += 10
	}
	if len(evidence) > 1 {
		score += 20
	}
	if primary.Pattern != "" || primary.Timing != "" {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

func needsLocation(name string) bool {
	for _, marker := range locationRequired {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
