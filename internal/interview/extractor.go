package interview

import (
	"regexp"
	"strconv"
	"strings"

	"medical-interview-agent/internal/lang"
)

var numberRe = regexp.MustCompile(`\d+`)

const defaultSeverity = 5

// ExtractEvidence turns one raw answer into a structured evidence record.
// The text of the last asked question decides how the answer is read:
// severity cues win over duration cues, which win over location cues. When
// the question gives no cue, the answer itself is scanned against the
// language pack's complaint vocabulary so newly volunteered symptoms enter
// the evidence list; failing that, the raw answer is kept as an associated
// note on the primary complaint.
//
// At most one record is produced per answer, even if the answer mentions
// several recognizable symptoms. Returns false only when there is no asked
// question yet or the answer is empty.
func ExtractEvidence(answer string, asked []Question, primaryComplaint string, pack lang.Pack) (Evidence, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" || len(asked) == 0 {
		return Evidence{}, false
	}

	last := asked[len(asked)-1]
	question := strings.ToLower(last.Text)
	target := last.TargetSymptom
	if target == "" {
		target = primaryComplaint
	}

	if containsAny(question, pack.SeverityCues) {
		return Evidence{Name: target, Severity: coerceSeverity(answer)}, true
	}
	if containsAny(question, pack.DurationCues) {
		return Evidence{Name: target, Duration: answer}, true
	}
	if containsAny(question, pack.LocationCues) {
		return Evidence{Name: target, Location: answer}, true
	}

	// No cue in the question: look for a volunteered complaint. First
	// vocabulary match wins.
	if name, ok := pack.Match(answer); ok {
		return Evidence{Name: name, Severity: defaultSeverity}, true
	}

	return Evidence{
		Name:               primaryComplaint,
		AssociatedSymptoms: []string{answer},
	}, true
}

// coerceSeverity pulls the first number out of the answer and clamps it to
// the 1-10 scale. Unparsable answers get the midpoint.
func coerceSeverity(answer string) int {
	m := numberRe.FindString(answer)
	if m == "" {
		return defaultSeverity
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return defaultSeverity
	}
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	return n
}

func containsAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}
