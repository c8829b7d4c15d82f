package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletenessScore_ReferenceExample(t *testing.T) {
	// severity +10, duration +10, location-not-required +10, onset +10,
	// associated +10; no frequency, triggers, second record, or pattern.
	evidence := []Evidence{{
		Name:               "fever",
		Severity:           5,
		Duration:           "2 days",
		Onset:              OnsetGradual,
		AssociatedSymptoms: []string{"chills"},
	}}
	assert.Equal(t, 50, CompletenessScore(evidence, "fever"))
}

func TestCompletenessScore_NoMatchingRecord(t *testing.T) {
	assert.Equal(t, 0, CompletenessScore(nil, "headache"))
	assert.Equal(t, 0, CompletenessScore([]Evidence{{Name: "cough"}}, "headache"))
}

func TestCompletenessScore_LocationRequired(t *testing.T) {
	evidence := []Evidence{{Name: "chest_pain", Severity: 5}}
	// Missing location on a pain complaint: no location points.
	assert.Equal(t, 10, CompletenessScore(evidence, "chest_pain"))

	evidence[0].Location = "left side"
	assert.Equal(t, 20, CompletenessScore(evidence, "chest_pain"))
}

func TestCompletenessScore_MultipleRecordsBonus(t *testing.T) {
	evidence := []Evidence{
		{Name: "fever", Severity: 5},
		{Name: "cough", Severity: 4},
	}
	// severity +10, no-location-needed +10, >1 record +20.
	assert.Equal(t, 40, CompletenessScore(evidence, "fever"))
}

func TestCompletenessScore_ScoresFirstMatchingRecord(t *testing.T) {
	evidence := []Evidence{
		{Name: "fever", Severity: 5},
		{Name: "fever", Severity: 8, Duration: "1 week", Frequency: "constant"},
	}
	// Only the first fever record is scored: severity +10, location +10,
	// >1 record +20. The richer duplicate is ignored.
	assert.Equal(t, 40, CompletenessScore(evidence, "fever"))
}

func TestCompletenessScore_CapAt100(t *testing.T) {
	evidence := []Evidence{
		{
			Name:               "fever",
			Severity:           7,
			Duration:           "3 days",
			Location:           "n/a",
			Frequency:          "evenings",
			Pattern:            "worse at night",
			Onset:              OnsetGradual,
			Triggers:           []string{"exertion"},
			AssociatedSymptoms: []string{"chills"},
		},
		{Name: "cough"},
	}
	assert.Equal(t, 100, CompletenessScore(evidence, "fever"))
}
