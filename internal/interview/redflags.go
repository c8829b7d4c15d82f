package interview

import "fmt"

// DetectAlarms runs the fixed critical/red-flag rule table over the full
// evidence list. All thresholds are inclusive; every record is checked
// against every rule, so one record can land in both lists.
func DetectAlarms(evidence []Evidence) (critical, redFlags []string) {
	for _, ev := range evidence {
		if ev.Severity >= 8 {
			critical = append(critical, fmt.Sprintf("High severity %s (%d/10)", ev.Name, ev.Severity))
		}
		if ev.Name == "chest_pain" && ev.Severity >= 6 {
			critical = append(critical, "Moderate to severe chest pain")
		}
		if ev.Name == "shortness_of_breath" && ev.Severity >= 6 {
			critical = append(critical, "Moderate to severe shortness of breath")
		}
		if ev.Name == "headache" && ev.Onset == OnsetSudden && ev.Severity >= 8 {
			critical = append(critical, "Sudden severe headache")
		}

		if ev.Name == "chest_pain" && ev.Severity >= 7 {
			redFlags = append(redFlags, "Severe chest pain - possible cardiac emergency")
		}
		if ev.Name == "shortness_of_breath" && ev.Severity >= 8 {
			redFlags = append(redFlags, "Severe breathing difficulty - possible respiratory emergency")
		}
		if ev.Name == "headache" && ev.Onset == OnsetSudden && ev.Severity >= 9 {
			redFlags = append(redFlags, "Thunderclap headache - possible subarachnoid hemorrhage")
		}
		if ev.Name == "abdominal_pain" && ev.Location == "right_lower_quadrant" {
			redFlags = append(redFlags, "Right lower quadrant pain - possible appendicitis")
		}
		if ev.Severity >= 9 {
			redFlags = append(redFlags, fmt.Sprintf("Severe %s (9-10/10)", ev.Name))
		}
	}
	return critical, redFlags
}
