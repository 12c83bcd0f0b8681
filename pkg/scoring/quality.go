package scoring

import "github.com/synaptica-ai/triage/pkg/common/models"

const (
	FieldBloodPressure = "blood_pressure"
	FieldTemperature   = "temperature"
	FieldAge           = "age"
)

// Issues lists the vital fields that failed normalization. All three checks
// always run.
func Issues(p models.Patient) []string {
	var issues []string
	if !p.BloodPressure.Valid {
		issues = append(issues, FieldBloodPressure)
	}
	if !p.Temperature.Valid {
		issues = append(issues, FieldTemperature)
	}
	if !p.Age.Valid {
		issues = append(issues, FieldAge)
	}
	return issues
}

func HasDataQualityIssue(p models.Patient) bool {
	return len(Issues(p)) > 0
}
