package analysis

import "github.com/synaptica-ai/triage/pkg/common/models"

// BuildResults collects flagged identifiers in input order. Duplicated
// identifiers are kept.
func BuildResults(analyses []models.PatientAnalysis) models.AssessmentResults {
	results := models.AssessmentResults{
		HighRiskPatients:  []string{},
		FeverPatients:     []string{},
		DataQualityIssues: []string{},
	}

	for _, a := range analyses {
		if a.IsHighRisk {
			results.HighRiskPatients = append(results.HighRiskPatients, a.Patient.ID)
		}
		if a.HasFever {
			results.FeverPatients = append(results.FeverPatients, a.Patient.ID)
		}
		if a.HasDataQualityIssues {
			results.DataQualityIssues = append(results.DataQualityIssues, a.Patient.ID)
		}
	}

	return results
}

func Summarize(analyses []models.PatientAnalysis) models.PatientSummary {
	summary := models.PatientSummary{TotalPatients: len(analyses)}
	for _, a := range analyses {
		if a.IsHighRisk {
			summary.HighRiskCount++
		}
		if a.HasFever {
			summary.FeverCount++
		}
		if a.HasDataQualityIssues {
			summary.DataQualityCount++
		}
	}
	return summary
}
