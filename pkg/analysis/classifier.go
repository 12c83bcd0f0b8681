package analysis

import (
	"github.com/synaptica-ai/triage/pkg/common/models"
	"github.com/synaptica-ai/triage/pkg/scoring"
)

type Classifier struct {
	scorer *scoring.Scorer
}

func NewClassifier(scorer *scoring.Scorer) *Classifier {
	return &Classifier{scorer: scorer}
}

// Classify derives the verdict for one record. A record with a data-quality
// issue is never febrile or high-risk, whatever its parseable values say.
func (c *Classifier) Classify(p models.Patient) models.PatientAnalysis {
	issues := scoring.Issues(p)
	result := models.PatientAnalysis{
		Patient:              p,
		RiskScore:            c.scorer.Score(p),
		HasDataQualityIssues: len(issues) > 0,
		Issues:               issues,
	}
	if result.HasDataQualityIssues {
		return result
	}

	result.HasFever = c.scorer.HasFever(p.Temperature)
	result.IsHighRisk = c.scorer.IsHighRisk(result.RiskScore)
	return result
}

func (c *Classifier) ClassifyAll(patients []models.Patient) []models.PatientAnalysis {
	out := make([]models.PatientAnalysis, 0, len(patients))
	for _, p := range patients {
		out = append(out, c.Classify(p))
	}
	return out
}
