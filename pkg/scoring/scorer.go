package scoring

import (
	"github.com/synaptica-ai/triage/pkg/common/models"
	"github.com/synaptica-ai/triage/pkg/vitals"
)

// Scorer computes the three-factor risk score. Invalid fields score 0 on their
// axis; the quality gate is what keeps such records out of the risk lists.
type Scorer struct {
	rubric Rubric
}

func NewScorer(rubric Rubric) *Scorer {
	return &Scorer{rubric: rubric}
}

func (s *Scorer) Rubric() Rubric {
	return s.rubric
}

func (s *Scorer) Score(p models.Patient) models.RiskScore {
	score := models.RiskScore{
		BloodPressure: s.BloodPressure(p.BloodPressure),
		Temperature:   s.Temperature(p.Temperature),
		Age:           s.Age(p.Age),
	}
	score.Total = score.BloodPressure + score.Temperature + score.Age
	return score
}

// BloodPressure is the higher of the systolic and diastolic stages.
func (s *Scorer) BloodPressure(bp vitals.BloodPressure) int {
	if !bp.Valid {
		return 0
	}
	return max(s.rubric.Systolic.Score(bp.Systolic), s.rubric.Diastolic.Score(bp.Diastolic))
}

func (s *Scorer) Temperature(r vitals.Reading) int {
	if !r.Valid {
		return 0
	}
	return s.rubric.Temperature.Score(r.Value)
}

func (s *Scorer) Age(r vitals.Reading) int {
	if !r.Valid {
		return 0
	}
	return s.rubric.Age.Score(r.Value)
}

func (s *Scorer) HasFever(r vitals.Reading) bool {
	return r.Valid && r.Value >= s.rubric.FeverThreshold
}

func (s *Scorer) IsHighRisk(score models.RiskScore) bool {
	return score.Total >= s.rubric.HighRiskThreshold
}
