package models

import (
	"time"

	"github.com/synaptica-ai/triage/pkg/vitals"
)

// Upstream record source models
type Patient struct {
	ID            string               `json:"patient_id"`
	Name          Text                 `json:"name"`
	Age           vitals.Reading       `json:"age"`
	Gender        Text                 `json:"gender"`
	BloodPressure vitals.BloodPressure `json:"blood_pressure"`
	Temperature   vitals.Reading       `json:"temperature"`
	VisitDate     Text                 `json:"visit_date"`
	Diagnosis     Text                 `json:"diagnosis"`
	Medications   Text                 `json:"medications"`
}

type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

type ResponseMetadata struct {
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	RequestID string `json:"requestId"`
}

type PatientsResponse struct {
	Data       []Patient        `json:"data"`
	Pagination Pagination       `json:"pagination"`
	Metadata   ResponseMetadata `json:"metadata"`
}

// Scoring models
type RiskScore struct {
	BloodPressure int `json:"bloodPressure"`
	Temperature   int `json:"temperature"`
	Age           int `json:"age"`
	Total         int `json:"total"`
}

type PatientAnalysis struct {
	Patient              Patient   `json:"patient"`
	RiskScore            RiskScore `json:"riskScore"`
	HasDataQualityIssues bool      `json:"hasDataQualityIssues"`
	Issues               []string  `json:"issues,omitempty"`
	HasFever             bool      `json:"hasFever"`
	IsHighRisk           bool      `json:"isHighRisk"`
}

type PatientSummary struct {
	TotalPatients    int `json:"totalPatients"`
	HighRiskCount    int `json:"highRiskCount"`
	FeverCount       int `json:"feverCount"`
	DataQualityCount int `json:"dataQualityCount"`
}

// Submission models
type AssessmentResults struct {
	HighRiskPatients  []string `json:"high_risk_patients"`
	FeverPatients     []string `json:"fever_patients"`
	DataQualityIssues []string `json:"data_quality_issues"`
}

type CategoryBreakdown struct {
	Score     float64 `json:"score"`
	Max       float64 `json:"max"`
	Correct   int     `json:"correct"`
	Submitted int     `json:"submitted"`
	Matches   int     `json:"matches"`
}

type Breakdown struct {
	HighRisk    CategoryBreakdown `json:"high_risk"`
	Fever       CategoryBreakdown `json:"fever"`
	DataQuality CategoryBreakdown `json:"data_quality"`
}

type Feedback struct {
	Strengths []string `json:"strengths"`
	Issues    []string `json:"issues"`
}

type SubmissionResults struct {
	Score             float64   `json:"score"`
	Percentage        float64   `json:"percentage"`
	Status            string    `json:"status"`
	Breakdown         Breakdown `json:"breakdown"`
	Feedback          Feedback  `json:"feedback"`
	AttemptNumber     int       `json:"attempt_number"`
	RemainingAttempts int       `json:"remaining_attempts"`
	IsPersonalBest    bool      `json:"is_personal_best"`
	CanResubmit       bool      `json:"can_resubmit"`
}

type SubmissionResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Results SubmissionResults `json:"results"`
}

// Analysis run state
const (
	PhaseIdle    = "idle"
	PhaseLoading = "loading"
	PhaseSuccess = "success"
	PhaseError   = "error"
)

type AnalysisState struct {
	Phase      string          `json:"phase"`
	RunID      string          `json:"run_id,omitempty"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Error      string          `json:"error,omitempty"`
	Summary    *PatientSummary `json:"summary,omitempty"`
}
