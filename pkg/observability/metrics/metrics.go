package metrics

import (
	"fmt"
	"math"
	"net/http"
	"sync/atomic"

	"github.com/synaptica-ai/triage/pkg/common/models"
)

var (
	patientsTotal     atomic.Int64
	highRiskTotal     atomic.Int64
	feverTotal        atomic.Int64
	dataQualityTotal  atomic.Int64
	analysisRuns      atomic.Int64
	analysisFailures  atomic.Int64
	externalRetries   atomic.Int64
	submissions       atomic.Int64
	lastSubmitPercent atomic.Uint64
)

func ObserveSummary(s models.PatientSummary) {
	patientsTotal.Store(int64(s.TotalPatients))
	highRiskTotal.Store(int64(s.HighRiskCount))
	feverTotal.Store(int64(s.FeverCount))
	dataQualityTotal.Store(int64(s.DataQualityCount))
}

func ObserveAnalysis(failed bool) {
	analysisRuns.Add(1)
	if failed {
		analysisFailures.Add(1)
	}
}

func ObserveRetry() {
	externalRetries.Add(1)
}

func ObserveSubmission(percentage float64) {
	submissions.Add(1)
	lastSubmitPercent.Store(math.Float64bits(percentage))
}

type metric struct {
	name  string
	help  string
	kind  string
	value float64
}

func count(v *atomic.Int64) float64 {
	return float64(v.Load())
}

func snapshot() []metric {
	return []metric{
		{"triage_patients_total", "Patients classified in the latest analysis pass.", "gauge", count(&patientsTotal)},
		{"triage_high_risk_patients", "High-risk patients in the latest analysis pass.", "gauge", count(&highRiskTotal)},
		{"triage_fever_patients", "Febrile patients in the latest analysis pass.", "gauge", count(&feverTotal)},
		{"triage_data_quality_patients", "Patients with data-quality issues in the latest analysis pass.", "gauge", count(&dataQualityTotal)},
		{"triage_analysis_runs_total", "Analysis passes started.", "counter", count(&analysisRuns)},
		{"triage_analysis_failures_total", "Analysis passes that failed.", "counter", count(&analysisFailures)},
		{"triage_external_retries_total", "Retried calls to the record source or submission endpoint.", "counter", count(&externalRetries)},
		{"triage_submissions_total", "Assessments submitted.", "counter", count(&submissions)},
		{"triage_last_submission_percentage", "Percentage scored by the latest submission.", "gauge", math.Float64frombits(lastSubmitPercent.Load())},
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	for _, m := range snapshot() {
		fmt.Fprintf(w, "# HELP %s %s\n", m.name, m.help)
		fmt.Fprintf(w, "# TYPE %s %s\n", m.name, m.kind)
		fmt.Fprintf(w, "%s %g\n", m.name, m.value)
	}
}

func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WritePrometheus(w)
	})
}
