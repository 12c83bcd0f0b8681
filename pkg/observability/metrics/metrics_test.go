package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptica-ai/triage/pkg/common/models"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestSubmissionPercentageKeepsFraction(t *testing.T) {
	ObserveSubmission(87.5)
	assert.Contains(t, scrape(t), "triage_last_submission_percentage 87.5\n")

	ObserveSubmission(100)
	assert.Contains(t, scrape(t), "triage_last_submission_percentage 100\n")
}

func TestSummaryGauges(t *testing.T) {
	ObserveSummary(models.PatientSummary{TotalPatients: 47, HighRiskCount: 12, FeverCount: 9, DataQualityCount: 5})

	body := scrape(t)
	assert.Contains(t, body, "# TYPE triage_patients_total gauge\n")
	assert.Contains(t, body, "triage_patients_total 47\n")
	assert.Contains(t, body, "triage_high_risk_patients 12\n")
	assert.Contains(t, body, "triage_fever_patients 9\n")
	assert.Contains(t, body, "triage_data_quality_patients 5\n")
}
