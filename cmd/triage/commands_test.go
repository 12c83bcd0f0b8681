package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptica-ai/triage/pkg/common/models"
	"github.com/synaptica-ai/triage/pkg/scoring"
	"gopkg.in/yaml.v3"
)

func TestRubricCommandPrintsDefaultRubric(t *testing.T) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"rubric"})
	require.NoError(t, cmd.Execute())

	var r scoring.Rubric
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, scoring.DefaultRubric(), r)
}

func TestAnalyzeRequiresAPIKey(t *testing.T) {
	t.Setenv("TRIAGE_API_KEY", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"analyze"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRIAGE_API_KEY")
}

func TestRunAbortsWhenContextCancelled(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	t.Setenv("TRIAGE_API_KEY", "test-key")
	t.Setenv("TRIAGE_API_BASE_URL", srv.URL)
	t.Setenv("TRIAGE_REQUEST_TIMEOUT", "10s")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	start := time.Now()
	err := run(ctx, []string{"analyze"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestPrintSubmission(t *testing.T) {
	out := &bytes.Buffer{}
	resp := &models.SubmissionResponse{Results: models.SubmissionResults{
		Score: 92, Percentage: 92, Status: "PASS",
		Breakdown:     models.Breakdown{Fever: models.CategoryBreakdown{Score: 25, Max: 25, Correct: 9, Submitted: 9, Matches: 9}},
		Feedback:      models.Feedback{Strengths: []string{"fever detection"}, Issues: []string{"missed high risk"}},
		AttemptNumber: 1, RemainingAttempts: 2, CanResubmit: true,
	}}
	require.NoError(t, printSubmission(out, resp))

	assert.Contains(t, out.String(), "Score: 92.0 (92.0%) PASS")
	assert.Contains(t, out.String(), "+ fever detection")
	assert.Contains(t, out.String(), "- missed high risk")
	assert.Contains(t, out.String(), "Attempt 1, 2 remaining")
}
