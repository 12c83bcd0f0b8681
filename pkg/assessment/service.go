package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/synaptica-ai/triage/pkg/analysis"
	"github.com/synaptica-ai/triage/pkg/common/logger"
	"github.com/synaptica-ai/triage/pkg/common/models"
	"github.com/synaptica-ai/triage/pkg/observability/metrics"
)

const (
	EventAnalyzed  = "assessment.analyzed"
	EventSubmitted = "assessment.submitted"

	eventSource = "triage-service"
)

var (
	ErrNotAnalyzed     = errors.New("no analysis available, load patient data first")
	ErrBusy            = errors.New("an analysis is already running")
	ErrHistoryDisabled = errors.New("submission history is not enabled")
)

// Source is the record source plus submission endpoint.
type Source interface {
	FetchAll(ctx context.Context) ([]models.Patient, error)
	Submit(ctx context.Context, results models.AssessmentResults) (*models.SubmissionResponse, error)
}

type Publisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

type SubmissionRecorder interface {
	Record(ctx context.Context, runID string, results models.AssessmentResults, resp *models.SubmissionResponse) error
	List(ctx context.Context, limit int) ([]SubmissionRecord, error)
}

type Option func(*Service)

func WithStatusStore(store StatusStore) Option {
	return func(s *Service) { s.status = store }
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithRecorder(r SubmissionRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// Service runs analysis passes and submissions. It holds only the
// classification list of the latest pass; derived views are recomputed from
// it on every call.
type Service struct {
	classifier *analysis.Classifier
	source     Source
	status     StatusStore
	publisher  Publisher
	recorder   SubmissionRecorder

	running atomic.Bool

	mu       sync.RWMutex
	runID    string
	analyses []models.PatientAnalysis
}

func NewService(classifier *analysis.Classifier, source Source, opts ...Option) *Service {
	s := &Service{
		classifier: classifier,
		source:     source,
		status:     NewMemoryStatusStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze fetches every record and classifies it. A failed fetch leaves no
// classification list behind.
func (s *Service) Analyze(ctx context.Context) ([]models.PatientAnalysis, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.running.Store(false)

	runID := uuid.New().String()
	started := time.Now().UTC()
	log := logger.Log.WithField("run_id", runID)
	s.saveState(ctx, models.AnalysisState{Phase: models.PhaseLoading, RunID: runID, StartedAt: &started})

	patients, err := s.source.FetchAll(ctx)
	if err != nil {
		s.mu.Lock()
		s.runID, s.analyses = "", nil
		s.mu.Unlock()

		finished := time.Now().UTC()
		s.saveState(ctx, models.AnalysisState{
			Phase:      models.PhaseError,
			RunID:      runID,
			StartedAt:  &started,
			FinishedAt: &finished,
			Error:      err.Error(),
		})
		metrics.ObserveAnalysis(true)
		log.WithError(err).Error("failed to load patient records")
		return nil, fmt.Errorf("loading patient records: %w", err)
	}

	analyses := s.classifier.ClassifyAll(patients)
	summary := analysis.Summarize(analyses)

	s.mu.Lock()
	s.runID, s.analyses = runID, analyses
	s.mu.Unlock()

	finished := time.Now().UTC()
	s.saveState(ctx, models.AnalysisState{
		Phase:      models.PhaseSuccess,
		RunID:      runID,
		StartedAt:  &started,
		FinishedAt: &finished,
		Summary:    &summary,
	})
	metrics.ObserveAnalysis(false)
	metrics.ObserveSummary(summary)

	log.WithFields(logrus.Fields{
		"patients":     summary.TotalPatients,
		"high_risk":    summary.HighRiskCount,
		"fever":        summary.FeverCount,
		"data_quality": summary.DataQualityCount,
		"duration_ms":  finished.Sub(started).Milliseconds(),
	}).Info("analysis completed")

	s.publish(ctx, EventAnalyzed, map[string]interface{}{
		"run_id":  runID,
		"summary": summary,
		"results": analysis.BuildResults(analyses),
	})

	return copyAnalyses(analyses), nil
}

// Submit sends the id lists derived from the latest analysis pass.
func (s *Service) Submit(ctx context.Context) (*models.SubmissionResponse, error) {
	s.mu.RLock()
	runID, analyses := s.runID, s.analyses
	s.mu.RUnlock()

	if runID == "" {
		return nil, ErrNotAnalyzed
	}

	results := analysis.BuildResults(analyses)
	resp, err := s.source.Submit(ctx, results)
	if err != nil {
		logger.Log.WithError(err).WithField("run_id", runID).Error("failed to submit assessment")
		return nil, fmt.Errorf("submitting assessment: %w", err)
	}
	metrics.ObserveSubmission(resp.Results.Percentage)

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, runID, results, resp); err != nil {
			logger.Log.WithError(err).WithField("run_id", runID).Warn("failed to record submission")
		}
	}

	s.publish(ctx, EventSubmitted, map[string]interface{}{
		"run_id":     runID,
		"score":      resp.Results.Score,
		"percentage": resp.Results.Percentage,
		"status":     resp.Results.Status,
		"attempt":    resp.Results.AttemptNumber,
	})

	return resp, nil
}

func (s *Service) Analyses() []models.PatientAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyAnalyses(s.analyses)
}

func (s *Service) Summary() models.PatientSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analysis.Summarize(s.analyses)
}

func (s *Service) Results() models.AssessmentResults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analysis.BuildResults(s.analyses)
}

func (s *Service) State(ctx context.Context) (models.AnalysisState, error) {
	return s.status.Load(ctx)
}

func (s *Service) Submissions(ctx context.Context, limit int) ([]SubmissionRecord, error) {
	if s.recorder == nil {
		return nil, ErrHistoryDisabled
	}
	return s.recorder.List(ctx, limit)
}

func (s *Service) saveState(ctx context.Context, state models.AnalysisState) {
	if err := s.status.Save(ctx, state); err != nil {
		logger.Log.WithError(err).WithField("phase", state.Phase).Warn("failed to save analysis state")
	}
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, eventType, eventSource, data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("failed to publish event")
	}
}

func copyAnalyses(in []models.PatientAnalysis) []models.PatientAnalysis {
	if in == nil {
		return []models.PatientAnalysis{}
	}
	return append([]models.PatientAnalysis(nil), in...)
}
