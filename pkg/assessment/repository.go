package assessment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/synaptica-ai/triage/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionRecord is one submission attempt. Patient records themselves are
// never stored; only the submitted ids and the scored response.
type SubmissionRecord struct {
	ID             string         `json:"id" gorm:"primaryKey;column:id"`
	RunID          string         `json:"run_id" gorm:"column:run_id;index"`
	Submitted      datatypes.JSON `json:"submitted" gorm:"column:submitted"`
	Score          float64        `json:"score" gorm:"column:score"`
	Percentage     float64        `json:"percentage" gorm:"column:percentage"`
	Status         string         `json:"status" gorm:"column:status"`
	Breakdown      datatypes.JSON `json:"breakdown" gorm:"column:breakdown"`
	Feedback       datatypes.JSON `json:"feedback" gorm:"column:feedback"`
	AttemptNumber  int            `json:"attempt_number" gorm:"column:attempt_number"`
	IsPersonalBest bool           `json:"is_personal_best" gorm:"column:is_personal_best"`
	CreatedAt      time.Time      `json:"created_at" gorm:"column:created_at"`
}

func (SubmissionRecord) TableName() string {
	return "assessment_submissions"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&SubmissionRecord{})
}

func (r *Repository) Record(ctx context.Context, runID string, results models.AssessmentResults, resp *models.SubmissionResponse) error {
	rec, err := newSubmissionRecord(runID, results, resp)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repository) List(ctx context.Context, limit int) ([]SubmissionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []SubmissionRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&recs).Error
	return recs, err
}

func newSubmissionRecord(runID string, results models.AssessmentResults, resp *models.SubmissionResponse) (*SubmissionRecord, error) {
	submitted, err := json.Marshal(results)
	if err != nil {
		return nil, err
	}
	breakdown, err := json.Marshal(resp.Results.Breakdown)
	if err != nil {
		return nil, err
	}
	feedback, err := json.Marshal(resp.Results.Feedback)
	if err != nil {
		return nil, err
	}

	return &SubmissionRecord{
		ID:             uuid.New().String(),
		RunID:          runID,
		Submitted:      datatypes.JSON(submitted),
		Score:          resp.Results.Score,
		Percentage:     resp.Results.Percentage,
		Status:         resp.Results.Status,
		Breakdown:      datatypes.JSON(breakdown),
		Feedback:       datatypes.JSON(feedback),
		AttemptNumber:  resp.Results.AttemptNumber,
		IsPersonalBest: resp.Results.IsPersonalBest,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
