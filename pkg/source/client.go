package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/synaptica-ai/triage/pkg/common/httpclient"
	"github.com/synaptica-ai/triage/pkg/common/logger"
	"github.com/synaptica-ai/triage/pkg/common/models"
)

const (
	apiKeyHeader = "x-api-key"
	maxErrorBody = 512

	DefaultPageLimit = 20
)

type Config struct {
	BaseURL   string
	APIKey    string
	PageLimit int
	Timeout   time.Duration
	MaxConns  int
	UserAgent string
}

// Client talks to the paginated record source and the submission endpoint.
// Every call goes through the retry policy.
type Client struct {
	http      *resty.Client
	policy    httpclient.Policy
	pageLimit int
}

func NewClient(cfg Config, policy httpclient.Policy) *Client {
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = DefaultPageLimit
	}

	rc := resty.NewWithClient(httpclient.New(httpclient.Options{
		Timeout:   cfg.Timeout,
		MaxConns:  cfg.MaxConns,
		UserAgent: cfg.UserAgent,
	})).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetRetryCount(0).
		SetHeader(apiKeyHeader, cfg.APIKey).
		SetHeader("Accept", "application/json")

	return &Client{http: rc, policy: policy, pageLimit: cfg.PageLimit}
}

// FetchPage retrieves a single page of records.
func (c *Client) FetchPage(ctx context.Context, page int) (*models.PatientsResponse, error) {
	var out models.PatientsResponse
	op := fmt.Sprintf("fetch page %d", page)

	err := c.policy.Do(ctx, op, func(ctx context.Context) error {
		out = models.PatientsResponse{}
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("X-Request-ID", uuid.New().String()).
			SetQueryParams(map[string]string{
				"page":  strconv.Itoa(page),
				"limit": strconv.Itoa(c.pageLimit),
			}).
			Get("/patients")
		return decode(ctx, resp, err, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchAll reads page 1 to learn the page count, then every following page in
// order. Any page that cannot be retrieved aborts the whole fetch.
func (c *Client) FetchAll(ctx context.Context) ([]models.Patient, error) {
	first, err := c.FetchPage(ctx, 1)
	if err != nil {
		return nil, err
	}

	patients := append([]models.Patient(nil), first.Data...)
	totalPages := first.Pagination.TotalPages
	logPage(1, totalPages, len(first.Data))

	for page := 2; page <= totalPages; page++ {
		resp, err := c.FetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		patients = append(patients, resp.Data...)
		logPage(page, totalPages, len(resp.Data))
	}

	if total := first.Pagination.Total; total > 0 && total != len(patients) {
		logger.Log.WithFields(logrus.Fields{
			"expected": total,
			"received": len(patients),
		}).Warn("record count differs from pagination total")
	}

	return patients, nil
}

// Submit posts the three id lists and returns the scored result.
func (c *Client) Submit(ctx context.Context, results models.AssessmentResults) (*models.SubmissionResponse, error) {
	var out models.SubmissionResponse

	err := c.policy.Do(ctx, "submit assessment", func(ctx context.Context) error {
		out = models.SubmissionResponse{}
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("X-Request-ID", uuid.New().String()).
			SetHeader("Content-Type", "application/json").
			SetBody(results).
			Post("/submit-assessment")
		return decode(ctx, resp, err, &out)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"score":   out.Results.Score,
		"status":  out.Results.Status,
		"attempt": out.Results.AttemptNumber,
	}).Info("assessment submitted")

	return &out, nil
}

func decode(ctx context.Context, resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return httpclient.NetworkError(err)
	}

	if statusErr := httpclient.StatusError(resp.StatusCode(), truncate(resp.String())); statusErr != nil {
		return statusErr
	}

	body := resp.Body()
	if len(body) == 0 {
		return httpclient.ParseError(errors.New("empty body"))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return httpclient.ParseError(err)
	}
	return nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}

func logPage(page, totalPages, records int) {
	logger.Log.WithFields(logrus.Fields{
		"page":        page,
		"total_pages": totalPages,
		"records":     records,
	}).Debug("fetched page")
}
