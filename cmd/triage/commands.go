package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/synaptica-ai/triage/pkg/analysis"
	"github.com/synaptica-ai/triage/pkg/assessment"
	"github.com/synaptica-ai/triage/pkg/common/config"
	"github.com/synaptica-ai/triage/pkg/common/httpclient"
	"github.com/synaptica-ai/triage/pkg/common/logger"
	"github.com/synaptica-ai/triage/pkg/common/models"
	"github.com/synaptica-ai/triage/pkg/scoring"
	"github.com/synaptica-ai/triage/pkg/source"
	"gopkg.in/yaml.v3"
)

type options struct {
	rubricPath string
	logLevel   string
	asJSON     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "triage",
		Short:         "Fetch, classify and submit patient risk assessments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(opts.logLevel, "text")
		},
	}

	root.PersistentFlags().StringVar(&opts.rubricPath, "rubric", "", "path to a YAML scoring rubric (default: built-in)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	analyze := &cobra.Command{
		Use:   "analyze",
		Short: "Fetch every patient record and print the classification",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(opts)
			if err != nil {
				return err
			}
			if _, err := svc.Analyze(cmd.Context()); err != nil {
				return err
			}
			return printAnalysis(cmd.OutOrStdout(), svc, opts.asJSON)
		},
	}
	analyze.Flags().BoolVar(&opts.asJSON, "json", false, "print the id lists as JSON")

	submit := &cobra.Command{
		Use:   "submit",
		Short: "Analyze the dataset and submit the assessment",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(opts)
			if err != nil {
				return err
			}
			if _, err := svc.Analyze(cmd.Context()); err != nil {
				return err
			}
			resp, err := svc.Submit(cmd.Context())
			if err != nil {
				return err
			}
			return printSubmission(cmd.OutOrStdout(), resp)
		},
	}

	rubric := &cobra.Command{
		Use:   "rubric",
		Short: "Print the effective scoring rubric",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := scoring.LoadRubric(opts.rubricPath)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(r)
		},
	}

	root.AddCommand(analyze, submit, rubric)
	return root
}

func buildService(opts *options) (*assessment.Service, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rubricPath := cfg.RubricPath
	if opts.rubricPath != "" {
		rubricPath = opts.rubricPath
	}
	rubric, err := scoring.LoadRubric(rubricPath)
	if err != nil {
		return nil, err
	}

	client := source.NewClient(source.Config{
		BaseURL:   cfg.APIBaseURL,
		APIKey:    cfg.APIKey,
		PageLimit: cfg.PageLimit,
		Timeout:   cfg.RequestTimeout,
		MaxConns:  cfg.MaxConns,
		UserAgent: cfg.UserAgent,
	}, httpclient.NewPolicy(cfg.RetryMax, cfg.RetryBaseDelay))

	classifier := analysis.NewClassifier(scoring.NewScorer(rubric))
	return assessment.NewService(classifier, client), nil
}

func printAnalysis(w io.Writer, svc *assessment.Service, asJSON bool) error {
	results := svc.Results()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	summary := svc.Summary()
	fmt.Fprintf(w, "Patients:            %d\n", summary.TotalPatients)
	fmt.Fprintf(w, "High risk:           %d  %s\n", summary.HighRiskCount, strings.Join(results.HighRiskPatients, ", "))
	fmt.Fprintf(w, "Fever:               %d  %s\n", summary.FeverCount, strings.Join(results.FeverPatients, ", "))
	fmt.Fprintf(w, "Data quality issues: %d  %s\n", summary.DataQualityCount, strings.Join(results.DataQualityIssues, ", "))
	return nil
}

func printSubmission(w io.Writer, resp *models.SubmissionResponse) error {
	r := resp.Results
	fmt.Fprintf(w, "Score: %.1f (%.1f%%) %s\n", r.Score, r.Percentage, r.Status)

	rows := []struct {
		name string
		b    models.CategoryBreakdown
	}{
		{"high risk", r.Breakdown.HighRisk},
		{"fever", r.Breakdown.Fever},
		{"data quality", r.Breakdown.DataQuality},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-13s %5.1f/%-5.1f correct=%d submitted=%d matches=%d\n",
			row.name, row.b.Score, row.b.Max, row.b.Correct, row.b.Submitted, row.b.Matches)
	}

	for _, s := range r.Feedback.Strengths {
		fmt.Fprintf(w, "  + %s\n", s)
	}
	for _, s := range r.Feedback.Issues {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	fmt.Fprintf(w, "Attempt %d, %d remaining, personal best: %t, can resubmit: %t\n",
		r.AttemptNumber, r.RemainingAttempts, r.IsPersonalBest, r.CanResubmit)
	return nil
}
