// Package cleanup runs a single Lambda housekeeping pass: scan, classify,
// delete and report.
package cleanup

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/younsl/lambda-function-manager/internal/models"
	"github.com/younsl/lambda-function-manager/pkg/retention"
)

// Inventory lists the functions deployed in the account
type Inventory interface {
	ListFunctions(ctx context.Context) models.Inventory
}

// MetricsPublisher emits the run counters
type MetricsPublisher interface {
	PutRunMetrics(ctx context.Context, total, analyzed, deleted int) error
}

// ConfigLoader returns the configuration for one run
type ConfigLoader func() (models.RetentionConfig, error)

// Runner sequences one cleanup run
type Runner struct {
	loadConfig ConfigLoader
	inventory  Inventory
	deleter    Deleter
	metrics    MetricsPublisher
	logger     *zap.Logger
	classOpts  []retention.Option
}

// NewRunner creates a Runner from its collaborators
func NewRunner(loadConfig ConfigLoader, inventory Inventory, deleter Deleter, metrics MetricsPublisher, logger *zap.Logger, opts ...retention.Option) *Runner {
	return &Runner{
		loadConfig: loadConfig,
		inventory:  inventory,
		deleter:    deleter,
		metrics:    metrics,
		logger:     logger,
		classOpts:  opts,
	}
}

// Run executes one cleanup pass and maps the outcome to a Response.
// It never returns an error; failures become a 500 response.
func (r *Runner) Run(ctx context.Context) Response {
	report, err := r.Execute(ctx)
	if err != nil {
		r.logger.Error("Error in cleanup run", zap.Error(err))
		return NewErrorResponse(err)
	}

	response := NewSuccessResponse(report)
	r.logger.Info("Cleanup completed",
		zap.Int("totalFunctions", report.TotalFunctions),
		zap.Int("functionsAnalyzed", report.FunctionsAnalyzed),
		zap.Int("functionsDeleted", report.FunctionsDeleted),
		zap.Int("deletionErrors", report.DeletionErrors),
		zap.Strings("deletedFunctions", report.DeletedFunctions),
		zap.Strings("failedDeletions", report.FailedDeletions))
	return response
}

// Execute runs scan, classification, deletion and metrics, returning the report
func (r *Runner) Execute(ctx context.Context) (report models.RunReport, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			report = models.RunReport{}
			err = fmt.Errorf("unexpected failure: %v", rec)
		}
	}()

	r.logger.Info("Starting Lambda function cleanup process")

	cfg, err := r.loadConfig()
	if err != nil {
		return models.RunReport{}, err
	}

	r.logger.Info("Configuration",
		zap.Int("retentionDays", cfg.RetentionDays),
		zap.String("environment", cfg.Environment),
		zap.Bool("dryRun", cfg.DryRun))

	classifier, err := retention.NewClassifier(cfg, r.logger, r.classOpts...)
	if err != nil {
		return models.RunReport{}, err
	}

	inventory := r.inventory.ListFunctions(ctx)
	r.logger.Info("Found Lambda functions to analyze", zap.Int("count", len(inventory.Functions)))

	classification := classifier.Classify(inventory.Functions)
	r.logger.Info("Identified functions for deletion", zap.Int("count", len(classification.ToDelete)))

	var deletion models.DeletionResult
	if cfg.DryRun {
		for _, function := range classification.ToDelete {
			r.logger.Info("Dry run, not deleting function", zap.String("function", function.FunctionName))
		}
	} else {
		deletion = DeleteAll(ctx, r.deleter, classification.ToDelete, r.logger)
	}

	if err := r.metrics.PutRunMetrics(ctx, len(inventory.Functions), len(classification.ToDelete), len(deletion.Successful)); err != nil {
		r.logger.Warn("Failed to send metrics to CloudWatch", zap.Error(err))
	} else {
		r.logger.Info("Metrics sent to CloudWatch successfully")
	}

	skipped := append(append([]models.SkipReason{}, inventory.Skipped...), classification.Skipped...)

	return models.RunReport{
		Environment:       cfg.Environment,
		RetentionDays:     cfg.RetentionDays,
		DryRun:            cfg.DryRun,
		TotalFunctions:    len(inventory.Functions),
		FunctionsAnalyzed: len(classification.ToDelete),
		FunctionsDeleted:  len(deletion.Successful),
		DeletionErrors:    len(deletion.Failed),
		DeletedFunctions:  deletion.Successful,
		FailedDeletions:   deletion.Failed,
		ToDelete:          classification.ToDelete,
		Skipped:           skipped,
	}, nil
}
