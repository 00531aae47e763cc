// Package retention decides which Lambda functions are old enough to delete.
//
// A function is selected for deletion only when all of the following hold:
//   - its LastModified timestamp is older than the retention period
//   - its name does not match a protected pattern (case-insensitive, anchored at the start)
//   - it carries none of the protected tag keys
//   - its lifecycle state is Active
package retention

import (
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/younsl/lambda-function-manager/internal/models"
	"github.com/younsl/lambda-function-manager/pkg/utils"
)

// DefaultProtectedPatterns exempts production, critical and self-managed functions
var DefaultProtectedPatterns = []string{
	`.*-prod-.*`,
	`lambda-function-manager.*`,
	`.*-critical-.*`,
}

// DefaultProtectedTagKeys exempts functions carrying any of these tag keys
var DefaultProtectedTagKeys = []string{"Protected", "Critical", "DoNotDelete"}

// Classifier partitions an inventory into functions to keep and functions to delete
type Classifier struct {
	retentionDays int
	patterns      []*regexp.Regexp
	tagKeys       []string
	now           func() time.Time
	logger        *zap.Logger
}

// Option configures a Classifier
type Option func(*Classifier)

// WithClock overrides the time source used to compute the cutoff
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		c.now = now
	}
}

// NewClassifier compiles the protection rules of cfg
func NewClassifier(cfg models.RetentionConfig, logger *zap.Logger, opts ...Option) (*Classifier, error) {
	if cfg.RetentionDays < 0 {
		return nil, fmt.Errorf("retention days must not be negative, got %d", cfg.RetentionDays)
	}

	patterns, err := CompilePatterns(cfg.ProtectedPatterns)
	if err != nil {
		return nil, err
	}

	c := &Classifier{
		retentionDays: cfg.RetentionDays,
		patterns:      patterns,
		tagKeys:       cfg.ProtectedTagKeys,
		now:           time.Now,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CompilePatterns compiles name patterns with re.match semantics:
// case-insensitive and anchored at the start of the name only.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(`(?i)^(?:` + pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("invalid protected pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Classify splits functions into ToDelete and Kept. It never mutates its input.
func (c *Classifier) Classify(functions []models.FunctionRecord) models.ClassificationResult {
	cutoff := utils.RetentionCutoff(c.now(), c.retentionDays)
	result := models.ClassificationResult{}

	for _, function := range functions {
		lastModified, err := utils.ParseLastModified(function.LastModified)
		if err != nil {
			c.logger.Warn("Error processing function",
				zap.String("function", function.FunctionName),
				zap.Error(err))
			result.Kept = append(result.Kept, function)
			result.Skipped = append(result.Skipped, models.SkipReason{
				FunctionName: function.FunctionName,
				Stage:        models.SkipStageTimestamp,
				Err:          err.Error(),
			})
			continue
		}

		if !lastModified.Before(cutoff) {
			result.Kept = append(result.Kept, function)
			continue
		}

		if pattern, ok := c.protectedByName(function.FunctionName); ok {
			c.logger.Info("Skipping protected function",
				zap.String("function", function.FunctionName),
				zap.String("pattern", pattern))
			result.Kept = append(result.Kept, function)
			continue
		}

		if key, ok := utils.HasAnyTag(function.Tags, c.tagKeys); ok {
			c.logger.Info("Skipping function with protection tags",
				zap.String("function", function.FunctionName),
				zap.String("tag", key))
			result.Kept = append(result.Kept, function)
			continue
		}

		if function.State != models.FunctionStateActive {
			c.logger.Debug("Skipping function that is not active",
				zap.String("function", function.FunctionName),
				zap.String("state", function.State))
			result.Kept = append(result.Kept, function)
			continue
		}

		c.logger.Info("Marked for deletion",
			zap.String("function", function.FunctionName),
			zap.String("lastModified", function.LastModified))
		result.ToDelete = append(result.ToDelete, function)
	}

	return result
}

// protectedByName returns the first pattern matching name
func (c *Classifier) protectedByName(name string) (string, bool) {
	for _, re := range c.patterns {
		if re.MatchString(name) {
			return re.String(), true
		}
	}
	return "", false
}
