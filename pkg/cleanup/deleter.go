package cleanup

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/younsl/lambda-function-manager/internal/logging"
	"github.com/younsl/lambda-function-manager/internal/models"
)

// Deleter removes a single function
type Deleter interface {
	DeleteFunction(ctx context.Context, name string) error
}

// DeleteAll attempts one deletion per function, in order. A failure is recorded
// as "name: error" and does not stop the remaining deletions.
func DeleteAll(ctx context.Context, deleter Deleter, functions []models.FunctionRecord, logger *zap.Logger) models.DeletionResult {
	result := models.DeletionResult{
		Successful: make([]string, 0, len(functions)),
		Failed:     make([]string, 0),
	}

	for _, function := range functions {
		name := function.FunctionName
		logger.Info("Deleting function", zap.String("function", name))

		if err := deleter.DeleteFunction(ctx, name); err != nil {
			logger.Error("Failed to delete function",
				append([]zap.Field{zap.String("function", name)}, logging.ErrorFields(err)...)...)
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %s", name, err.Error()))
			continue
		}

		result.Successful = append(result.Successful, name)
		logger.Info("Successfully deleted function", zap.String("function", name))
	}

	return result
}
