package cleanup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/younsl/lambda-function-manager/internal/models"
	"github.com/younsl/lambda-function-manager/pkg/retention"
	"github.com/younsl/lambda-function-manager/pkg/utils"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type mockInventory struct {
	mock.Mock
}

func (m *mockInventory) ListFunctions(ctx context.Context) models.Inventory {
	return m.Called(ctx).Get(0).(models.Inventory)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) PutRunMetrics(ctx context.Context, total, analyzed, deleted int) error {
	return m.Called(ctx, total, analyzed, deleted).Error(0)
}

func aged(name string, days int, tags map[string]string) models.FunctionRecord {
	return models.FunctionRecord{
		FunctionName: name,
		LastModified: now.AddDate(0, 0, -days).Format(utils.LambdaTimeLayout),
		Tags:         tags,
		State:        models.FunctionStateActive,
	}
}

func staticConfig(cfg models.RetentionConfig) ConfigLoader {
	return func() (models.RetentionConfig, error) {
		return cfg, nil
	}
}

func defaultConfig() models.RetentionConfig {
	return models.RetentionConfig{
		RetentionDays:     30,
		Environment:       "dev",
		ProtectedPatterns: retention.DefaultProtectedPatterns,
		ProtectedTagKeys:  retention.DefaultProtectedTagKeys,
	}
}

func newTestRunner(t *testing.T, cfg ConfigLoader, inv *mockInventory, del *mockDeleter, met *mockMetrics) *Runner {
	return NewRunner(cfg, inv, del, met, zaptest.NewLogger(t),
		retention.WithClock(func() time.Time { return now }))
}

func TestRunDeletesOutdatedFunctions(t *testing.T) {
	inv := &mockInventory{}
	inv.On("ListFunctions", mock.Anything).Return(models.Inventory{
		Functions: []models.FunctionRecord{
			aged("svc-a", 40, nil),
			aged("svc-b", 45, nil),
			aged("svc-c", 40, map[string]string{"Protected": "true"}),
			aged("myapp-prod-worker", 40, nil),
			aged("svc-new", 5, nil),
		},
	})
	del := &mockDeleter{}
	del.On("DeleteFunction", mock.Anything, "svc-a").Return(nil)
	del.On("DeleteFunction", mock.Anything, "svc-b").Return(errors.New("AccessDeniedException"))
	met := &mockMetrics{}
	met.On("PutRunMetrics", mock.Anything, 5, 2, 1).Return(nil).Once()

	response := newTestRunner(t, staticConfig(defaultConfig()), inv, del, met).Run(context.Background())

	assert.Equal(t, http.StatusOK, response.StatusCode)
	body, ok := response.Body.(SuccessBody)
	require.True(t, ok)
	assert.Equal(t, SuccessBody{
		Message:           MessageCompleted,
		TotalFunctions:    5,
		FunctionsAnalyzed: 2,
		FunctionsDeleted:  1,
		DeletionErrors:    1,
		DeletedFunctions:  []string{"svc-a"},
		FailedDeletions:   []string{"svc-b: AccessDeniedException"},
	}, body)
	del.AssertNumberOfCalls(t, "DeleteFunction", 2)
	met.AssertExpectations(t)
}

func TestRunWithEmptyInventory(t *testing.T) {
	inv := &mockInventory{}
	inv.On("ListFunctions", mock.Anything).Return(models.Inventory{})
	del := &mockDeleter{}
	met := &mockMetrics{}
	met.On("PutRunMetrics", mock.Anything, 0, 0, 0).Return(nil)

	response := newTestRunner(t, staticConfig(defaultConfig()), inv, del, met).Run(context.Background())

	assert.Equal(t, http.StatusOK, response.StatusCode)
	body := response.Body.(SuccessBody)
	assert.Equal(t, 0, body.TotalFunctions)
	assert.Equal(t, []string{}, body.DeletedFunctions)
	assert.Equal(t, []string{}, body.FailedDeletions)
	del.AssertNotCalled(t, "DeleteFunction", mock.Anything, mock.Anything)
}

func TestRunIgnoresMetricsFailure(t *testing.T) {
	inv := &mockInventory{}
	inv.On("ListFunctions", mock.Anything).Return(models.Inventory{
		Functions: []models.FunctionRecord{aged("svc-a", 40, nil)},
	})
	del := &mockDeleter{}
	del.On("DeleteFunction", mock.Anything, "svc-a").Return(nil)
	met := &mockMetrics{}
	met.On("PutRunMetrics", mock.Anything, 1, 1, 1).Return(errors.New("throttled"))

	response := newTestRunner(t, staticConfig(defaultConfig()), inv, del, met).Run(context.Background())

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, []string{"svc-a"}, response.Body.(SuccessBody).DeletedFunctions)
}

func TestRunDryRunDoesNotDelete(t *testing.T) {
	cfg := defaultConfig()
	cfg.DryRun = true

	inv := &mockInventory{}
	inv.On("ListFunctions", mock.Anything).Return(models.Inventory{
		Functions: []models.FunctionRecord{aged("svc-a", 40, nil), aged("svc-b", 40, nil)},
	})
	del := &mockDeleter{}
	met := &mockMetrics{}
	met.On("PutRunMetrics", mock.Anything, 2, 2, 0).Return(nil)

	runner := newTestRunner(t, staticConfig(cfg), inv, del, met)
	report, err := runner.Execute(context.Background())

	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Len(t, report.ToDelete, 2)
	assert.Zero(t, report.FunctionsDeleted)
	assert.Equal(t, MessageDryRun, NewSuccessResponse(report).Body.(SuccessBody).Message)
	del.AssertNotCalled(t, "DeleteFunction", mock.Anything, mock.Anything)
}

func TestRunCollectsSkipReasons(t *testing.T) {
	broken := aged("svc-broken", 40, nil)
	broken.LastModified = "not-a-date"

	inv := &mockInventory{}
	inv.On("ListFunctions", mock.Anything).Return(models.Inventory{
		Functions: []models.FunctionRecord{broken},
		Skipped:   []models.SkipReason{{FunctionName: "svc-gone", Stage: models.SkipStageDetail, Err: "not found"}},
	})
	met := &mockMetrics{}
	met.On("PutRunMetrics", mock.Anything, 1, 0, 0).Return(nil)

	report, err := newTestRunner(t, staticConfig(defaultConfig()), inv, &mockDeleter{}, met).Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "svc-gone", report.Skipped[0].FunctionName)
	assert.Equal(t, models.SkipStageTimestamp, report.Skipped[1].Stage)
}

func TestRunReturnsErrorResponseOnConfigFailure(t *testing.T) {
	inv := &mockInventory{}
	failing := func() (models.RetentionConfig, error) {
		return models.RetentionConfig{}, errors.New(`invalid RETENTION_DAYS "abc"`)
	}

	response := newTestRunner(t, failing, inv, &mockDeleter{}, &mockMetrics{}).Run(context.Background())

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Equal(t, ErrorBody{
		Message: MessageFailed,
		Error:   `invalid RETENTION_DAYS "abc"`,
	}, response.Body)
	inv.AssertNotCalled(t, "ListFunctions", mock.Anything)
}

func TestRunReturnsErrorResponseOnInvalidPattern(t *testing.T) {
	cfg := defaultConfig()
	cfg.ProtectedPatterns = []string{"[a-"}

	response := newTestRunner(t, staticConfig(cfg), &mockInventory{}, &mockDeleter{}, &mockMetrics{}).Run(context.Background())

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
}

func TestRunRecoversFromPanic(t *testing.T) {
	inv := &mockInventory{}
	inv.On("ListFunctions", mock.Anything).Run(func(mock.Arguments) {
		panic("nil client")
	})

	response := newTestRunner(t, staticConfig(defaultConfig()), inv, &mockDeleter{}, &mockMetrics{}).Run(context.Background())

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Contains(t, response.Body.(ErrorBody).Error, "nil client")
}

func TestResponseJSONShape(t *testing.T) {
	raw, err := json.Marshal(NewSuccessResponse(models.RunReport{TotalFunctions: 3}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"statusCode": 200,
		"body": {
			"message": "Lambda cleanup completed successfully",
			"total_functions": 3,
			"functions_analyzed": 0,
			"functions_deleted": 0,
			"deletion_errors": 0,
			"deleted_functions": [],
			"failed_deletions": []
		}
	}`, string(raw))

	raw, err = json.Marshal(NewErrorResponse(errors.New("boom")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode": 500, "body": {"message": "Error during Lambda cleanup", "error": "boom"}}`, string(raw))
}
