package cleanup

import (
	"net/http"

	"github.com/younsl/lambda-function-manager/internal/models"
)

// Response messages
const (
	MessageCompleted = "Lambda cleanup completed successfully"
	MessageDryRun    = "Lambda cleanup dry run completed successfully"
	MessageFailed    = "Error during Lambda cleanup"
)

// Response is the structured result returned to the invoker
type Response struct {
	StatusCode int         `json:"statusCode"`
	Body       interface{} `json:"body"`
}

// SuccessBody is the body of a completed run
type SuccessBody struct {
	Message           string   `json:"message"`
	TotalFunctions    int      `json:"total_functions"`
	FunctionsAnalyzed int      `json:"functions_analyzed"`
	FunctionsDeleted  int      `json:"functions_deleted"`
	DeletionErrors    int      `json:"deletion_errors"`
	DeletedFunctions  []string `json:"deleted_functions"`
	FailedDeletions   []string `json:"failed_deletions"`
}

// ErrorBody is the body of a failed run
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewSuccessResponse builds the 200 response for a report
func NewSuccessResponse(report models.RunReport) Response {
	message := MessageCompleted
	if report.DryRun {
		message = MessageDryRun
	}

	return Response{
		StatusCode: http.StatusOK,
		Body: SuccessBody{
			Message:           message,
			TotalFunctions:    report.TotalFunctions,
			FunctionsAnalyzed: report.FunctionsAnalyzed,
			FunctionsDeleted:  report.FunctionsDeleted,
			DeletionErrors:    report.DeletionErrors,
			DeletedFunctions:  nonNil(report.DeletedFunctions),
			FailedDeletions:   nonNil(report.FailedDeletions),
		},
	}
}

// NewErrorResponse builds the 500 response for a failed run
func NewErrorResponse(err error) Response {
	return Response{
		StatusCode: http.StatusInternalServerError,
		Body: ErrorBody{
			Message: MessageFailed,
			Error:   err.Error(),
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
