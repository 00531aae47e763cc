package logging

import (
	"errors"

	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// ErrorFields returns log fields describing err, including the AWS error code when present
func ErrorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.String("errorCode", apiErr.ErrorCode()))
	}

	return fields
}
