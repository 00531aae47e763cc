package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"github.com/younsl/lambda-function-manager/pkg/cleanup"
)

// cleanupRunner runs one cleanup pass
type cleanupRunner interface {
	Run(ctx context.Context) cleanup.Response
}

// triggerInfo holds the fields of a scheduled event worth logging
type triggerInfo struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

// handler serves one invocation. The payload is opaque: it is decoded only
// for logging and a malformed payload never fails the invocation.
type handler struct {
	runner  cleanupRunner
	initErr error
	logger  *zap.Logger
}

func (h *handler) Handle(ctx context.Context, payload json.RawMessage) (cleanup.Response, error) {
	var trigger triggerInfo
	if err := json.Unmarshal(payload, &trigger); err != nil {
		h.logger.Debug("Trigger payload is not a scheduled event", zap.Error(err))
	}

	invocationLogger := h.logger.With(zap.String("eventId", trigger.ID))
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		invocationLogger = invocationLogger.With(zap.String("requestId", lc.AwsRequestID))
	}
	invocationLogger.Info("Cleanup triggered", zap.String("source", trigger.Source))

	if h.initErr != nil {
		return cleanup.NewErrorResponse(h.initErr), nil
	}
	return h.runner.Run(ctx), nil
}
