package logger

import (
	"bytes"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
)

type (
	logCtxKey struct{}
)

var logCtx logCtxKey

// LogID ties every line of one request together in the log stream.
type LogID [8]byte

func (lid LogID) String() string {
	return hex.EncodeToString(lid[:])
}

var nilLogID = LogID{}

func (lid LogID) IsValid() bool {
	return !bytes.Equal(lid[:], nilLogID[:])
}

type logContext struct {
	startTime time.Time
	requestID string
	operation string
	logID     LogID
}

func newLogContext(logID LogID, operation string) *logContext {
	return &logContext{
		logID:     logID,
		operation: operation,
		startTime: time.Now(),
	}
}

func (lgCtx *logContext) ToFields() []zap.Field {
	if lgCtx == nil {
		return nil
	}

	attrs := make([]zap.Field, 0, 2)
	attrs = append(attrs, zap.String(logIDKey, lgCtx.logID.String()))

	if lgCtx.requestID != "" {
		attrs = append(attrs, zap.String(requestKey, lgCtx.requestID))
	}
	return attrs
}
