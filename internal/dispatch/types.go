// Package dispatch maps typed requests onto pipeline operations and emits
// correlated response messages.
//
// Every request produces exactly one start acknowledgment followed by
// exactly one terminal message, complete or error, all carrying the same
// correlation id. Any failure inside an operation, including a panic,
// is caught once at this boundary and reported as a structured error
// message; nothing propagates to the host.
package dispatch

import (
	"encoding/json"
	"fmt"
	"time"
)

// Operation names one of the supported pipeline operations.
type Operation string

const (
	OpParseCSV          Operation = "parse_csv"
	OpParseStructured   Operation = "parse_structured"
	OpValidate          Operation = "validate"
	OpNormalize         Operation = "normalize"
	OpHandleMissing     Operation = "handle_missing"
	OpRemoveOutliers    Operation = "remove_outliers"
	OpSample            Operation = "sample"
	OpEncodeCategorical Operation = "encode_categorical"
	OpExtractFeatures   Operation = "extract_features"
	OpRunPipeline       Operation = "run_pipeline"
)

// Operations lists every supported operation in a stable order.
func Operations() []Operation {
	return []Operation{
		OpParseCSV,
		OpParseStructured,
		OpValidate,
		OpNormalize,
		OpHandleMissing,
		OpRemoveOutliers,
		OpSample,
		OpEncodeCategorical,
		OpExtractFeatures,
		OpRunPipeline,
	}
}

// Request is an inbound typed request. Payload carries the data (raw text
// or a dataset) and Config the operation parameters; both are decoded per
// operation.
type Request struct {
	Operation     Operation       `json:"operation"`
	Payload       json.RawMessage `json:"payload"`
	Config        json.RawMessage `json:"config"`
	CorrelationID string          `json:"correlationId"`
}

// MessageType distinguishes the acknowledgment from terminal messages.
type MessageType string

const (
	MessageStart    MessageType = "start"
	MessageComplete MessageType = "complete"
	MessageError    MessageType = "error"
)

// ErrorDetail is the structured error carried by an error message.
type ErrorDetail struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Message is one response message. A request's handler emits exactly one
// start and then exactly one complete or error.
type Message struct {
	Type          MessageType  `json:"type"`
	Operation     Operation    `json:"operation"`
	CorrelationID string       `json:"correlationId"`
	Timestamp     time.Time    `json:"timestamp"`
	Result        any          `json:"result,omitempty"`
	Error         *ErrorDetail `json:"error,omitempty"`
}

// Emitter receives response messages in order.
type Emitter func(Message)

// StructuralError marks input that violates the required shape: not a
// sequence of records, missing payload, or undecodable config. It aborts
// the current operation immediately.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return e.Reason
}

// Structuralf builds a StructuralError from a formatted reason.
func Structuralf(format string, args ...any) *StructuralError {
	return &StructuralError{Reason: fmt.Sprintf(format, args...)}
}
