package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/zinspect/zinspect/internal/errors"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeArchiveInvalid = "ARCHIVE_INVALID"
	ErrCodeVersionInvalid = "VERSION_INVALID"
	ErrCodeInputInvalid   = "INPUT_INVALID"
	ErrCodeOutputFailed   = "OUTPUT_FAILED"
	ErrCodeUnknown        = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var zErr *errors.Error
	if stderrors.As(err, &zErr) {
		jsonErr := &JSONError{
			Code:       mapErrorCode(zErr.Code, zErr.Message),
			Message:    zErr.Message,
			Suggestion: zErr.Suggestion,
		}
		if zErr.Cause != nil {
			jsonErr.Details = map[string]interface{}{"cause": zErr.Cause.Error()}
		}
		return jsonErr
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		// Distinguish between not found and invalid
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrArchive:
		return ErrCodeArchiveInvalid
	case errors.ErrVersion:
		return ErrCodeVersionInvalid
	case errors.ErrInput:
		return ErrCodeInputInvalid
	case errors.ErrOutput:
		return ErrCodeOutputFailed
	}

	return ErrCodeUnknown
}

// writeJSONLine writes v as one compact JSON line, for streamed output.
func writeJSONLine(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

// firstErrorLine is the headline of err without the leading cross.
func firstErrorLine(err error) string {
	msg := strings.TrimPrefix(err.Error(), "✗ ")
	line, _, _ := strings.Cut(msg, "\n")
	return line
}
