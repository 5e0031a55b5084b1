package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"wayfarer/internal/types"
)

// maxRequestBodySize is the maximum allowed size of a request body (1 MB).
const maxRequestBodySize = 1 << 20

// APIResponse is the standard envelope for all successful API responses.
type APIResponse struct {
	Data interface{} `json:"data,omitempty"`
}

// APIErrorResponse is the standard envelope for all error API responses.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned to clients.
type ErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id"`
}

// JSON writes a JSON response with the given status code and data. If
// marshalling fails, it falls back to a 500 error response.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fallback := APIErrorResponse{
			Error: ErrorDetail{
				Code:      string(types.ErrCodeInternalUnexpected),
				Message:   "failed to marshal response",
				RequestID: types.GetRequestID(r.Context()),
			},
		}
		// Best-effort write; if this also fails, there is nothing more to do.
		_ = json.NewEncoder(w).Encode(fallback)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error writes an error response to the client. It inspects the error chain:
//   - If the error is (or wraps) a *types.AppError, its Code determines the
//     HTTP status and a structured APIErrorResponse is written.
//   - A generic error becomes a 500 with code "internal_unexpected_error".
//
// Internal error details (wrapped errors) are never exposed to the client,
// and neither is the message of a generic error.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	requestID := types.GetRequestID(r.Context())

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		resp := APIErrorResponse{
			Error: ErrorDetail{
				Code:      string(appErr.Code),
				Message:   appErr.Message,
				Details:   appErr.Details,
				RequestID: requestID,
			},
		}
		JSON(w, r, appErr.HTTPStatus(), resp)
		return
	}

	resp := APIErrorResponse{
		Error: ErrorDetail{
			Code:      string(types.ErrCodeInternalUnexpected),
			Message:   "an unexpected error occurred",
			RequestID: requestID,
		},
	}
	JSON(w, r, http.StatusInternalServerError, resp)
}

// DecodeJSON reads the request body into dst, enforcing a 1 MB body limit and
// DisallowUnknownFields. It returns a *types.AppError with code
// "validation_invalid_json" (400) on syntax errors, unknown fields, oversized
// or empty bodies, and bodies containing more than one JSON value.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return mapDecodeError(err)
	}

	if dec.More() {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"request body must contain a single JSON object",
			nil,
		)
	}

	return nil
}

// mapDecodeError translates a json.Decoder error into a structured AppError.
func mapDecodeError(err error) *types.AppError {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"request body must not exceed 1MB",
			err,
		)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"malformed JSON in request body",
			err,
		)
	}

	var unmarshalTypeErr *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeErr) {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"invalid value for field",
			err,
		).WithDetails(map[string]any{
			"field":    unmarshalTypeErr.Field,
			"expected": unmarshalTypeErr.Type.String(),
		})
	}

	if strings.HasPrefix(err.Error(), "json: unknown field") {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"unknown field in request body: "+strings.TrimPrefix(err.Error(), "json: unknown field "),
			err,
		)
	}

	if errors.Is(err, io.EOF) {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"request body must not be empty",
			err,
		)
	}

	return types.NewAppError(
		types.ErrCodeValidationInvalidJSON,
		"invalid JSON in request body",
		err,
	)
}
