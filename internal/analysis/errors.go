package analysis

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSchema marks an upstream reply that parsed as JSON but violates the
// result schema.
var ErrSchema = errors.New("analysis result schema violation")

// ParseError is returned when the upstream reply is not JSON. Raw holds the
// original text for server-side logging only.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse upstream reply: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// HTTPError is a client-input failure with the status it maps to.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func newHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

const (
	msgNoImage          = "No image provided"
	msgBadContentType   = "Content-Type must be multipart/form-data or application/json."
	msgUnsupportedType  = "Unsupported file type. Please upload a JPEG, PNG, or WEBP image."
	msgBodyTooLarge     = "Request body too large."
	msgTooManyFiles     = "Only one image can be uploaded at a time."
	msgTooManyParts     = "Too many form parts."
	msgTooManyFields    = "Too many form fields."
	msgFieldTooLarge    = "Form field too large."
	msgInterrupted      = "Upload was interrupted. Please try again."
	msgMalformed        = "Malformed multipart body."
	msgInvalidJSON      = "Invalid JSON body."
	msgInvalidBase64    = "Image is not valid base64."
	msgNotConfigured    = "AI service is not configured."
	msgUnparseableReply = "AI 응답을 파싱할 수 없습니다."
	msgAnalysisFailed   = "Failed to analyze image."
)

var (
	errNoImage         = newHTTPError(http.StatusBadRequest, msgNoImage)
	errBadContentType  = newHTTPError(http.StatusBadRequest, msgBadContentType)
	errUnsupportedType = newHTTPError(http.StatusUnsupportedMediaType, msgUnsupportedType)
	errBodyTooLarge    = newHTTPError(http.StatusRequestEntityTooLarge, msgBodyTooLarge)
	errTooManyFiles    = newHTTPError(http.StatusRequestEntityTooLarge, msgTooManyFiles)
	errTooManyParts    = newHTTPError(http.StatusRequestEntityTooLarge, msgTooManyParts)
	errTooManyFields   = newHTTPError(http.StatusRequestEntityTooLarge, msgTooManyFields)
	errFieldTooLarge   = newHTTPError(http.StatusRequestEntityTooLarge, msgFieldTooLarge)
	errInterrupted     = newHTTPError(http.StatusBadRequest, msgInterrupted)
	errMalformed       = newHTTPError(http.StatusBadRequest, msgMalformed)
	errInvalidJSON     = newHTTPError(http.StatusBadRequest, msgInvalidJSON)
	errInvalidBase64   = newHTTPError(http.StatusBadRequest, msgInvalidBase64)
)
