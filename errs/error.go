package errs

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/colt3k/utils/store"
)

// Codes raised locally, before or instead of a service response. All of
// them carry status 0, reserved for "no well-formed service response".
const (
	CodeApplication  = "application_error"
	CodeTransport    = "transport_error"
	CodeValidation   = "validation_error"
	CodePrecondition = "precondition_error"
	CodeAuth         = "auth_error"
	CodeNotFound     = "not_found"
	CodeIntegrity    = "integrity_mismatch"
)

// B2CloudCodes maps service HTTP statuses to the codes they are known to
// carry in error bodies.
var B2CloudCodes = store.NewMVKeySet()

func init() {
	B2CloudCodes.Add(400, "bad_request")
	B2CloudCodes.Add(400, "bad_bucket_id")
	B2CloudCodes.Add(400, "invalid_bucket_id")
	B2CloudCodes.Add(400, "out_of_range")
	B2CloudCodes.Add(400, "file_not_present")
	B2CloudCodes.Add(401, "unauthorized")
	B2CloudCodes.Add(401, "unsupported")
	B2CloudCodes.Add(401, "bad_auth_token")
	B2CloudCodes.Add(401, "expired_auth_token")
	B2CloudCodes.Add(403, "cap_exceeded")
	B2CloudCodes.Add(405, "method_not_allowed")
	B2CloudCodes.Add(408, "request_timeout")
	B2CloudCodes.Add(416, "range_not_satisfiable")
	B2CloudCodes.Add(429, "too_many_requests")
	B2CloudCodes.Add(500, "internal_error")
	B2CloudCodes.Add(503, "service_unavailable")
}

// Error is the uniform failure value every operation returns: a stable
// machine code, a human message, and the HTTP status of the service
// response (0 when no usable response was obtained).
type Error interface {
	Code() string
	Message() string
	Status() int
	Error() string
}

// B2Error backs Error. For service failures the fields come straight from
// the parsed error body; for local failures the constructors below fill
// them in.
type B2Error struct {
	CodeStr    string `json:"code"`
	MessageStr string `json:"message"`
	StatusID   int    `json:"status"`
	file       string
	line       int
}

func (e *B2Error) Code() string    { return e.CodeStr }
func (e *B2Error) Message() string { return e.MessageStr }
func (e *B2Error) Status() int     { return e.StatusID }

func (e *B2Error) Error() string {
	if len(e.file) > 0 {
		return fmt.Sprintf("%s[%d] %d - %s %s", e.file, e.line, e.StatusID, e.CodeStr, e.MessageStr)
	}
	return fmt.Sprintf("%d - %s %s", e.StatusID, e.CodeStr, e.MessageStr)
}

func newLocal(code, msg string) *B2Error {
	_, file, line, _ := runtime.Caller(2)
	return &B2Error{CodeStr: code, MessageStr: msg, StatusID: 0, file: file, line: line}
}

// New wraps a local failure (marshalling, file access, malformed body)
// that did not originate from a well-formed service response.
func New(err error, msg string) Error {
	if len(msg) > 0 && err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	} else if err != nil {
		msg = err.Error()
	}
	return newLocal(CodeApplication, msg)
}

// Transport marks a failure where no response was obtained at all.
func Transport(err error, msg string) Error {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return newLocal(CodeTransport, msg)
}

// Validation marks missing or malformed caller input, detected before any
// network call.
func Validation(msg string) Error {
	return newLocal(CodeValidation, msg)
}

// Precondition marks an operation attempted before successful authorization.
func Precondition(msg string) Error {
	return newLocal(CodePrecondition, msg)
}

// NotFound marks a resolution chain that found zero matches.
func NotFound(msg string) Error {
	return newLocal(CodeNotFound, msg)
}

// Integrity marks a digest mismatch after download.
func Integrity(msg string) Error {
	return newLocal(CodeIntegrity, msg)
}

// AuthFailed rebrands a failure from the authorize call, keeping the
// service status when one was obtained.
func AuthFailed(er Error) Error {
	_, file, line, _ := runtime.Caller(1)
	return &B2Error{CodeStr: CodeAuth, MessageStr: er.Message(), StatusID: er.Status(), file: file, line: line}
}

// FromResponse normalizes a non-200 service response. The body is expected
// to be the service's {code,message,status} error JSON; when it is not,
// the HTTP status is kept and a generic message substituted.
func FromResponse(status int, body []byte) Error {
	_, file, line, _ := runtime.Caller(1)
	t := &B2Error{file: file, line: line}
	_ = json.Unmarshal(body, t)
	t.StatusID = status
	if len(t.CodeStr) == 0 {
		t.CodeStr = CodeApplication
	}
	if len(t.MessageStr) == 0 {
		t.MessageStr = fmt.Sprintf("service returned %d", status)
	}
	return t
}
