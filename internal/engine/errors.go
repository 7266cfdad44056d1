package engine

import (
	"errors"
	"fmt"
)

// RequestError is a request that failed at one pipeline step.
type RequestError struct {
	// Code identifies the failing step.
	Code RequestErrorCode

	// Object is the object the request was for.
	Object string

	// Err is the underlying error.
	Err error
}

// RequestErrorCode categorizes request errors.
type RequestErrorCode string

const (
	// ErrCodeDecode indicates the request body is not a JSON object.
	ErrCodeDecode RequestErrorCode = "DECODE_FAILED"

	// ErrCodeCompile indicates the request cannot be compiled to a plan.
	ErrCodeCompile RequestErrorCode = "COMPILE_FAILED"

	// ErrCodeRender indicates the plan cannot be rendered to SQL.
	ErrCodeRender RequestErrorCode = "RENDER_FAILED"

	// ErrCodeExecute indicates the database rejected the query.
	ErrCodeExecute RequestErrorCode = "EXECUTE_FAILED"

	// ErrCodeNoStore indicates execution was requested without a store.
	ErrCodeNoStore RequestErrorCode = "NO_STORE"
)

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Object != "" {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Object, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err was caused by the request itself
// rather than the database.
func IsClientError(err error) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Code == ErrCodeDecode || re.Code == ErrCodeCompile
	}
	return false
}

// CodeOf returns the code of a RequestError in err's chain, or "".
func CodeOf(err error) RequestErrorCode {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

func newRequestError(code RequestErrorCode, object string, err error) *RequestError {
	return &RequestError{Code: code, Object: object, Err: err}
}
