package seria

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes tree codec errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedType indicates a value with no tag.
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"

	// ErrCodeProjection indicates a projection hook returned an error.
	ErrCodeProjection ErrorCode = "PROJECTION_FAILED"

	// ErrCodeInvalidPayload indicates a node whose payload cannot be decoded.
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"

	// ErrCodeInvalidKey indicates an object key that is not a string,
	// number or symbol, or a collection key that cannot be indexed.
	ErrCodeInvalidKey ErrorCode = "INVALID_KEY"

	// ErrCodeUnresolvedRef indicates a reference to a path never visited.
	ErrCodeUnresolvedRef ErrorCode = "UNRESOLVED_REFERENCE"

	// ErrCodeReconstruct indicates a registered class could not be rebuilt.
	ErrCodeReconstruct ErrorCode = "RECONSTRUCT_FAILED"
)

// EncodeError reports a value that could not be serialized.
type EncodeError struct {
	Code    ErrorCode
	Message string
	Path    string
	Err     error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError reports a tree that could not be deserialized.
type DecodeError struct {
	Code    ErrorCode
	Message string
	Path    string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FrameError wraps a failure of the JSON, YAML or CBOR framing layer.
type FrameError struct {
	Frame Frame
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s frame: %v", e.Frame, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err is or wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsFrameError reports whether err is or wraps a FrameError.
func IsFrameError(err error) bool {
	var fe *FrameError
	return errors.As(err, &fe)
}

func decodeErr(code ErrorCode, path string, err error, format string, args ...any) *DecodeError {
	return &DecodeError{Code: code, Message: fmt.Sprintf(format, args...), Path: path, Err: err}
}
