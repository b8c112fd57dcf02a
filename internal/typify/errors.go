package typify

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes text codec errors.
type ErrorCode string

// Lexer error codes.
const (
	// ErrCodeUnterminatedString indicates a string literal without its closing quote.
	ErrCodeUnterminatedString ErrorCode = "UNTERMINATED_STRING"

	// ErrCodeInvalidEscape indicates an unknown or malformed backslash escape.
	ErrCodeInvalidEscape ErrorCode = "INVALID_ESCAPE"

	// ErrCodeInvalidNumber indicates an octal-looking, truncated or unparsable number.
	ErrCodeInvalidNumber ErrorCode = "INVALID_NUMBER"

	// ErrCodeUnexpectedChar indicates a character that starts no token.
	ErrCodeUnexpectedChar ErrorCode = "UNEXPECTED_CHARACTER"
)

// Parser error codes.
const (
	// ErrCodeUnexpectedToken indicates a token that cannot start or continue a value.
	ErrCodeUnexpectedToken ErrorCode = "UNEXPECTED_TOKEN"

	// ErrCodeUnexpectedEOF indicates input that ends where a value is required.
	ErrCodeUnexpectedEOF ErrorCode = "UNEXPECTED_EOF"

	// ErrCodeUnclosed indicates an array, object or call missing its closing punctuator.
	ErrCodeUnclosed ErrorCode = "UNCLOSED_CONTAINER"
)

// Transformer error codes. ErrCodeInvalidKey is also raised by the parser
// for keys that are neither strings nor calls.
const (
	ErrCodeInvalidKey         ErrorCode = "INVALID_KEY"
	ErrCodeUnknownNode        ErrorCode = "UNKNOWN_NODE"
	ErrCodeUnknownConstructor ErrorCode = "UNKNOWN_CONSTRUCTOR"
	ErrCodeInvalidArgument    ErrorCode = "INVALID_ARGUMENT"
	ErrCodeUnresolvedRef      ErrorCode = "UNRESOLVED_REFERENCE"
	ErrCodeReconstruct        ErrorCode = "RECONSTRUCT_FAILED"
)

// Stringifier error codes.
const (
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"
	ErrCodeProjection      ErrorCode = "PROJECTION_FAILED"
)

// LexError reports malformed source text at a position.
type LexError struct {
	Code    ErrorCode
	Message string
	Pos     Position
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s (line %d, column %d)", e.Code, e.Message, e.Pos.Line, e.Pos.Column)
}

// ParseError reports a token the grammar does not allow.
type ParseError struct {
	Code    ErrorCode
	Message string
	Token   Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s (line %d, column %d)", e.Code, e.Message, e.Token.Pos.Line, e.Token.Pos.Column)
}

// TransformError reports an AST that cannot be turned into a value.
type TransformError struct {
	Code    ErrorCode
	Message string
	Path    string
	Err     error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
}

func (e *TransformError) Unwrap() error { return e.Err }

// StringifyError reports a value that has no text form.
type StringifyError struct {
	Code    ErrorCode
	Message string
	Path    string
	Err     error
}

func (e *StringifyError) Error() string {
	return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
}

func (e *StringifyError) Unwrap() error { return e.Err }

// IsLexError reports whether err is or wraps a LexError.
func IsLexError(err error) bool {
	var le *LexError
	return errors.As(err, &le)
}

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsTransformError reports whether err is or wraps a TransformError.
func IsTransformError(err error) bool {
	var te *TransformError
	return errors.As(err, &te)
}

func transformErr(code ErrorCode, path string, err error, format string, args ...any) *TransformError {
	return &TransformError{Code: code, Message: fmt.Sprintf(format, args...), Path: path, Err: err}
}
