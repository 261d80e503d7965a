package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// NetworkError represents a request that could not complete
type NetworkError struct {
	Op        string // Operation that failed (e.g., "markets", "coin list")
	Err       error  // Underlying error
	Retriable bool   // Whether a later load may succeed
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return e.Retriable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new retriable network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: true}
}

// NewFatalNetworkError creates a non-retriable network error
func NewFatalNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: false}
}

// ParseError reports a response whose shape does not match what the client expects.
// It always wraps ErrMalformedResponse.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return "parse " + e.Source + ": " + e.Err.Error()
}

func (e *ParseError) IsRetriable() bool {
	return true
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedResponse, e.Err}
}

// NewParseError creates a parse error for the given response source
func NewParseError(source string, err error) *ParseError {
	return &ParseError{Source: source, Err: err}
}

// StorageError is returned when the persistent store rejects a read or write.
// Callers recover by continuing in memory.
type StorageError struct {
	Op  string // "get" or "put"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + " [" + e.Key + "]: " + e.Err.Error()
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

// ValidationError rejects user input to the portfolio (never retriable)
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) IsRetriable() bool {
	return false
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrStorageUnavailable is wrapped by every StorageError.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrMalformedResponse is wrapped by every ParseError.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidAmount is returned when a holding amount is not a finite positive number.
	ErrInvalidAmount = errors.New("amount must be a finite positive number")

	// ErrUnknownCoin is returned when free text matches no coin name or symbol.
	ErrUnknownCoin = errors.New("unknown coin")

	// ErrIndexOutOfRange is returned when removing a portfolio row that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
)
