package poolcache

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a step of the pipeline failed.
type ErrorKind int

const (
	// KindNoSecretSelector: the selector yielded no secret reference.
	KindNoSecretSelector ErrorKind = iota + 1
	// KindSecretFetchFailed: the secret store call failed or timed out.
	KindSecretFetchFailed
	// KindSecretParseFailed: the secret value is not a JSON object.
	KindSecretParseFailed
	// KindIncompleteSecretPayload: a required credential field is missing.
	KindIncompleteSecretPayload
	// KindEnvURLMissing: the environment variable is not set.
	KindEnvURLMissing
	// KindPoolConnectFailed: the driver rejected the resolved URL.
	KindPoolConnectFailed
)

// Sentinel errors, one per ErrorKind plus a few for conditions outside the
// taxonomy. Match them with errors.Is.
var (
	ErrNoSecretSelector        = errors.New("no secret selected")
	ErrSecretFetchFailed       = errors.New("secret fetch failed")
	ErrSecretParseFailed       = errors.New("secret payload is not parseable")
	ErrIncompleteSecretPayload = errors.New("secret payload is incomplete")
	ErrEnvURLMissing           = errors.New("environment url missing")
	ErrPoolConnectFailed       = errors.New("pool connect failed")

	// ErrNoSource indicates every source in a resolution chain failed.
	ErrNoSource = errors.New("no source produced a connection url")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedScheme indicates no driver is registered for a URL scheme.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")

	// ErrUsage indicates invalid command-line arguments or flags.
	ErrUsage = errors.New("usage error")
)

var kindNames = map[ErrorKind]string{
	KindNoSecretSelector:        "NoSecretSelector",
	KindSecretFetchFailed:       "SecretFetchFailed",
	KindSecretParseFailed:       "SecretParseFailed",
	KindIncompleteSecretPayload: "IncompleteSecretPayload",
	KindEnvURLMissing:           "EnvUrlMissing",
	KindPoolConnectFailed:       "PoolConnectFailed",
}

var kindSentinels = map[ErrorKind]error{
	KindNoSecretSelector:        ErrNoSecretSelector,
	KindSecretFetchFailed:       ErrSecretFetchFailed,
	KindSecretParseFailed:       ErrSecretParseFailed,
	KindIncompleteSecretPayload: ErrIncompleteSecretPayload,
	KindEnvURLMissing:           ErrEnvURLMissing,
	KindPoolConnectFailed:       ErrPoolConnectFailed,
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinel returns the sentinel error matching the kind, or nil for an unknown kind.
func (k ErrorKind) Sentinel() error {
	return kindSentinels[k]
}

// Recoverable reports whether a failure of this kind falls through to the
// next source instead of ending the attempt.
func (k ErrorKind) Recoverable() bool {
	return k != KindPoolConnectFailed
}

// Error is a classified failure produced by one step of the pipeline.
// Its message names the source and kind and never contains secret values.
type Error struct {
	Kind   ErrorKind
	Source string
	Err    error
}

// NewError builds an *Error. cause may be nil.
func NewError(kind ErrorKind, source string, cause error) *Error {
	return &Error{Kind: kind, Source: source, Err: cause}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.Sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of the first *Error in err's tree, or zero if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrPoolConnectFailed), errors.Is(err, ErrUnsupportedScheme):
		return ExitConnectionError
	case errors.Is(err, ErrNoSource):
		return ExitUnresolved
	}

	return ExitGeneralError
}
