package eth

import "errors"

// Kind is a stable category for programmatic error handling.
// Callers should branch on Kind rather than matching error strings.
type Kind string

const (
	KindInvalidAmount        Kind = "InvalidAmount"
	KindInvalidAddress       Kind = "InvalidAddress"
	KindInvalidKey           Kind = "InvalidKey"
	KindDecryptionFailed     Kind = "DecryptionFailed"
	KindInvalidMnemonic      Kind = "InvalidMnemonic"
	KindNoDefaultAccount     Kind = "NoDefaultAccount"
	KindAmbiguousCredentials Kind = "AmbiguousCredentials"
	KindInsufficientBalance  Kind = "InsufficientBalance"
	KindSubmissionFailed     Kind = "SubmissionFailed"
	KindTimeout              Kind = "Timeout"
	KindConnection           Kind = "Connection"
)

// Error is the structured error returned by every exported operation.
//
// Stage names the pipeline step that failed ("amount", "credentials",
// "submit", ...). Message is for humans; do not match on it.
//
// A KindTimeout error means the transaction may already be on chain. Look it
// up by Hash before resubmitting.
type Error struct {
	Kind    Kind
	Stage   string
	Message string
	Hash    string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Stage != "" {
		msg = e.Stage + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// withStage tags err with the stage it surfaced from. The first stage set wins.
func withStage(err error, stage string) error {
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: KindSubmissionFailed, Stage: stage, Message: "unexpected failure", Cause: err}
	}
	if e.Stage == "" {
		e.Stage = stage
	}
	return err
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
