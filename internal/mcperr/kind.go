// Package mcperr defines the typed failure kinds shared across every
// layer of the multiplexer, so callers can branch on Kind rather than
// string-matching error messages.
package mcperr

// Kind enumerates the failure categories named in the error handling
// design: wire-level codec problems, connection/transport problems,
// resilience rejections, and the higher layers' own classifications.
type Kind string

const (
	KindParse            Kind = "parse"
	KindInvalidRequest    Kind = "invalid-request"
	KindMethodNotFound    Kind = "method-not-found"
	KindInvalidParams     Kind = "invalid-params"
	KindInternal          Kind = "internal"
	KindTimeout           Kind = "timeout"
	KindTransport         Kind = "transport"
	KindConnectionClosed  Kind = "connection-closed"
	KindRateLimited       Kind = "rate-limited"
	KindCircuitOpen       Kind = "circuit-open"
	KindAuth              Kind = "auth"
	KindForbidden         Kind = "forbidden"
	KindContentPolicy     Kind = "content-policy"
	KindNetwork           Kind = "network"
	KindValidation        Kind = "validation"
	KindPlanning          Kind = "planning"
	KindDependency        Kind = "dependency"

	// KindBadRequest and KindGeneric are specific to the LanguageModel
	// capability's vendor error-code mapping: 400 that isn't a
	// safety block, and anything not otherwise classified.
	KindBadRequest Kind = "bad-request"
	KindGeneric    Kind = "generic"
)

// Failure is the typed error value passed around instead of raw errors
// whenever a caller needs to branch on what went wrong.
type Failure struct {
	Kind    Kind
	Message string
	Cause   error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return f.Message + ": " + f.Cause.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Cause }

// New builds a Failure with no wrapped cause.
func New(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// Wrap builds a Failure carrying cause as its Unwrap target.
func Wrap(kind Kind, message string, cause error) *Failure {
	return &Failure{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Failure,
// otherwise returns ok=false.
func KindOf(err error) (Kind, bool) {
	var f *Failure
	if asFailure(err, &f) {
		return f.Kind, true
	}
	return "", false
}

func asFailure(err error, target **Failure) bool {
	for err != nil {
		if f, ok := err.(*Failure); ok {
			*target = f
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
