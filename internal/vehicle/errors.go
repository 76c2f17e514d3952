package vehicle

import "errors"

// Normalized southbound error codes. The dispatcher and the API map every
// service failure onto one of these so audit records and status messages
// stay stable across services.
var (
	// ErrUnavailable means the service could not be reached at all.
	ErrUnavailable = errors.New("UNAVAILABLE")
	// ErrRejected means the service answered with success=false.
	ErrRejected = errors.New("REJECTED")
	// ErrInvalidParameter means the request was refused locally before any
	// network call.
	ErrInvalidParameter = errors.New("BAD_REQUEST")
)

// ServiceError wraps a service failure with its origin for logging while
// unwrapping to the normalized code.
type ServiceError struct {
	Code    error  // normalized code, one of the sentinels above
	Service string // which service produced it
	Message string // service-provided error text, if any
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return e.Service + ": " + e.Code.Error()
	}
	return e.Service + ": " + e.Code.Error() + ": " + e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Code
}

// CodeOf returns the stable audit code for an error from this package.
func CodeOf(err error) string {
	switch {
	case err == nil:
		return "SUCCESS"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	case errors.Is(err, ErrInvalidParameter):
		return "BAD_REQUEST"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}
