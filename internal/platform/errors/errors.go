package errors

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain is the ErrorInfo domain for dice notation errors.
const Domain = "github.com/louisbranch/dicenotation"

// Error classifies an underlying failure with a Code. Metadata fills the
// localized message template for that code.
type Error struct {
	Code     Code
	Metadata map[string]string
	Cause    error
}

// Wrap classifies cause under code. The cause text becomes the internal
// status message; it is never shown to users.
func Wrap(code Code, cause error, metadata map[string]string) *Error {
	return &Error{Code: code, Metadata: metadata, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code)
	}
	return e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// grpcStatus attaches ErrorInfo and the localized message to a status
// carrying the internal message.
func (e *Error) grpcStatus(locale, userMessage string) *status.Status {
	st := status.New(e.Code.GRPCCode(), e.Error())
	detailed, err := st.WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  locale,
			Message: userMessage,
		},
	)
	if err != nil {
		return st
	}
	return detailed
}
