// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Notation errors
	CodeNotationEmpty       Code = "NOTATION_EMPTY"
	CodeNotationInvalid     Code = "NOTATION_INVALID"
	CodeNotationInvalidDice Code = "NOTATION_INVALID_DICE"
	CodeNotationOutOfRange  Code = "NOTATION_OUT_OF_RANGE"
	CodeNotationMalformed   Code = "NOTATION_MALFORMED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeNotationEmpty,
		CodeNotationInvalid,
		CodeNotationInvalidDice,
		CodeNotationOutOfRange,
		CodeNotationMalformed:
		return codes.InvalidArgument

	default:
		return codes.Internal
	}
}
