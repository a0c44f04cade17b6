package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCodeGRPCCode(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeNotationEmpty, codes.InvalidArgument},
		{CodeNotationInvalid, codes.InvalidArgument},
		{CodeNotationInvalidDice, codes.InvalidArgument},
		{CodeNotationOutOfRange, codes.InvalidArgument},
		{CodeNotationMalformed, codes.InvalidArgument},
		{CodeUnknown, codes.Internal},
		{Code("SOMETHING_ELSE"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.GRPCCode(); got != tt.want {
				t.Fatalf("GRPCCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndIsCode(t *testing.T) {
	cause := errors.New("lex failure")
	wrapped := fmt.Errorf("roll: %w", Wrap(CodeNotationInvalid, cause, nil))

	if got := GetCode(wrapped); got != CodeNotationInvalid {
		t.Fatalf("GetCode() = %q, want %q", got, CodeNotationInvalid)
	}
	if !IsCode(wrapped, CodeNotationInvalid) {
		t.Fatal("expected IsCode to match wrapped code")
	}
	if IsCode(wrapped, CodeNotationEmpty) {
		t.Fatal("expected IsCode to reject other codes")
	}
	if got := GetCode(cause); got != CodeUnknown {
		t.Fatalf("GetCode(plain) = %q, want %q", got, CodeUnknown)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected cause to stay reachable")
	}
	if !errors.Is(wrapped, Wrap(CodeNotationInvalid, errors.New("other message"), nil)) {
		t.Fatal("expected errors.Is to compare by code")
	}
}

func TestHandleErrorDomainError(t *testing.T) {
	err := HandleError(Wrap(CodeNotationInvalid, errors.New("lex: unexpected x"), map[string]string{
		"Expression": "3x",
	}), "")

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected status error, got %v", err)
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("code = %v, want InvalidArgument", st.Code())
	}
	if st.Message() != "lex: unexpected x" {
		t.Fatalf("message = %q", st.Message())
	}

	var (
		info      *errdetails.ErrorInfo
		localized *errdetails.LocalizedMessage
	)
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			info = d
		case *errdetails.LocalizedMessage:
			localized = d
		}
	}
	if info == nil || info.GetReason() != string(CodeNotationInvalid) || info.GetDomain() != Domain {
		t.Fatalf("error info = %+v", info)
	}
	if info.GetMetadata()["Expression"] != "3x" {
		t.Fatalf("metadata = %v", info.GetMetadata())
	}
	if localized == nil {
		t.Fatal("expected localized message")
	}
	if localized.GetLocale() != DefaultLocale {
		t.Fatalf("locale = %q, want %q", localized.GetLocale(), DefaultLocale)
	}
	if localized.GetMessage() != "3x is not valid dice notation." {
		t.Fatalf("localized = %q", localized.GetMessage())
	}
}

func TestHandleErrorUnknownLocaleFallsBack(t *testing.T) {
	err := HandleError(Wrap(CodeNotationEmpty, nil, nil), "xx-YY")
	st, _ := status.FromError(err)
	for _, detail := range st.Details() {
		if d, ok := detail.(*errdetails.LocalizedMessage); ok {
			if d.GetLocale() != DefaultLocale {
				t.Fatalf("locale = %q, want %q", d.GetLocale(), DefaultLocale)
			}
			return
		}
	}
	t.Fatal("expected localized message detail")
}

func TestHandleErrorPlainError(t *testing.T) {
	if HandleError(nil, "") != nil {
		t.Fatal("expected nil for nil error")
	}
	st, _ := status.FromError(HandleError(errors.New("boom"), ""))
	if st.Code() != codes.Internal {
		t.Fatalf("code = %v, want Internal", st.Code())
	}
	if st.Message() == "boom" {
		t.Fatal("expected internal detail to stay hidden")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "cause text", err: Wrap(CodeNotationMalformed, errors.New("group: dangling operator"), nil), want: "group: dangling operator"},
		{name: "code without cause", err: Wrap(CodeNotationEmpty, nil, nil), want: string(CodeNotationEmpty)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
			st, _ := status.FromError(HandleError(tt.err, ""))
			if st.Message() != tt.want {
				t.Fatalf("status message = %q, want %q", st.Message(), tt.want)
			}
		})
	}
}
