package oidc

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrorKind classifies every error returned by the SDK.
type ErrorKind string

const (
	InvalidArgument     ErrorKind = "invalid_argument"
	UnsupportedProtocol ErrorKind = "unsupported_protocol"
	MissingSecret       ErrorKind = "missing_secret"
	CryptoError         ErrorKind = "crypto_error"
	TokenInvalid        ErrorKind = "token_invalid"
	Timeout             ErrorKind = "timeout"
	Transport           ErrorKind = "transport"
	APIError            ErrorKind = "api_error"
)

// TokenInvalidReason refines a TokenInvalid error.
type TokenInvalidReason string

const (
	ReasonBadSignature  TokenInvalidReason = "bad_signature"
	ReasonExpired       TokenInvalidReason = "expired"
	ReasonNotYetValid   TokenInvalidReason = "not_yet_valid"
	ReasonWrongAudience TokenInvalidReason = "wrong_audience"
	ReasonUnknownKeyID  TokenInvalidReason = "unknown_key_id"
	ReasonMalformed     TokenInvalidReason = "malformed"
)

var (
	ErrInvalidArgument = func() *Error {
		return &Error{Kind: InvalidArgument}
	}
	ErrUnsupportedProtocol = func() *Error {
		return &Error{Kind: UnsupportedProtocol}
	}
	ErrMissingSecret = func() *Error {
		return &Error{
			Kind:        MissingSecret,
			Description: "the selected client authentication method requires a client secret",
		}
	}
	ErrCrypto = func() *Error {
		return &Error{Kind: CryptoError}
	}
	ErrTokenInvalid = func(reason TokenInvalidReason) *Error {
		return &Error{
			Kind:   TokenInvalid,
			Reason: reason,
		}
	}
	ErrTimeout = func() *Error {
		return &Error{Kind: Timeout}
	}
	ErrTransport = func() *Error {
		return &Error{Kind: Transport}
	}
	ErrAPI = func(code int, message string) *Error {
		return &Error{
			Kind:        APIError,
			Code:        code,
			Description: message,
		}
	}
)

// Error is the single error type of the SDK.
// Code and Description carry the server's code and message for APIError.
type Error struct {
	Parent      error              `json:"-"`
	Kind        ErrorKind          `json:"kind"`
	Reason      TokenInvalidReason `json:"reason,omitempty"`
	Code        int                `json:"code,omitempty"`
	Description string             `json:"message,omitempty"`
}

func (e *Error) Error() string {
	message := "Kind=" + string(e.Kind)
	if e.Reason != "" {
		message += " Reason=" + string(e.Reason)
	}
	if e.Code != 0 {
		message += fmt.Sprintf(" Code=%d", e.Code)
	}
	if e.Description != "" {
		message += " Description=" + e.Description
	}
	if e.Parent != nil {
		message += " Parent=" + e.Parent.Error()
	}
	return message
}

func (e *Error) Unwrap() error {
	return e.Parent
}

// Is returns true if target is of type *Error with the same Kind.
// Reason, Code and Description are only compared when set on the target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind &&
		(e.Reason == t.Reason || t.Reason == "") &&
		(e.Code == t.Code || t.Code == 0) &&
		(e.Description == t.Description || t.Description == "")
}

func (e *Error) WithParent(err error) *Error {
	e.Parent = err
	return e
}

func (e *Error) WithDescription(desc string, args ...any) *Error {
	e.Description = fmt.Sprintf(desc, args...)
	return e
}

// LogValue returns a grouped slog value of the error,
// so the message of a wrapped API error survives structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 5)
	if e.Parent != nil {
		attrs = append(attrs, slog.Any("parent", e.Parent))
	}
	if e.Description != "" {
		attrs = append(attrs, slog.String("description", e.Description))
	}
	if e.Kind != "" {
		attrs = append(attrs, slog.String("kind", string(e.Kind)))
	}
	if e.Reason != "" {
		attrs = append(attrs, slog.String("reason", string(e.Reason)))
	}
	if e.Code != 0 {
		attrs = append(attrs, slog.Int("code", e.Code))
	}
	return slog.GroupValue(attrs...)
}

// KindOf returns the Kind of err when it is or wraps an *Error,
// and an empty kind otherwise.
func KindOf(err error) ErrorKind {
	target := new(Error)
	if errors.As(err, &target) {
		return target.Kind
	}
	return ""
}

// Target errors for errors.Is matching on the kind only.
var (
	ErrKindInvalidArgument     error = &Error{Kind: InvalidArgument}
	ErrKindUnsupportedProtocol error = &Error{Kind: UnsupportedProtocol}
	ErrKindMissingSecret       error = &Error{Kind: MissingSecret}
	ErrKindCrypto              error = &Error{Kind: CryptoError}
	ErrKindTokenInvalid        error = &Error{Kind: TokenInvalid}
	ErrKindTimeout             error = &Error{Kind: Timeout}
	ErrKindTransport           error = &Error{Kind: Transport}
	ErrKindAPI                 error = &Error{Kind: APIError}
)
