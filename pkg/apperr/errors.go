package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that decide presentation.
type Kind int

const (
	KindAuth Kind = iota + 1
	KindValidation
	KindGateway
	KindDomain
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindGateway:
		return "gateway"
	case KindDomain:
		return "domain"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrNotFound           = errors.New("not found")
	ErrEmptyCart          = errors.New("cart is empty")
)

// Error carries a kind, the failing operation and an optional cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Auth(op, message string, err error) error {
	return &Error{Kind: KindAuth, Op: op, Message: message, Err: err}
}

func Validation(op, message string) error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

func Gateway(op string, err error) error {
	return &Error{Kind: KindGateway, Op: op, Message: "gateway call failed", Err: err}
}

func Domain(op, message string, err error) error {
	return &Error{Kind: KindDomain, Op: op, Message: message, Err: err}
}

// KindOf returns the kind of err, or 0 when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsAuth(err error) bool       { return KindOf(err) == KindAuth }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsGateway(err error) bool    { return KindOf(err) == KindGateway }
func IsDomain(err error) bool     { return KindOf(err) == KindDomain }
