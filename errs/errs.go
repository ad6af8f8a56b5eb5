package errs

import (
	"errors"
	"fmt"
)

// DomainError is the typed result every lifecycle or query violation is
// surfaced as. Callers branch on Kind; Message is safe to show to users
// (raw store errors are never placed here).
type DomainError struct {
	Kind    string
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

const (
	KindNotFound          = "NOT_FOUND"
	KindForbidden         = "FORBIDDEN"
	KindUnauthorized      = "UNAUTHORIZED"
	KindInvalidArgument   = "INVALID_ARGUMENT"
	KindInvalidTransition = "INVALID_TRANSITION"
	KindInvalidAssetType  = "INVALID_ASSET_TYPE"
	KindOutOfStock        = "OUT_OF_STOCK"
	KindStoreUnavailable  = "STORE_UNAVAILABLE"
)

func NewNotFound(msg string) error {
	return &DomainError{Kind: KindNotFound, Message: msg}
}

func NewForbidden(msg string) error {
	return &DomainError{Kind: KindForbidden, Message: msg}
}

func NewUnauthorized(msg string) error {
	return &DomainError{Kind: KindUnauthorized, Message: msg}
}

func NewInvalidArgument(msg string) error {
	return &DomainError{Kind: KindInvalidArgument, Message: msg}
}

func NewInvalidTransition(msg string) error {
	return &DomainError{Kind: KindInvalidTransition, Message: msg}
}

func NewInvalidAssetType(msg string) error {
	return &DomainError{Kind: KindInvalidAssetType, Message: msg}
}

func NewOutOfStock(msg string) error {
	return &DomainError{Kind: KindOutOfStock, Message: msg}
}

// NewStoreUnavailable wraps a transient backing-store failure. The cause is
// kept for logging but never serialized to callers.
func NewStoreUnavailable(cause error) error {
	return &DomainError{Kind: KindStoreUnavailable, Message: "store temporarily unavailable", cause: cause}
}

// Kind extracts the error kind, or empty string for non-domain errors.
func Kind(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind string) bool {
	return Kind(err) == kind
}
