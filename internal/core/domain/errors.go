package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials       = errors.New("invalid username or password")
	ErrApplicationNotAuthorized = errors.New("application not authorized for this account")
	ErrInvalidToken             = errors.New("invalid token")
	ErrDuplicateIdentifier      = errors.New("username or email already in use")
	ErrInvalidBooking           = errors.New("invalid booking")
	ErrStoreUnavailable         = errors.New("store unavailable")
	ErrInvalidPagination        = errors.New("page and page_size must be positive")
	ErrPasswordTooLong          = errors.New("password exceeds 72 bytes")
	ErrAccountNotFound          = errors.New("account not found")
	ErrInvalidAccount           = errors.New("invalid account")
)

// Stable machine-readable codes, one per sentinel.
const (
	CodeInvalidCredentials       = "INVALID_CREDENTIALS"
	CodeApplicationNotAuthorized = "APPLICATION_NOT_AUTHORIZED"
	CodeInvalidToken             = "INVALID_TOKEN"
	CodeDuplicateIdentifier      = "DUPLICATE_IDENTIFIER"
	CodeInvalidBooking           = "INVALID_BOOKING"
	CodeStoreUnavailable         = "STORE_UNAVAILABLE"
	CodeInvalidPagination        = "INVALID_PAGINATION"
	CodePasswordTooLong          = "PASSWORD_TOO_LONG"
	CodeAccountNotFound          = "ACCOUNT_NOT_FOUND"
	CodeInvalidAccount           = "INVALID_ACCOUNT"
	CodeInternal                 = "INTERNAL"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidCredentials, CodeInvalidCredentials},
	{ErrApplicationNotAuthorized, CodeApplicationNotAuthorized},
	{ErrInvalidToken, CodeInvalidToken},
	{ErrDuplicateIdentifier, CodeDuplicateIdentifier},
	{ErrInvalidBooking, CodeInvalidBooking},
	{ErrStoreUnavailable, CodeStoreUnavailable},
	{ErrInvalidPagination, CodeInvalidPagination},
	{ErrPasswordTooLong, CodePasswordTooLong},
	{ErrAccountNotFound, CodeAccountNotFound},
	{ErrInvalidAccount, CodeInvalidAccount},
}

// Code returns the stable code of the first sentinel err wraps, or CodeInternal.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// Errorf wraps sentinel with a detail message while keeping errors.Is working.
func Errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
