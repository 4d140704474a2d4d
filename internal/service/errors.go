package service

import "errors"

var (
	// ErrMaxRetriesExceeded is returned when alias generation keeps colliding
	// with existing aliases.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating alias")
	// ErrLinkNotServable is returned when a redirect hits a link that is
	// disabled, expired or over its click limit.
	ErrLinkNotServable = errors.New("link is not servable")
	// ErrPasswordNotSet is returned when verifying a password against a link
	// that has none configured.
	ErrPasswordNotSet = errors.New("link has no password set")
	// ErrInvalidLinkPassword is returned when the supplied link password does
	// not match the stored hash.
	ErrInvalidLinkPassword = errors.New("invalid link password")
	// ErrStatusNotToggleable is returned when toggling a link that is expired
	// or over its click limit.
	ErrStatusNotToggleable = errors.New("link status cannot be toggled")
	// ErrPermissionDenied is returned when a user operates on a link or
	// referrer owned by someone else.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidCredentials is returned on login with a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned for malformed, expired or revoked access tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidFilter is returned for an unrecognized list filter column.
	ErrInvalidFilter = errors.New("invalid filter column")
	// ErrInvalidSort is returned for an unrecognized sort column or order.
	ErrInvalidSort = errors.New("invalid sort column")
	// ErrInvalidPeriod is returned for an unrecognized trend period.
	ErrInvalidPeriod = errors.New("invalid trend period")
)
