package database

import "errors"

var (
	// ErrLinkNotFound is returned when no non-deleted link matches the
	// requested id or alias.
	ErrLinkNotFound = errors.New("link not found")
	// ErrAliasExists is returned when an attempt is made to store a link
	// under an alias already taken by a non-deleted link.
	ErrAliasExists = errors.New("alias already exists")
	// ErrUserNotFound is returned when no non-deleted user matches the
	// requested id or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when registering with an email already in use.
	ErrEmailExists = errors.New("email already exists")
	// ErrReferrerNotFound is returned when no non-deleted referrer matches
	// the requested id.
	ErrReferrerNotFound = errors.New("referrer not found")
)
