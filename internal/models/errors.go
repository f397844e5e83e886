package models

import "errors"

// Common errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned on a unique violation (slug, email, username)
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrReferenced is returned when a foreign key blocks a write or delete
	ErrReferenced = errors.New("resource is referenced by other records")

	// ErrNoFieldsToUpdate is returned when no fields are provided for an update
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrInvalidUUID is returned when a UUID is invalid
	ErrInvalidUUID = errors.New("invalid UUID")

	// ErrInvalidStatusTransition is returned when a contact status change is not allowed
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrContactClosed is returned when a closed submission is modified
	ErrContactClosed = errors.New("contact submission is closed")

	// ErrInvalidCredentials is returned for any failed login
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInactiveUser is returned when a deactivated account authenticates
	ErrInactiveUser = errors.New("user is inactive")

	// ErrCannotDeleteSelf is returned when a user tries to delete their own account
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")

	// ErrInvalidEmail is returned when an email is not a valid address after trimming
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidToken is returned for a bad unsubscribe or auth token
	ErrInvalidToken = errors.New("invalid token")

	// ErrInactivePrimary is returned when an office would be primary and inactive
	ErrInactivePrimary = errors.New("an inactive office cannot be the primary office")

	// ErrPublishAtRequired is returned when scheduling news without a publish time
	ErrPublishAtRequired = errors.New("publish_at is required when status is scheduled")
)
