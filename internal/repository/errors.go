package repository

import "errors"

var (
	// ErrNotFound is returned when the addressed account does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateKey is returned when a write would violate username uniqueness.
	ErrDuplicateKey = errors.New("duplicate username")
	// ErrAlreadyRequested is returned when the requester is already queued on the recipient.
	ErrAlreadyRequested = errors.New("friend request already pending")
	// ErrRequestNotFound is returned when the requester is not in the recipient's friendRequests.
	ErrRequestNotFound = errors.New("friend request not found")
)
