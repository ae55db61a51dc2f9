package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrNoBids            = errors.New("no bids found for listing")
	ErrDuplicateUsername = errors.New("username already taken")
)

// bidding rules
var (
	ErrOwnerConflict    = errors.New("owner cannot bid on own listing")
	ErrInvalidAmount    = errors.New("invalid bid amount")
	ErrBelowStartingBid = errors.New("bid below starting bid")
	ErrBelowHighestBid  = errors.New("bid not above highest bid")
	ErrListingClosed    = errors.New("listing is closed")
)

// listings, comments and accounts
var (
	ErrInvalidListing      = errors.New("invalid listing")
	ErrEmptyComment        = errors.New("comment is empty")
	ErrUnauthenticated     = errors.New("not authenticated")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRegistration = errors.New("invalid registration")
)

// FieldError describes one invalid field of a listing form
type FieldError struct {
	Field   string
	Problem string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Problem
}

// Unwrap lets errors.Is match FieldError against ErrInvalidListing
func (e *FieldError) Unwrap() error {
	return ErrInvalidListing
}
