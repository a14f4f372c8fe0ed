package domain

import "errors"

var (
	ErrNoDocuments      = errors.New("no pdf documents found in message")
	ErrMalformedMessage = errors.New("malformed email structure")
	ErrNoRecipient      = errors.New("no recipient address could be resolved")
	ErrEmptyMessage     = errors.New("empty raw message")
	ErrDeliveryFailed   = errors.New("result delivery failed")
)
