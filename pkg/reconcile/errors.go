package reconcile

import "errors"

// ErrInvalidSignature is returned for webhooks whose signature does not verify.
// Callers must not tell the sender which part of the check failed.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ErrUnknownOrder is returned when no payment session has the order code.
var ErrUnknownOrder = errors.New("unknown order code")

// ErrAmountTooSmall is returned when the paid amount converts to zero credits.
var ErrAmountTooSmall = errors.New("paid amount is below the price of one credit")
