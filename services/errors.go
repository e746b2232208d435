package services

import "errors"

var (
	// ErrSoldOut rejects a purchase before any network call when the
	// catalog shows no remaining tickets.
	ErrSoldOut = errors.New("purchase: no tickets available")

	// ErrPurchaseInFlight rejects a purchase while another attempt for
	// the same user and event is still outstanding.
	ErrPurchaseInFlight = errors.New("purchase: attempt already in flight")

	// ErrNotVerifiable rejects a verification request for a ticket that
	// is not confirmed or has no minted NFT.
	ErrNotVerifiable = errors.New("verify: ticket is not verifiable")

	// ErrRateFetch marks a pricing feed that is unreachable or returned
	// a payload missing the ledger asset.
	ErrRateFetch = errors.New("rates: pricing feed unavailable or malformed")

	// ErrEventNotFound marks a catalog lookup miss.
	ErrEventNotFound = errors.New("catalog: event not found")
)
