package types

import "errors"

var (
	// ErrNoShares is returned when a reward injection targets a denom with
	// zero total stake. Rewards cannot be attributed without at least one
	// depositor; clamping to zero would silently misattribute them.
	ErrNoShares = errors.New("no stake shares exist for denom")

	// ErrNoCustodyShares is returned when a share price is requested for a
	// denom with zero custody share units outstanding.
	ErrNoCustodyShares = errors.New("no custody share units exist for denom")

	// ErrInsufficientShares is returned when a custody withdrawal asks for
	// more share units than are outstanding.
	ErrInsufficientShares = errors.New("insufficient custody share units")

	// ErrUnauthorized is returned when a caller other than the module
	// authority invokes an operator-only operation.
	ErrUnauthorized = errors.New("caller is not the module authority")

	// ErrUnsupportedDenom is returned when an operation names a denom outside
	// the configured pool pair.
	ErrUnsupportedDenom = errors.New("denom is not part of the configured pool")

	// ErrInvalidBeneficiaryTag is returned when a beneficiary tag fails to
	// decode to an account address.
	ErrInvalidBeneficiaryTag = errors.New("invalid beneficiary tag")
)
