package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// BeneficiaryTagLen is the fixed width of an encoded beneficiary tag. The
	// tag travels as opaque swap metadata through the settlement layer, which
	// only handles fixed-size fields.
	BeneficiaryTagLen = 32

	// beneficiaryAddrLen is the account address width inside a tag. The
	// address occupies the trailing bytes; the leading bytes are zero padding.
	beneficiaryAddrLen = 20
)

// EncodeBeneficiaryTag encodes an account address into a fixed-width tag.
// Routers swapping on behalf of end users set the tag to the end user's
// address so reward-ledger credit lands with the beneficiary, not the sender.
func EncodeBeneficiaryTag(addr sdk.AccAddress) ([]byte, error) {
	if len(addr) != beneficiaryAddrLen {
		return nil, fmt.Errorf("%w: address length %d, want %d", ErrInvalidBeneficiaryTag, len(addr), beneficiaryAddrLen)
	}
	tag := make([]byte, BeneficiaryTagLen)
	copy(tag[BeneficiaryTagLen-beneficiaryAddrLen:], addr)
	return tag, nil
}

// DecodeBeneficiaryTag decodes a fixed-width tag back into an account
// address. The leading padding must be zero.
func DecodeBeneficiaryTag(tag []byte) (sdk.AccAddress, error) {
	if len(tag) != BeneficiaryTagLen {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrInvalidBeneficiaryTag, len(tag), BeneficiaryTagLen)
	}
	for i := 0; i < BeneficiaryTagLen-beneficiaryAddrLen; i++ {
		if tag[i] != 0 {
			return nil, fmt.Errorf("%w: non-zero padding at byte %d", ErrInvalidBeneficiaryTag, i)
		}
	}

	addr := sdk.AccAddress(tag[BeneficiaryTagLen-beneficiaryAddrLen:])
	zero := true
	for _, b := range addr {
		if b != 0 {
			zero = false
			break
		}
	}
	if zero {
		return nil, fmt.Errorf("%w: tag is all zeros", ErrInvalidBeneficiaryTag)
	}
	return addr, nil
}
