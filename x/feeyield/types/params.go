package types

import "fmt"

// DefaultFeeDivisor charges 0.1% of the swap input: fee = amountIn / 1000,
// integer floor division. Truncation favors the pool.
const DefaultFeeDivisor uint64 = 1000

// DefaultOperatorShareDivisor sends half of each fee to the operator:
// operatorFee = fee / 2, floor. The remainder implicitly favors depositors.
const DefaultOperatorShareDivisor uint64 = 2

// Params configures the fee-yield module for one deployed pool. Exactly two
// denoms are supported per deployment; each carries fully independent
// accounting state.
type Params struct {
	// PoolDenoms are the two assets of the attached swap pool. Index 0 is the
	// denom charged when a swap sells asset zero (zeroForOne), index 1
	// otherwise.
	PoolDenoms []string `json:"pool_denoms"`

	// FeeDivisor is the divisor applied to the swap input amount to compute
	// the captured fee.
	FeeDivisor uint64 `json:"fee_divisor"`

	// OperatorShareDivisor is the divisor applied to the fee to compute the
	// operator's portion.
	OperatorShareDivisor uint64 `json:"operator_share_divisor"`
}

// DefaultParams returns params with the standard 0.1% fee and 50/50 split.
// Pool denoms must still be set before the params validate.
func DefaultParams() Params {
	return Params{
		PoolDenoms:           []string{},
		FeeDivisor:           DefaultFeeDivisor,
		OperatorShareDivisor: DefaultOperatorShareDivisor,
	}
}

// NewParams builds params for a concrete pool pair with default divisors.
func NewParams(denom0, denom1 string) Params {
	return Params{
		PoolDenoms:           []string{denom0, denom1},
		FeeDivisor:           DefaultFeeDivisor,
		OperatorShareDivisor: DefaultOperatorShareDivisor,
	}
}

// Validate performs basic parameter validation.
func (p Params) Validate() error {
	if len(p.PoolDenoms) != 2 {
		return fmt.Errorf("exactly two pool denoms required, got %d", len(p.PoolDenoms))
	}
	for i, denom := range p.PoolDenoms {
		if denom == "" {
			return fmt.Errorf("pool denom at index %d is empty", i)
		}
	}
	if p.PoolDenoms[0] == p.PoolDenoms[1] {
		return fmt.Errorf("pool denoms must be distinct, both are %s", p.PoolDenoms[0])
	}
	if p.FeeDivisor == 0 {
		return fmt.Errorf("fee divisor must be positive")
	}
	if p.OperatorShareDivisor == 0 {
		return fmt.Errorf("operator share divisor must be positive")
	}
	return nil
}

// SupportsDenom reports whether denom belongs to the configured pool pair.
func (p Params) SupportsDenom(denom string) bool {
	for _, d := range p.PoolDenoms {
		if d == denom {
			return true
		}
	}
	return false
}

// FeeDenom resolves the charged denom from the swap direction: selling asset
// zero charges the fee in asset zero, and vice versa.
func (p Params) FeeDenom(zeroForOne bool) string {
	if zeroForOne {
		return p.PoolDenoms[0]
	}
	return p.PoolDenoms[1]
}
