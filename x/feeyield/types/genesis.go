package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// AssetLedger is the per-denom reward accounting state: the 1e18-scaled
// reward-per-share accumulator and the total stake backing it.
type AssetLedger struct {
	Denom          string      `json:"denom"`
	RewardPerShare sdkmath.Int `json:"reward_per_share"`
	TotalShares    sdkmath.Int `json:"total_shares"`
}

// DepositorPosition is the per-(denom, depositor) stake and debt snapshot.
type DepositorPosition struct {
	Denom       string      `json:"denom"`
	Depositor   string      `json:"depositor"`
	StakeAmount sdkmath.Int `json:"stake_amount"`
	RewardDebt  sdkmath.Int `json:"reward_debt"`
}

// CustodyState is the per-denom count of share units held against the
// external custody venue.
type CustodyState struct {
	Denom      string      `json:"denom"`
	ShareUnits sdkmath.Int `json:"share_units"`
}

// FeeAccrual carries the informational fee counters for one denom. TotalFee
// only ever grows; OperatorFee resets to zero when the operator claims.
type FeeAccrual struct {
	Denom       string      `json:"denom"`
	TotalFee    sdkmath.Int `json:"total_fee"`
	OperatorFee sdkmath.Int `json:"operator_fee"`
}

// GenesisState is the full exported state of the feeyield module.
type GenesisState struct {
	Params        Params              `json:"params"`
	AssetLedgers  []AssetLedger       `json:"asset_ledgers"`
	Positions     []DepositorPosition `json:"positions"`
	CustodyStates []CustodyState      `json:"custody_states"`
	FeeAccruals   []FeeAccrual        `json:"fee_accruals"`
}

// DefaultGenesis returns an empty genesis state with default params.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:        DefaultParams(),
		AssetLedgers:  []AssetLedger{},
		Positions:     []DepositorPosition{},
		CustodyStates: []CustodyState{},
		FeeAccruals:   []FeeAccrual{},
	}
}

// Validate performs genesis state validation: non-negative amounts, debt
// never exceeding the claimable product, and per-denom total shares matching
// the sum of positions.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	scale := sdkmath.NewIntWithDecimal(1, 18)

	ledgers := make(map[string]AssetLedger, len(gs.AssetLedgers))
	for i, ledger := range gs.AssetLedgers {
		if ledger.Denom == "" {
			return fmt.Errorf("asset ledger at index %d has empty denom", i)
		}
		if _, ok := ledgers[ledger.Denom]; ok {
			return fmt.Errorf("duplicate asset ledger for denom %s", ledger.Denom)
		}
		if ledger.RewardPerShare.IsNil() || ledger.RewardPerShare.IsNegative() {
			return fmt.Errorf("asset ledger %s has invalid reward per share", ledger.Denom)
		}
		if ledger.TotalShares.IsNil() || ledger.TotalShares.IsNegative() {
			return fmt.Errorf("asset ledger %s has invalid total shares", ledger.Denom)
		}
		ledgers[ledger.Denom] = ledger
	}

	stakeSums := make(map[string]sdkmath.Int)
	seen := make(map[string]bool, len(gs.Positions))
	for i, pos := range gs.Positions {
		if pos.Denom == "" || pos.Depositor == "" {
			return fmt.Errorf("position at index %d missing denom or depositor", i)
		}
		key := pos.Denom + "/" + pos.Depositor
		if seen[key] {
			return fmt.Errorf("duplicate position for %s", key)
		}
		seen[key] = true

		if pos.StakeAmount.IsNil() || pos.StakeAmount.IsNegative() {
			return fmt.Errorf("position %s has invalid stake amount", key)
		}
		if pos.RewardDebt.IsNil() || pos.RewardDebt.IsNegative() {
			return fmt.Errorf("position %s has invalid reward debt", key)
		}

		ledger, ok := ledgers[pos.Denom]
		if !ok {
			return fmt.Errorf("position %s references unknown asset ledger", key)
		}

		// pending = stake*rps/SCALE - debt must be non-negative.
		accrued := pos.StakeAmount.Mul(ledger.RewardPerShare).Quo(scale)
		if pos.RewardDebt.GT(accrued) {
			return fmt.Errorf("position %s has reward debt %s exceeding accrued %s", key, pos.RewardDebt, accrued)
		}

		sum, ok := stakeSums[pos.Denom]
		if !ok {
			sum = sdkmath.ZeroInt()
		}
		stakeSums[pos.Denom] = sum.Add(pos.StakeAmount)
	}

	for denom, ledger := range ledgers {
		sum, ok := stakeSums[denom]
		if !ok {
			sum = sdkmath.ZeroInt()
		}
		if !ledger.TotalShares.Equal(sum) {
			return fmt.Errorf("asset ledger %s total shares %s do not match position sum %s", denom, ledger.TotalShares, sum)
		}
	}

	custodySeen := make(map[string]bool, len(gs.CustodyStates))
	for i, cs := range gs.CustodyStates {
		if cs.Denom == "" {
			return fmt.Errorf("custody state at index %d has empty denom", i)
		}
		if custodySeen[cs.Denom] {
			return fmt.Errorf("duplicate custody state for denom %s", cs.Denom)
		}
		custodySeen[cs.Denom] = true
		if cs.ShareUnits.IsNil() || cs.ShareUnits.IsNegative() {
			return fmt.Errorf("custody state %s has invalid share units", cs.Denom)
		}
	}

	accrualSeen := make(map[string]bool, len(gs.FeeAccruals))
	for i, fa := range gs.FeeAccruals {
		if fa.Denom == "" {
			return fmt.Errorf("fee accrual at index %d has empty denom", i)
		}
		if accrualSeen[fa.Denom] {
			return fmt.Errorf("duplicate fee accrual for denom %s", fa.Denom)
		}
		accrualSeen[fa.Denom] = true
		if fa.TotalFee.IsNil() || fa.TotalFee.IsNegative() {
			return fmt.Errorf("fee accrual %s has invalid total fee", fa.Denom)
		}
		if fa.OperatorFee.IsNil() || fa.OperatorFee.IsNegative() {
			return fmt.Errorf("fee accrual %s has invalid operator fee", fa.Denom)
		}
		if fa.OperatorFee.GT(fa.TotalFee) {
			return fmt.Errorf("fee accrual %s operator fee %s exceeds total fee %s", fa.Denom, fa.OperatorFee, fa.TotalFee)
		}
	}

	return nil
}
