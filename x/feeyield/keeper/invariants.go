package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/types"
)

// RegisterInvariants registers all module invariants with the invariant registry.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "total-shares-consistency", TotalSharesConsistencyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "non-negative-pending", NonNegativePendingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "custody-shares-non-negative", CustodySharesNonNegativeInvariant(k))
	ir.RegisterRoute(types.ModuleName, "accrual-consistency", AccrualConsistencyInvariant(k))
}

// AllInvariants runs all invariants of the feeyield module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		invariants := []sdk.Invariant{
			TotalSharesConsistencyInvariant(k),
			NonNegativePendingInvariant(k),
			CustodySharesNonNegativeInvariant(k),
			AccrualConsistencyInvariant(k),
		}

		for _, inv := range invariants {
			if msg, broken := inv(ctx); broken {
				return msg, broken
			}
		}
		return "", false
	}
}

// TotalSharesConsistencyInvariant checks that the per-denom total shares
// counter equals the sum of all depositor stakes for that denom.
func TotalSharesConsistencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		sums := make(map[string]sdkmath.Int)
		_ = k.Stakes.Walk(ctx, nil, func(key collections.Pair[string, string], stake sdkmath.Int) (bool, error) {
			denom := key.K1()
			sum, ok := sums[denom]
			if !ok {
				sum = sdkmath.ZeroInt()
			}
			sums[denom] = sum.Add(stake)
			return false, nil
		})

		_ = k.TotalShares.Walk(ctx, nil, func(denom string, total sdkmath.Int) (bool, error) {
			sum, ok := sums[denom]
			if !ok {
				sum = sdkmath.ZeroInt()
			}
			if !total.Equal(sum) {
				msg += fmt.Sprintf("INVARIANT BROKEN: denom %s total shares %s != stake sum %s\n", denom, total, sum)
				broken = true
			}
			delete(sums, denom)
			return false, nil
		})

		// Stakes for a denom with no total-shares entry at all.
		for denom, sum := range sums {
			if !sum.IsZero() {
				msg += fmt.Sprintf("INVARIANT BROKEN: denom %s has stake sum %s but no total shares entry\n", denom, sum)
				broken = true
			}
		}

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "total-shares-consistency", msg), true
		}
		return "", false
	}
}

// NonNegativePendingInvariant checks that no position's reward debt exceeds
// its accrued product, i.e. every pending reward is non-negative.
func NonNegativePendingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		_ = k.Stakes.Walk(ctx, nil, func(key collections.Pair[string, string], stake sdkmath.Int) (bool, error) {
			denom, depositor := key.K1(), key.K2()

			if stake.IsNegative() {
				msg += fmt.Sprintf("INVARIANT BROKEN: position %s/%s has negative stake %s\n", denom, depositor, stake)
				broken = true
				return false, nil
			}

			rps, err := getIntOrZero(ctx, k.RewardPerShare, denom)
			if err != nil {
				return true, err
			}
			debt, err := getPairIntOrZero(ctx, k.RewardDebts, denom, depositor)
			if err != nil {
				return true, err
			}

			accrued := stake.Mul(rps).Quo(RewardScale)
			if debt.GT(accrued) {
				msg += fmt.Sprintf("INVARIANT BROKEN: position %s/%s has debt %s exceeding accrued %s\n", denom, depositor, debt, accrued)
				broken = true
			}
			return false, nil
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "non-negative-pending", msg), true
		}
		return "", false
	}
}

// CustodySharesNonNegativeInvariant checks that no denom's custody share
// units went negative.
func CustodySharesNonNegativeInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		_ = k.CustodyShares.Walk(ctx, nil, func(denom string, units sdkmath.Int) (bool, error) {
			if units.IsNegative() {
				msg += fmt.Sprintf("INVARIANT BROKEN: denom %s has negative custody share units %s\n", denom, units)
				broken = true
			}
			return false, nil
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "custody-shares-non-negative", msg), true
		}
		return "", false
	}
}

// AccrualConsistencyInvariant checks per pool denom that the operator's
// unclaimed accrual never exceeds the lifetime fee total.
func AccrualConsistencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		params, err := k.GetParams(ctx)
		if err != nil || params.Validate() != nil {
			return "", false // unconfigured pool has no accruals to check
		}

		var msg string
		broken := false

		for _, denom := range params.PoolDenoms {
			total, err := k.getAccrued(ctx, types.TotalFeeAccruedKeyPrefix, denom)
			if err != nil {
				continue
			}
			operator, err := k.getAccrued(ctx, types.OperatorFeeAccruedKeyPrefix, denom)
			if err != nil {
				continue
			}
			if total.IsNegative() || operator.IsNegative() {
				msg += fmt.Sprintf("INVARIANT BROKEN: denom %s has negative accrual (total %s, operator %s)\n", denom, total, operator)
				broken = true
			}
			if operator.GT(total) {
				msg += fmt.Sprintf("INVARIANT BROKEN: denom %s operator accrual %s exceeds total %s\n", denom, operator, total)
				broken = true
			}
		}

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "accrual-consistency", msg), true
		}
		return "", false
	}
}
