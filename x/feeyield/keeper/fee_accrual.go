package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/types"
)

// Fee accrual counters, kept per denom in the raw module store. TotalFee is a
// lifetime counter and only ever grows; OperatorFee is the operator's
// unclaimed balance and resets to zero when claimed. Both are informational
// for the total and authoritative for the operator claim.

// TotalFeeAccrued returns the lifetime captured fee total for denom.
func (k Keeper) TotalFeeAccrued(ctx context.Context, denom string) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.getAccrued(ctx, types.TotalFeeAccruedKeyPrefix, denom)
}

// OperatorFeeAccrued returns the operator's unclaimed fee balance for denom.
func (k Keeper) OperatorFeeAccrued(ctx context.Context, denom string) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.getAccrued(ctx, types.OperatorFeeAccruedKeyPrefix, denom)
}

// addFeeAccrued bumps both counters for a freshly captured fee.
func (k Keeper) addFeeAccrued(ctx context.Context, denom string, fee, operatorFee sdkmath.Int) error {
	total, err := k.getAccrued(ctx, types.TotalFeeAccruedKeyPrefix, denom)
	if err != nil {
		return err
	}
	if err := k.setAccrued(ctx, types.TotalFeeAccruedKeyPrefix, denom, total.Add(fee)); err != nil {
		return err
	}

	if operatorFee.IsPositive() {
		op, err := k.getAccrued(ctx, types.OperatorFeeAccruedKeyPrefix, denom)
		if err != nil {
			return err
		}
		if err := k.setAccrued(ctx, types.OperatorFeeAccruedKeyPrefix, denom, op.Add(operatorFee)); err != nil {
			return err
		}
	}

	return nil
}

// takeOperatorFee zeroes the operator balance and returns what it held. The
// reset lands before any external transfer the caller makes.
func (k Keeper) takeOperatorFee(ctx context.Context, denom string) (sdkmath.Int, error) {
	amount, err := k.getAccrued(ctx, types.OperatorFeeAccruedKeyPrefix, denom)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if amount.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	if err := k.setAccrued(ctx, types.OperatorFeeAccruedKeyPrefix, denom, sdkmath.ZeroInt()); err != nil {
		return sdkmath.Int{}, err
	}
	return amount, nil
}

func (k Keeper) getAccrued(ctx context.Context, prefix []byte, denom string) (sdkmath.Int, error) {
	if denom == "" {
		return sdkmath.ZeroInt(), fmt.Errorf("denom must not be empty")
	}

	store := k.storeService.OpenKVStore(ctx)
	bz, err := store.Get(accruedKey(prefix, denom))
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if len(bz) == 0 {
		return sdkmath.ZeroInt(), nil
	}

	value, ok := sdkmath.NewIntFromString(string(bz))
	if !ok {
		return sdkmath.ZeroInt(), fmt.Errorf("invalid accrued amount for denom %s", denom)
	}
	return value, nil
}

func (k Keeper) setAccrued(ctx context.Context, prefix []byte, denom string, amount sdkmath.Int) error {
	if denom == "" {
		return fmt.Errorf("denom must not be empty")
	}

	store := k.storeService.OpenKVStore(ctx)
	return store.Set(accruedKey(prefix, denom), []byte(amount.String()))
}

func accruedKey(prefix []byte, denom string) []byte {
	key := append([]byte{}, prefix...)
	return append(key, []byte(denom)...)
}
