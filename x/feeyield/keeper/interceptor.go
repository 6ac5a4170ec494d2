package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/types"
)

// InterceptSwapFee runs once per swap, before settlement. It charges 0.1% of
// the swap input in the sold asset, credits the beneficiary's reward-ledger
// stake with the full swap volume, routes the fee into external custody, and
// injects the depositors' portion of the fee as reward.
//
// The returned fee is the number of units already debited from the swap
// engine's settlement account; the engine subtracts it from its own
// settlement so the trader is not charged twice. A zero return means the swap
// was too small to produce a fee.
//
// Stake is credited by swap volume, not by value locked: reward weight
// follows trading activity. That is a deliberate property of this design.
func (k Keeper) InterceptSwapFee(ctx context.Context, zeroForOne bool, amountIn sdkmath.Int, beneficiaryTag []byte) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if amountIn.IsNil() || !amountIn.IsPositive() {
		return sdkmath.Int{}, fmt.Errorf("swap input amount must be positive, got %s", amountIn)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if err := params.Validate(); err != nil {
		return sdkmath.Int{}, fmt.Errorf("pool not configured: %w", err)
	}

	beneficiary, err := types.DecodeBeneficiaryTag(beneficiaryTag)
	if err != nil {
		return sdkmath.Int{}, err
	}

	denom := params.FeeDenom(zeroForOne)
	fee := amountIn.Quo(sdkmath.NewIntFromUint64(params.FeeDivisor))
	operatorFee := fee.Quo(sdkmath.NewIntFromUint64(params.OperatorShareDivisor))
	depositorShare := fee.Sub(operatorFee)

	// Debit the fee against the swap's settlement obligations. This is how
	// the fee is actually collected; everything after is bookkeeping and
	// custody routing.
	if fee.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(denom, fee))
		if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.PoolModuleName, types.ModuleName, coins); err != nil {
			return sdkmath.Int{}, fmt.Errorf("failed to collect swap fee: %w", err)
		}
	}

	// Stake is recorded before the reward injection so the beneficiary's own
	// swap participates in the denom's share total, which also guarantees the
	// injection never sees zero total stake.
	if err := k.depositStake(ctx, denom, beneficiary.String(), amountIn); err != nil {
		return sdkmath.Int{}, err
	}

	if fee.IsPositive() {
		if err := k.injectReward(ctx, denom, depositorShare); err != nil {
			return sdkmath.Int{}, err
		}
		if err := k.addFeeAccrued(ctx, denom, fee, operatorFee); err != nil {
			return sdkmath.Int{}, err
		}

		// Custody goes last: every internal counter is settled before the
		// venue call leaves the module.
		if err := k.depositShare(ctx, denom, fee); err != nil {
			return sdkmath.Int{}, err
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwapFeeCollected,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyAmountIn, amountIn.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
			sdk.NewAttribute(types.AttributeKeyOperatorFee, operatorFee.String()),
			sdk.NewAttribute(types.AttributeKeyBeneficiary, beneficiary.String()),
		),
	)

	return fee, nil
}
