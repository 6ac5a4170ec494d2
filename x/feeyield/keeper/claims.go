package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/types"
)

// ClaimDepositorReward settles depositor's pending reward for denom and
// redeems that many custody share units straight to the depositor. Pending
// amounts are denominated in underlying units, which match share units
// one-to-one at deposit time; any venue yield accrued since then pays out
// through the share price at withdrawal.
//
// The reward debt is re-snapshotted before the venue call, so a reentrant
// claim settles to zero instead of double-paying.
func (k Keeper) ClaimDepositorReward(ctx context.Context, depositor, denom string) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := k.requireSupportedDenom(ctx, denom); err != nil {
		return sdkmath.Int{}, err
	}
	if depositor == "" {
		return sdkmath.Int{}, fmt.Errorf("depositor must not be empty")
	}

	pending, err := k.settleClaim(ctx, denom, depositor)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if pending.IsZero() {
		return sdkmath.ZeroInt(), nil
	}

	transferred, err := k.withdrawShare(ctx, denom, pending, depositor)
	if err != nil {
		return sdkmath.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRewardClaimed,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyDepositor, depositor),
			sdk.NewAttribute(types.AttributeKeyAmount, transferred.String()),
		),
	)

	return transferred, nil
}

// ClaimOperatorFee redeems the operator's accrued fee share for denom to the
// caller. Only the module authority may call it; the check precedes any state
// mutation, and the accrual resets to zero before the venue call.
func (k Keeper) ClaimOperatorFee(ctx context.Context, caller, denom string) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if caller != k.authority {
		return sdkmath.Int{}, fmt.Errorf("%w: %s", types.ErrUnauthorized, caller)
	}
	if _, err := k.requireSupportedDenom(ctx, denom); err != nil {
		return sdkmath.Int{}, err
	}

	amount, err := k.takeOperatorFee(ctx, denom)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if amount.IsZero() {
		return sdkmath.ZeroInt(), nil
	}

	transferred, err := k.withdrawShare(ctx, denom, amount, caller)
	if err != nil {
		return sdkmath.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOperatorFeeClaimed,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyRecipient, caller),
			sdk.NewAttribute(types.AttributeKeyAmount, transferred.String()),
		),
	)

	return transferred, nil
}
