package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/types"
)

// ---------------------------------------------------------------------------
// Reward Ledger
// ---------------------------------------------------------------------------
// Proportional reward accounting with O(1) bookkeeping per operation. Each
// denom carries a monotonically increasing reward-per-share accumulator
// (scaled by RewardScale); each (denom, depositor) position carries a stake
// amount and a reward-debt snapshot such that
//
//	pending = stake * rewardPerShare / RewardScale - rewardDebt
//
// is always non-negative and equals exactly the reward accrued since the
// position's last settlement. All divisions floor; the truncation direction
// is part of the accounting contract.
// ---------------------------------------------------------------------------

// DepositStake credits amount of stake to depositor for denom.
func (k Keeper) DepositStake(ctx context.Context, denom, depositor string, amount sdkmath.Int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := k.requireSupportedDenom(ctx, denom); err != nil {
		return err
	}
	return k.depositStake(ctx, denom, depositor, amount)
}

// InjectReward distributes amount across all current stakeholders of denom by
// advancing the reward-per-share accumulator.
func (k Keeper) InjectReward(ctx context.Context, denom string, amount sdkmath.Int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := k.requireSupportedDenom(ctx, denom); err != nil {
		return err
	}
	return k.injectReward(ctx, denom, amount)
}

// PendingReward returns the reward accrued by depositor for denom since their
// last settlement. Pure read; unknown positions report zero.
func (k Keeper) PendingReward(ctx context.Context, denom, depositor string) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.pendingReward(ctx, denom, depositor)
}

// StakeAmount returns depositor's recorded stake for denom. Pure read.
func (k Keeper) StakeAmount(ctx context.Context, denom, depositor string) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return getPairIntOrZero(ctx, k.Stakes, denom, depositor)
}

// depositStake increases the position and total shares without flushing the
// pending reward first: the debt is advanced by the new amount's worth only
// (amount * rps / SCALE), which leaves any previously accrued pending intact.
// Pending is linear in stake history under this debt scheme, so no
// settlement pass is needed here.
func (k Keeper) depositStake(ctx context.Context, denom, depositor string, amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("stake amount must be non-negative, got %s", amount)
	}
	if amount.IsZero() {
		return nil
	}

	rps, err := getIntOrZero(ctx, k.RewardPerShare, denom)
	if err != nil {
		return err
	}

	key := collections.Join(denom, depositor)

	debt, err := getPairIntOrZero(ctx, k.RewardDebts, denom, depositor)
	if err != nil {
		return err
	}
	if err := k.RewardDebts.Set(ctx, key, debt.Add(amount.Mul(rps).Quo(RewardScale))); err != nil {
		return err
	}

	stake, err := getPairIntOrZero(ctx, k.Stakes, denom, depositor)
	if err != nil {
		return err
	}
	if err := k.Stakes.Set(ctx, key, stake.Add(amount)); err != nil {
		return err
	}

	total, err := getIntOrZero(ctx, k.TotalShares, denom)
	if err != nil {
		return err
	}
	if err := k.TotalShares.Set(ctx, denom, total.Add(amount)); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeStakeDeposited,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyDepositor, depositor),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)

	return nil
}

// injectReward advances the accumulator by amount * SCALE / totalShares.
// A denom with zero total stake cannot absorb a reward; that is an arithmetic
// fault, not a silent no-op, because clamping would misattribute the reward.
func (k Keeper) injectReward(ctx context.Context, denom string, amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("reward amount must be non-negative, got %s", amount)
	}
	if amount.IsZero() {
		return nil
	}

	total, err := getIntOrZero(ctx, k.TotalShares, denom)
	if err != nil {
		return err
	}
	if total.IsZero() {
		return fmt.Errorf("%w: cannot inject reward of %s into %s", types.ErrNoShares, amount, denom)
	}

	rps, err := getIntOrZero(ctx, k.RewardPerShare, denom)
	if err != nil {
		return err
	}
	if err := k.RewardPerShare.Set(ctx, denom, rps.Add(amount.Mul(RewardScale).Quo(total))); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRewardInjected,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)

	return nil
}

// pendingReward computes stake * rps / SCALE - debt without side effects.
func (k Keeper) pendingReward(ctx context.Context, denom, depositor string) (sdkmath.Int, error) {
	stake, err := getPairIntOrZero(ctx, k.Stakes, denom, depositor)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if stake.IsZero() {
		return sdkmath.ZeroInt(), nil
	}

	rps, err := getIntOrZero(ctx, k.RewardPerShare, denom)
	if err != nil {
		return sdkmath.Int{}, err
	}
	debt, err := getPairIntOrZero(ctx, k.RewardDebts, denom, depositor)
	if err != nil {
		return sdkmath.Int{}, err
	}

	return stake.Mul(rps).Quo(RewardScale).Sub(debt), nil
}

// settleClaim zeroes depositor's pending reward and returns the settled
// amount. The debt write happens here, strictly before any external transfer
// the caller makes, so a reentrant read observes a zero claimable balance.
func (k Keeper) settleClaim(ctx context.Context, denom, depositor string) (sdkmath.Int, error) {
	pending, err := k.pendingReward(ctx, denom, depositor)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if pending.IsZero() {
		return sdkmath.ZeroInt(), nil
	}

	stake, err := getPairIntOrZero(ctx, k.Stakes, denom, depositor)
	if err != nil {
		return sdkmath.Int{}, err
	}
	rps, err := getIntOrZero(ctx, k.RewardPerShare, denom)
	if err != nil {
		return sdkmath.Int{}, err
	}

	if err := k.RewardDebts.Set(ctx, collections.Join(denom, depositor), stake.Mul(rps).Quo(RewardScale)); err != nil {
		return sdkmath.Int{}, err
	}

	return pending, nil
}
