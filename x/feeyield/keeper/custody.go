package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/types"
)

// ---------------------------------------------------------------------------
// Custody Adapter
// ---------------------------------------------------------------------------
// Captured fees are not held by the module; they are supplied to an external
// lending venue and earn yield there. The module tracks its proportional
// claim as share units: one share unit equals one underlying unit at deposit
// time, and the two diverge only through receipt-balance growth at the venue.
// The share price is always derived from the live receipt balance, never
// cached, so yield shows up exactly once, at withdrawal.
// ---------------------------------------------------------------------------

// DepositShare supplies amount of denom to the custody venue and credits the
// matching share units.
func (k Keeper) DepositShare(ctx context.Context, denom string, amount sdkmath.Int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := k.requireSupportedDenom(ctx, denom); err != nil {
		return err
	}
	return k.depositShare(ctx, denom, amount)
}

// SharePrice returns the scaled redemption rate for one share unit of denom:
// receiptBalance * RewardScale / totalShareUnits.
func (k Keeper) SharePrice(ctx context.Context, denom string) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.sharePrice(ctx, denom)
}

// CustodyShareUnits returns the outstanding share units for denom. Pure read.
func (k Keeper) CustodyShareUnits(ctx context.Context, denom string) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return getIntOrZero(ctx, k.CustodyShares, denom)
}

// depositShare credits share units first, then instructs the venue. The unit
// count is written before the external call so a read-back from the venue
// observes the updated claim.
func (k Keeper) depositShare(ctx context.Context, denom string, amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("custody deposit must be non-negative, got %s", amount)
	}
	if amount.IsZero() {
		return nil
	}

	units, err := getIntOrZero(ctx, k.CustodyShares, denom)
	if err != nil {
		return err
	}
	if err := k.CustodyShares.Set(ctx, denom, units.Add(amount)); err != nil {
		return err
	}

	if err := k.custodyVenue.Supply(ctx, denom, amount, k.ModuleAccountAddress().String(), 0); err != nil {
		return fmt.Errorf("custody venue supply of %s%s failed: %w", amount, denom, err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCustodyDeposit,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)

	return nil
}

// sharePrice divides the venue's live receipt balance by the outstanding
// share units. Zero outstanding units is an arithmetic fault.
func (k Keeper) sharePrice(ctx context.Context, denom string) (sdkmath.Int, error) {
	units, err := getIntOrZero(ctx, k.CustodyShares, denom)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if units.IsZero() {
		return sdkmath.Int{}, fmt.Errorf("%w: %s", types.ErrNoCustodyShares, denom)
	}

	balance, err := k.custodyVenue.ReceiptBalance(ctx, denom, k.ModuleAccountAddress().String())
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("custody venue balance query for %s failed: %w", denom, err)
	}

	return balance.Mul(RewardScale).Quo(units), nil
}

// withdrawShare redeems shareAmount units at the current share price and has
// the venue release the underlying directly to recipient. The unit decrement
// lands strictly before the venue call.
func (k Keeper) withdrawShare(ctx context.Context, denom string, shareAmount sdkmath.Int, recipient string) (sdkmath.Int, error) {
	if shareAmount.IsNil() || shareAmount.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("custody withdrawal must be non-negative, got %s", shareAmount)
	}
	if shareAmount.IsZero() {
		return sdkmath.ZeroInt(), nil
	}

	units, err := getIntOrZero(ctx, k.CustodyShares, denom)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if shareAmount.GT(units) {
		return sdkmath.Int{}, fmt.Errorf("%w: want %s, have %s of %s", types.ErrInsufficientShares, shareAmount, units, denom)
	}

	price, err := k.sharePrice(ctx, denom)
	if err != nil {
		return sdkmath.Int{}, err
	}
	amount := shareAmount.Mul(price).Quo(RewardScale)

	if err := k.CustodyShares.Set(ctx, denom, units.Sub(shareAmount)); err != nil {
		return sdkmath.Int{}, err
	}

	transferred, err := k.custodyVenue.Withdraw(ctx, denom, amount, recipient)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("custody venue withdrawal of %s%s failed: %w", amount, denom, err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCustodyWithdraw,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyShares, shareAmount.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, transferred.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient),
		),
	)

	return transferred, nil
}
