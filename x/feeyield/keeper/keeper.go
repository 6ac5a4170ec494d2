package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/types"
)

// RewardScale is the fixed-point scale for the reward-per-share accumulator
// and the custody share price: 18 decimals of fractional precision carried in
// integer arithmetic. All divisions against it are floor divisions.
var RewardScale = sdkmath.NewIntWithDecimal(1, 18)

// Keeper manages the feeyield module state: the per-denom reward ledger, the
// custody share accounting against the external venue, and the fee accrual
// counters.
type Keeper struct {
	storeService store.KVStoreService
	authority    string

	// External collaborators
	bankKeeper   BankKeeper
	custodyVenue CustodyVenue

	// mu serializes public operations. The host chain executes transactions
	// one at a time; embedders driving the keeper directly get the same
	// whole-operation atomicity from this lock. Pointer so the keeper can be
	// passed by value like the rest of the module.
	mu *sync.Mutex

	// State collections
	RewardPerShare collections.Map[string, sdkmath.Int]
	TotalShares    collections.Map[string, sdkmath.Int]
	Stakes         collections.Map[collections.Pair[string, string], sdkmath.Int]
	RewardDebts    collections.Map[collections.Pair[string, string], sdkmath.Int]
	CustodyShares  collections.Map[string, sdkmath.Int]
}

// BankKeeper defines the expected bank keeper interface. The interceptor uses
// it to debit captured fees from the swap engine's settlement account.
type BankKeeper interface {
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
}

// CustodyVenue defines the external lending venue the module forwards fees
// to. Supplied amounts earn yield at the venue; the receipt balance grows
// independently of the share units this module tracks.
//
// Implementations must not call back into mutating keeper operations from
// Supply or Withdraw. The keeper finishes all of its own state writes before
// invoking the venue, so read-backs observe settled state.
type CustodyVenue interface {
	// Supply deposits amount of denom with the venue on behalf of holder.
	Supply(ctx context.Context, denom string, amount sdkmath.Int, onBehalfOf string, referralCode uint16) error

	// Withdraw releases amount of denom from the venue directly to recipient
	// and returns the amount actually transferred.
	Withdraw(ctx context.Context, denom string, amount sdkmath.Int, recipient string) (sdkmath.Int, error)

	// ReceiptBalance returns the venue's live receipt-token balance for
	// holder. Must be a point-in-time read; the keeper never caches it.
	ReceiptBalance(ctx context.Context, denom string, holder string) (sdkmath.Int, error)
}

// NewKeeper creates a new Keeper instance.
func NewKeeper(
	storeService store.KVStoreService,
	bankKeeper BankKeeper,
	custodyVenue CustodyVenue,
	authority string,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	pairCodec := collections.PairKeyCodec(collections.StringKey, collections.StringKey)

	return Keeper{
		storeService: storeService,
		authority:    authority,
		bankKeeper:   bankKeeper,
		custodyVenue: custodyVenue,
		mu:           &sync.Mutex{},
		RewardPerShare: collections.NewMap(
			sb,
			collections.NewPrefix(types.RewardPerShareKeyPrefix),
			"reward_per_share",
			collections.StringKey,
			sdk.IntValue,
		),
		TotalShares: collections.NewMap(
			sb,
			collections.NewPrefix(types.TotalSharesKeyPrefix),
			"total_shares",
			collections.StringKey,
			sdk.IntValue,
		),
		Stakes: collections.NewMap(
			sb,
			collections.NewPrefix(types.StakeKeyPrefix),
			"stakes",
			pairCodec,
			sdk.IntValue,
		),
		RewardDebts: collections.NewMap(
			sb,
			collections.NewPrefix(types.RewardDebtKeyPrefix),
			"reward_debts",
			pairCodec,
			sdk.IntValue,
		),
		CustodyShares: collections.NewMap(
			sb,
			collections.NewPrefix(types.CustodyShareKeyPrefix),
			"custody_shares",
			collections.StringKey,
			sdk.IntValue,
		),
	}
}

// GetAuthority returns the module's authority (the designated operator).
func (k Keeper) GetAuthority() string {
	return k.authority
}

// ModuleAccountAddress returns the sdk.AccAddress for the feeyield module
// account, derived deterministically from the module name. The venue holds
// receipt tokens against this address.
func (k Keeper) ModuleAccountAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// GetParams loads the module params from the store. Returns default params if
// none were set.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	kv := k.storeService.OpenKVStore(ctx)
	bz, err := kv.Get(types.ParamsKey)
	if err != nil {
		return types.Params{}, err
	}
	if len(bz) == 0 {
		return types.DefaultParams(), nil
	}

	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.Params{}, fmt.Errorf("failed to unmarshal params: %w", err)
	}
	return params, nil
}

// SetParams validates and stores the module params.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	bz, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	return k.storeService.OpenKVStore(ctx).Set(types.ParamsKey, bz)
}

// requireSupportedDenom resolves params and rejects denoms outside the
// configured pool pair before any state is touched.
func (k Keeper) requireSupportedDenom(ctx context.Context, denom string) (types.Params, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Params{}, err
	}
	if !params.SupportsDenom(denom) {
		return types.Params{}, fmt.Errorf("%w: %s", types.ErrUnsupportedDenom, denom)
	}
	return params, nil
}

// getIntOrZero reads a per-denom counter, treating absence as zero.
func getIntOrZero(ctx context.Context, m collections.Map[string, sdkmath.Int], denom string) (sdkmath.Int, error) {
	value, err := m.Get(ctx, denom)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return sdkmath.ZeroInt(), nil
		}
		return sdkmath.Int{}, err
	}
	return value, nil
}

// getPairIntOrZero reads a per-(denom, depositor) counter, treating absence
// as zero.
func getPairIntOrZero(ctx context.Context, m collections.Map[collections.Pair[string, string], sdkmath.Int], denom, depositor string) (sdkmath.Int, error) {
	value, err := m.Get(ctx, collections.Join(denom, depositor))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return sdkmath.ZeroInt(), nil
		}
		return sdkmath.Int{}, err
	}
	return value, nil
}
