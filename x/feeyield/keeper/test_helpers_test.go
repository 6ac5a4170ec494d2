package keeper_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/keeper"
	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/types"
)

const (
	denom0 = "uatom"
	denom1 = "uusdc"
)

var (
	operatorAddr = sdk.AccAddress(bytes.Repeat([]byte{0xAA}, 20))
	depositorA   = sdk.AccAddress(bytes.Repeat([]byte{0x01}, 20))
	depositorB   = sdk.AccAddress(bytes.Repeat([]byte{0x02}, 20))
	depositorC   = sdk.AccAddress(bytes.Repeat([]byte{0x03}, 20))
)

// ---------------------------------------------------------------------------
// Mocks for external collaborators
// ---------------------------------------------------------------------------

type bankTransfer struct {
	From   string
	To     string
	Amount sdk.Coins
}

// mockBankKeeper records module-to-module transfers made by the interceptor.
type mockBankKeeper struct {
	transfers []bankTransfer
	failNext  error
}

func (m *mockBankKeeper) SendCoinsFromModuleToModule(_ context.Context, senderModule, recipientModule string, amt sdk.Coins) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.transfers = append(m.transfers, bankTransfer{From: senderModule, To: recipientModule, Amount: amt})
	return nil
}

type venueCall struct {
	Denom     string
	Amount    sdkmath.Int
	Recipient string
}

// mockCustodyVenue simulates the external lending pool: supplied amounts sit
// in a per-denom receipt balance that tests can grow to model interest.
type mockCustodyVenue struct {
	balances    map[string]sdkmath.Int
	supplies    []venueCall
	withdrawals []venueCall

	// optional hooks, invoked while the keeper's operation is in flight
	onSupply   func(ctx context.Context)
	onWithdraw func(ctx context.Context)
}

func newMockCustodyVenue() *mockCustodyVenue {
	return &mockCustodyVenue{balances: make(map[string]sdkmath.Int)}
}

func (m *mockCustodyVenue) balance(denom string) sdkmath.Int {
	if b, ok := m.balances[denom]; ok {
		return b
	}
	return sdkmath.ZeroInt()
}

// accrueYield simulates interest earned at the venue.
func (m *mockCustodyVenue) accrueYield(denom string, amount sdkmath.Int) {
	m.balances[denom] = m.balance(denom).Add(amount)
}

func (m *mockCustodyVenue) Supply(ctx context.Context, denom string, amount sdkmath.Int, _ string, _ uint16) error {
	m.balances[denom] = m.balance(denom).Add(amount)
	m.supplies = append(m.supplies, venueCall{Denom: denom, Amount: amount})
	if m.onSupply != nil {
		m.onSupply(ctx)
	}
	return nil
}

func (m *mockCustodyVenue) Withdraw(ctx context.Context, denom string, amount sdkmath.Int, recipient string) (sdkmath.Int, error) {
	if amount.GT(m.balance(denom)) {
		return sdkmath.Int{}, fmt.Errorf("venue balance exhausted for %s", denom)
	}
	m.balances[denom] = m.balance(denom).Sub(amount)
	m.withdrawals = append(m.withdrawals, venueCall{Denom: denom, Amount: amount, Recipient: recipient})
	if m.onWithdraw != nil {
		m.onWithdraw(ctx)
	}
	return amount, nil
}

func (m *mockCustodyVenue) ReceiptBalance(_ context.Context, denom string, _ string) (sdkmath.Int, error) {
	return m.balance(denom), nil
}

// ---------------------------------------------------------------------------
// Test keeper factory (real keeper over an in-memory multistore)
// ---------------------------------------------------------------------------

func newTestKeeper(t *testing.T) (keeper.Keeper, sdk.Context, *mockCustodyVenue, *mockBankKeeper) {
	t.Helper()

	k, ctx, venue, bank := newBareTestKeeper(t)
	require.NoError(t, k.SetParams(ctx, types.NewParams(denom0, denom1)))
	return k, ctx, venue, bank
}

// newBareTestKeeper builds the keeper without configuring the pool pair, for
// tests that exercise the unconfigured-pool path.
func newBareTestKeeper(t *testing.T) (keeper.Keeper, sdk.Context, *mockCustodyVenue, *mockBankKeeper) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	cms := rootmulti.NewStore(db, log.NewNopLogger(), storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, cms.LoadLatestVersion())

	header := tmproto.Header{
		ChainID: "feeyield-test-1",
		Height:  100,
		Time:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	ctx := sdk.NewContext(cms, header, false, log.NewNopLogger())

	venue := newMockCustodyVenue()
	bank := &mockBankKeeper{}

	k := keeper.NewKeeper(runtime.NewKVStoreService(storeKey), bank, venue, operatorAddr.String())

	return k, ctx, venue, bank
}

func mustTag(t *testing.T, addr sdk.AccAddress) []byte {
	t.Helper()
	tag, err := types.EncodeBeneficiaryTag(addr)
	require.NoError(t, err)
	return tag
}

// swap runs the interceptor for a zeroForOne swap of amountIn on behalf of
// beneficiary and returns the charged fee.
func swap(t *testing.T, k keeper.Keeper, ctx sdk.Context, beneficiary sdk.AccAddress, amountIn int64) sdkmath.Int {
	t.Helper()
	fee, err := k.InterceptSwapFee(ctx, true, sdkmath.NewInt(amountIn), mustTag(t, beneficiary))
	require.NoError(t, err)
	return fee
}

func pending(t *testing.T, k keeper.Keeper, ctx sdk.Context, denom string, addr sdk.AccAddress) sdkmath.Int {
	t.Helper()
	p, err := k.PendingReward(ctx, denom, addr.String())
	require.NoError(t, err)
	return p
}
