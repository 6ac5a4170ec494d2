package keeper_test

import (
	"fmt"
	"math/rand"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/keeper"
	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/types"
)

func TestDepositAndPendingLifecycle(t *testing.T) {
	k, ctx, _, _ := newTestKeeper(t)

	require.NoError(t, k.DepositStake(ctx, denom0, depositorA.String(), sdkmath.NewInt(1000)))

	stake, err := k.StakeAmount(ctx, denom0, depositorA.String())
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1000), stake)

	// Nothing injected yet.
	require.True(t, pending(t, k, ctx, denom0, depositorA).IsZero())

	require.NoError(t, k.InjectReward(ctx, denom0, sdkmath.NewInt(10)))
	require.Equal(t, sdkmath.NewInt(10), pending(t, k, ctx, denom0, depositorA))

	// Pending is monotone under further injections with stake held constant.
	require.NoError(t, k.InjectReward(ctx, denom0, sdkmath.NewInt(10)))
	require.Equal(t, sdkmath.NewInt(20), pending(t, k, ctx, denom0, depositorA))
}

func TestInjectRewardWithoutStakeFails(t *testing.T) {
	k, ctx, _, _ := newTestKeeper(t)

	err := k.InjectReward(ctx, denom0, sdkmath.NewInt(5))
	require.ErrorIs(t, err, types.ErrNoShares)

	// A different denom's stake does not satisfy the precondition.
	require.NoError(t, k.DepositStake(ctx, denom1, depositorA.String(), sdkmath.NewInt(100)))
	err = k.InjectReward(ctx, denom0, sdkmath.NewInt(5))
	require.ErrorIs(t, err, types.ErrNoShares)
}

func TestDepositWithoutFlushPreservesPending(t *testing.T) {
	k, ctx, _, _ := newTestKeeper(t)

	require.NoError(t, k.DepositStake(ctx, denom0, depositorA.String(), sdkmath.NewInt(1000)))
	require.NoError(t, k.InjectReward(ctx, denom0, sdkmath.NewInt(10)))
	require.Equal(t, sdkmath.NewInt(10), pending(t, k, ctx, denom0, depositorA))

	// Topping up the stake must not disturb the already-accrued pending:
	// the debt grows by the new amount's worth only.
	require.NoError(t, k.DepositStake(ctx, denom0, depositorA.String(), sdkmath.NewInt(3000)))
	require.Equal(t, sdkmath.NewInt(10), pending(t, k, ctx, denom0, depositorA))

	// The next injection accrues against the full 4000 stake.
	require.NoError(t, k.InjectReward(ctx, denom0, sdkmath.NewInt(8)))
	require.Equal(t, sdkmath.NewInt(18), pending(t, k, ctx, denom0, depositorA))
}

func TestProportionalDistribution(t *testing.T) {
	k, ctx, _, _ := newTestKeeper(t)

	require.NoError(t, k.DepositStake(ctx, denom0, depositorA.String(), sdkmath.NewInt(1000)))
	require.NoError(t, k.DepositStake(ctx, denom0, depositorB.String(), sdkmath.NewInt(3000)))

	require.NoError(t, k.InjectReward(ctx, denom0, sdkmath.NewInt(8)))

	require.Equal(t, sdkmath.NewInt(2), pending(t, k, ctx, denom0, depositorA))
	require.Equal(t, sdkmath.NewInt(6), pending(t, k, ctx, denom0, depositorB))
}

func TestPendingReadIsIdempotent(t *testing.T) {
	k, ctx, _, _ := newTestKeeper(t)

	require.NoError(t, k.DepositStake(ctx, denom0, depositorA.String(), sdkmath.NewInt(7777)))
	require.NoError(t, k.InjectReward(ctx, denom0, sdkmath.NewInt(13)))

	first := pending(t, k, ctx, denom0, depositorA)
	second := pending(t, k, ctx, denom0, depositorA)
	require.Equal(t, first, second)
}

func TestRewardLedgerRejectsUnsupportedDenom(t *testing.T) {
	k, ctx, _, _ := newTestKeeper(t)

	err := k.DepositStake(ctx, "ufoo", depositorA.String(), sdkmath.NewInt(100))
	require.ErrorIs(t, err, types.ErrUnsupportedDenom)

	err = k.InjectReward(ctx, "ufoo", sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrUnsupportedDenom)
}

func TestZeroAmountsAreNoops(t *testing.T) {
	k, ctx, _, _ := newTestKeeper(t)

	require.NoError(t, k.DepositStake(ctx, denom0, depositorA.String(), sdkmath.ZeroInt()))
	stake, err := k.StakeAmount(ctx, denom0, depositorA.String())
	require.NoError(t, err)
	require.True(t, stake.IsZero())

	// Zero injection succeeds even with zero total stake: there is nothing
	// to attribute.
	require.NoError(t, k.InjectReward(ctx, denom0, sdkmath.ZeroInt()))
}

func TestNegativeAmountsRejected(t *testing.T) {
	k, ctx, _, _ := newTestKeeper(t)

	require.Error(t, k.DepositStake(ctx, denom0, depositorA.String(), sdkmath.NewInt(-1)))
	require.NoError(t, k.DepositStake(ctx, denom0, depositorA.String(), sdkmath.NewInt(10)))
	require.Error(t, k.InjectReward(ctx, denom0, sdkmath.NewInt(-1)))
}

// TestRewardAccountingUnderRandomInterleaving drives a deterministic
// pseudo-random sequence of deposits and injections and checks the global
// accounting bounds after every step: total shares always equal the stake
// sum, every pending is non-negative and idempotent, and the pendings sum to
// the injected total minus bounded truncation dust.
func TestRewardAccountingUnderRandomInterleaving(t *testing.T) {
	k, ctx, _, _ := newTestKeeper(t)

	depositors := []sdk.AccAddress{depositorA, depositorB, depositorC}
	rng := rand.New(rand.NewSource(42))

	totalInjected := sdkmath.ZeroInt()
	injections := 0

	// Seed one stake so injections never hit the zero-shares fault.
	require.NoError(t, k.DepositStake(ctx, denom0, depositorA.String(), sdkmath.NewInt(1+rng.Int63n(10_000))))

	for step := 0; step < 200; step++ {
		if rng.Intn(2) == 0 {
			who := depositors[rng.Intn(len(depositors))]
			amount := sdkmath.NewInt(1 + rng.Int63n(50_000))
			require.NoError(t, k.DepositStake(ctx, denom0, who.String(), amount))
		} else {
			amount := sdkmath.NewInt(1 + rng.Int63n(1_000))
			require.NoError(t, k.InjectReward(ctx, denom0, amount))
			totalInjected = totalInjected.Add(amount)
			injections++
		}

		sum := sdkmath.ZeroInt()
		for _, who := range depositors {
			p := pending(t, k, ctx, denom0, who)
			require.False(t, p.IsNegative(), "step %d: negative pending for %s", step, who)
			require.Equal(t, p, pending(t, k, ctx, denom0, who))
			sum = sum.Add(p)
		}

		// Each injection and each pending read can truncate at most one unit
		// per depositor.
		require.True(t, sum.LTE(totalInjected), "step %d: pending sum %s exceeds injected %s", step, sum, totalInjected)
		dustBound := sdkmath.NewInt(int64((injections + 1) * len(depositors)))
		require.True(t, totalInjected.Sub(sum).LTE(dustBound),
			"step %d: dust %s exceeds bound %s", step, totalInjected.Sub(sum), dustBound)

		msg, broken := keeper.AllInvariants(k)(ctx)
		require.False(t, broken, fmt.Sprintf("step %d: %s", step, msg))
	}
}
