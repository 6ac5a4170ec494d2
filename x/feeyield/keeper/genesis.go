package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	"github.com/potmarion/uni-v4-beforeswap-hook/x/feeyield/types"
)

// InitGenesis initializes the feeyield module state from a genesis state.
// The state must already validate; nothing is written on error.
func (k Keeper) InitGenesis(ctx context.Context, gs *types.GenesisState) error {
	if gs == nil {
		return fmt.Errorf("genesis state must not be nil")
	}
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}

	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}

	for _, ledger := range gs.AssetLedgers {
		if err := k.RewardPerShare.Set(ctx, ledger.Denom, ledger.RewardPerShare); err != nil {
			return err
		}
		if err := k.TotalShares.Set(ctx, ledger.Denom, ledger.TotalShares); err != nil {
			return err
		}
	}

	for _, pos := range gs.Positions {
		key := collections.Join(pos.Denom, pos.Depositor)
		if err := k.Stakes.Set(ctx, key, pos.StakeAmount); err != nil {
			return err
		}
		if err := k.RewardDebts.Set(ctx, key, pos.RewardDebt); err != nil {
			return err
		}
	}

	for _, cs := range gs.CustodyStates {
		if err := k.CustodyShares.Set(ctx, cs.Denom, cs.ShareUnits); err != nil {
			return err
		}
	}

	for _, fa := range gs.FeeAccruals {
		if err := k.setAccrued(ctx, types.TotalFeeAccruedKeyPrefix, fa.Denom, fa.TotalFee); err != nil {
			return err
		}
		if err := k.setAccrued(ctx, types.OperatorFeeAccruedKeyPrefix, fa.Denom, fa.OperatorFee); err != nil {
			return err
		}
	}

	return nil
}

// ExportGenesis exports the current module state. Iteration order follows the
// store's key order, so exports are deterministic.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	gs := &types.GenesisState{
		Params:        params,
		AssetLedgers:  []types.AssetLedger{},
		Positions:     []types.DepositorPosition{},
		CustodyStates: []types.CustodyState{},
		FeeAccruals:   []types.FeeAccrual{},
	}

	err = k.TotalShares.Walk(ctx, nil, func(denom string, total sdkmath.Int) (bool, error) {
		rps, err := getIntOrZero(ctx, k.RewardPerShare, denom)
		if err != nil {
			return true, err
		}
		gs.AssetLedgers = append(gs.AssetLedgers, types.AssetLedger{
			Denom:          denom,
			RewardPerShare: rps,
			TotalShares:    total,
		})
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	err = k.Stakes.Walk(ctx, nil, func(key collections.Pair[string, string], stake sdkmath.Int) (bool, error) {
		debt, err := getPairIntOrZero(ctx, k.RewardDebts, key.K1(), key.K2())
		if err != nil {
			return true, err
		}
		gs.Positions = append(gs.Positions, types.DepositorPosition{
			Denom:       key.K1(),
			Depositor:   key.K2(),
			StakeAmount: stake,
			RewardDebt:  debt,
		})
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	err = k.CustodyShares.Walk(ctx, nil, func(denom string, units sdkmath.Int) (bool, error) {
		gs.CustodyStates = append(gs.CustodyStates, types.CustodyState{
			Denom:      denom,
			ShareUnits: units,
		})
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	if params.Validate() == nil {
		for _, denom := range params.PoolDenoms {
			total, err := k.getAccrued(ctx, types.TotalFeeAccruedKeyPrefix, denom)
			if err != nil {
				return nil, err
			}
			operator, err := k.getAccrued(ctx, types.OperatorFeeAccruedKeyPrefix, denom)
			if err != nil {
				return nil, err
			}
			if total.IsZero() && operator.IsZero() {
				continue
			}
			gs.FeeAccruals = append(gs.FeeAccruals, types.FeeAccrual{
				Denom:       denom,
				TotalFee:    total,
				OperatorFee: operator,
			})
		}
	}

	return gs, nil
}
