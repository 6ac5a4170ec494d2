package types

// Event types emitted by the feeyield module.
const (
	EventTypeSwapFeeCollected   = "swap_fee_collected"
	EventTypeStakeDeposited     = "stake_deposited"
	EventTypeRewardInjected     = "reward_injected"
	EventTypeCustodyDeposit     = "custody_deposit"
	EventTypeCustodyWithdraw    = "custody_withdraw"
	EventTypeRewardClaimed      = "reward_claimed"
	EventTypeOperatorFeeClaimed = "operator_fee_claimed"
)

// Event attribute keys.
const (
	AttributeKeyDenom       = "denom"
	AttributeKeyAmountIn    = "amount_in"
	AttributeKeyFee         = "fee"
	AttributeKeyOperatorFee = "operator_fee"
	AttributeKeyBeneficiary = "beneficiary"
	AttributeKeyDepositor   = "depositor"
	AttributeKeyAmount      = "amount"
	AttributeKeyShares      = "shares"
	AttributeKeyRecipient   = "recipient"
)
