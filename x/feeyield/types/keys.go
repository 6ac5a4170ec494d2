package types

const (
	// ModuleName defines the module name. The module account under this name
	// holds captured swap fees transiently between collection and custody.
	ModuleName = "feeyield"

	// PoolModuleName is the module account of the swap engine the interceptor
	// collects fees from. Settlement against this account is how a fee is
	// actually charged; the returned fee amount tells the engine the debit
	// already happened.
	PoolModuleName = "poolmanager"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

var (
	// RewardPerShareKeyPrefix stores the per-denom reward accumulator.
	RewardPerShareKeyPrefix = []byte{0x01}

	// TotalSharesKeyPrefix stores the per-denom sum of all stakes.
	TotalSharesKeyPrefix = []byte{0x02}

	// StakeKeyPrefix stores (denom, depositor) -> stake amount.
	StakeKeyPrefix = []byte{0x03}

	// RewardDebtKeyPrefix stores (denom, depositor) -> scaled reward debt.
	RewardDebtKeyPrefix = []byte{0x04}

	// CustodyShareKeyPrefix stores the per-denom custody share units held
	// against the external venue.
	CustodyShareKeyPrefix = []byte{0x05}

	// TotalFeeAccruedKeyPrefix tracks lifetime captured fees by denom.
	TotalFeeAccruedKeyPrefix = []byte{0x06}

	// OperatorFeeAccruedKeyPrefix tracks unclaimed operator fees by denom.
	OperatorFeeAccruedKeyPrefix = []byte{0x07}

	// ParamsKey is the key for storing module params.
	ParamsKey = []byte{0x08}
)
